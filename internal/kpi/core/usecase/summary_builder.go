package usecase

import (
	"errors"
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
)

var ErrMissingUserID = errors.New("user id is required")

// SummaryBuilder composes the aggregation steps into MonthlySummary values.
// It holds no state besides its options and clock, so one builder can be
// shared across goroutines.
type SummaryBuilder struct {
	opts Options
	now  func() time.Time
}

func NewSummaryBuilder(opts Options) *SummaryBuilder {
	return &SummaryBuilder{opts: opts, now: time.Now}
}

// WithClock replaces the timestamp source; used by tests and replays.
func (b *SummaryBuilder) WithClock(now func() time.Time) *SummaryBuilder {
	return &SummaryBuilder{opts: b.opts, now: now}
}

// Build produces the summary for one user. Every record must carry a
// "YYYY-MM-DD" RecordDate. The only side effect is reading the clock for
// LastUpdatedUTC.
func (b *SummaryBuilder) Build(userID, displayName string, records []domain.DailyRecord, ym domain.YearMonth) (domain.MonthlySummary, error) {
	if userID == "" {
		return domain.MonthlySummary{}, ErrMissingUserID
	}
	if ym.IsZero() {
		return domain.MonthlySummary{}, domain.ErrInvalidYearMonth
	}
	if b.opts.rowsPerDay() < 0 {
		return domain.MonthlySummary{}, ErrInvalidRowsPerDay
	}
	for _, r := range records {
		if err := r.CheckDate(); err != nil {
			return domain.MonthlySummary{}, err
		}
	}

	kpi := Aggregate(records, ym, b.opts)
	dates := EntryDateRange(records)

	return domain.MonthlySummary{
		UserID:         userID,
		YearMonth:      ym,
		DisplayName:    displayName,
		LastUpdatedUTC: b.now().UTC(),
		Kpi:            kpi,
		CompletionRate: CompletionRate(kpi),
		FirstEntryDate: dates.First,
		LastEntryDate:  dates.Last,
	}, nil
}

// AggregateAll builds one result per user. A failing user never aborts the
// batch: it gets a zeroed summary, SkippedRecords set to its input size and
// the error message.
func (b *SummaryBuilder) AggregateAll(users []domain.UserRecords, ym domain.YearMonth) []domain.MonthlyAggregationResult {
	results := make([]domain.MonthlyAggregationResult, 0, len(users))

	for _, u := range users {
		summary, err := b.Build(u.UserID, u.DisplayName, u.DailyRecords, ym)
		if err != nil {
			results = append(results, domain.MonthlyAggregationResult{
				Summary: domain.MonthlySummary{
					UserID:         u.UserID,
					YearMonth:      ym,
					DisplayName:    u.DisplayName,
					LastUpdatedUTC: b.now().UTC(),
				},
				ProcessedRecords: 0,
				SkippedRecords:   len(u.DailyRecords),
				Errors:           []string{err.Error()},
			})
			continue
		}

		results = append(results, domain.MonthlyAggregationResult{
			Summary:          summary,
			ProcessedRecords: len(u.DailyRecords),
			SkippedRecords:   0,
			Errors:           []string{},
		})
	}

	return results
}
