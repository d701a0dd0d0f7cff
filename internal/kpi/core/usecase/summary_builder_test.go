package usecase_test

import (
	"errors"
	"testing"
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/kpi/core/usecase"
)

var fixedNow = time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)

func newTestBuilder(opts usecase.Options) *usecase.SummaryBuilder {
	return usecase.NewSummaryBuilder(opts).WithClock(func() time.Time { return fixedNow })
}

// ------------------------------------------------------------
// BUILD
// ------------------------------------------------------------

func TestSummaryBuilder_Build(t *testing.T) {
	b := newTestBuilder(usecase.Options{RowsPerDay: usecase.Rows(1)})
	ym := domain.NewYearMonth(2024, time.January)

	records := []domain.DailyRecord{
		rec("2024-01-10", true, false),
		rec("2024-01-05", false, false),
		rec("2024-01-02", false, true),
	}

	s, err := b.Build("user_1", "Alice", records, ym)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.UserID != "user_1" || s.DisplayName != "Alice" || s.YearMonth != ym {
		t.Fatalf("unexpected identity fields: %+v", s)
	}
	if !s.LastUpdatedUTC.Equal(fixedNow) {
		t.Fatalf("expected timestamp %s, got %s", fixedNow, s.LastUpdatedUTC)
	}
	if s.Kpi.PlannedRows != 23 || s.Kpi.CompletedRows != 1 || s.Kpi.InProgressRows != 1 || s.Kpi.EmptyRows != 21 {
		t.Fatalf("unexpected kpi: %+v", s.Kpi)
	}
	if s.CompletionRate != 4.35 {
		t.Fatalf("expected completion rate 4.35, got %v", s.CompletionRate)
	}
	if s.FirstEntryDate != "2024-01-05" || s.LastEntryDate != "2024-01-10" {
		t.Fatalf("unexpected entry dates: %s..%s", s.FirstEntryDate, s.LastEntryDate)
	}
}

func TestSummaryBuilder_Build_Validation(t *testing.T) {
	ym := domain.NewYearMonth(2024, time.January)

	if _, err := newTestBuilder(usecase.Options{}).Build("", "x", nil, ym); !errors.Is(err, usecase.ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
	if _, err := newTestBuilder(usecase.Options{}).Build("u", "x", nil, domain.YearMonth{}); !errors.Is(err, domain.ErrInvalidYearMonth) {
		t.Errorf("expected ErrInvalidYearMonth, got %v", err)
	}
	if _, err := newTestBuilder(usecase.Options{RowsPerDay: usecase.Rows(-1)}).Build("u", "x", nil, ym); !errors.Is(err, usecase.ErrInvalidRowsPerDay) {
		t.Errorf("expected ErrInvalidRowsPerDay, got %v", err)
	}
}

func TestSummaryBuilder_Build_RejectsMalformedRecordDate(t *testing.T) {
	ym := domain.NewYearMonth(2024, time.January)

	for _, date := range []string{"", "2024/01/03", "2024-1-3", "2024-01-32", "2024-01-03T00:00:00Z"} {
		records := []domain.DailyRecord{rec("2024-01-02", true, false), rec(date, false, false)}
		if _, err := newTestBuilder(usecase.Options{}).Build("user_1", "Alice", records, ym); !errors.Is(err, domain.ErrInvalidRecordDate) {
			t.Errorf("%q: expected ErrInvalidRecordDate, got %v", date, err)
		}
	}
}

func TestSummaryBuilder_Build_ExplicitZeroRowsPerDay(t *testing.T) {
	ym := domain.NewYearMonth(2024, time.January)

	s, err := newTestBuilder(usecase.Options{RowsPerDay: usecase.Rows(0)}).Build("user_1", "Alice", []domain.DailyRecord{rec("2024-01-02", true, false)}, ym)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Kpi.PlannedRows != 0 || s.Kpi.EmptyRows != 0 || s.CompletionRate != 0 {
		t.Fatalf("expected no capacity, got %+v rate=%v", s.Kpi, s.CompletionRate)
	}
	if s.Kpi.CompletedRows != 1 {
		t.Fatalf("expected activity to be counted, got %+v", s.Kpi)
	}
}

// ------------------------------------------------------------
// BATCH AGGREGATION
// ------------------------------------------------------------

func TestSummaryBuilder_AggregateAll_IsolatesFailures(t *testing.T) {
	b := newTestBuilder(usecase.Options{})
	ym := domain.NewYearMonth(2024, time.January)

	users := []domain.UserRecords{
		{
			UserID:      "user_1",
			DisplayName: "Alice",
			DailyRecords: []domain.DailyRecord{
				rec("2024-01-02", true, false),
				rec("2024-01-03", true, false),
			},
		},
		{
			UserID:      "",
			DisplayName: "Broken",
			DailyRecords: []domain.DailyRecord{
				rec("2024-01-02", true, false),
				rec("2024-01-03", false, false),
				rec("2024-01-04", false, true),
			},
		},
		{
			UserID:       "user_3",
			DisplayName:  "Carol",
			DailyRecords: []domain.DailyRecord{rec("2024-01-09", false, false)},
		},
	}

	results := b.AggregateAll(users, ym)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	ok1 := results[0]
	if ok1.Failed() || ok1.ProcessedRecords != 2 || ok1.SkippedRecords != 0 {
		t.Fatalf("unexpected result for user_1: %+v", ok1)
	}
	if ok1.Summary.Kpi.CompletedRows != 2 {
		t.Fatalf("expected 2 completed rows for user_1, got %d", ok1.Summary.Kpi.CompletedRows)
	}
	if ok1.Errors == nil {
		t.Fatalf("expected non-nil empty errors slice")
	}

	failed := results[1]
	if !failed.Failed() {
		t.Fatalf("expected failed result, got %+v", failed)
	}
	if failed.ProcessedRecords != 0 || failed.SkippedRecords != 3 {
		t.Fatalf("expected processed=0 skipped=3, got %d/%d", failed.ProcessedRecords, failed.SkippedRecords)
	}
	if failed.Summary.Kpi != (domain.MonthlyKpi{}) || failed.Summary.CompletionRate != 0 {
		t.Fatalf("expected zeroed fallback summary, got %+v", failed.Summary)
	}
	if failed.Summary.FirstEntryDate != "" || failed.Summary.LastEntryDate != "" {
		t.Fatalf("expected no date range on fallback summary")
	}
	if !failed.Summary.LastUpdatedUTC.Equal(fixedNow) {
		t.Fatalf("expected fallback timestamp %s, got %s", fixedNow, failed.Summary.LastUpdatedUTC)
	}
	if failed.Errors[0] != usecase.ErrMissingUserID.Error() {
		t.Fatalf("unexpected error message: %q", failed.Errors[0])
	}

	ok3 := results[2]
	if ok3.Failed() || ok3.Summary.Kpi.InProgressRows != 1 {
		t.Fatalf("unexpected result for user_3: %+v", ok3)
	}
}

func TestSummaryBuilder_AggregateAll_BadDateIsolated(t *testing.T) {
	b := newTestBuilder(usecase.Options{})
	ym := domain.NewYearMonth(2024, time.January)

	results := b.AggregateAll([]domain.UserRecords{
		{UserID: "user_1", DisplayName: "Alice", DailyRecords: []domain.DailyRecord{rec("01/02/2024", true, false)}},
		{UserID: "user_2", DisplayName: "Bob", DailyRecords: []domain.DailyRecord{rec("2024-01-02", true, false)}},
	}, ym)

	if !results[0].Failed() || results[0].SkippedRecords != 1 || results[0].Summary.Kpi != (domain.MonthlyKpi{}) {
		t.Fatalf("expected zeroed failure for user_1, got %+v", results[0])
	}
	if results[1].Failed() || results[1].Summary.Kpi.CompletedRows != 1 {
		t.Fatalf("expected user_2 to aggregate, got %+v", results[1])
	}
}

func TestSummaryBuilder_AggregateAll_Empty(t *testing.T) {
	results := newTestBuilder(usecase.Options{}).AggregateAll(nil, domain.NewYearMonth(2024, time.March))
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
