package usecase

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	kpidomain "facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/reports/core/domain"
	"facility-kpi-service/internal/reports/core/ports"
	"facility-kpi-service/internal/sync/core/listschema"
)

var (
	ErrInvalidReportQuery = errors.New("invalid report query")
	ErrInvalidRate        = errors.New("min completion rate must be between 0 and 100")
)

type GetMonthlyReportInput struct {
	YearMonth         string // optional, "YYYY-MM"
	UserID            string
	UserIDs           []string
	MinCompletionRate *float64
}

type GetMonthlyReportUseCase struct {
	reader   ports.SummaryQueryPort
	listName string
	log      *zap.Logger
}

func NewGetMonthlyReportUseCase(reader ports.SummaryQueryPort, listName string, log *zap.Logger) *GetMonthlyReportUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &GetMonthlyReportUseCase{reader: reader, listName: listName, log: log}
}

// Execute validates the input, turns it into a monthly-record filter and
// reads the matching summaries. Records that cannot be mapped back are
// logged and left out.
func (uc *GetMonthlyReportUseCase) Execute(ctx context.Context, in GetMonthlyReportInput) (*domain.MonthlyReport, error) {
	if in.YearMonth != "" {
		if _, err := kpidomain.ParseYearMonth(in.YearMonth); err != nil {
			return nil, errors.Join(ErrInvalidReportQuery, err)
		}
	}
	if r := in.MinCompletionRate; r != nil && (math.IsNaN(*r) || *r < 0 || *r > 100) {
		return nil, ErrInvalidRate
	}

	filter := listschema.MonthlyFilter{
		YearMonth:         in.YearMonth,
		UserID:            in.UserID,
		UserIDs:           in.UserIDs,
		MinCompletionRate: in.MinCompletionRate,
	}

	recs, err := uc.reader.QuerySummaries(ctx, uc.listName, filter)
	if err != nil {
		return nil, err
	}

	report := &domain.MonthlyReport{
		YearMonth: in.YearMonth,
		Summaries: make([]kpidomain.MonthlySummary, 0, len(recs)),
	}
	for _, rec := range recs {
		s, err := listschema.FromExternalFields(rec)
		if err != nil {
			uc.log.Warn("skipping malformed summary record",
				zap.Int("id", rec.ID),
				zap.String("idempotency_key", rec.IdempotencyKey),
				zap.Error(err),
			)
			continue
		}
		report.Summaries = append(report.Summaries, s)
	}
	report.Totals = totals(report.Summaries)

	return report, nil
}

func totals(summaries []kpidomain.MonthlySummary) domain.ReportTotals {
	t := domain.ReportTotals{Users: len(summaries)}
	rateSum := decimal.Zero

	for _, s := range summaries {
		t.PlannedRows += s.Kpi.PlannedRows
		t.CompletedRows += s.Kpi.CompletedRows
		t.InProgressRows += s.Kpi.InProgressRows
		t.EmptyRows += s.Kpi.EmptyRows
		t.SpecialNotes += s.Kpi.SpecialNotes
		t.Incidents += s.Kpi.Incidents
		rateSum = rateSum.Add(decimal.NewFromFloat(s.CompletionRate))
	}

	if len(summaries) > 0 {
		t.AverageCompletionRate = rateSum.Div(decimal.NewFromInt(int64(len(summaries)))).Round(2).InexactFloat64()
	}
	return t
}
