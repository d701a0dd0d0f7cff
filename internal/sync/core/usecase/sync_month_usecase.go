package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	kpidomain "facility-kpi-service/internal/kpi/core/domain"
	kpiports "facility-kpi-service/internal/kpi/core/ports"
	kpiusecase "facility-kpi-service/internal/kpi/core/usecase"
	"facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/listschema"
)

var ErrInvalidSyncRequest = errors.New("invalid sync request")

// SyncMonthUseCase reads one month of daily records, aggregates them per user
// and pushes the summaries into the record store.
type SyncMonthUseCase struct {
	reader  kpiports.DailyRecordReaderPort
	builder *kpiusecase.SummaryBuilder
	upsert  *UpsertSummaryUseCase
	log     *zap.Logger
}

func NewSyncMonthUseCase(
	reader kpiports.DailyRecordReaderPort,
	builder *kpiusecase.SummaryBuilder,
	upsert *UpsertSummaryUseCase,
	log *zap.Logger,
) *SyncMonthUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncMonthUseCase{reader: reader, builder: builder, upsert: upsert, log: log}
}

func (uc *SyncMonthUseCase) Execute(ctx context.Context, in domain.SyncMonthInput) (domain.SyncMonthResult, error) {
	if in.YearMonth.IsZero() {
		return domain.SyncMonthResult{}, ErrInvalidSyncRequest
	}
	res := domain.SyncMonthResult{YearMonth: in.YearMonth}
	log := uc.log.With(zap.String("year_month", in.YearMonth.String()))

	records, err := uc.reader.ListDailyRecords(ctx, kpiports.DailyRecordFilter{
		YearMonth: in.YearMonth,
		UserIDs:   in.UserIDs,
	})
	if err != nil {
		return res, fmt.Errorf("list daily records: %w", err)
	}
	res.Records = len(records)

	users := kpiusecase.GroupByUser(records)
	for _, u := range users {
		if n := kpiusecase.CountContradictory(u.DailyRecords); n > 0 {
			log.Warn("records flagged both completed and empty",
				zap.String("user_id", u.UserID),
				zap.Int("count", n),
			)
		}
	}

	res.Aggregations = uc.builder.AggregateAll(users, in.YearMonth)

	summaries := make([]kpidomain.MonthlySummary, 0, len(res.Aggregations))
	for _, a := range res.Aggregations {
		if a.Failed() {
			log.Warn("aggregation failed",
				zap.String("user_id", a.Summary.UserID),
				zap.Strings("errors", a.Errors),
			)
			continue
		}
		summaries = append(summaries, a.Summary)
	}

	if in.OnlyChanged {
		summaries, res.Unchanged = uc.dropUnchanged(ctx, summaries)
	}

	res.Upsert = uc.upsert.BulkUpsert(ctx, summaries)
	return res, nil
}

// dropUnchanged removes summaries whose persisted copy does not need an
// update. Lookup failures keep the summary so the upsert reports them.
func (uc *SyncMonthUseCase) dropUnchanged(ctx context.Context, summaries []kpidomain.MonthlySummary) ([]kpidomain.MonthlySummary, int) {
	kept := summaries[:0]
	unchanged := 0

	for _, s := range summaries {
		key := listschema.IdempotencyKey(s.UserID, s.YearMonth)
		rec, err := uc.upsert.store.FindByKey(ctx, uc.upsert.listName, key)
		if err != nil || rec == nil {
			kept = append(kept, s)
			continue
		}
		existing, err := listschema.FromExternalFields(*rec)
		if err != nil || kpiusecase.ShouldUpdate(existing, s) {
			kept = append(kept, s)
			continue
		}
		unchanged++
	}
	return kept, unchanged
}
