package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	kpidomain "facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/listschema"
	"facility-kpi-service/internal/sync/core/ports"
)

// UpsertSummaryUseCase writes monthly summaries into one list of the record
// store with last-write-wins semantics keyed by idempotency key.
type UpsertSummaryUseCase struct {
	store    ports.SummaryStorePort
	listName string
	locker   ports.KeyLockerPort
	log      *zap.Logger
}

func NewUpsertSummaryUseCase(store ports.SummaryStorePort, listName string, log *zap.Logger) *UpsertSummaryUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UpsertSummaryUseCase{store: store, listName: listName, log: log}
}

// WithLocker holds a per-key lock around find -> create/update. Without a
// locker, two concurrent callers that both miss on FindByKey both create.
func (uc *UpsertSummaryUseCase) WithLocker(l ports.KeyLockerPort) *UpsertSummaryUseCase {
	uc.locker = l
	return uc
}

// Upsert:
//   - no existing record                          -> create, OutcomeCreated
//   - existing older than summary and has an ID   -> update, OutcomeUpdated
//   - anything else (tie, newer, no ID, bad time) -> no write, OutcomeSkipped
func (uc *UpsertSummaryUseCase) Upsert(ctx context.Context, s kpidomain.MonthlySummary) (domain.Outcome, error) {
	fields := listschema.ToExternalFields(s)

	if native, ok := uc.store.(ports.NativeUpsertPort); ok {
		return native.UpsertByKey(ctx, uc.listName, fields)
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, fields.IdempotencyKey)
		if err != nil {
			return "", err
		}
		defer unlock()
	}

	existing, err := uc.store.FindByKey(ctx, uc.listName, fields.IdempotencyKey)
	if err != nil {
		return "", fmt.Errorf("find %s: %w", fields.IdempotencyKey, err)
	}

	if existing == nil {
		if _, err := uc.store.Create(ctx, uc.listName, fields); err != nil {
			return "", fmt.Errorf("create %s: %w", fields.IdempotencyKey, err)
		}
		return domain.OutcomeCreated, nil
	}

	if !isNewer(s, *existing) || !existing.HasID() {
		return domain.OutcomeSkipped, nil
	}

	if _, err := uc.store.Update(ctx, uc.listName, existing.ID, fields); err != nil {
		return "", fmt.Errorf("update %s: %w", fields.IdempotencyKey, err)
	}
	return domain.OutcomeUpdated, nil
}

// isNewer is a strict comparison: equal instants keep the persisted record.
// An unparsable persisted timestamp is never overwritten.
func isNewer(s kpidomain.MonthlySummary, existing listschema.ExternalRecord) bool {
	old, err := existing.LastUpdatedTime()
	if err != nil {
		return false
	}
	return s.LastUpdatedUTC.After(old)
}

// BulkUpsert runs Upsert sequentially. A failing item is recorded in Errors
// and does not stop the loop or touch the counters.
func (uc *UpsertSummaryUseCase) BulkUpsert(ctx context.Context, summaries []kpidomain.MonthlySummary) domain.BulkUpsertResult {
	res := domain.BulkUpsertResult{RunID: uuid.NewString()}
	log := uc.log.With(zap.String("run_id", res.RunID), zap.String("list", uc.listName))

	for _, s := range summaries {
		outcome, err := uc.Upsert(ctx, s)
		if err != nil {
			log.Warn("summary upsert failed",
				zap.String("user_id", s.UserID),
				zap.String("year_month", s.YearMonth.String()),
				zap.String("idempotency_key", listschema.IdempotencyKey(s.UserID, s.YearMonth)),
				zap.Error(err),
			)
			res.Errors = append(res.Errors, domain.BulkUpsertError{Summary: s, Err: err})
			continue
		}
		res.Record(outcome)
	}

	log.Info("bulk upsert finished",
		zap.Int("total", len(summaries)),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", len(res.Errors)),
	)
	return res
}
