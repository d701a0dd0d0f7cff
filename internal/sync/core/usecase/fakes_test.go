package usecase

import (
	"context"
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
	kpiports "facility-kpi-service/internal/kpi/core/ports"
	syncdomain "facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/listschema"
)

// fakeStore implements ports.SummaryStorePort.
type fakeStore struct {
	FindFn   func(ctx context.Context, listName, key string) (*listschema.ExternalRecord, error)
	CreateFn func(ctx context.Context, listName string, fields listschema.ExternalRecord) (listschema.ExternalRecord, error)
	UpdateFn func(ctx context.Context, listName string, id int, fields listschema.ExternalRecord) (listschema.ExternalRecord, error)

	FindCalls   []string
	CreateCalls []listschema.ExternalRecord
	UpdateIDs   []int
}

func (f *fakeStore) FindByKey(ctx context.Context, listName, key string) (*listschema.ExternalRecord, error) {
	f.FindCalls = append(f.FindCalls, key)
	if f.FindFn != nil {
		return f.FindFn(ctx, listName, key)
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, listName string, fields listschema.ExternalRecord) (listschema.ExternalRecord, error) {
	f.CreateCalls = append(f.CreateCalls, fields)
	if f.CreateFn != nil {
		return f.CreateFn(ctx, listName, fields)
	}
	fields.ID = len(f.CreateCalls)
	return fields, nil
}

func (f *fakeStore) Update(ctx context.Context, listName string, id int, fields listschema.ExternalRecord) (listschema.ExternalRecord, error) {
	f.UpdateIDs = append(f.UpdateIDs, id)
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, listName, id, fields)
	}
	fields.ID = id
	return fields, nil
}

func (f *fakeStore) writes() int {
	return len(f.CreateCalls) + len(f.UpdateIDs)
}

// fakeNativeStore adds ports.NativeUpsertPort.
type fakeNativeStore struct {
	fakeStore
	UpsertFn    func(ctx context.Context, listName string, fields listschema.ExternalRecord) (syncdomain.Outcome, error)
	UpsertCalls int
}

func (f *fakeNativeStore) UpsertByKey(ctx context.Context, listName string, fields listschema.ExternalRecord) (syncdomain.Outcome, error) {
	f.UpsertCalls++
	return f.UpsertFn(ctx, listName, fields)
}

// fakeLocker implements ports.KeyLockerPort.
type fakeLocker struct {
	Err      error
	Locked   []string
	Unlocked int
}

func (f *fakeLocker) Lock(ctx context.Context, key string) (func(), error) {
	if f.Err != nil {
		return func() {}, f.Err
	}
	f.Locked = append(f.Locked, key)
	return func() { f.Unlocked++ }, nil
}

// fakeReader implements kpiports.DailyRecordReaderPort.
type fakeReader struct {
	Records    []domain.DailyRecord
	Err        error
	LastFilter kpiports.DailyRecordFilter
}

func (f *fakeReader) ListDailyRecords(ctx context.Context, flt kpiports.DailyRecordFilter) ([]domain.DailyRecord, error) {
	f.LastFilter = flt
	return f.Records, f.Err
}

var (
	jan2024 = domain.NewYearMonth(2024, time.January)
	t0      = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
)

func summaryAt(userID string, at time.Time) domain.MonthlySummary {
	return domain.MonthlySummary{
		UserID:         userID,
		YearMonth:      jan2024,
		DisplayName:    "Name " + userID,
		LastUpdatedUTC: at,
		Kpi:            domain.MonthlyKpi{TotalDays: 23, PlannedRows: 23, CompletedRows: 10, EmptyRows: 13},
		CompletionRate: 43.48,
	}
}

func persisted(id int, s domain.MonthlySummary) *listschema.ExternalRecord {
	rec := listschema.ToExternalFields(s)
	rec.ID = id
	return &rec
}
