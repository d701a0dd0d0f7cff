package ports

import (
	"context"

	"facility-kpi-service/internal/kpi/core/domain"
)

type DailyRecordFilter struct {
	YearMonth domain.YearMonth
	UserIDs   []string // optional, empty means every user
}

// DailyRecordReaderPort loads raw daily records. Implementations must only
// return records dated inside YearMonth: aggregation counts whatever it gets.
type DailyRecordReaderPort interface {
	ListDailyRecords(ctx context.Context, f DailyRecordFilter) ([]domain.DailyRecord, error)
}
