package ports

import (
	"context"

	"facility-kpi-service/internal/sync/core/listschema"
)

// SummaryQueryPort lists persisted monthly-summary records of one list.
type SummaryQueryPort interface {
	QuerySummaries(ctx context.Context, listName string, f listschema.MonthlyFilter) ([]listschema.ExternalRecord, error)
}
