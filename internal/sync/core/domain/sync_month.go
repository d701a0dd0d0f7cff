package domain

import (
	kpidomain "facility-kpi-service/internal/kpi/core/domain"
)

type SyncMonthInput struct {
	YearMonth   kpidomain.YearMonth
	UserIDs     []string
	OnlyChanged bool
}

type SyncMonthResult struct {
	YearMonth    kpidomain.YearMonth
	Records      int
	Aggregations []kpidomain.MonthlyAggregationResult
	// Unchanged counts summaries dropped before upsert because the persisted
	// copy already matched.
	Unchanged int
	Upsert    BulkUpsertResult
}

// FailedUsers lists users whose aggregation failed; they are not synchronised.
func (r SyncMonthResult) FailedUsers() []string {
	var out []string
	for _, a := range r.Aggregations {
		if a.Failed() {
			out = append(out, a.Summary.UserID)
		}
	}
	return out
}
