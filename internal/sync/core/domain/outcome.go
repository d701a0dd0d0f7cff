package domain

import (
	kpidomain "facility-kpi-service/internal/kpi/core/domain"
)

// Outcome is the result of upserting one summary.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)

// BulkUpsertError pairs a summary with the error its upsert returned.
type BulkUpsertError struct {
	Summary kpidomain.MonthlySummary
	Err     error
}

// BulkUpsertResult counts only items that were upserted without error.
type BulkUpsertResult struct {
	RunID   string
	Created int
	Updated int
	Skipped int
	Errors  []BulkUpsertError
}

func (r *BulkUpsertResult) Record(o Outcome) {
	switch o {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	}
}

// Processed is created + updated + skipped.
func (r BulkUpsertResult) Processed() int {
	return r.Created + r.Updated + r.Skipped
}
