package fiber

import (
	"facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/listschema"
)

// SyncMonthlyRequest represents a month synchronisation payload
// @Description Month to aggregate and synchronise, optionally limited to some users
type SyncMonthlyRequest struct {
	YearMonth   string   `json:"year_month" validate:"required" example:"2024-01"`
	UserIDs     []string `json:"user_ids,omitempty" validate:"omitempty,dive,required"`
	OnlyChanged *bool    `json:"only_changed,omitempty"`
}

type SyncMonthlyResponse struct {
	RunID               string               `json:"run_id"`
	YearMonth           string               `json:"year_month"`
	Records             int                  `json:"records"`
	Users               int                  `json:"users"`
	Created             int                  `json:"created"`
	Updated             int                  `json:"updated"`
	Skipped             int                  `json:"skipped"`
	Unchanged           int                  `json:"unchanged"`
	AggregationFailures []AggregationFailure `json:"aggregation_failures"`
	Errors              []UpsertFailure      `json:"errors"`
}

type AggregationFailure struct {
	UserID string   `json:"user_id"`
	Errors []string `json:"errors"`
}

type UpsertFailure struct {
	UserID         string `json:"user_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Message        string `json:"message"`
}

type ErrorResponse struct {
	Error   string            `json:"error" example:"invalid_request"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func toSyncMonthlyResponse(res domain.SyncMonthResult) SyncMonthlyResponse {
	out := SyncMonthlyResponse{
		RunID:               res.Upsert.RunID,
		YearMonth:           res.YearMonth.String(),
		Records:             res.Records,
		Users:               len(res.Aggregations),
		Created:             res.Upsert.Created,
		Updated:             res.Upsert.Updated,
		Skipped:             res.Upsert.Skipped,
		Unchanged:           res.Unchanged,
		AggregationFailures: []AggregationFailure{},
		Errors:              []UpsertFailure{},
	}

	for _, a := range res.Aggregations {
		if a.Failed() {
			out.AggregationFailures = append(out.AggregationFailures, AggregationFailure{
				UserID: a.Summary.UserID,
				Errors: a.Errors,
			})
		}
	}

	for _, e := range res.Upsert.Errors {
		out.Errors = append(out.Errors, UpsertFailure{
			UserID:         e.Summary.UserID,
			IdempotencyKey: listschema.IdempotencyKey(e.Summary.UserID, e.Summary.YearMonth),
			Message:        e.Err.Error(),
		})
	}

	return out
}
