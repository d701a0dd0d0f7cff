package fiber

import (
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
)

// AggregateRequest represents a batch aggregation payload
// @Description Daily records grouped per user for one month
type AggregateRequest struct {
	YearMonth       string            `json:"year_month" validate:"required" example:"2024-01"`
	UseCalendarDays *bool             `json:"use_calendar_days,omitempty"`
	RowsPerDay      *int              `json:"rows_per_day,omitempty" validate:"omitnil,min=1" example:"19"`
	Users           []UserRecordsItem `json:"users" validate:"required,dive"`
}

type UserRecordsItem struct {
	UserID       string            `json:"user_id" example:"U001"`
	DisplayName  string            `json:"display_name" example:"Alice"`
	DailyRecords []DailyRecordItem `json:"daily_records"`
}

type DailyRecordItem struct {
	ID              string `json:"id"`
	RecordDate      string `json:"record_date" example:"2024-01-02"`
	Completed       bool   `json:"completed"`
	HasSpecialNotes bool   `json:"has_special_notes"`
	HasIncidents    bool   `json:"has_incidents"`
	IsEmpty         bool   `json:"is_empty"`
}

type AggregateResponse struct {
	YearMonth string                  `json:"year_month"`
	Results   []AggregationResultItem `json:"results"`
	Failed    int                     `json:"failed"`
}

type AggregationResultItem struct {
	UserID           string   `json:"user_id"`
	DisplayName      string   `json:"display_name"`
	LastUpdated      string   `json:"last_updated"`
	Kpi              KpiItem  `json:"kpi"`
	CompletionRate   float64  `json:"completion_rate" example:"67.57"`
	FirstEntryDate   string   `json:"first_entry_date,omitempty"`
	LastEntryDate    string   `json:"last_entry_date,omitempty"`
	ProcessedRecords int      `json:"processed_records"`
	SkippedRecords   int      `json:"skipped_records"`
	Errors           []string `json:"errors"`
}

type KpiItem struct {
	TotalDays      int `json:"total_days"`
	PlannedRows    int `json:"planned_rows"`
	CompletedRows  int `json:"completed_rows"`
	InProgressRows int `json:"in_progress_rows"`
	EmptyRows      int `json:"empty_rows"`
	SpecialNotes   int `json:"special_notes"`
	Incidents      int `json:"incidents"`
}

type ErrorResponse struct {
	Error   string            `json:"error" example:"invalid_request"`
	Message string            `json:"message,omitempty" example:"year_month must be YYYY-MM"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (r AggregateRequest) toUserRecords() []domain.UserRecords {
	users := make([]domain.UserRecords, len(r.Users))
	for i, u := range r.Users {
		records := make([]domain.DailyRecord, len(u.DailyRecords))
		for j, d := range u.DailyRecords {
			records[j] = domain.DailyRecord{
				ID:              d.ID,
				UserID:          u.UserID,
				UserName:        u.DisplayName,
				RecordDate:      d.RecordDate,
				Completed:       d.Completed,
				HasSpecialNotes: d.HasSpecialNotes,
				HasIncidents:    d.HasIncidents,
				IsEmpty:         d.IsEmpty,
			}
		}
		users[i] = domain.UserRecords{UserID: u.UserID, DisplayName: u.DisplayName, DailyRecords: records}
	}
	return users
}

func toResultItem(r domain.MonthlyAggregationResult) AggregationResultItem {
	s := r.Summary
	return AggregationResultItem{
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		LastUpdated: s.LastUpdatedUTC.UTC().Format(time.RFC3339Nano),
		Kpi: KpiItem{
			TotalDays:      s.Kpi.TotalDays,
			PlannedRows:    s.Kpi.PlannedRows,
			CompletedRows:  s.Kpi.CompletedRows,
			InProgressRows: s.Kpi.InProgressRows,
			EmptyRows:      s.Kpi.EmptyRows,
			SpecialNotes:   s.Kpi.SpecialNotes,
			Incidents:      s.Kpi.Incidents,
		},
		CompletionRate:   s.CompletionRate,
		FirstEntryDate:   s.FirstEntryDate,
		LastEntryDate:    s.LastEntryDate,
		ProcessedRecords: r.ProcessedRecords,
		SkippedRecords:   r.SkippedRecords,
		Errors:           r.Errors,
	}
}
