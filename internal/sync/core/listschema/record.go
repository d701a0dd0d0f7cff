// Package listschema maps monthly summaries to the flat field layout of the
// external record store and builds its filter-query strings.
package listschema

import (
	"fmt"
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
)

// External field names.
const (
	FieldID                = "Id"
	FieldUserCode          = "UserCode"
	FieldYearMonth         = "YearMonth"
	FieldDisplayName       = "DisplayName"
	FieldLastUpdated       = "LastUpdated"
	FieldKPITotalDays      = "KPI_TotalDays"
	FieldKPIPlannedRows    = "KPI_PlannedRows"
	FieldKPICompletedRows  = "KPI_CompletedRows"
	FieldKPIInProgressRows = "KPI_InProgressRows"
	FieldKPIEmptyRows      = "KPI_EmptyRows"
	FieldKPISpecialNotes   = "KPI_SpecialNotes"
	FieldKPIIncidents      = "KPI_Incidents"
	FieldCompletionRate    = "CompletionRate"
	FieldFirstEntryDate    = "FirstEntryDate"
	FieldLastEntryDate     = "LastEntryDate"
	FieldIdempotencyKey    = "IdempotencyKey"
	FieldRecordDate        = "RecordDate"
	FieldUserName          = "UserName"
	FieldCompleted         = "Completed"
	FieldHasSpecialNotes   = "HasSpecialNotes"
	FieldHasIncidents      = "HasIncidents"
	FieldIsEmpty           = "IsEmpty"
)

const lastUpdatedLayout = time.RFC3339Nano

// ExternalRecord is one monthly-summary item in the external store. ID is
// assigned by the store; zero means "no identifier".
type ExternalRecord struct {
	ID                int     `json:"Id,omitempty"`
	UserCode          string  `json:"UserCode"`
	YearMonth         string  `json:"YearMonth"`
	DisplayName       string  `json:"DisplayName"`
	LastUpdated       string  `json:"LastUpdated"`
	KPITotalDays      int     `json:"KPI_TotalDays"`
	KPIPlannedRows    int     `json:"KPI_PlannedRows"`
	KPICompletedRows  int     `json:"KPI_CompletedRows"`
	KPIInProgressRows int     `json:"KPI_InProgressRows"`
	KPIEmptyRows      int     `json:"KPI_EmptyRows"`
	KPISpecialNotes   int     `json:"KPI_SpecialNotes"`
	KPIIncidents      int     `json:"KPI_Incidents"`
	CompletionRate    float64 `json:"CompletionRate"`
	FirstEntryDate    string  `json:"FirstEntryDate,omitempty"`
	LastEntryDate     string  `json:"LastEntryDate,omitempty"`
	IdempotencyKey    string  `json:"IdempotencyKey"`
}

// HasID reports whether the store assigned an identifier.
func (r ExternalRecord) HasID() bool {
	return r.ID > 0
}

// LastUpdatedTime parses LastUpdated as an RFC 3339 instant.
func (r ExternalRecord) LastUpdatedTime() (time.Time, error) {
	return time.Parse(lastUpdatedLayout, r.LastUpdated)
}

// IdempotencyKey is the sole correlation handle between a (user, month) pair
// and its external record.
func IdempotencyKey(userID string, ym domain.YearMonth) string {
	return fmt.Sprintf("%s#%s", userID, ym.String())
}

// ToExternalFields flattens a summary and derives its idempotency key.
func ToExternalFields(s domain.MonthlySummary) ExternalRecord {
	return ExternalRecord{
		UserCode:          s.UserID,
		YearMonth:         s.YearMonth.String(),
		DisplayName:       s.DisplayName,
		LastUpdated:       s.LastUpdatedUTC.UTC().Format(lastUpdatedLayout),
		KPITotalDays:      s.Kpi.TotalDays,
		KPIPlannedRows:    s.Kpi.PlannedRows,
		KPICompletedRows:  s.Kpi.CompletedRows,
		KPIInProgressRows: s.Kpi.InProgressRows,
		KPIEmptyRows:      s.Kpi.EmptyRows,
		KPISpecialNotes:   s.Kpi.SpecialNotes,
		KPIIncidents:      s.Kpi.Incidents,
		CompletionRate:    s.CompletionRate,
		FirstEntryDate:    s.FirstEntryDate,
		LastEntryDate:     s.LastEntryDate,
		IdempotencyKey:    IdempotencyKey(s.UserID, s.YearMonth),
	}
}

// FromExternalFields is the inverse of ToExternalFields. Missing numbers are
// already zero; an unparsable LastUpdated leaves the zero time. Only a
// malformed YearMonth is an error.
func FromExternalFields(r ExternalRecord) (domain.MonthlySummary, error) {
	ym, err := domain.ParseYearMonth(r.YearMonth)
	if err != nil {
		return domain.MonthlySummary{}, err
	}

	lastUpdated, _ := r.LastUpdatedTime()

	return domain.MonthlySummary{
		UserID:         r.UserCode,
		YearMonth:      ym,
		DisplayName:    r.DisplayName,
		LastUpdatedUTC: lastUpdated.UTC(),
		Kpi: domain.MonthlyKpi{
			TotalDays:      r.KPITotalDays,
			PlannedRows:    r.KPIPlannedRows,
			CompletedRows:  r.KPICompletedRows,
			InProgressRows: r.KPIInProgressRows,
			EmptyRows:      r.KPIEmptyRows,
			SpecialNotes:   r.KPISpecialNotes,
			Incidents:      r.KPIIncidents,
		},
		CompletionRate: r.CompletionRate,
		FirstEntryDate: r.FirstEntryDate,
		LastEntryDate:  r.LastEntryDate,
	}, nil
}
