package domain

import "time"

// MonthlyKpi is the fixed-shape monthly snapshot. EmptyRows is derived, so
// CompletedRows + InProgressRows + EmptyRows == PlannedRows whenever observed
// activity fits in PlannedRows; beyond that EmptyRows stays at 0.
type MonthlyKpi struct {
	TotalDays      int
	PlannedRows    int
	CompletedRows  int
	InProgressRows int
	EmptyRows      int
	SpecialNotes   int
	Incidents      int
}

// DateRange holds the first and last non-empty entry dates; both are empty
// when the user has no non-empty records.
type DateRange struct {
	First string
	Last  string
}

func (r DateRange) IsEmpty() bool {
	return r.First == "" && r.Last == ""
}

// MonthlySummary is the unit of persistence, keyed by (UserID, YearMonth).
type MonthlySummary struct {
	UserID         string
	YearMonth      YearMonth
	DisplayName    string
	LastUpdatedUTC time.Time
	Kpi            MonthlyKpi
	CompletionRate float64 // 0-100, two decimals
	FirstEntryDate string
	LastEntryDate  string
}

// MonthlyAggregationResult wraps one user's summary in a batch run.
type MonthlyAggregationResult struct {
	Summary          MonthlySummary
	ProcessedRecords int
	SkippedRecords   int
	Errors           []string
}

func (r MonthlyAggregationResult) Failed() bool {
	return len(r.Errors) > 0
}
