package domain

import (
	kpidomain "facility-kpi-service/internal/kpi/core/domain"
)

type MonthlyReport struct {
	YearMonth string // empty when the query spans months
	Summaries []kpidomain.MonthlySummary
	Totals    ReportTotals
}

// ReportTotals sums the KPI counters over every summary in the report.
type ReportTotals struct {
	Users                 int
	PlannedRows           int
	CompletedRows         int
	InProgressRows        int
	EmptyRows             int
	SpecialNotes          int
	Incidents             int
	AverageCompletionRate float64 // plain mean of the per-user rates, 2 dp
}
