package fiber

type SummaryResponse struct {
	UserID         string  `json:"user_id"`
	YearMonth      string  `json:"year_month"`
	DisplayName    string  `json:"display_name"`
	LastUpdated    string  `json:"last_updated"`
	TotalDays      int     `json:"total_days"`
	PlannedRows    int     `json:"planned_rows"`
	CompletedRows  int     `json:"completed_rows"`
	InProgressRows int     `json:"in_progress_rows"`
	EmptyRows      int     `json:"empty_rows"`
	SpecialNotes   int     `json:"special_notes"`
	Incidents      int     `json:"incidents"`
	CompletionRate float64 `json:"completion_rate"`
	FirstEntryDate string  `json:"first_entry_date,omitempty"`
	LastEntryDate  string  `json:"last_entry_date,omitempty"`
}

type TotalsResponse struct {
	Users                 int     `json:"users"`
	PlannedRows           int     `json:"planned_rows"`
	CompletedRows         int     `json:"completed_rows"`
	InProgressRows        int     `json:"in_progress_rows"`
	EmptyRows             int     `json:"empty_rows"`
	SpecialNotes          int     `json:"special_notes"`
	Incidents             int     `json:"incidents"`
	AverageCompletionRate float64 `json:"average_completion_rate"`
}

type MonthlyReportResponse struct {
	YearMonth string            `json:"year_month,omitempty"`
	Totals    TotalsResponse    `json:"totals"`
	Summaries []SummaryResponse `json:"summaries"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"min completion rate must be between 0 and 100"`
}
