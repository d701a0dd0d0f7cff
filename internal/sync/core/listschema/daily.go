package listschema

import (
	"strconv"

	"facility-kpi-service/internal/kpi/core/domain"
)

// ExternalDailyRecord is one row of the daily-record list.
type ExternalDailyRecord struct {
	ID              int    `json:"Id"`
	UserCode        string `json:"UserCode"`
	UserName        string `json:"UserName"`
	RecordDate      string `json:"RecordDate"`
	Completed       bool   `json:"Completed"`
	HasSpecialNotes bool   `json:"HasSpecialNotes"`
	HasIncidents    bool   `json:"HasIncidents"`
	IsEmpty         bool   `json:"IsEmpty"`
}

// ToDailyRecord keeps only the "YYYY-MM-DD" part of RecordDate; the store
// returns date columns as full timestamps.
func (r ExternalDailyRecord) ToDailyRecord() domain.DailyRecord {
	date := r.RecordDate
	if len(date) > len("2006-01-02") {
		date = date[:len("2006-01-02")]
	}
	return domain.DailyRecord{
		ID:              itoa(r.ID),
		UserID:          r.UserCode,
		UserName:        r.UserName,
		RecordDate:      date,
		Completed:       r.Completed,
		HasSpecialNotes: r.HasSpecialNotes,
		HasIncidents:    r.HasIncidents,
		IsEmpty:         r.IsEmpty,
	}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
