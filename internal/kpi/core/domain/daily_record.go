package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRecordDate = errors.New("invalid record date, expected YYYY-MM-DD")

const recordDateLayout = "2006-01-02"

// DailyRecord is one user's activity entry for one day. RecordDate keeps the
// ISO "YYYY-MM-DD" text form; ordering relies on that format.
type DailyRecord struct {
	ID              string
	UserID          string
	UserName        string
	RecordDate      string
	Completed       bool
	HasSpecialNotes bool
	HasIncidents    bool
	IsEmpty         bool
}

// Contradictory reports a record flagged both completed and empty. Such
// records are accepted as-is by the aggregation.
func (r DailyRecord) Contradictory() bool {
	return r.Completed && r.IsEmpty
}

// CheckDate rejects a RecordDate that is not a real "YYYY-MM-DD" day.
func (r DailyRecord) CheckDate() error {
	if len(r.RecordDate) != len(recordDateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidRecordDate, r.RecordDate)
	}
	if _, err := time.Parse(recordDateLayout, r.RecordDate); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecordDate, r.RecordDate)
	}
	return nil
}

// UserRecords is the per-user input of a batch aggregation.
type UserRecords struct {
	UserID       string
	DisplayName  string
	DailyRecords []DailyRecord
}
