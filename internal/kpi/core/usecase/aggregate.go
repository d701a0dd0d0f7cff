package usecase

import (
	"errors"

	"facility-kpi-service/internal/kpi/core/calendar"
	"facility-kpi-service/internal/kpi/core/domain"
)

const DefaultRowsPerDay = 19

var ErrInvalidRowsPerDay = errors.New("rows per day must not be negative")

// Options tunes the capacity policy. The zero value means working days and
// DefaultRowsPerDay. A RowsPerDay pointing at 0 plans no capacity.
type Options struct {
	UseCalendarDays bool
	RowsPerDay      *int
}

// Rows returns a RowsPerDay value for Options literals.
func Rows(n int) *int {
	return &n
}

func (o Options) rowsPerDay() int {
	if o.RowsPerDay == nil {
		return DefaultRowsPerDay
	}
	return *o.RowsPerDay
}

// Aggregate reduces records into a MonthlyKpi for ym.
//
// Records are NOT filtered by RecordDate: every record passed in is counted,
// whatever month it belongs to. Callers must pre-filter to ym.
func Aggregate(records []domain.DailyRecord, ym domain.YearMonth, opts Options) domain.MonthlyKpi {
	totalDays := calendar.WorkingDays(ym)
	if opts.UseCalendarDays {
		totalDays = calendar.TotalCalendarDays(ym)
	}

	kpi := domain.MonthlyKpi{
		TotalDays:   totalDays,
		PlannedRows: totalDays * opts.rowsPerDay(),
	}

	for _, r := range records {
		if r.Completed {
			kpi.CompletedRows++
		} else if !r.IsEmpty {
			kpi.InProgressRows++
		}
		if r.HasSpecialNotes {
			kpi.SpecialNotes++
		}
		if r.HasIncidents {
			kpi.Incidents++
		}
	}

	// capacity minus observed activity, never a count of IsEmpty records
	kpi.EmptyRows = max(0, kpi.PlannedRows-kpi.CompletedRows-kpi.InProgressRows)

	return kpi
}
