package calendar

import (
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
)

// TotalCalendarDays is "day 0 of the next month", which is leap-year correct.
func TotalCalendarDays(ym domain.YearMonth) int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WorkingDays counts Monday-Friday days in the month. No holiday calendar is
// consulted.
func WorkingDays(ym domain.YearMonth) int {
	days := TotalCalendarDays(ym)
	n := 0
	for d := 1; d <= days; d++ {
		switch time.Date(ym.Year, ym.Month, d, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
		default:
			n++
		}
	}
	return n
}
