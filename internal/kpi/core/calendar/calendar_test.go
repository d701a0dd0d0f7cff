package calendar_test

import (
	"testing"
	"time"

	"facility-kpi-service/internal/kpi/core/calendar"
	"facility-kpi-service/internal/kpi/core/domain"
)

func TestTotalCalendarDays(t *testing.T) {
	tests := []struct {
		ym   domain.YearMonth
		want int
	}{
		{domain.NewYearMonth(2024, time.January), 31},
		{domain.NewYearMonth(2024, time.February), 29},
		{domain.NewYearMonth(2023, time.February), 28},
		{domain.NewYearMonth(1900, time.February), 28},
		{domain.NewYearMonth(2000, time.February), 29},
		{domain.NewYearMonth(2024, time.April), 30},
		{domain.NewYearMonth(2024, time.December), 31},
	}

	for _, tt := range tests {
		if got := calendar.TotalCalendarDays(tt.ym); got != tt.want {
			t.Errorf("%s: expected %d days, got %d", tt.ym, tt.want, got)
		}
	}
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		ym   domain.YearMonth
		want int
	}{
		{domain.NewYearMonth(2024, time.January), 23},
		{domain.NewYearMonth(2024, time.February), 21},
		{domain.NewYearMonth(2023, time.February), 20},
		{domain.NewYearMonth(2024, time.June), 20},
	}

	for _, tt := range tests {
		if got := calendar.WorkingDays(tt.ym); got != tt.want {
			t.Errorf("%s: expected %d working days, got %d", tt.ym, tt.want, got)
		}
	}
}

func TestWorkingDays_NeverExceedCalendarDays(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			ym := domain.NewYearMonth(year, m)
			wd, cd := calendar.WorkingDays(ym), calendar.TotalCalendarDays(ym)
			if wd > cd {
				t.Fatalf("%s: working days %d > calendar days %d", ym, wd, cd)
			}
			if wd < 20 || wd > 23 {
				t.Fatalf("%s: working days %d out of range", ym, wd)
			}
		}
	}
}
