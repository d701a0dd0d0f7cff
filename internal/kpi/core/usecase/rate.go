package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"facility-kpi-service/internal/kpi/core/domain"
)

var hundred = decimal.NewFromInt(100)

// CompletionRate is CompletedRows / PlannedRows as a percentage rounded half
// away from zero to two decimals. Zero capacity yields 0.
func CompletionRate(kpi domain.MonthlyKpi) float64 {
	if kpi.PlannedRows == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(kpi.CompletedRows)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(kpi.PlannedRows))).
		Round(2)
	return rate.InexactFloat64()
}

// EntryDateRange returns the smallest and largest RecordDate among non-empty
// records, compared as strings.
func EntryDateRange(records []domain.DailyRecord) domain.DateRange {
	dates := make([]string, 0, len(records))
	for _, r := range records {
		if r.IsEmpty {
			continue
		}
		dates = append(dates, r.RecordDate)
	}
	if len(dates) == 0 {
		return domain.DateRange{}
	}
	sort.Strings(dates)
	return domain.DateRange{First: dates[0], Last: dates[len(dates)-1]}
}
