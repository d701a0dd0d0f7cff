package listschema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"facility-kpi-service/internal/kpi/core/domain"
)

// Filter strings cross the wire as-is. Values are interpolated inside single
// quotes WITHOUT escaping: an embedded ' breaks the query. Inputs are internal
// user and month codes.

const dateLiteralLayout = "2006-01-02T15:04:05Z"

// MonthlyFilter selects monthly-summary records. Zero-valued fields add no
// clause.
type MonthlyFilter struct {
	YearMonth         string
	UserID            string
	UserIDs           []string
	MinCompletionRate *float64
}

func (f MonthlyFilter) Build() string {
	var clauses []string
	if f.YearMonth != "" {
		clauses = append(clauses, eqString(FieldYearMonth, f.YearMonth))
	}
	if f.UserID != "" {
		clauses = append(clauses, eqString(FieldUserCode, f.UserID))
	}
	if len(f.UserIDs) > 0 {
		clauses = append(clauses, anyOf(FieldUserCode, f.UserIDs))
	}
	if f.MinCompletionRate != nil {
		clauses = append(clauses, fmt.Sprintf("%s ge %s", FieldCompletionRate, formatNumber(*f.MinCompletionRate)))
	}
	return strings.Join(clauses, " and ")
}

// DailyFilter selects daily records of one month: RecordDate in
// [month start, next month start).
type DailyFilter struct {
	YearMonth domain.YearMonth
	UserID    string
	UserIDs   []string
}

func (f DailyFilter) Build() string {
	clauses := []string{
		fmt.Sprintf("%s ge %s", FieldRecordDate, dateLiteral(f.YearMonth.Start())),
		fmt.Sprintf("%s lt %s", FieldRecordDate, dateLiteral(f.YearMonth.Next().Start())),
	}
	if f.UserID != "" {
		clauses = append(clauses, eqString(FieldUserCode, f.UserID))
	}
	if len(f.UserIDs) > 0 {
		clauses = append(clauses, anyOf(FieldUserCode, f.UserIDs))
	}
	return strings.Join(clauses, " and ")
}

// KeyFilter matches the single record carrying an idempotency key.
func KeyFilter(key string) string {
	return eqString(FieldIdempotencyKey, key)
}

func eqString(field, value string) string {
	return fmt.Sprintf("%s eq '%s'", field, value)
}

func anyOf(field string, values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = eqString(field, v)
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

func dateLiteral(t time.Time) string {
	return fmt.Sprintf("datetime'%s'", t.UTC().Format(dateLiteralLayout))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
