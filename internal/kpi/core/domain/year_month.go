package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidYearMonth = errors.New("invalid year-month, expected YYYY-MM")

const yearMonthLayout = "2006-01"

// YearMonth identifies a calendar month, rendered as "YYYY-MM".
type YearMonth struct {
	Year  int
	Month time.Month
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// ParseYearMonth accepts exactly the "YYYY-MM" form.
func ParseYearMonth(s string) (YearMonth, error) {
	if len(s) != len(yearMonthLayout) {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Start is midnight UTC on the first day of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month; December rolls into January.
func (ym YearMonth) Next() YearMonth {
	t := ym.Start().AddDate(0, 1, 0)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
