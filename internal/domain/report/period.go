package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type PeriodKind string

const (
	KindFifteenDay PeriodKind = "15day"
	KindMonthly    PeriodKind = "monthly"
)

func ParsePeriodKind(s string) (PeriodKind, error) {
	switch k := PeriodKind(s); k {
	case KindFifteenDay, KindMonthly:
		return k, nil
	}
	return "", ErrInvalidPeriodKind
}

// Period is an inclusive range of calendar dates. Fifteen-day periods are the
// 1st-15th and the 16th-end of a month; monthly periods cover a calendar month.
// Year and Month name the month the period falls in.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
	Year  int
	Month time.Month
}

// Days is the number of calendar days in the period, both ends included.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Contains reports whether date (a calendar date) lies inside the period.
func (p Period) Contains(date time.Time) bool {
	d := attendance.DateOf(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s %s..%s", p.Kind, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FifteenDayPeriodContaining returns the half-month holding date.
func FifteenDayPeriodContaining(date time.Time) Period {
	y, m, d := date.Date()
	start, end := 1, 15
	if d > 15 {
		start, end = 16, lastDayOfMonth(y, m)
	}
	return Period{
		Kind:  KindFifteenDay,
		Start: time.Date(y, m, start, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m, end, 0, 0, 0, 0, time.UTC),
		Year:  y,
		Month: m,
	}
}

// PreviousFifteenDayPeriod returns the last half-month that closed before today.
func PreviousFifteenDayPeriod(today time.Time) Period {
	current := FifteenDayPeriodContaining(today)
	return FifteenDayPeriodContaining(current.Start.AddDate(0, 0, -1))
}

func MonthPeriod(year int, month time.Month) Period {
	return Period{
		Kind:  KindMonthly,
		Start: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, month, lastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC),
		Year:  year,
		Month: month,
	}
}

// PreviousMonthPeriod returns the calendar month before the month of today.
func PreviousMonthPeriod(today time.Time) Period {
	y, m, _ := today.Date()
	prev := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthPeriod(prev.Year(), prev.Month())
}

// PeriodContaining returns the period of kind that holds date.
func PeriodContaining(kind PeriodKind, date time.Time) Period {
	if kind == KindMonthly {
		return MonthPeriod(date.Year(), date.Month())
	}
	return FifteenDayPeriodContaining(date)
}
