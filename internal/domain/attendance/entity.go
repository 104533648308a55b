package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusAbsent  Status = "Absent"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Record is one attendance row. There is at most one per (EmployeeID, Date).
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ClockIn    *time.Time
	ClockOut   *time.Time
	Status     Status
	CreatedAt  time.Time

	// DTO
	EmployeeName *string
	PositionName *string
	Email        *string
	Phone        *string
}

// IsPlaceholder reports whether the record was written by the absence sweep.
func (r Record) IsPlaceholder() bool {
	return r.Status == StatusAbsent && r.ClockIn == nil
}

func (r Record) IsClosed() bool {
	return r.ClockOut != nil
}

// Worked returns clock_out - clock_in, or zero when either side is missing.
func (r Record) Worked() time.Duration {
	if r.ClockIn == nil || r.ClockOut == nil {
		return 0
	}
	return r.ClockOut.Sub(*r.ClockIn)
}

type StatusCounts struct {
	Present int
	Late    int
	Absent  int
}

func (c StatusCounts) Total() int {
	return c.Present + c.Late + c.Absent
}

// DateOf returns the calendar date of t as midnight UTC, the form used for every
// date column and date comparison in the attendance tables.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
