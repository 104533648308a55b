package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Clock-in errors
	ErrAlreadyClockedIn = errors.New("already clocked in today")

	// Clock-out errors
	ErrNoClockInRecord    = errors.New("no clock-in record found today")
	ErrAlreadyClockedOut  = errors.New("already clocked out")
	ErrAbsentNoClockIn    = errors.New("cannot clock out - marked as absent (no clock-in)")
	ErrMinimumHoursNotMet = errors.New("minimum work hours not met")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// MinimumHoursNotMetError is returned by clock-out before the minimum work
// duration has elapsed. It matches ErrMinimumHoursNotMet with errors.Is.
type MinimumHoursNotMetError struct {
	Required  time.Duration
	Remaining time.Duration
}

func (e *MinimumHoursNotMetError) Error() string {
	remaining := e.Remaining.Truncate(time.Minute)
	hours := int(remaining / time.Hour)
	minutes := int(remaining%time.Hour) / int(time.Minute)
	return fmt.Sprintf("must work at least %d hours. Time remaining: %dh %dm", int(e.Required/time.Hour), hours, minutes)
}

func (e *MinimumHoursNotMetError) Is(target error) bool {
	return target == ErrMinimumHoursNotMet
}
