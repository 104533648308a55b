package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance rows. Dates are calendar
// dates as produced by DateOf.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same employee and date
	// fails with ErrAlreadyClockedIn.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no row on date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// SetClockOut closes an open record. It fails with ErrAlreadyClockedOut when
	// clock_out is already set.
	SetClockOut(ctx context.Context, id string, clockOut time.Time) error

	// MarkAbsent inserts an Absent placeholder for every employee without a row on
	// date and returns how many were inserted. Existing rows are never touched.
	MarkAbsent(ctx context.Context, date time.Time) (int, error)

	CountByStatus(ctx context.Context, date time.Time) (StatusCounts, error)

	// ListByDate returns rows of date joined with employee details, newest clock-in
	// first. limit <= 0 returns all rows.
	ListByDate(ctx context.Context, date time.Time, limit int) ([]Record, error)

	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Record, error)

	// ListInRange returns every row with start <= date <= end.
	ListInRange(ctx context.Context, start, end time.Time) ([]Record, error)
}

// PolicyReader resolves the lateness policy of an employee. A nil policy with a
// nil error means the employee has no position.
type PolicyReader interface {
	GetPositionPolicy(ctx context.Context, employeeID string) (*PositionPolicy, error)
}
