package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the clock actions and attendance reads.
type AttendanceService interface {
	// ClockIn records the employee's arrival for today.
	ClockIn(ctx context.Context, employeeID string) (ClockResponse, error)

	// ClockOut closes today's record once the minimum work duration has elapsed.
	ClockOut(ctx context.Context, employeeID string) (ClockResponse, error)

	// MarkAbsent runs the absence sweep for date.
	MarkAbsent(ctx context.Context, date time.Time) (int, error)

	ListByDate(ctx context.Context, req ListByDateRequest) ([]AttendanceResponse, error)

	GetHistory(ctx context.Context, filter HistoryFilter) ([]AttendanceResponse, error)

	GetTodayStats(ctx context.Context) (TodayStats, error)
}
