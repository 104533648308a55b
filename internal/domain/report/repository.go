package report

import (
	"context"
	"time"
)

// ReportRepository persists daily and periodic aggregates. Every Upsert is keyed
// on the natural key of its table and overwrites the previous values.
type ReportRepository interface {
	UpsertDaily(ctx context.Context, r DailyReport) (DailyReport, error)
	GetDaily(ctx context.Context, date time.Time) (DailyReport, error)
	// ListDaily returns the newest reports first.
	ListDaily(ctx context.Context, limit int) ([]DailyReport, error)

	UpsertPeriodSummary(ctx context.Context, s PeriodSummary) (PeriodSummary, error)
	GetPeriodSummary(ctx context.Context, period Period) (PeriodSummary, error)
	// ListPeriodSummaries returns the newest periods of kind first.
	ListPeriodSummaries(ctx context.Context, kind PeriodKind, limit int) ([]PeriodSummary, error)

	UpsertEmployeePerformance(ctx context.Context, rows []EmployeePerformance) error
	// ListEmployeePerformance returns the rows of period with employee details,
	// ordered as SortPerformance does.
	ListEmployeePerformance(ctx context.Context, period Period) ([]EmployeePerformance, error)
	GetEmployeePerformance(ctx context.Context, employeeID string, period Period) (EmployeePerformance, error)
}
