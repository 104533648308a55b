package report

import (
	"bytes"
	"context"
	"time"
)

// ReportService generates and reads the aggregated attendance reports. Every
// generation takes its date or period explicitly.
type ReportService interface {
	// GenerateDailyReport sweeps absences for date, counts statuses and upserts the
	// daily row. On failure nothing is written.
	GenerateDailyReport(ctx context.Context, date time.Time) (DailyReportResponse, error)
	GetDailyReport(ctx context.Context, date time.Time) (DailyReportResponse, error)
	ListDailyReports(ctx context.Context, limit int) ([]DailyReportResponse, error)
	GetDailyDetails(ctx context.Context, date time.Time) (DailyDetailResponse, error)

	// GeneratePeriodReport aggregates period and upserts the summary and the
	// per-employee rows together.
	GeneratePeriodReport(ctx context.Context, period Period) (PeriodReportResponse, error)
	ListPeriodReports(ctx context.Context, kind PeriodKind, limit int) ([]PeriodSummaryResponse, error)
	GetPeriodDetails(ctx context.Context, period Period) (PeriodReportResponse, error)
	GetEmployeePeriodDetail(ctx context.Context, employeeID string, period Period) (EmployeePerformanceResponse, error)

	// ExportPeriodDetails renders the period report as an XLSX workbook.
	ExportPeriodDetails(ctx context.Context, period Period) (*bytes.Buffer, error)
}
