package report

import "errors"

var (
	ErrInvalidPeriodKind      = errors.New("period kind must be 15day or monthly")
	ErrInvalidMonth           = errors.New("month must be between 1 and 12")
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrDailyReportNotFound    = errors.New("daily report not found")
	ErrPeriodReportNotFound   = errors.New("period report not found")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
