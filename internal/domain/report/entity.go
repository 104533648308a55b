package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport holds the status counts of one calendar date. There is one row per
// date and regenerating it overwrites the counts.
type DailyReport struct {
	Date         time.Time
	TotalPresent int
	TotalLate    int
	TotalAbsent  int
	GeneratedAt  time.Time
}

// PeriodSummary aggregates every employee's performance over one period.
type PeriodSummary struct {
	Period
	TotalPresent       int
	TotalLate          int
	TotalAbsent        int
	TotalWorkDays      int
	AveragePresentRate decimal.Decimal
	AverageLateRate    decimal.Decimal
	AverageAbsentRate  decimal.Decimal
	GeneratedAt        time.Time
}

// EmployeePerformance is one employee's attendance over one period.
type EmployeePerformance struct {
	EmployeeID       string
	Period           Period
	PresentDays      int
	LateDays         int
	AbsentDays       int
	TotalHoursWorked decimal.Decimal
	AttendanceRate   decimal.Decimal
	GeneratedAt      time.Time

	// DTO
	EmployeeName *string
	PositionName *string
}

// DailyDetail lists who was present, late and absent on a date. Employees
// without any row on the date are listed as absent.
type DailyDetail struct {
	EmployeeID   string
	EmployeeName string
	PositionName *string
	Status       string
	ClockIn      *time.Time
	ClockOut     *time.Time
}
