package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY REPORT
// ========================================

type GenerateDailyReportRequest struct {
	Date string `json:"date"`

	ParsedDate time.Time `json:"-"`
}

func (r *GenerateDailyReportRequest) Validate() error {
	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	r.ParsedDate = date
	return nil
}

type DailyReportResponse struct {
	Date         string `json:"date"`
	TotalPresent int    `json:"total_present"`
	TotalLate    int    `json:"total_late"`
	TotalAbsent  int    `json:"total_absent"`
	Total        int    `json:"total"`
	GeneratedAt  string `json:"generated_at"`
}

func NewDailyReportResponse(r DailyReport) DailyReportResponse {
	return DailyReportResponse{
		Date:         r.Date.Format(time.DateOnly),
		TotalPresent: r.TotalPresent,
		TotalLate:    r.TotalLate,
		TotalAbsent:  r.TotalAbsent,
		Total:        r.TotalPresent + r.TotalLate + r.TotalAbsent,
		GeneratedAt:  r.GeneratedAt.Format(time.RFC3339),
	}
}

type DailyDetailItem struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	PositionName *string `json:"position_name"`
	ClockIn      *string `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
}

type DailyDetailResponse struct {
	Date    string            `json:"date"`
	Present []DailyDetailItem `json:"present"`
	Late    []DailyDetailItem `json:"late"`
	Absent  []DailyDetailItem `json:"absent"`
}

// ========================================
// PERIOD REPORTS
// ========================================

// PeriodRequest identifies a period either by any date inside it, by its start
// (and optionally end) date, or for monthly periods by year and month.
type PeriodRequest struct {
	Kind  string `json:"kind"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

// Resolve validates the request and returns the period it names.
func (r PeriodRequest) Resolve() (Period, error) {
	kind, err := ParsePeriodKind(r.Kind)
	if err != nil {
		return Period{}, validator.ValidationErrors{{Field: "kind", Message: err.Error()}}
	}

	var errs validator.ValidationErrors
	var period Period

	switch {
	case r.Date != "":
		date, ok := validator.IsValidDate(r.Date)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
			break
		}
		period = PeriodContaining(kind, date)

	case r.Start != "":
		start, ok := validator.IsValidDate(r.Start)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "start must be in YYYY-MM-DD format"})
			break
		}
		period = PeriodContaining(kind, start)
		if !start.Equal(period.Start) {
			errs = append(errs, validator.ValidationError{
				Field:   "start",
				Message: fmt.Sprintf("start must be the first day of a %s period", kind),
			})
		}
		if r.End != "" {
			end, ok := validator.IsValidDate(r.End)
			if !ok || !end.Equal(period.End) {
				errs = append(errs, validator.ValidationError{
					Field:   "end",
					Message: fmt.Sprintf("end must be %s for this period", period.End.Format(time.DateOnly)),
				})
			}
		}

	case r.Year != 0 || r.Month != 0:
		if kind != KindMonthly {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year and month select monthly periods only"})
			break
		}
		if r.Month < 1 || r.Month > 12 {
			errs = append(errs, validator.ValidationError{Field: "month", Message: ErrInvalidMonth.Error()})
		}
		if r.Year < 2000 || r.Year > 9999 {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a valid year"})
		}
		if len(errs) == 0 {
			period = MonthPeriod(r.Year, time.Month(r.Month))
		}

	default:
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date, start or year/month is required"})
	}

	if len(errs) > 0 {
		return Period{}, errs
	}
	return period, nil
}

type PeriodSummaryResponse struct {
	Kind               PeriodKind `json:"kind"`
	PeriodStart        string     `json:"period_start"`
	PeriodEnd          string     `json:"period_end"`
	Year               int        `json:"year"`
	Month              int        `json:"month"`
	TotalPresent       int        `json:"total_present"`
	TotalLate          int        `json:"total_late"`
	TotalAbsent        int        `json:"total_absent"`
	TotalWorkDays      int        `json:"total_work_days"`
	AveragePresentRate string     `json:"average_present_rate"`
	AverageLateRate    string     `json:"average_late_rate"`
	AverageAbsentRate  string     `json:"average_absent_rate"`
	GeneratedAt        string     `json:"generated_at"`
}

func NewPeriodSummaryResponse(s PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		Kind:               s.Kind,
		PeriodStart:        s.Start.Format(time.DateOnly),
		PeriodEnd:          s.End.Format(time.DateOnly),
		Year:               s.Year,
		Month:              int(s.Month),
		TotalPresent:       s.TotalPresent,
		TotalLate:          s.TotalLate,
		TotalAbsent:        s.TotalAbsent,
		TotalWorkDays:      s.TotalWorkDays,
		AveragePresentRate: s.AveragePresentRate.StringFixed(2),
		AverageLateRate:    s.AverageLateRate.StringFixed(2),
		AverageAbsentRate:  s.AverageAbsentRate.StringFixed(2),
		GeneratedAt:        s.GeneratedAt.Format(time.RFC3339),
	}
}

type EmployeePerformanceResponse struct {
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	PositionName     *string `json:"position_name,omitempty"`
	PeriodStart      string  `json:"period_start"`
	PeriodEnd        string  `json:"period_end"`
	PresentDays      int     `json:"present_days"`
	LateDays         int     `json:"late_days"`
	AbsentDays       int     `json:"absent_days"`
	TotalHoursWorked string  `json:"total_hours_worked"`
	AttendanceRate   string  `json:"attendance_rate"`
}

func NewEmployeePerformanceResponse(p EmployeePerformance) EmployeePerformanceResponse {
	return EmployeePerformanceResponse{
		EmployeeID:       p.EmployeeID,
		EmployeeName:     p.EmployeeName,
		PositionName:     p.PositionName,
		PeriodStart:      p.Period.Start.Format(time.DateOnly),
		PeriodEnd:        p.Period.End.Format(time.DateOnly),
		PresentDays:      p.PresentDays,
		LateDays:         p.LateDays,
		AbsentDays:       p.AbsentDays,
		TotalHoursWorked: p.TotalHoursWorked.StringFixed(2),
		AttendanceRate:   p.AttendanceRate.StringFixed(2),
	}
}

type PeriodReportResponse struct {
	Summary   *PeriodSummaryResponse        `json:"summary"`
	Employees []EmployeePerformanceResponse `json:"employees"`
}
