package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// CLOCK DTOs
// ========================================

// ClockResponse is what a successful clock action returns to the caller.
type ClockResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Status  *Status `json:"status,omitempty"`
	Time    string  `json:"time"`
}

// ========================================
// READ DTOs
// ========================================

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	PositionName *string `json:"position_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Date         string  `json:"date"`
	ClockIn      *string `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
	Status       Status  `json:"status"`
	HoursWorked  *string `json:"hours_worked"`
}

// NewAttendanceResponse renders r with timestamps in loc.
func NewAttendanceResponse(r Record, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		PositionName: r.PositionName,
		Email:        r.Email,
		Phone:        r.Phone,
		Date:         r.Date.Format(time.DateOnly),
		ClockIn:      formatTime(r.ClockIn, loc),
		ClockOut:     formatTime(r.ClockOut, loc),
		Status:       r.Status,
	}
	if r.ClockIn != nil && r.ClockOut != nil {
		hours := decimal.NewFromFloat(r.Worked().Hours()).Round(2).StringFixed(2)
		resp.HoursWorked = &hours
	}
	return resp
}

func formatTime(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.DateTime)
	return &s
}

// TodayStats summarises today's attendance. Present includes Late arrivals and
// Absent counts everyone who has not signed in yet.
type TodayStats struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

// NewTodayStats derives the dashboard counters from raw status counts.
func NewTodayStats(date time.Time, totalEmployees int, counts StatusCounts) TodayStats {
	signedIn := counts.Present + counts.Late
	absent := totalEmployees - signedIn
	if absent < 0 {
		absent = 0
	}
	return TodayStats{
		Date:    date.Format(time.DateOnly),
		Total:   totalEmployees,
		Present: signedIn,
		Late:    counts.Late,
		Absent:  absent,
	}
}

type ListByDateRequest struct {
	Date  string `json:"date"`
	Limit int    `json:"limit"`

	ParsedDate time.Time `json:"-"`
}

func (r *ListByDateRequest) Validate() error {
	var errs validator.ValidationErrors

	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	r.ParsedDate = date

	if r.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	EmployeeID string `json:"employee_id"`
	Limit      int    `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	if f.Limit == 0 {
		f.Limit = 30
	}
	return nil
}

// MarkAbsentRequest asks for an absence sweep of one calendar date.
type MarkAbsentRequest struct {
	Date string `json:"date"`

	ParsedDate time.Time `json:"-"`
}

func (r *MarkAbsentRequest) Validate() error {
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

type MarkAbsentResponse struct {
	Date   string `json:"date"`
	Marked int    `json:"marked"`
}
