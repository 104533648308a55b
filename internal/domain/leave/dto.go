package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	EmployeeID string  `json:"-"` // From JWT
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason"`

	ParsedStartDate time.Time `json:"-"`
	ParsedEndDate   time.Time `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "leave_type is required"})
	} else if len(r.LeaveType) > 100 {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "leave_type must not exceed 100 characters"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrInvalidDateRange.Error()})
	}

	if len(errs) > 0 {
		return errs
	}

	r.ParsedStartDate = start
	r.ParsedEndDate = end
	return nil
}

type LeaveRequestFilter struct {
	Status     *LeaveRequestStatus
	EmployeeID *string
}

func (f *LeaveRequestFilter) Validate() error {
	if f.Status != nil && !f.Status.IsValid() {
		return validator.ValidationErrors{{
			Field:   "status",
			Message: "status must be Pending, Approved or Rejected",
		}}
	}
	return nil
}

type LeaveRequestResponse struct {
	ID           string             `json:"id"`
	EmployeeID   string             `json:"employee_id"`
	EmployeeName *string            `json:"employee_name,omitempty"`
	PositionName *string            `json:"position_name,omitempty"`
	LeaveType    string             `json:"leave_type"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Days         int                `json:"days"`
	Reason       *string            `json:"reason"`
	Status       LeaveRequestStatus `json:"status"`
	RequestedAt  string             `json:"requested_at"`
	ProcessedAt  *string            `json:"processed_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		PositionName: r.PositionName,
		LeaveType:    r.LeaveType,
		StartDate:    r.StartDate.Format(time.DateOnly),
		EndDate:      r.EndDate.Format(time.DateOnly),
		Days:         r.Days(),
		Reason:       r.Reason,
		Status:       r.Status,
		RequestedAt:  r.RequestedAt.Format(time.RFC3339),
	}
	if r.ProcessedAt != nil {
		s := r.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &s
	}
	return resp
}
