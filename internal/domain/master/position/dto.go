package position

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreatePositionRequest struct {
	Name               string `json:"name"`
	LateThreshold      string `json:"late_threshold"`
	GracePeriodMinutes *int   `json:"grace_period_minutes"`
}

func (r *CreatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validateName(errs, r.Name)

	if r.LateThreshold == "" {
		r.LateThreshold = attendance.DefaultPositionPolicy.LateThreshold.String()
	} else if !validator.IsValidTimeOfDay(r.LateThreshold) {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold",
			Message: "late_threshold must be in HH:MM format",
		})
	}

	if r.GracePeriodMinutes == nil {
		grace := attendance.DefaultPositionPolicy.GracePeriodMinutes
		r.GracePeriodMinutes = &grace
	} else {
		errs = validateGrace(errs, *r.GracePeriodMinutes)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdatePositionRequest struct {
	ID                 string  `json:"-"`
	Name               *string `json:"name"`
	LateThreshold      *string `json:"late_threshold"`
	GracePeriodMinutes *int    `json:"grace_period_minutes"`
}

func (r *UpdatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		errs = validateName(errs, *r.Name)
	}

	if r.LateThreshold != nil && !validator.IsValidTimeOfDay(*r.LateThreshold) {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold",
			Message: "late_threshold must be in HH:MM format",
		})
	}

	if r.GracePeriodMinutes != nil {
		errs = validateGrace(errs, *r.GracePeriodMinutes)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateName(errs validator.ValidationErrors, name string) validator.ValidationErrors {
	if validator.IsEmpty(name) {
		return append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(name) > 100 {
		return append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}
	return errs
}

func validateGrace(errs validator.ValidationErrors, minutes int) validator.ValidationErrors {
	if minutes < 0 || minutes > 720 {
		return append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must be between 0 and 720",
		})
	}
	return errs
}

type PositionResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	LateThreshold      string `json:"late_threshold"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	EmployeeCount      int    `json:"employee_count"`
}

func NewPositionResponse(p Position) PositionResponse {
	return PositionResponse{
		ID:                 p.ID,
		Name:               p.Name,
		LateThreshold:      p.LateThreshold.String(),
		GracePeriodMinutes: p.GracePeriodMinutes,
		EmployeeCount:      p.EmployeeCount,
	}
}
