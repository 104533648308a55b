package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FirstName     string  `json:"first_name"`
	MiddleInitial *string `json:"middle_initial"`
	LastName      string  `json:"last_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Username      string  `json:"username"`
	Password      string  `json:"password"`
	DateHired     string  `json:"date_hired"`
	PositionID    *string `json:"position_id"`

	ParsedDateHired time.Time `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	} else if len(r.FirstName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name must not exceed 100 characters"})
	}

	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	} else if len(r.LastName) > 100 {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name must not exceed 100 characters"})
	}

	if r.MiddleInitial != nil && len(*r.MiddleInitial) > 10 {
		errs = append(errs, validator.ValidationError{Field: "middle_initial", Message: "middle_initial must not exceed 10 characters"})
	}

	errs = validateContact(errs, r.Email, r.Phone)

	if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username must be 3-50 characters of letters, digits, '.', '_' or '-'"})
	}

	errs = validatePassword(errs, r.Password)

	if date, ok := validator.IsValidDate(r.DateHired); !ok {
		errs = append(errs, validator.ValidationError{Field: "date_hired", Message: "date_hired must be in YYYY-MM-DD format"})
	} else if date.After(time.Now()) {
		errs = append(errs, validator.ValidationError{Field: "date_hired", Message: ErrFutureDateNotAllowed.Error()})
	} else {
		r.ParsedDateHired = date
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest changes contact details, credentials or the position.
// A nil field is left unchanged.
type UpdateEmployeeRequest struct {
	ID         string  `json:"-"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	PositionID *string `json:"position_id"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}

	errs = validateContact(errs, r.Email, r.Phone)

	if r.Username != nil && !validator.IsValidUsername(*r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username must be 3-50 characters of letters, digits, '.', '_' or '-'"})
	}

	if r.Password != nil {
		errs = validatePassword(errs, *r.Password)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateContact(errs validator.ValidationErrors, email, phone *string) validator.ValidationErrors {
	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if phone != nil && *phone != "" && !validator.IsValidPhoneNumber(*phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: ErrInvalidPhoneNumber.Error()})
	}
	return errs
}

func validatePassword(errs validator.ValidationErrors, password string) validator.ValidationErrors {
	if len(password) < 8 {
		return append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(password) > 72 {
		return append(errs, validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"})
	}
	return errs
}

type EmployeeFilter struct {
	PositionID *string
	Search     *string
}

type EmployeeResponse struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"first_name"`
	MiddleInitial *string `json:"middle_initial"`
	LastName      string  `json:"last_name"`
	FullName      string  `json:"full_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Username      string  `json:"username"`
	DateHired     string  `json:"date_hired"`
	PositionID    *string `json:"position_id"`
	PositionName  *string `json:"position_name"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		FirstName:     e.FirstName,
		MiddleInitial: e.MiddleInitial,
		LastName:      e.LastName,
		FullName:      e.FullName(),
		Email:         e.Email,
		Phone:         e.Phone,
		Username:      e.Username,
		DateHired:     e.DateHired.Format(time.DateOnly),
		PositionID:    e.PositionID,
		PositionName:  e.PositionName,
	}
}
