package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrDuplicateCredentials = errors.New("username, email or phone number already in use")
	ErrInvalidPhoneNumber   = errors.New("phone number must be 10-15 digits")
	ErrFutureDateNotAllowed = errors.New("date cannot be in the future")
)
