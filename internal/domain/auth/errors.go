package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrAdminNotFound      = errors.New("admin not found")

	ErrAdminAccessRequired    = errors.New("admin access required")
	ErrEmployeeAccessRequired = errors.New("employee access required")
)
