package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes an access token until it expires.
	Logout(ctx context.Context, token string) error
	// EnsureDefaultAdmin creates the given admin when no admin exists yet.
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
}
