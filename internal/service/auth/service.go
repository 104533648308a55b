package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	auth.AdminRepository
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(adminRepository auth.AdminRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		AdminRepository:    adminRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	var subjectID, name, passwordHash string

	switch loginReq.Role {
	case auth.RoleAdmin:
		admin, err := a.AdminRepository.GetByUsername(ctx, loginReq.Username)
		if err != nil {
			if errors.Is(err, auth.ErrAdminNotFound) {
				return auth.TokenResponse{}, auth.ErrInvalidCredentials
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to get admin: %w", err)
		}
		subjectID, name, passwordHash = admin.ID, admin.FullName(), admin.PasswordHash

	default:
		emp, err := a.EmployeeRepository.GetByUsername(ctx, loginReq.Username)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return auth.TokenResponse{}, auth.ErrInvalidCredentials
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		subjectID, name, passwordHash = emp.ID, emp.FullName(), emp.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := a.Service.GenerateAccessToken(subjectID, loginReq.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt,
		Role:                 loginReq.Role,
		SubjectID:            subjectID,
		Name:                 name,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	parsed, err := jwtauth.VerifyToken(a.Service.JWTAuth(), token)
	if err != nil {
		return auth.ErrInvalidToken
	}

	a.Service.RevokeToken(token, parsed.Expiration().Unix())
	return nil
}

// EnsureDefaultAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	count, err := a.AdminRepository.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = a.AdminRepository.Create(ctx, auth.Admin{
		FirstName:    "System",
		LastName:     "Administrator",
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	slog.Info("Default admin created", "username", username)
	return nil
}
