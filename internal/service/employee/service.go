package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	authservice "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
)

type EmployeeServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	positionRepo position.PositionRepository
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	positionRepo position.PositionRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// emptyToNil drops blank optional fields so they are stored as NULL.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

func normalizeMiddleInitial(s *string) *string {
	s = emptyToNil(s)
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSuffix(*s, ".")
	return &trimmed
}

func (s *EmployeeServiceImpl) checkPosition(ctx context.Context, positionID *string) error {
	if positionID == nil {
		return nil
	}
	if _, err := s.positionRepo.GetByID(ctx, *positionID); err != nil {
		return err
	}
	return nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	email, phone := emptyToNil(req.Email), emptyToNil(req.Phone)
	positionID := emptyToNil(req.PositionID)

	var created employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.employeeRepo.CredentialsTaken(ctx, req.Username, deref(email), deref(phone), "")
		if err != nil {
			return err
		}
		if taken {
			return employee.ErrDuplicateCredentials
		}

		if err := s.checkPosition(ctx, positionID); err != nil {
			return err
		}

		hash, err := authservice.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		created, err = s.employeeRepo.Create(ctx, employee.Employee{
			FirstName:     strings.TrimSpace(req.FirstName),
			MiddleInitial: normalizeMiddleInitial(req.MiddleInitial),
			LastName:      strings.TrimSpace(req.LastName),
			Email:         email,
			Phone:         phone,
			Username:      req.Username,
			PasswordHash:  hash,
			DateHired:     req.ParsedDateHired,
			PositionID:    positionID,
		})
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "username", created.Username)
	return s.Get(ctx, created.ID)
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}
	return responses, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Email != nil {
			current.Email = emptyToNil(req.Email)
		}
		if req.Phone != nil {
			current.Phone = emptyToNil(req.Phone)
		}
		if req.Username != nil {
			current.Username = *req.Username
		}
		if req.PositionID != nil {
			current.PositionID = emptyToNil(req.PositionID)
			if err := s.checkPosition(ctx, current.PositionID); err != nil {
				return err
			}
		}
		if req.Password != nil {
			hash, err := authservice.HashPassword(*req.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			current.PasswordHash = hash
		}

		taken, err := s.employeeRepo.CredentialsTaken(ctx, current.Username, deref(current.Email), deref(current.Phone), current.ID)
		if err != nil {
			return err
		}
		if taken {
			return employee.ErrDuplicateCredentials
		}

		return s.employeeRepo.Update(ctx, current)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}
