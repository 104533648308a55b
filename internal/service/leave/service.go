package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewLeaveService(leaveRequestRepo leave.LeaveRequestRepository, employeeRepo employee.EmployeeRepository, now func() time.Time) leave.LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		employeeRepo:           employeeRepo,
		now:                    now,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var reason *string
	if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
		trimmed := strings.TrimSpace(*req.Reason)
		reason = &trimmed
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		LeaveType:  strings.TrimSpace(req.LeaveType),
		StartDate:  req.ParsedStartDate,
		EndDate:    req.ParsedEndDate,
		Reason:     reason,
		Status:     leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request submitted", "leave_request_id", created.ID, "employee_id", created.EmployeeID, "days", created.Days())
	return s.get(ctx, created.ID)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return s.process(ctx, id, leave.LeaveRequestStatusApproved)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return s.process(ctx, id, leave.LeaveRequestStatusRejected)
}

func (s *LeaveServiceImpl) process(ctx context.Context, id string, status leave.LeaveRequestStatus) (leave.LeaveRequestResponse, error) {
	if err := s.LeaveRequestRepository.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	slog.Info("Leave request processed", "leave_request_id", id, "status", status)
	return s.get(ctx, id)
}

func (s *LeaveServiceImpl) get(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}
