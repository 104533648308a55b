package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// List joins employee name and position, newest first.
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// UpdateStatus moves a Pending request to status. It fails with
	// ErrLeaveRequestAlreadyProcessed when the request is no longer Pending.
	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, processedAt time.Time) error
}
