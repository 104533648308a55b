package leave

import "context"

type LeaveService interface {
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, id string) (LeaveRequestResponse, error)
}
