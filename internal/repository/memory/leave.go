package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	id, err := newID()
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.ID = id
	request.RequestedAt = r.store.now()
	if request.Status == "" {
		request.Status = leave.LeaveRequestStatusPending
	}
	request.EmployeeName = nil
	request.PositionName = nil

	err = r.store.write(ctx, func(t *tables) error {
		t.leaves[id] = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func withRequester(t *tables, lr leave.LeaveRequest) leave.LeaveRequest {
	emp, ok := t.employees[lr.EmployeeID]
	if !ok {
		return lr
	}
	name := emp.FullName()
	lr.EmployeeName = &name
	if emp.PositionID != nil {
		if pos, ok := t.positions[*emp.PositionID]; ok {
			posName := pos.Name
			lr.PositionName = &posName
		}
	}
	return lr
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var (
		lr leave.LeaveRequest
		ok bool
	)
	r.store.read(func(t *tables) {
		lr, ok = t.leaves[id]
		if ok {
			lr = withRequester(t, lr)
		}
	})
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	requests := make([]leave.LeaveRequest, 0)
	r.store.read(func(t *tables) {
		for _, lr := range t.leaves {
			if filter.Status != nil && lr.Status != *filter.Status {
				continue
			}
			if filter.EmployeeID != nil && lr.EmployeeID != *filter.EmployeeID {
				continue
			}
			requests = append(requests, withRequester(t, lr))
		}
	})
	slices.SortFunc(requests, func(x, y leave.LeaveRequest) int {
		return y.RequestedAt.Compare(x.RequestedAt)
	})
	return requests, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, processedAt time.Time) error {
	return r.store.write(ctx, func(t *tables) error {
		lr, ok := t.leaves[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		if lr.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		lr.Status = status
		lr.ProcessedAt = &processedAt
		t.leaves[id] = lr
		return nil
	})
}
