package leave

import "time"

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "Pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "Approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "Rejected"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

// LeaveRequest starts Pending and moves once to Approved or Rejected.
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveType   string
	StartDate   time.Time
	EndDate     time.Time
	Reason      *string
	Status      LeaveRequestStatus
	RequestedAt time.Time
	ProcessedAt *time.Time

	// DTO
	EmployeeName *string
	PositionName *string
}

// Days is the inclusive length of the leave.
func (r LeaveRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
