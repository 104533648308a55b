package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (leave.LeaveService, employee.Employee) {
	t.Helper()

	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)

	emp, err := employees.Create(t.Context(), employee.Employee{
		FirstName:    "Jane",
		LastName:     "Smith",
		Username:     "jsmith",
		PasswordHash: "x",
		DateHired:    time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	processedAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	svc := NewLeaveService(memory.NewLeaveRequestRepository(store), employees, func() time.Time { return processedAt })
	return svc, emp
}

func TestLeaveService_SubmitAndApprove(t *testing.T) {
	svc, emp := newService(t)

	reason := "  family event  "
	submitted, err := svc.Submit(t.Context(), leave.CreateLeaveRequestRequest{
		EmployeeID: emp.ID,
		LeaveType:  "Annual",
		StartDate:  "2024-03-11",
		EndDate:    "2024-03-13",
		Reason:     &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, submitted.Status)
	assert.Equal(t, 3, submitted.Days)
	require.NotNil(t, submitted.Reason)
	assert.Equal(t, "family event", *submitted.Reason)
	require.NotNil(t, submitted.EmployeeName)
	assert.Equal(t, "Jane Smith", *submitted.EmployeeName)

	approved, err := svc.Approve(t.Context(), submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)
	assert.Equal(t, "2024-03-05T09:00:00Z", *approved.ProcessedAt)

	_, err = svc.Reject(t.Context(), submitted.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = svc.Reject(t.Context(), "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_SubmitValidation(t *testing.T) {
	svc, emp := newService(t)

	_, err := svc.Submit(t.Context(), leave.CreateLeaveRequestRequest{
		EmployeeID: emp.ID,
		LeaveType:  "Sick",
		StartDate:  "2024-03-13",
		EndDate:    "2024-03-11",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "end_date", verrs[0].Field)

	_, err = svc.Submit(t.Context(), leave.CreateLeaveRequestRequest{
		EmployeeID: "missing",
		LeaveType:  "Sick",
		StartDate:  "2024-03-11",
		EndDate:    "2024-03-11",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestLeaveService_ListFilters(t *testing.T) {
	svc, emp := newService(t)

	first, err := svc.Submit(t.Context(), leave.CreateLeaveRequestRequest{EmployeeID: emp.ID, LeaveType: "Annual", StartDate: "2024-04-01", EndDate: "2024-04-02"})
	require.NoError(t, err)
	_, err = svc.Submit(t.Context(), leave.CreateLeaveRequestRequest{EmployeeID: emp.ID, LeaveType: "Sick", StartDate: "2024-04-08", EndDate: "2024-04-08"})
	require.NoError(t, err)

	_, err = svc.Reject(t.Context(), first.ID)
	require.NoError(t, err)

	pending := leave.LeaveRequestStatusPending
	list, err := svc.List(t.Context(), leave.LeaveRequestFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sick", list[0].LeaveType)

	all, err := svc.List(t.Context(), leave.LeaveRequestFilter{EmployeeID: &emp.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bogus := leave.LeaveRequestStatus("Cancelled")
	_, err = svc.List(t.Context(), leave.LeaveRequestFilter{Status: &bogus})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
