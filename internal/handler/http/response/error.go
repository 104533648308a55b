package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Minimum work hours carries the remaining time in its message
	var minHoursErr *attendance.MinimumHoursNotMetError
	if errors.As(err, &minHoursErr) {
		BadRequest(w, minHoursErr.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, auth.ErrEmployeeAccessRequired):
		Forbidden(w, "Employee access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out")
	case errors.Is(err, attendance.ErrNoClockInRecord):
		BadRequest(w, "No clock-in record found today", nil)
	case errors.Is(err, attendance.ErrAbsentNoClockIn):
		BadRequest(w, "Cannot clock out - marked as absent (no clock-in)", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDuplicateCredentials):
		Conflict(w, "Username, email or phone number already in use")

	// Position domain errors
	case errors.Is(err, position.ErrPositionNotFound):
		NotFound(w, "Position not found")
	case errors.Is(err, position.ErrPositionNameExists):
		Conflict(w, "Position name already exists")
	case errors.Is(err, position.ErrPositionInUse):
		Conflict(w, "Position is assigned to employees and cannot be deleted")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Report domain errors
	case errors.Is(err, report.ErrDailyReportNotFound):
		NotFound(w, "Daily report not found")
	case errors.Is(err, report.ErrPeriodReportNotFound):
		NotFound(w, "Period report not found")
	case errors.Is(err, report.ErrInvalidPeriodKind):
		BadRequest(w, "Period kind must be 15day or monthly", nil)

	// Scheduler
	case errors.Is(err, cron.ErrJobNotFound):
		NotFound(w, "Scheduler job not found")
	case errors.Is(err, cron.ErrSchedulerStopped):
		Conflict(w, "Scheduler is stopped")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
