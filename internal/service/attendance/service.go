package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

const (
	actionClockIn  = "clock_in"
	actionClockOut = "clock_out"

	clockTimeLayout = "03:04 PM"
)

// Recorder receives clock outcomes and sweep sizes for metrics.
type Recorder interface {
	ClockEvent(action, result string)
	AbsencesMarked(n int)
}

type nopRecorder struct{}

func (nopRecorder) ClockEvent(string, string) {}
func (nopRecorder) AbsencesMarked(int)        {}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(s *AttendanceServiceImpl) { s.recorder = r }
}

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	settings attendance.SettingsProvider
	loc      *time.Location
	now      func() time.Time
	recorder Recorder
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, employeeID string) (attendance.ClockResponse, error) {
	now := a.now().In(a.loc)

	resp, err := a.clockIn(ctx, employeeID, now)
	a.recorder.ClockEvent(actionClockIn, clockResult(resp.Status, err))
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	slog.Info("Employee clocked in", "employee_id", employeeID, "status", *resp.Status)
	return resp, nil
}

func (a *AttendanceServiceImpl) clockIn(ctx context.Context, employeeID string, now time.Time) (attendance.ClockResponse, error) {
	today := attendance.DateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.ClockResponse{}, attendance.ErrAlreadyClockedIn
	}

	policy, err := a.EmployeeRepository.GetPositionPolicy(ctx, employeeID)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to get position policy: %w", err)
	}
	if policy == nil {
		policy = &attendance.DefaultPositionPolicy
	}

	settings := a.settings.AttendanceSettings()
	status := attendance.ComputeStatus(now, *policy, settings.AbsenceCutoff)

	_, err = a.AttendanceRepository.Create(ctx, attendance.Record{
		EmployeeID: employeeID,
		Date:       today,
		ClockIn:    &now,
		Status:     status,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.ClockResponse{}, err
		}
		return attendance.ClockResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	message := fmt.Sprintf("Clocked in as %s", status)
	if status == attendance.StatusAbsent {
		cutoff := settings.AbsenceCutoff.On(today, a.loc).Format(clockTimeLayout)
		message = fmt.Sprintf("Clocked in after cutoff time (%s). Marked as Absent.", cutoff)
	}

	return attendance.ClockResponse{
		Success: true,
		Message: message,
		Status:  &status,
		Time:    now.Format(clockTimeLayout),
	}, nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, employeeID string) (attendance.ClockResponse, error) {
	now := a.now().In(a.loc)

	resp, err := a.clockOut(ctx, employeeID, now)
	a.recorder.ClockEvent(actionClockOut, clockResult(resp.Status, err))
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	slog.Info("Employee clocked out", "employee_id", employeeID)
	return resp, nil
}

func (a *AttendanceServiceImpl) clockOut(ctx context.Context, employeeID string, now time.Time) (attendance.ClockResponse, error) {
	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, attendance.DateOf(now))
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	switch {
	case record == nil:
		return attendance.ClockResponse{}, attendance.ErrNoClockInRecord
	case record.IsClosed():
		return attendance.ClockResponse{}, attendance.ErrAlreadyClockedOut
	case record.IsPlaceholder():
		return attendance.ClockResponse{}, attendance.ErrAbsentNoClockIn
	}

	required := a.settings.AttendanceSettings().MinWorkDuration()
	if worked := now.Sub(*record.ClockIn); worked < required {
		return attendance.ClockResponse{}, &attendance.MinimumHoursNotMetError{
			Required:  required,
			Remaining: required - worked,
		}
	}

	if err := a.AttendanceRepository.SetClockOut(ctx, record.ID, now); err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedOut) {
			return attendance.ClockResponse{}, err
		}
		return attendance.ClockResponse{}, fmt.Errorf("failed to set clock out: %w", err)
	}

	status := record.Status
	return attendance.ClockResponse{
		Success: true,
		Message: "Clocked out successfully",
		Status:  &status,
		Time:    now.Format(clockTimeLayout),
	}, nil
}

// clockResult labels a clock attempt for metrics.
func clockResult(status *attendance.Status, err error) string {
	switch {
	case err == nil && status != nil:
		return strings.ToLower(string(*status))
	case isRejection(err):
		return "rejected"
	}
	return "error"
}

func isRejection(err error) bool {
	for _, target := range []error{
		attendance.ErrAlreadyClockedIn,
		attendance.ErrNoClockInRecord,
		attendance.ErrAlreadyClockedOut,
		attendance.ErrAbsentNoClockIn,
		attendance.ErrMinimumHoursNotMet,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	var marked int
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		marked, err = a.AttendanceRepository.MarkAbsent(ctx, attendance.DateOf(date))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark absent employees for %s: %w", date.Format(time.DateOnly), err)
	}

	a.recorder.AbsencesMarked(marked)
	slog.Info("Absent employees marked", "date", date.Format(time.DateOnly), "marked", marked)
	return marked, nil
}

// ListByDate implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListByDate(ctx context.Context, req attendance.ListByDateRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByDate(ctx, req.ParsedDate, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return a.toResponses(records), nil
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, filter.EmployeeID, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance history: %w", err)
	}

	return a.toResponses(records), nil
}

// GetTodayStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStats(ctx context.Context) (attendance.TodayStats, error) {
	today := attendance.DateOf(a.now().In(a.loc))

	total, err := a.EmployeeRepository.Count(ctx)
	if err != nil {
		return attendance.TodayStats{}, fmt.Errorf("failed to count employees: %w", err)
	}

	counts, err := a.AttendanceRepository.CountByStatus(ctx, today)
	if err != nil {
		return attendance.TodayStats{}, fmt.Errorf("failed to count today's attendance: %w", err)
	}

	return attendance.NewTodayStats(today, total, counts), nil
}

func (a *AttendanceServiceImpl) toResponses(records []attendance.Record) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r, a.loc))
	}
	return responses
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settings attendance.SettingsProvider,
	loc *time.Location,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		transactor:           transactor,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		settings:             settings,
		loc:                  loc,
		now:                  time.Now,
		recorder:             nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
