package attendance

import (
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings struct {
	settings attendance.Settings
}

func (s *staticSettings) AttendanceSettings() attendance.Settings { return s.settings }

type recorder struct {
	mu     sync.Mutex
	events map[string]int
	marked int
}

func (r *recorder) ClockEvent(action, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = make(map[string]int)
	}
	r.events[action+"/"+result]++
}

func (r *recorder) AbsencesMarked(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked += n
}

type fixture struct {
	service   attendance.AttendanceService
	records   attendance.AttendanceRepository
	employees employee.EmployeeRepository
	positions position.PositionRepository
	settings  *staticSettings
	recorder  *recorder
	now       time.Time
}

func (f *fixture) at(hour, minute, second int) {
	f.now = time.Date(2024, 3, 4, hour, minute, second, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		records:   memory.NewAttendanceRepository(store),
		employees: memory.NewEmployeeRepository(store),
		positions: memory.NewPositionRepository(store),
		settings:  &staticSettings{settings: attendance.DefaultSettings},
		recorder:  &recorder{},
	}
	f.at(8, 0, 0)

	require.NoError(t, f.positions.SeedDefaults(t.Context(), position.Defaults))

	f.service = NewAttendanceService(
		memory.NewTransactor(store),
		f.records,
		f.employees,
		f.settings,
		time.UTC,
		WithClock(func() time.Time { return f.now }),
		WithRecorder(f.recorder),
	)
	return f
}

func (f *fixture) hire(t *testing.T, username string, positionName string) employee.Employee {
	t.Helper()

	emp := employee.Employee{
		FirstName: "Test",
		LastName:  username,
		Username:  username,
		DateHired: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if positionName != "" {
		positions, err := f.positions.List(t.Context())
		require.NoError(t, err)
		for _, p := range positions {
			if p.Name == positionName {
				emp.PositionID = &p.ID
			}
		}
		require.NotNil(t, emp.PositionID, "unknown position %s", positionName)
	}

	created, err := f.employees.Create(t.Context(), emp)
	require.NoError(t, err)
	return created
}

func TestClockIn_StatusScenario(t *testing.T) {
	tests := []struct {
		name    string
		hour    int
		minute  int
		want    attendance.Status
		message string
	}{
		{name: "within grace", hour: 8, minute: 14, want: attendance.StatusPresent, message: "Clocked in as Present"},
		{name: "after grace", hour: 8, minute: 16, want: attendance.StatusLate, message: "Clocked in as Late"},
		{name: "after cutoff", hour: 18, minute: 0, want: attendance.StatusAbsent, message: "Clocked in after cutoff time (05:00 PM). Marked as Absent."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			emp := f.hire(t, "alice", "")
			f.at(tt.hour, tt.minute, 0)

			resp, err := f.service.ClockIn(t.Context(), emp.ID)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Status)
			assert.Equal(t, tt.want, *resp.Status)
			assert.Equal(t, tt.message, resp.Message)

			record, err := f.records.GetByEmployeeAndDate(t.Context(), emp.ID, f.now)
			require.NoError(t, err)
			require.NotNil(t, record)
			require.NotNil(t, record.ClockIn, "clock-in is recorded even when Absent")
			assert.True(t, record.ClockIn.Equal(f.now))
		})
	}
}

func TestClockIn_AfterCutoffThenSweepKeepsOneRecord(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "alice", "")
	f.at(18, 0, 0)

	_, err := f.service.ClockIn(t.Context(), emp.ID)
	require.NoError(t, err)

	marked, err := f.service.MarkAbsent(t.Context(), f.now)
	require.NoError(t, err)
	assert.Zero(t, marked)

	listed, err := f.records.ListByDate(t.Context(), f.now, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, attendance.StatusAbsent, listed[0].Status)
	assert.NotNil(t, listed[0].ClockIn)
}

func TestClockIn_Twice(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "alice", "")
	f.at(8, 0, 0)

	_, err := f.service.ClockIn(t.Context(), emp.ID)
	require.NoError(t, err)

	f.at(9, 0, 0)
	_, err = f.service.ClockIn(t.Context(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	assert.Equal(t, 1, f.recorder.events["clock_in/present"])
	assert.Equal(t, 1, f.recorder.events["clock_in/rejected"])
}

func TestClockIn_UsesPositionPolicy(t *testing.T) {
	f := newFixture(t)
	guard := f.hire(t, "guard", "Security Guard")
	staff := f.hire(t, "staff", "")
	f.at(6, 20, 0)

	resp, err := f.service.ClockIn(t.Context(), guard.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, *resp.Status)

	policy, err := f.employees.GetPositionPolicy(t.Context(), staff.ID)
	require.NoError(t, err)
	assert.Nil(t, policy, "employees without a position fall back to the default policy")

	resp, err = f.service.ClockIn(t.Context(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, *resp.Status)
}

func TestClockOut_Lifecycle(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "alice", "")
	f.at(8, 0, 0)

	_, err := f.service.ClockOut(t.Context(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrNoClockInRecord)

	_, err = f.service.ClockIn(t.Context(), emp.ID)
	require.NoError(t, err)

	f.at(13, 30, 0)
	_, err = f.service.ClockOut(t.Context(), emp.ID)
	require.ErrorIs(t, err, attendance.ErrMinimumHoursNotMet)
	assert.Equal(t, "must work at least 8 hours. Time remaining: 2h 30m", err.Error())

	f.at(16, 0, 0)
	resp, err := f.service.ClockOut(t.Context(), emp.ID)
	require.NoError(t, err, "exactly eight hours is enough")
	assert.Equal(t, "Clocked out successfully", resp.Message)
	assert.Equal(t, "04:00 PM", resp.Time)

	f.at(17, 0, 0)
	_, err = f.service.ClockOut(t.Context(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)

	record, err := f.records.GetByEmployeeAndDate(t.Context(), emp.ID, f.now)
	require.NoError(t, err)
	require.NotNil(t, record.ClockOut)
	assert.Equal(t, 8*time.Hour, record.Worked())
}

func TestClockOut_Placeholder(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "alice", "")
	f.at(17, 0, 0)

	marked, err := f.service.MarkAbsent(t.Context(), f.now)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
	assert.Equal(t, 1, f.recorder.marked)

	_, err = f.service.ClockOut(t.Context(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAbsentNoClockIn)

	_, err = f.service.ClockIn(t.Context(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockOut_RuntimeMinimumHours(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "alice", "")
	f.at(8, 0, 0)

	_, err := f.service.ClockIn(t.Context(), emp.ID)
	require.NoError(t, err)

	f.settings.settings.MinWorkHours = 4
	f.at(12, 0, 0)
	_, err = f.service.ClockOut(t.Context(), emp.ID)
	require.NoError(t, err)
}

func TestMarkAbsent_Idempotent(t *testing.T) {
	f := newFixture(t)
	alice := f.hire(t, "alice", "")
	f.hire(t, "bob", "")
	f.hire(t, "carol", "")
	f.at(8, 5, 0)

	_, err := f.service.ClockIn(t.Context(), alice.ID)
	require.NoError(t, err)

	date := attendance.DateOf(f.now)
	first, err := f.service.MarkAbsent(t.Context(), date)
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	before, err := f.records.ListByDate(t.Context(), date, 0)
	require.NoError(t, err)

	second, err := f.service.MarkAbsent(t.Context(), date)
	require.NoError(t, err)
	assert.Zero(t, second)

	after, err := f.records.ListByDate(t.Context(), date, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGetTodayStats(t *testing.T) {
	f := newFixture(t)
	alice := f.hire(t, "alice", "")
	bob := f.hire(t, "bob", "")
	f.hire(t, "carol", "")

	f.at(8, 0, 0)
	_, err := f.service.ClockIn(t.Context(), alice.ID)
	require.NoError(t, err)
	f.at(9, 0, 0)
	_, err = f.service.ClockIn(t.Context(), bob.ID)
	require.NoError(t, err)

	stats, err := f.service.GetTodayStats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, attendance.TodayStats{Date: "2024-03-04", Total: 3, Present: 2, Late: 1, Absent: 1}, stats)
}

func TestGetHistory(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "alice", "")

	for day := 4; day <= 6; day++ {
		f.now = time.Date(2024, 3, day, 8, 0, 0, 0, time.UTC)
		_, err := f.service.ClockIn(t.Context(), emp.ID)
		require.NoError(t, err)
	}

	history, err := f.service.GetHistory(t.Context(), attendance.HistoryFilter{EmployeeID: emp.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-06", history[0].Date)
	assert.Equal(t, "2024-03-05", history[1].Date)
	require.NotNil(t, history[0].EmployeeName)
	assert.Equal(t, "Test alice", *history[0].EmployeeName)
}
