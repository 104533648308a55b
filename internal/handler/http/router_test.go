package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/master"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
	adminUsername        = "admin"
	adminPassword        = "admin-password"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	router *chi.Mux
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{now: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return ts.now }

	store := memory.NewStore()
	transactor := memory.NewTransactor(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	positionRepo := memory.NewPositionRepository(store)
	reportRepo := memory.NewReportRepository(store)
	leaveRepo := memory.NewLeaveRequestRepository(store)
	adminRepo := memory.NewAdminRepository(store)

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	runtime := config.NewRuntime(config.RuntimeSettings{
		AbsenceCutoff: attendance.DefaultSettings.AbsenceCutoff,
		MinWorkHours:  attendance.DefaultSettings.MinWorkHours,
		AbsentJobTime: attendance.NewTimeOfDay(17, 0, 0),
		ReportJobTime: attendance.NewTimeOfDay(23, 59, 0),
	})

	authSvc := authService.NewAuthService(adminRepo, employeeRepo, jwtService)
	require.NoError(t, authSvc.EnsureDefaultAdmin(t.Context(), adminUsername, adminPassword))
	require.NoError(t, positionRepo.SeedDefaults(t.Context(), position.Defaults))

	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, employeeRepo, runtime, time.UTC, attendanceService.WithClock(clock))
	reportSvc := reportService.NewReportService(transactor, reportRepo, attendanceRepo, employeeRepo, attendanceSvc, time.UTC, clock)

	scheduler := cron.NewScheduler(time.Minute, cron.WithClock(clock))
	cron.NewAttendanceJobs(attendanceSvc, reportSvc, runtime).RegisterJobs(scheduler)

	ts.router = NewRouter(
		RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}},
		jwtService,
		NewAuthHandler(authSvc),
		NewAttendanceHandler(attendanceSvc, time.UTC),
		NewReportHandler(reportSvc),
		NewPositionHandler(master.NewPositionService(positionRepo)),
		NewEmployeeHandler(employeeService.NewEmployeeService(transactor, employeeRepo, positionRepo)),
		NewLeaveHandler(leaveService.NewLeaveService(leaveRepo, employeeRepo, clock)),
		NewSettingsHandler(runtime),
		NewSchedulerHandler(scheduler),
	)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (ts *testServer) login(t *testing.T, username, password string, role auth.Role) string {
	t.Helper()

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": username,
		"password": password,
		"role":     role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

// hireStaff creates an employee with the Staff position through the API and
// returns their access token.
func (ts *testServer) hireStaff(t *testing.T, adminToken, username string) string {
	t.Helper()

	rec, env := ts.do(t, http.MethodGet, "/api/v1/positions", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var positions []position.PositionResponse
	require.NoError(t, json.Unmarshal(env.Data, &positions))

	var staffID string
	for _, p := range positions {
		if p.Name == "Staff" {
			staffID = p.ID
		}
	}
	require.NotEmpty(t, staffID)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/employees", adminToken, map[string]any{
		"first_name":  "John",
		"last_name":   "Doe",
		"username":    username,
		"password":    "password123",
		"date_hired":  "2024-01-02",
		"position_id": staffID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return ts.login(t, username, "password123", auth.RoleEmployee)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": adminUsername,
		"password": "wrong",
		"role":     auth.RoleAdmin,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec, env = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"role": "owner"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "username")
	assert.Contains(t, env.Error.Details, "role")
}

func TestAuthorization(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)
	employeeToken := ts.hireStaff(t, adminToken, "jdoe")

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/settings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/settings", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Admin access required", env.Error.Message)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/attendance/clock-in", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/employees/not-an-id", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/logout", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/settings", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Token has been revoked", env.Error.Message)
}

func TestClockFlow(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)
	employeeToken := ts.hireStaff(t, adminToken, "jdoe")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/attendance/clock-in", employeeToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Clocked in as Present", env.Message)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/attendance/clock-in", employeeToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = ts.do(t, http.MethodPost, "/api/v1/attendance/clock-out", employeeToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "must work at least 8 hours. Time remaining: 8h 0m", env.Error.Message)

	ts.now = ts.now.Add(8 * time.Hour)
	rec, env = ts.do(t, http.MethodPost, "/api/v1/attendance/clock-out", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Clocked out successfully", env.Message)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/attendance/me", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, attendance.StatusPresent, history[0].Status)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/attendance?date=2024-03-04", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byDate []attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &byDate))
	assert.Len(t, byDate, 1)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/attendance?date=04-03-2024", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestReportsAndScheduler(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)
	ts.hireStaff(t, adminToken, "jdoe")

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/reports/daily/2024-03-04", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/scheduler/jobs/unknown/run", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/scheduler/jobs/"+cron.JobDailyReport+"/run", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := ts.do(t, http.MethodGet, "/api/v1/reports/daily/2024-03-04", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var daily struct {
		TotalAbsent int `json:"total_absent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &daily))
	assert.Equal(t, 1, daily.TotalAbsent)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/scheduler", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status cron.Status
	require.NoError(t, json.Unmarshal(env.Data, &status))
	for _, job := range status.Jobs {
		assert.Nil(t, job.LastFired, "manual runs do not mark %s as fired", job.Name)
	}

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/reports/periods/15day", adminToken, map[string]any{"date": "2024-03-04"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/reports/periods/15day/export?start=2024-03-01", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-15day-2024-03-01-2024-03-15.xlsx")

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/reports/periods/weekly", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)

	rec, env := ts.do(t, http.MethodPut, "/api/v1/settings", adminToken, map[string]any{"absence_cutoff": "25:00"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "absence_cutoff")

	rec, env = ts.do(t, http.MethodPut, "/api/v1/settings", adminToken, map[string]any{"min_work_hours": 6})
	require.Equal(t, http.StatusOK, rec.Code)
	var settings config.SettingsResponse
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, 6, settings.MinWorkHours)
	assert.Equal(t, "17:00", settings.AbsenceCutoff)
}

func TestLeaveRequests(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, adminUsername, adminPassword, auth.RoleAdmin)
	employeeToken := ts.hireStaff(t, adminToken, "jdoe")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/leave-requests", employeeToken, map[string]any{
		"leave_type": "Annual",
		"start_date": "2024-03-11",
		"end_date":   "2024-03-12",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/leave-requests/"+submitted.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/leave-requests/"+submitted.ID+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/leave-requests/me?status=Approved", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)
}
