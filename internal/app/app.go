// Package app wires configuration, storage, services and the scheduler for
// the API server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/master"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type repositories struct {
	transactor database.Transactor
	attendance attendance.AttendanceRepository
	employee   employee.EmployeeRepository
	position   position.PositionRepository
	report     report.ReportRepository
	leave      leave.LeaveRequestRepository
	admin      auth.AdminRepository
	close      func()
}

type App struct {
	Config   *config.Config
	Location *time.Location
	Runtime  *config.Runtime
	JWT      jwt.Service
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	AuthService       auth.AuthService
	AttendanceService attendance.AttendanceService
	ReportService     report.ReportService
	PositionService   position.PositionService
	EmployeeService   employee.EmployeeService
	LeaveService      leave.LeaveService

	// Scheduler has every job registered but is not started.
	Scheduler *cron.Scheduler

	close func()
}

// NewLogger builds the process logger: JSON lines with ECS field names.
func NewLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &repositories{
			transactor: memory.NewTransactor(store),
			attendance: memory.NewAttendanceRepository(store),
			employee:   memory.NewEmployeeRepository(store),
			position:   memory.NewPositionRepository(store),
			report:     memory.NewReportRepository(store),
			leave:      memory.NewLeaveRequestRepository(store),
			admin:      memory.NewAdminRepository(store),
			close:      func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return &repositories{
			transactor: postgresql.NewTransactor(db),
			attendance: postgresql.NewAttendanceRepository(db),
			employee:   postgresql.NewEmployeeRepository(db),
			position:   postgresql.NewPositionRepository(db),
			report:     postgresql.NewReportRepository(db),
			leave:      postgresql.NewLeaveRequestRepository(db),
			admin:      postgresql.NewAdminRepository(db),
			close:      db.Close,
		}, nil
	}
}

// New opens the configured store, seeds default positions and the default
// admin, and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := repos.position.SeedDefaults(ctx, position.Defaults); err != nil {
		repos.close()
		return nil, fmt.Errorf("failed to seed positions: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	runtime := config.NewRuntimeFromConfig(cfg)
	clock := func() time.Time { return time.Now().In(loc) }
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	a := &App{
		Config:   cfg,
		Location: loc,
		Runtime:  runtime,
		JWT:      jwtService,
		Registry: registry,
		Metrics:  m,
		close:    repos.close,
	}

	a.AuthService = authService.NewAuthService(repos.admin, repos.employee, jwtService)
	a.AttendanceService = attendanceService.NewAttendanceService(
		repos.transactor,
		repos.attendance,
		repos.employee,
		runtime,
		loc,
		attendanceService.WithRecorder(m),
	)
	a.ReportService = reportService.NewReportService(
		repos.transactor,
		repos.report,
		repos.attendance,
		repos.employee,
		a.AttendanceService,
		loc,
		clock,
	)
	a.PositionService = master.NewPositionService(repos.position)
	a.EmployeeService = employeeService.NewEmployeeService(repos.transactor, repos.employee, repos.position)
	a.LeaveService = leaveService.NewLeaveService(repos.leave, repos.employee, clock)

	if cfg.Admin.Password != "" {
		if err := a.AuthService.EnsureDefaultAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			repos.close()
			return nil, fmt.Errorf("failed to ensure default admin: %w", err)
		}
	} else {
		slog.Warn("DEFAULT_ADMIN_PASSWORD is empty, skipping default admin")
	}

	a.Scheduler = cron.NewScheduler(cfg.Scheduler.PollInterval, cron.WithClock(clock), cron.WithObserver(m))
	cron.NewAttendanceJobs(a.AttendanceService, a.ReportService, runtime).RegisterJobs(a.Scheduler)

	return a, nil
}

// Close releases the store.
func (a *App) Close() {
	a.close()
}
