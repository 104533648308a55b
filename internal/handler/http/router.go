package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger             *slog.Logger
	AllowedOrigins     []string
	RateLimitPerMinute int
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	positionHandler PositionHandler,
	employeeHandler EmployeeHandler,
	leaveHandler LeaveHandler,
	settingsHandler SettingsHandler,
	schedulerHandler SchedulerHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	if opts.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimitPerMinute, 1*time.Minute))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", authHandler.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", authHandler.Logout)

			// Employee only
			r.Group(func(r chi.Router) {
				r.Use(middleware.EmployeeOnly)
				r.Post("/attendance/clock-in", attendanceHandler.ClockIn)
				r.Post("/attendance/clock-out", attendanceHandler.ClockOut)
				r.Get("/attendance/me", attendanceHandler.GetMyAttendance)
				r.Post("/leave-requests", leaveHandler.CreateRequest)
				r.Get("/leave-requests/me", leaveHandler.GetMyRequests)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				// Shares its prefix with the employee routes, so no sub-router.
				r.Get("/attendance", attendanceHandler.ListByDate)
				r.Get("/attendance/stats/today", attendanceHandler.GetTodayStats)
				r.Post("/attendance/absences", attendanceHandler.MarkAbsent)
				r.Get("/leave-requests", leaveHandler.ListRequests)
				r.Post("/leave-requests/{id}/approve", leaveHandler.ApproveRequest)
				r.Post("/leave-requests/{id}/reject", leaveHandler.RejectRequest)

				r.Route("/reports", func(r chi.Router) {
					r.Route("/daily", func(r chi.Router) {
						r.Get("/", reportHandler.ListDailyReports)
						r.Post("/", reportHandler.GenerateDailyReport)
						r.Get("/{date}", reportHandler.GetDailyReport)
						r.Get("/{date}/details", reportHandler.GetDailyDetails)
					})
					r.Route("/periods/{kind}", func(r chi.Router) {
						r.Get("/", reportHandler.ListPeriodReports)
						r.Post("/", reportHandler.GeneratePeriodReport)
						r.Get("/details", reportHandler.GetPeriodDetails)
						r.Get("/export", reportHandler.ExportPeriodDetails)
						r.Get("/employees/{id}", reportHandler.GetEmployeePeriodDetail)
					})
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", settingsHandler.GetSettings)
					r.Put("/", settingsHandler.UpdateSettings)
				})

				r.Route("/scheduler", func(r chi.Router) {
					r.Get("/", schedulerHandler.GetStatus)
					r.Post("/jobs/{name}/run", schedulerHandler.RunJob)
				})

				r.Route("/positions", func(r chi.Router) {
					r.Get("/", positionHandler.ListPositions)
					r.Post("/", positionHandler.CreatePosition)
					r.Get("/{id}", positionHandler.GetPosition)
					r.Put("/{id}", positionHandler.UpdatePosition)
					r.Delete("/{id}", positionHandler.DeletePosition)
					r.Get("/{id}/employees", employeeHandler.ListPositionEmployees)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", employeeHandler.ListEmployees)
					r.Post("/", employeeHandler.CreateEmployee)
					r.Get("/{id}", employeeHandler.GetEmployee)
					r.Put("/{id}", employeeHandler.UpdateEmployee)
					r.Delete("/{id}", employeeHandler.DeleteEmployee)
				})
			})
		})
	})
	return r
}
