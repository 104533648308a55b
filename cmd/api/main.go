package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/app"
	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:             logger,
			AllowedOrigins:     cfg.App.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.App.RateLimitPerMinute,
			MetricsHandler:     promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry}),
		},
		a.JWT,
		appHTTP.NewAuthHandler(a.AuthService),
		appHTTP.NewAttendanceHandler(a.AttendanceService, a.Location),
		appHTTP.NewReportHandler(a.ReportService),
		appHTTP.NewPositionHandler(a.PositionService),
		appHTTP.NewEmployeeHandler(a.EmployeeService),
		appHTTP.NewLeaveHandler(a.LeaveService),
		appHTTP.NewSettingsHandler(a.Runtime),
		appHTTP.NewSchedulerHandler(a.Scheduler),
	)

	if cfg.Scheduler.Enabled {
		a.Scheduler.Start()
	} else {
		slog.Warn("Cron scheduler disabled, jobs run only on manual trigger")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "timezone", a.Location.String(), "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-errCh:
		slog.Error("Server error", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		exitCode = 1
	}

	// Waits for a job that is still running.
	a.Scheduler.Stop()

	if exitCode != 0 {
		a.Close()
		os.Exit(exitCode)
	}
}
