package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

const (
	JobMarkAbsent       = "mark_absent"
	JobDailyReport      = "daily_report"
	JobFifteenDayReport = "fifteen_day_report"
	JobMonthlyReport    = "monthly_report"
)

var (
	fifteenDayReportTime = attendance.NewTimeOfDay(0, 30, 0)
	monthlyReportTime    = attendance.NewTimeOfDay(1, 0, 0)
)

// JobTimes supplies the configurable daily trigger times.
type JobTimes interface {
	AbsentJobTime() attendance.TimeOfDay
	ReportJobTime() attendance.TimeOfDay
}

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
	times             JobTimes
}

func NewAttendanceJobs(
	attendanceService attendance.AttendanceService,
	reportService report.ReportService,
	times JobTimes,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		reportService:     reportService,
		times:             times,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name: JobMarkAbsent,
		At:   j.times.AbsentJobTime,
		Fn:   j.MarkAbsent,
	})
	scheduler.AddJob(Job{
		Name: JobDailyReport,
		At:   j.times.ReportJobTime,
		Fn:   j.GenerateDailyReport,
	})
	scheduler.AddJob(Job{
		Name: JobFifteenDayReport,
		At:   func() attendance.TimeOfDay { return fifteenDayReportTime },
		Days: func(now time.Time) bool { return now.Day() == 1 || now.Day() == 16 },
		Fn:   j.GenerateFifteenDayReport,
	})
	scheduler.AddJob(Job{
		Name: JobMonthlyReport,
		At:   func() attendance.TimeOfDay { return monthlyReportTime },
		Days: func(now time.Time) bool { return now.Day() == 1 },
		Fn:   j.GenerateMonthlyReport,
	})
}

// MarkAbsent sweeps absences for the calendar date of now.
func (j *AttendanceJobs) MarkAbsent(ctx context.Context, now time.Time) error {
	date := attendance.DateOf(now)
	marked, err := j.attendanceService.MarkAbsent(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees for %s: %w", date.Format(time.DateOnly), err)
	}
	slog.Info("Cron: absent employees marked", "date", date.Format(time.DateOnly), "count", marked)
	return nil
}

func (j *AttendanceJobs) GenerateDailyReport(ctx context.Context, now time.Time) error {
	date := attendance.DateOf(now)
	daily, err := j.reportService.GenerateDailyReport(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to generate daily report for %s: %w", date.Format(time.DateOnly), err)
	}
	slog.Info("Cron: daily report saved",
		"date", daily.Date,
		"present", daily.TotalPresent,
		"late", daily.TotalLate,
		"absent", daily.TotalAbsent,
	)
	return nil
}

// GenerateFifteenDayReport reports on the half-month that closed last.
func (j *AttendanceJobs) GenerateFifteenDayReport(ctx context.Context, now time.Time) error {
	return j.generatePeriod(ctx, report.PreviousFifteenDayPeriod(now))
}

// GenerateMonthlyReport reports on the previous calendar month.
func (j *AttendanceJobs) GenerateMonthlyReport(ctx context.Context, now time.Time) error {
	return j.generatePeriod(ctx, report.PreviousMonthPeriod(now))
}

func (j *AttendanceJobs) generatePeriod(ctx context.Context, period report.Period) error {
	result, err := j.reportService.GeneratePeriodReport(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to generate %s report: %w", period, err)
	}
	slog.Info("Cron: period report saved", "period", period.String(), "employees", len(result.Employees))
	return nil
}
