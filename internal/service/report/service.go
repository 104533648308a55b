package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
)

const (
	defaultDailyLimit      = 30
	defaultFifteenDayLimit = 10
	defaultMonthlyLimit    = 12
)

type ReportServiceImpl struct {
	transactor        database.Transactor
	reportRepo        report.ReportRepository
	attendanceRepo    attendance.AttendanceRepository
	employeeRepo      employee.EmployeeRepository
	attendanceService attendance.AttendanceService
	loc               *time.Location
	now               func() time.Time
}

func NewReportService(
	transactor database.Transactor,
	reportRepo report.ReportRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	loc *time.Location,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		transactor:        transactor,
		reportRepo:        reportRepo,
		attendanceRepo:    attendanceRepo,
		employeeRepo:      employeeRepo,
		attendanceService: attendanceService,
		loc:               loc,
		now:               now,
	}
}

// GenerateDailyReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateDailyReport(ctx context.Context, date time.Time) (report.DailyReportResponse, error) {
	date = attendance.DateOf(date)

	var daily report.DailyReport
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.attendanceService.MarkAbsent(ctx, date); err != nil {
			return err
		}

		counts, err := s.attendanceRepo.CountByStatus(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to count attendance: %w", err)
		}

		daily, err = s.reportRepo.UpsertDaily(ctx, report.DailyReport{
			Date:         date,
			TotalPresent: counts.Present,
			TotalLate:    counts.Late,
			TotalAbsent:  counts.Absent,
			GeneratedAt:  s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return report.DailyReportResponse{}, fmt.Errorf("%w for %s: %w", report.ErrReportGenerationFailed, date.Format(time.DateOnly), err)
	}

	slog.Info("Daily report generated",
		"date", date.Format(time.DateOnly),
		"present", daily.TotalPresent,
		"late", daily.TotalLate,
		"absent", daily.TotalAbsent,
	)
	return report.NewDailyReportResponse(daily), nil
}

// GetDailyReport implements report.ReportService.
func (s *ReportServiceImpl) GetDailyReport(ctx context.Context, date time.Time) (report.DailyReportResponse, error) {
	daily, err := s.reportRepo.GetDaily(ctx, attendance.DateOf(date))
	if err != nil {
		return report.DailyReportResponse{}, err
	}
	return report.NewDailyReportResponse(daily), nil
}

// ListDailyReports implements report.ReportService.
func (s *ReportServiceImpl) ListDailyReports(ctx context.Context, limit int) ([]report.DailyReportResponse, error) {
	if limit <= 0 {
		limit = defaultDailyLimit
	}

	reports, err := s.reportRepo.ListDaily(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily reports: %w", err)
	}

	responses := make([]report.DailyReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, report.NewDailyReportResponse(r))
	}
	return responses, nil
}

// GetDailyDetails implements report.ReportService. Employees without a record on
// date are listed as absent.
func (s *ReportServiceImpl) GetDailyDetails(ctx context.Context, date time.Time) (report.DailyDetailResponse, error) {
	date = attendance.DateOf(date)

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return report.DailyDetailResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := s.attendanceRepo.ListByDate(ctx, date, 0)
	if err != nil {
		return report.DailyDetailResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byEmployee := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		byEmployee[r.EmployeeID] = r
	}

	resp := report.DailyDetailResponse{
		Date:    date.Format(time.DateOnly),
		Present: make([]report.DailyDetailItem, 0),
		Late:    make([]report.DailyDetailItem, 0),
		Absent:  make([]report.DailyDetailItem, 0),
	}

	for _, emp := range employees {
		item := report.DailyDetailItem{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName(),
			PositionName: emp.PositionName,
		}

		r, ok := byEmployee[emp.ID]
		if !ok {
			resp.Absent = append(resp.Absent, item)
			continue
		}
		item.ClockIn = s.formatClock(r.ClockIn)
		item.ClockOut = s.formatClock(r.ClockOut)

		switch r.Status {
		case attendance.StatusPresent:
			resp.Present = append(resp.Present, item)
		case attendance.StatusLate:
			resp.Late = append(resp.Late, item)
		default:
			resp.Absent = append(resp.Absent, item)
		}
	}

	return resp, nil
}

func (s *ReportServiceImpl) formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.loc).Format(time.TimeOnly)
	return &formatted
}

// GeneratePeriodReport implements report.ReportService.
func (s *ReportServiceImpl) GeneratePeriodReport(ctx context.Context, period report.Period) (report.PeriodReportResponse, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		employeeIDs, err := s.employeeRepo.ListIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}

		records, err := s.attendanceRepo.ListInRange(ctx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}

		summary, performance := report.Aggregate(period, employeeIDs, records)

		generatedAt := s.now().UTC()
		summary.GeneratedAt = generatedAt
		for i := range performance {
			performance[i].GeneratedAt = generatedAt
		}

		if _, err := s.reportRepo.UpsertPeriodSummary(ctx, summary); err != nil {
			return err
		}
		return s.reportRepo.UpsertEmployeePerformance(ctx, performance)
	})
	if err != nil {
		return report.PeriodReportResponse{}, fmt.Errorf("%w for %s: %w", report.ErrReportGenerationFailed, period, err)
	}

	slog.Info("Period report generated", "period", period.String())
	return s.GetPeriodDetails(ctx, period)
}

// ListPeriodReports implements report.ReportService.
func (s *ReportServiceImpl) ListPeriodReports(ctx context.Context, kind report.PeriodKind, limit int) ([]report.PeriodSummaryResponse, error) {
	if limit <= 0 {
		limit = defaultFifteenDayLimit
		if kind == report.KindMonthly {
			limit = defaultMonthlyLimit
		}
	}

	summaries, err := s.reportRepo.ListPeriodSummaries(ctx, kind, limit)
	if err != nil {
		if errors.Is(err, report.ErrInvalidPeriodKind) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list %s reports: %w", kind, err)
	}

	responses := make([]report.PeriodSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, report.NewPeriodSummaryResponse(summary))
	}
	return responses, nil
}

// GetPeriodDetails implements report.ReportService.
func (s *ReportServiceImpl) GetPeriodDetails(ctx context.Context, period report.Period) (report.PeriodReportResponse, error) {
	summary, err := s.reportRepo.GetPeriodSummary(ctx, period)
	if err != nil {
		return report.PeriodReportResponse{}, err
	}

	performance, err := s.reportRepo.ListEmployeePerformance(ctx, period)
	if err != nil {
		return report.PeriodReportResponse{}, fmt.Errorf("failed to list employee performance: %w", err)
	}

	summaryResp := report.NewPeriodSummaryResponse(summary)
	resp := report.PeriodReportResponse{
		Summary:   &summaryResp,
		Employees: make([]report.EmployeePerformanceResponse, 0, len(performance)),
	}
	for _, p := range performance {
		resp.Employees = append(resp.Employees, report.NewEmployeePerformanceResponse(p))
	}
	return resp, nil
}

// GetEmployeePeriodDetail implements report.ReportService.
func (s *ReportServiceImpl) GetEmployeePeriodDetail(ctx context.Context, employeeID string, period report.Period) (report.EmployeePerformanceResponse, error) {
	p, err := s.reportRepo.GetEmployeePerformance(ctx, employeeID, period)
	if err != nil {
		return report.EmployeePerformanceResponse{}, err
	}
	return report.NewEmployeePerformanceResponse(p), nil
}

// ExportPeriodDetails implements report.ReportService.
func (s *ReportServiceImpl) ExportPeriodDetails(ctx context.Context, period report.Period) (*bytes.Buffer, error) {
	details, err := s.GetPeriodDetails(ctx, period)
	if err != nil {
		return nil, err
	}

	buf, err := export.PeriodReportXLSX(details)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", period, err)
	}
	return buf, nil
}
