package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

type reportRepository struct {
	store *Store
}

func NewReportRepository(store *Store) report.ReportRepository {
	return &reportRepository{store: store}
}

func keyOf(p report.Period) periodKey {
	return periodKey{kind: p.Kind, start: p.Start, end: p.End}
}

// UpsertDaily implements report.ReportRepository.
func (r *reportRepository) UpsertDaily(ctx context.Context, daily report.DailyReport) (report.DailyReport, error) {
	daily.Date = attendance.DateOf(daily.Date)
	err := r.store.write(ctx, func(t *tables) error {
		t.daily[daily.Date] = daily
		return nil
	})
	return daily, err
}

// GetDaily implements report.ReportRepository.
func (r *reportRepository) GetDaily(ctx context.Context, date time.Time) (report.DailyReport, error) {
	var (
		daily report.DailyReport
		ok    bool
	)
	r.store.read(func(t *tables) {
		daily, ok = t.daily[attendance.DateOf(date)]
	})
	if !ok {
		return report.DailyReport{}, report.ErrDailyReportNotFound
	}
	return daily, nil
}

// ListDaily implements report.ReportRepository.
func (r *reportRepository) ListDaily(ctx context.Context, limit int) ([]report.DailyReport, error) {
	reports := make([]report.DailyReport, 0)
	r.store.read(func(t *tables) {
		for _, daily := range t.daily {
			reports = append(reports, daily)
		}
	})
	slices.SortFunc(reports, func(x, y report.DailyReport) int {
		return y.Date.Compare(x.Date)
	})
	return truncate(reports, limit), nil
}

// UpsertPeriodSummary implements report.ReportRepository.
func (r *reportRepository) UpsertPeriodSummary(ctx context.Context, s report.PeriodSummary) (report.PeriodSummary, error) {
	if s.Kind != report.KindFifteenDay && s.Kind != report.KindMonthly {
		return report.PeriodSummary{}, report.ErrInvalidPeriodKind
	}
	err := r.store.write(ctx, func(t *tables) error {
		t.summaries[keyOf(s.Period)] = s
		return nil
	})
	return s, err
}

// GetPeriodSummary implements report.ReportRepository.
func (r *reportRepository) GetPeriodSummary(ctx context.Context, period report.Period) (report.PeriodSummary, error) {
	var (
		s  report.PeriodSummary
		ok bool
	)
	r.store.read(func(t *tables) {
		s, ok = t.summaries[keyOf(period)]
	})
	if !ok {
		return report.PeriodSummary{}, report.ErrPeriodReportNotFound
	}
	return s, nil
}

// ListPeriodSummaries implements report.ReportRepository.
func (r *reportRepository) ListPeriodSummaries(ctx context.Context, kind report.PeriodKind, limit int) ([]report.PeriodSummary, error) {
	summaries := make([]report.PeriodSummary, 0)
	r.store.read(func(t *tables) {
		for key, s := range t.summaries {
			if key.kind == kind {
				summaries = append(summaries, s)
			}
		}
	})
	slices.SortFunc(summaries, func(x, y report.PeriodSummary) int {
		return y.Start.Compare(x.Start)
	})
	return truncate(summaries, limit), nil
}

// UpsertEmployeePerformance implements report.ReportRepository.
func (r *reportRepository) UpsertEmployeePerformance(ctx context.Context, rows []report.EmployeePerformance) error {
	return r.store.write(ctx, func(t *tables) error {
		for _, p := range rows {
			if p.Period.Kind != report.KindFifteenDay && p.Period.Kind != report.KindMonthly {
				return report.ErrInvalidPeriodKind
			}
			p.EmployeeName = nil
			p.PositionName = nil
			t.performance[performanceKey{employeeID: p.EmployeeID, period: keyOf(p.Period)}] = p
		}
		return nil
	})
}

func withEmployeeDetails(t *tables, p report.EmployeePerformance) report.EmployeePerformance {
	emp, ok := t.employees[p.EmployeeID]
	if !ok {
		return p
	}
	name := emp.FullName()
	p.EmployeeName = &name
	if emp.PositionID != nil {
		if pos, ok := t.positions[*emp.PositionID]; ok {
			posName := pos.Name
			p.PositionName = &posName
		}
	}
	return p
}

// ListEmployeePerformance implements report.ReportRepository.
func (r *reportRepository) ListEmployeePerformance(ctx context.Context, period report.Period) ([]report.EmployeePerformance, error) {
	key := keyOf(period)
	rows := make([]report.EmployeePerformance, 0)
	r.store.read(func(t *tables) {
		for k, p := range t.performance {
			if k.period == key {
				rows = append(rows, withEmployeeDetails(t, p))
			}
		}
	})
	report.SortPerformance(rows)
	return rows, nil
}

// GetEmployeePerformance implements report.ReportRepository.
func (r *reportRepository) GetEmployeePerformance(ctx context.Context, employeeID string, period report.Period) (report.EmployeePerformance, error) {
	var (
		p  report.EmployeePerformance
		ok bool
	)
	r.store.read(func(t *tables) {
		p, ok = t.performance[performanceKey{employeeID: employeeID, period: keyOf(period)}]
		if ok {
			p = withEmployeeDetails(t, p)
		}
	})
	if !ok {
		return report.EmployeePerformance{}, report.ErrPeriodReportNotFound
	}
	return p, nil
}
