package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// periodTables names the summary and performance tables of a period kind together
// with the conflict target of each.
type periodTables struct {
	summary             string
	summaryKey          string
	performance         string
	performanceKey      string
	storesCalendarMonth bool
}

func tablesFor(kind report.PeriodKind) (periodTables, error) {
	switch kind {
	case report.KindFifteenDay:
		return periodTables{
			summary:        "reports_15day",
			summaryKey:     "period_start, period_end",
			performance:    "employee_15day_performance",
			performanceKey: "employee_id, period_start, period_end",
		}, nil
	case report.KindMonthly:
		return periodTables{
			summary:             "reports_monthly",
			summaryKey:          "year, month",
			performance:         "employee_monthly_performance",
			performanceKey:      "employee_id, year, month",
			storesCalendarMonth: true,
		}, nil
	}
	return periodTables{}, report.ErrInvalidPeriodKind
}

func periodFromRow(kind report.PeriodKind, start time.Time) report.Period {
	if kind == report.KindMonthly {
		return report.MonthPeriod(start.Year(), start.Month())
	}
	return report.FifteenDayPeriodContaining(start)
}

// UpsertDaily implements report.ReportRepository.
func (r *reportRepositoryImpl) UpsertDaily(ctx context.Context, daily report.DailyReport) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reports (date, total_present, total_late, total_absent, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE SET
			total_present = EXCLUDED.total_present,
			total_late    = EXCLUDED.total_late,
			total_absent  = EXCLUDED.total_absent,
			generated_at  = EXCLUDED.generated_at
		RETURNING generated_at
	`

	err := q.QueryRow(ctx, query,
		daily.Date,
		daily.TotalPresent,
		daily.TotalLate,
		daily.TotalAbsent,
		daily.GeneratedAt,
	).Scan(&daily.GeneratedAt)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to upsert daily report for %s: %w", daily.Date.Format(time.DateOnly), err)
	}

	return daily, nil
}

// GetDaily implements report.ReportRepository.
func (r *reportRepositoryImpl) GetDaily(ctx context.Context, date time.Time) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, total_present, total_late, total_absent, generated_at
		FROM reports
		WHERE date = $1
	`

	var daily report.DailyReport
	err := q.QueryRow(ctx, query, date).Scan(
		&daily.Date,
		&daily.TotalPresent,
		&daily.TotalLate,
		&daily.TotalAbsent,
		&daily.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.DailyReport{}, report.ErrDailyReportNotFound
		}
		return report.DailyReport{}, fmt.Errorf("failed to get daily report: %w", err)
	}

	return daily, nil
}

// ListDaily implements report.ReportRepository.
func (r *reportRepositoryImpl) ListDaily(ctx context.Context, limit int) ([]report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, total_present, total_late, total_absent, generated_at
		FROM reports
		ORDER BY date DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily reports: %w", err)
	}
	defer rows.Close()

	reports := make([]report.DailyReport, 0)
	for rows.Next() {
		var daily report.DailyReport
		if err := rows.Scan(&daily.Date, &daily.TotalPresent, &daily.TotalLate, &daily.TotalAbsent, &daily.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan daily report: %w", err)
		}
		reports = append(reports, daily)
	}

	return reports, rows.Err()
}

// UpsertPeriodSummary implements report.ReportRepository.
func (r *reportRepositoryImpl) UpsertPeriodSummary(ctx context.Context, s report.PeriodSummary) (report.PeriodSummary, error) {
	q := GetQuerier(ctx, r.db)

	tables, err := tablesFor(s.Kind)
	if err != nil {
		return report.PeriodSummary{}, err
	}

	columns := "period_start, period_end, total_present, total_late, total_absent, total_work_days, " +
		"average_present_rate, average_late_rate, average_absent_rate, generated_at"
	placeholders := "$1, $2, $3, $4, $5, $6, $7, $8, $9, $10"
	args := []any{
		s.Start, s.End, s.TotalPresent, s.TotalLate, s.TotalAbsent, s.TotalWorkDays,
		s.AveragePresentRate, s.AverageLateRate, s.AverageAbsentRate, s.GeneratedAt,
	}
	if tables.storesCalendarMonth {
		columns += ", year, month"
		placeholders += ", $11, $12"
		args = append(args, s.Year, int(s.Month))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT (%s) DO UPDATE SET
			total_present        = EXCLUDED.total_present,
			total_late           = EXCLUDED.total_late,
			total_absent         = EXCLUDED.total_absent,
			total_work_days      = EXCLUDED.total_work_days,
			average_present_rate = EXCLUDED.average_present_rate,
			average_late_rate    = EXCLUDED.average_late_rate,
			average_absent_rate  = EXCLUDED.average_absent_rate,
			generated_at         = EXCLUDED.generated_at
		RETURNING generated_at
	`, tables.summary, columns, placeholders, tables.summaryKey)

	if err := q.QueryRow(ctx, query, args...).Scan(&s.GeneratedAt); err != nil {
		return report.PeriodSummary{}, fmt.Errorf("failed to upsert %s summary: %w", s.Period, err)
	}

	return s, nil
}

const periodSummaryColumns = `
	period_start, total_present, total_late, total_absent, total_work_days,
	average_present_rate, average_late_rate, average_absent_rate, generated_at
`

func scanPeriodSummary(row pgx.Row, kind report.PeriodKind) (report.PeriodSummary, error) {
	var s report.PeriodSummary
	var start time.Time
	err := row.Scan(
		&start,
		&s.TotalPresent,
		&s.TotalLate,
		&s.TotalAbsent,
		&s.TotalWorkDays,
		&s.AveragePresentRate,
		&s.AverageLateRate,
		&s.AverageAbsentRate,
		&s.GeneratedAt,
	)
	if err != nil {
		return report.PeriodSummary{}, err
	}
	s.Period = periodFromRow(kind, start)
	return s, nil
}

// GetPeriodSummary implements report.ReportRepository.
func (r *reportRepositoryImpl) GetPeriodSummary(ctx context.Context, period report.Period) (report.PeriodSummary, error) {
	q := GetQuerier(ctx, r.db)

	tables, err := tablesFor(period.Kind)
	if err != nil {
		return report.PeriodSummary{}, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE period_start = $1 AND period_end = $2
	`, periodSummaryColumns, tables.summary)

	s, err := scanPeriodSummary(q.QueryRow(ctx, query, period.Start, period.End), period.Kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.PeriodSummary{}, report.ErrPeriodReportNotFound
		}
		return report.PeriodSummary{}, fmt.Errorf("failed to get %s summary: %w", period, err)
	}

	return s, nil
}

// ListPeriodSummaries implements report.ReportRepository.
func (r *reportRepositoryImpl) ListPeriodSummaries(ctx context.Context, kind report.PeriodKind, limit int) ([]report.PeriodSummary, error) {
	q := GetQuerier(ctx, r.db)

	tables, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY period_start DESC
		LIMIT $1
	`, periodSummaryColumns, tables.summary)

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s summaries: %w", kind, err)
	}
	defer rows.Close()

	summaries := make([]report.PeriodSummary, 0)
	for rows.Next() {
		s, err := scanPeriodSummary(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s summary: %w", kind, err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// UpsertEmployeePerformance implements report.ReportRepository.
func (r *reportRepositoryImpl) UpsertEmployeePerformance(ctx context.Context, performance []report.EmployeePerformance) error {
	q := GetQuerier(ctx, r.db)

	for _, p := range performance {
		tables, err := tablesFor(p.Period.Kind)
		if err != nil {
			return err
		}

		columns := "employee_id, period_start, period_end, present_days, late_days, absent_days, " +
			"total_hours_worked, attendance_rate, generated_at"
		placeholders := "$1, $2, $3, $4, $5, $6, $7, $8, $9"
		args := []any{
			p.EmployeeID, p.Period.Start, p.Period.End, p.PresentDays, p.LateDays, p.AbsentDays,
			p.TotalHoursWorked, p.AttendanceRate, p.GeneratedAt,
		}
		if tables.storesCalendarMonth {
			columns += ", year, month"
			placeholders += ", $10, $11"
			args = append(args, p.Period.Year, int(p.Period.Month))
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (%s)
			VALUES (%s)
			ON CONFLICT (%s) DO UPDATE SET
				present_days       = EXCLUDED.present_days,
				late_days          = EXCLUDED.late_days,
				absent_days        = EXCLUDED.absent_days,
				total_hours_worked = EXCLUDED.total_hours_worked,
				attendance_rate    = EXCLUDED.attendance_rate,
				generated_at       = EXCLUDED.generated_at
		`, tables.performance, columns, placeholders, tables.performanceKey)

		if _, err := q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert performance of employee %s for %s: %w", p.EmployeeID, p.Period, err)
		}
	}

	return nil
}

const performanceColumns = `
	ep.employee_id, ep.present_days, ep.late_days, ep.absent_days,
	ep.total_hours_worked, ep.attendance_rate, ep.generated_at,
	` + employeeFullNameSQL + `, pos.name
`

func scanPerformance(row pgx.Row, period report.Period) (report.EmployeePerformance, error) {
	p := report.EmployeePerformance{Period: period}
	err := row.Scan(
		&p.EmployeeID,
		&p.PresentDays,
		&p.LateDays,
		&p.AbsentDays,
		&p.TotalHoursWorked,
		&p.AttendanceRate,
		&p.GeneratedAt,
		&p.EmployeeName,
		&p.PositionName,
	)
	return p, err
}

// ListEmployeePerformance implements report.ReportRepository.
func (r *reportRepositoryImpl) ListEmployeePerformance(ctx context.Context, period report.Period) ([]report.EmployeePerformance, error) {
	q := GetQuerier(ctx, r.db)

	tables, err := tablesFor(period.Kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s ep
		JOIN employees e ON e.id = ep.employee_id
		LEFT JOIN positions pos ON pos.id = e.position_id
		WHERE ep.period_start = $1 AND ep.period_end = $2
		ORDER BY ep.attendance_rate DESC, ep.total_hours_worked DESC, ep.employee_id
	`, performanceColumns, tables.performance)

	rows, err := q.Query(ctx, query, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee performance for %s: %w", period, err)
	}
	defer rows.Close()

	performance := make([]report.EmployeePerformance, 0)
	for rows.Next() {
		p, err := scanPerformance(rows, period)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee performance: %w", err)
		}
		performance = append(performance, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report.SortPerformance(performance)
	return performance, nil
}

// GetEmployeePerformance implements report.ReportRepository.
func (r *reportRepositoryImpl) GetEmployeePerformance(ctx context.Context, employeeID string, period report.Period) (report.EmployeePerformance, error) {
	q := GetQuerier(ctx, r.db)

	tables, err := tablesFor(period.Kind)
	if err != nil {
		return report.EmployeePerformance{}, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s ep
		JOIN employees e ON e.id = ep.employee_id
		LEFT JOIN positions pos ON pos.id = e.position_id
		WHERE ep.employee_id = $1 AND ep.period_start = $2 AND ep.period_end = $3
	`, performanceColumns, tables.performance)

	p, err := scanPerformance(q.QueryRow(ctx, query, employeeID, period.Start, period.End), period)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.EmployeePerformance{}, report.ErrPeriodReportNotFound
		}
		return report.EmployeePerformance{}, fmt.Errorf("failed to get employee performance: %w", err)
	}

	return p, nil
}
