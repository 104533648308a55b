package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.clock_in, a.clock_out, a.status, a.created_at`

func scanAttendance(row pgx.Row, extra ...any) (attendance.Record, error) {
	var r attendance.Record
	dest := append([]any{&r.ID, &r.EmployeeID, &r.Date, &r.ClockIn, &r.ClockOut, &r.Status, &r.CreatedAt}, extra...)
	err := row.Scan(dest...)
	return r, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	record.ID = id.String()

	query := `
		INSERT INTO attendance (id, employee_id, date, clock_in, clock_out, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		attendance.DateOf(record.Date),
		record.ClockIn,
		record.ClockOut,
		record.Status,
	).Scan(&record.CreatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.employee_id = $1 AND a.date = $2
	`

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, attendance.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &record, nil
}

// SetClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetClockOut(ctx context.Context, id string, clockOut time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance
		SET clock_out = $1
		WHERE id = $2 AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query, clockOut, id)
	if err != nil {
		return fmt.Errorf("failed to set clock out: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check attendance: %w", err)
		}
		if !exists {
			return attendance.ErrAttendanceNotFound
		}
		return attendance.ErrAlreadyClockedOut
	}

	return nil
}

// MarkAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	// Bulk insert, so ids come from the server.
	query := `
		INSERT INTO attendance (id, employee_id, date, status)
		SELECT gen_random_uuid(), e.id, $1, $2
		FROM employees e
		WHERE NOT EXISTS (
			SELECT 1 FROM attendance a
			WHERE a.employee_id = e.id AND a.date = $1
		)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, attendance.DateOf(date), attendance.StatusAbsent)
	if err != nil {
		return 0, fmt.Errorf("failed to mark absent employees: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, date time.Time) (attendance.StatusCounts, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Present'),
			COUNT(*) FILTER (WHERE status = 'Late'),
			COUNT(*) FILTER (WHERE status = 'Absent')
		FROM attendance
		WHERE date = $1
	`

	var counts attendance.StatusCounts
	err := q.QueryRow(ctx, query, attendance.DateOf(date)).Scan(&counts.Present, &counts.Late, &counts.Absent)
	if err != nil {
		return attendance.StatusCounts{}, fmt.Errorf("failed to count attendance by status: %w", err)
	}

	return counts, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time, limit int) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			` + employeeFullNameSQL + `,
			p.name, e.email, e.phone_number
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE a.date = $1
		ORDER BY a.clock_in DESC NULLS LAST, e.last_name, e.first_name
	`
	args := []any{attendance.DateOf(date)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return a.queryWithEmployee(ctx, q, query, args...)
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			` + employeeFullNameSQL + `,
			p.name, e.email, e.phone_number
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE a.employee_id = $1
		ORDER BY a.date DESC
	`
	args := []any{employeeID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return a.queryWithEmployee(ctx, q, query, args...)
}

// ListInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date, a.employee_id
	`

	rows, err := q.Query(ctx, query, attendance.DateOf(start), attendance.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance in range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

func (a *attendanceRepository) queryWithEmployee(ctx context.Context, q database.Querier, query string, args ...any) ([]attendance.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		var name string
		var position, email, phone *string
		r, err := scanAttendance(rows, &name, &position, &email, &phone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		r.EmployeeName = &name
		r.PositionName = position
		r.Email = email
		r.Phone = phone
		records = append(records, r)
	}

	return records, rows.Err()
}
