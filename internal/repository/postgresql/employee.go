package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// employeeFullNameSQL renders employee.ConcatName for the alias e.
const employeeFullNameSQL = `CONCAT_WS(' ', e.first_name, NULLIF(e.middle_initial, '') || '.', e.last_name)`

const employeeColumns = `
	e.id, e.first_name, e.middle_initial, e.last_name, e.email, e.phone_number,
	e.username, e.password_hash, e.date_hired, e.position_id, e.created_at, p.name
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.MiddleInitial, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.Username, &emp.PasswordHash, &emp.DateHired, &emp.PositionID, &emp.CreatedAt, &emp.PositionName,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}
	newEmployee.ID = id.String()

	query := `
		INSERT INTO employees (
			id, first_name, middle_initial, last_name, email, phone_number,
			username, password_hash, date_hired, position_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.FirstName,
		newEmployee.MiddleInitial,
		newEmployee.LastName,
		newEmployee.Email,
		newEmployee.Phone,
		newEmployee.Username,
		newEmployee.PasswordHash,
		newEmployee.DateHired,
		newEmployee.PositionID,
	).Scan(&newEmployee.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.Employee{}, employee.ErrDuplicateCredentials
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "e.id = $1", id)
}

// GetByUsername implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	return e.getOne(ctx, "e.username = $1", username)
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE ` + where

	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.PositionID != nil {
		conditions = append(conditions, fmt.Sprintf("e.position_id = $%d", argIdx))
		args = append(args, *filter.PositionID)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.username ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.last_name, e.first_name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET email = $1, phone_number = $2, username = $3, password_hash = $4, position_id = $5
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query, emp.Email, emp.Phone, emp.Username, emp.PasswordHash, emp.PositionID, emp.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.ErrDuplicateCredentials
		}
		return fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// CredentialsTaken implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CredentialsTaken(ctx context.Context, username, email, phone, excludeID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM employees
			WHERE (username = NULLIF($1, '') OR email = NULLIF($2, '') OR phone_number = NULLIF($3, ''))
			  AND ($4 = '' OR id::text <> $4)
		)
	`

	var taken bool
	if err := q.QueryRow(ctx, query, username, email, phone, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check employee credentials: %w", err)
	}
	return taken, nil
}

// Count implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Count(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// ListIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT id::text FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return ids, nil
}

// GetPositionPolicy implements attendance.PolicyReader.
func (e *employeeRepositoryImpl) GetPositionPolicy(ctx context.Context, employeeID string) (*attendance.PositionPolicy, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT p.late_threshold, p.grace_period_minutes
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE e.id = $1
	`

	var threshold pgtype.Time
	var grace *int
	err := q.QueryRow(ctx, query, employeeID).Scan(&threshold, &grace)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get position policy: %w", err)
	}

	if !threshold.Valid || grace == nil {
		return nil, nil
	}

	return &attendance.PositionPolicy{
		LateThreshold:      timeOfDayFromPg(threshold),
		GracePeriodMinutes: *grace,
	}, nil
}

func timeOfDayFromPg(t pgtype.Time) attendance.TimeOfDay {
	return attendance.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

func timeOfDayToPg(t attendance.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(time.Duration(t) / time.Microsecond), Valid: true}
}
