package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

// Create implements position.PositionRepository.
func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return position.Position{}, fmt.Errorf("failed to generate position id: %w", err)
	}
	p.ID = id.String()

	query := `
		INSERT INTO positions (id, name, late_threshold, grace_period_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query, p.ID, p.Name, timeOfDayToPg(p.LateThreshold), p.GracePeriodMinutes).
		Scan(&p.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return position.Position{}, position.ErrPositionNameExists
		}
		return position.Position{}, fmt.Errorf("failed to create position: %w", err)
	}

	return p, nil
}

const positionSelect = `
	SELECT p.id, p.name, p.late_threshold, p.grace_period_minutes, p.created_at,
	       (SELECT COUNT(*) FROM employees e WHERE e.position_id = p.id)
	FROM positions p
`

func scanPosition(row pgx.Row) (position.Position, error) {
	var p position.Position
	var threshold pgtype.Time
	err := row.Scan(&p.ID, &p.Name, &threshold, &p.GracePeriodMinutes, &p.CreatedAt, &p.EmployeeCount)
	if err != nil {
		return position.Position{}, err
	}
	p.LateThreshold = timeOfDayFromPg(threshold)
	return p, nil
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id string) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanPosition(q.QueryRow(ctx, positionSelect+" WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return position.Position{}, position.ErrPositionNotFound
		}
		return position.Position{}, fmt.Errorf("failed to get position: %w", err)
	}

	return result, nil
}

// List implements position.PositionRepository.
func (r *positionRepositoryImpl) List(ctx context.Context) ([]position.Position, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, positionSelect+" ORDER BY p.name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	positions := make([]position.Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// Update implements position.PositionRepository.
func (r *positionRepositoryImpl) Update(ctx context.Context, p position.Position) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE positions
		SET name = $1, late_threshold = $2, grace_period_minutes = $3
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, p.Name, timeOfDayToPg(p.LateThreshold), p.GracePeriodMinutes, p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return position.ErrPositionNameExists
		}
		return fmt.Errorf("failed to update position with id %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}

	return nil
}

// Delete implements position.PositionRepository.
func (r *positionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return position.ErrPositionInUse
		}
		return fmt.Errorf("failed to delete position with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}

	return nil
}

// SeedDefaults implements position.PositionRepository.
func (r *positionRepositoryImpl) SeedDefaults(ctx context.Context, defaults []position.Position) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO positions (id, name, late_threshold, grace_period_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`

	for _, p := range defaults {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate position id: %w", err)
		}
		if _, err := q.Exec(ctx, query, id.String(), p.Name, timeOfDayToPg(p.LateThreshold), p.GracePeriodMinutes); err != nil {
			return fmt.Errorf("failed to seed position %s: %w", p.Name, err)
		}
	}

	return nil
}
