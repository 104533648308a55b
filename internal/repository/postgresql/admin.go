package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type adminRepositoryImpl struct {
	db *database.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *database.DB) auth.AdminRepository {
	return &adminRepositoryImpl{db: db}
}

// Create implements auth.AdminRepository.
func (a *adminRepositoryImpl) Create(ctx context.Context, admin auth.Admin) (auth.Admin, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return auth.Admin{}, fmt.Errorf("failed to generate admin id: %w", err)
	}
	admin.ID = id.String()

	query := `
		INSERT INTO admins (id, first_name, middle_initial, last_name, email, username, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = q.Exec(ctx, query,
		admin.ID,
		admin.FirstName,
		admin.MiddleInitial,
		admin.LastName,
		admin.Email,
		admin.Username,
		admin.PasswordHash,
	)
	if err != nil {
		return auth.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// GetByUsername implements auth.AdminRepository.
func (a *adminRepositoryImpl) GetByUsername(ctx context.Context, username string) (auth.Admin, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, first_name, middle_initial, last_name, email, username, password_hash
		FROM admins
		WHERE username = $1
	`

	var admin auth.Admin
	err := q.QueryRow(ctx, query, username).Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.MiddleInitial,
		&admin.LastName,
		&admin.Email,
		&admin.Username,
		&admin.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Admin{}, auth.ErrAdminNotFound
		}
		return auth.Admin{}, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}

// Count implements auth.AdminRepository.
func (a *adminRepositoryImpl) Count(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, a.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
