package position

import "context"

type PositionRepository interface {
	Create(ctx context.Context, position Position) (Position, error)
	GetByID(ctx context.Context, id string) (Position, error)
	// List returns every position ordered by name, with employee counts.
	List(ctx context.Context) ([]Position, error)
	Update(ctx context.Context, position Position) error
	// Delete fails with ErrPositionInUse while an employee references the position.
	Delete(ctx context.Context, id string) error
	// SeedDefaults inserts the positions whose names are missing.
	SeedDefaults(ctx context.Context, defaults []Position) error
}
