package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/position"
)

type positionRepository struct {
	store *Store
}

func NewPositionRepository(store *Store) position.PositionRepository {
	return &positionRepository{store: store}
}

func positionNameTaken(t *tables, name, excludeID string) bool {
	for _, p := range t.positions {
		if p.ID != excludeID && p.Name == name {
			return true
		}
	}
	return false
}

func withEmployeeCount(t *tables, p position.Position) position.Position {
	p.EmployeeCount = 0
	for _, emp := range t.employees {
		if emp.PositionID != nil && *emp.PositionID == p.ID {
			p.EmployeeCount++
		}
	}
	return p
}

// Create implements position.PositionRepository.
func (r *positionRepository) Create(ctx context.Context, p position.Position) (position.Position, error) {
	id, err := newID()
	if err != nil {
		return position.Position{}, err
	}

	err = r.store.write(ctx, func(t *tables) error {
		if positionNameTaken(t, p.Name, "") {
			return position.ErrPositionNameExists
		}
		p.ID = id
		p.CreatedAt = r.store.now()
		p.EmployeeCount = 0
		t.positions[id] = p
		return nil
	})
	if err != nil {
		return position.Position{}, err
	}
	return p, nil
}

// GetByID implements position.PositionRepository.
func (r *positionRepository) GetByID(ctx context.Context, id string) (position.Position, error) {
	var (
		found position.Position
		ok    bool
	)
	r.store.read(func(t *tables) {
		found, ok = t.positions[id]
		found = withEmployeeCount(t, found)
	})
	if !ok {
		return position.Position{}, position.ErrPositionNotFound
	}
	return found, nil
}

// List implements position.PositionRepository.
func (r *positionRepository) List(ctx context.Context) ([]position.Position, error) {
	positions := make([]position.Position, 0)
	r.store.read(func(t *tables) {
		for _, p := range t.positions {
			positions = append(positions, withEmployeeCount(t, p))
		}
	})
	slices.SortFunc(positions, func(x, y position.Position) int {
		return strings.Compare(x.Name, y.Name)
	})
	return positions, nil
}

// Update implements position.PositionRepository.
func (r *positionRepository) Update(ctx context.Context, p position.Position) error {
	return r.store.write(ctx, func(t *tables) error {
		current, ok := t.positions[p.ID]
		if !ok {
			return position.ErrPositionNotFound
		}
		if positionNameTaken(t, p.Name, p.ID) {
			return position.ErrPositionNameExists
		}
		current.Name = p.Name
		current.LateThreshold = p.LateThreshold
		current.GracePeriodMinutes = p.GracePeriodMinutes
		t.positions[p.ID] = current
		return nil
	})
}

// Delete implements position.PositionRepository.
func (r *positionRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(t *tables) error {
		p, ok := t.positions[id]
		if !ok {
			return position.ErrPositionNotFound
		}
		if withEmployeeCount(t, p).EmployeeCount > 0 {
			return position.ErrPositionInUse
		}
		delete(t.positions, id)
		return nil
	})
}

// SeedDefaults implements position.PositionRepository.
func (r *positionRepository) SeedDefaults(ctx context.Context, defaults []position.Position) error {
	return r.store.write(ctx, func(t *tables) error {
		for _, p := range defaults {
			if positionNameTaken(t, p.Name, "") {
				continue
			}
			id, err := newID()
			if err != nil {
				return err
			}
			p.ID = id
			p.CreatedAt = r.store.now()
			t.positions[id] = p
		}
		return nil
	})
}
