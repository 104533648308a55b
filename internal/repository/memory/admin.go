package memory

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type adminRepository struct {
	store *Store
}

func NewAdminRepository(store *Store) auth.AdminRepository {
	return &adminRepository{store: store}
}

// Create implements auth.AdminRepository.
func (a *adminRepository) Create(ctx context.Context, admin auth.Admin) (auth.Admin, error) {
	id, err := newID()
	if err != nil {
		return auth.Admin{}, err
	}

	err = a.store.write(ctx, func(t *tables) error {
		for _, existing := range t.admins {
			if existing.Username == admin.Username {
				return fmt.Errorf("admin %s already exists", admin.Username)
			}
		}
		admin.ID = id
		t.admins[id] = admin
		return nil
	})
	if err != nil {
		return auth.Admin{}, err
	}
	return admin, nil
}

// GetByUsername implements auth.AdminRepository.
func (a *adminRepository) GetByUsername(ctx context.Context, username string) (auth.Admin, error) {
	var (
		found auth.Admin
		ok    bool
	)
	a.store.read(func(t *tables) {
		for _, admin := range t.admins {
			if admin.Username == username {
				found, ok = admin, true
				return
			}
		}
	})
	if !ok {
		return auth.Admin{}, auth.ErrAdminNotFound
	}
	return found, nil
}

// Count implements auth.AdminRepository.
func (a *adminRepository) Count(ctx context.Context) (int, error) {
	var count int
	a.store.read(func(t *tables) {
		count = len(t.admins)
	})
	return count, nil
}
