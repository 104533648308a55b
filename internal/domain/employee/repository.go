package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUsername(ctx context.Context, username string) (Employee, error)
	// List returns employees with their position name, ordered by name.
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Update(ctx context.Context, employee Employee) error
	// Delete removes the employee together with their attendance and leave rows.
	Delete(ctx context.Context, id string) error

	// CredentialsTaken reports whether another employee than excludeID already
	// uses username, email or phone. Empty values are not compared.
	CredentialsTaken(ctx context.Context, username, email, phone, excludeID string) (bool, error)

	Count(ctx context.Context) (int, error)
	ListIDs(ctx context.Context) ([]string, error)

	attendance.PolicyReader
}
