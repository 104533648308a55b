package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func usernameTaken(t *tables, username, excludeID string) bool {
	for _, e := range t.employees {
		if e.ID != excludeID && e.Username == username {
			return true
		}
	}
	return false
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	id, err := newID()
	if err != nil {
		return employee.Employee{}, err
	}

	err = e.store.write(ctx, func(t *tables) error {
		if usernameTaken(t, emp.Username, "") {
			return employee.ErrDuplicateCredentials
		}
		emp.ID = id
		emp.CreatedAt = e.store.now()
		emp.PositionName = nil
		t.employees[id] = emp
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func withPosition(t *tables, emp employee.Employee) employee.Employee {
	emp.PositionName = nil
	if emp.PositionID != nil {
		if pos, ok := t.positions[*emp.PositionID]; ok {
			name := pos.Name
			emp.PositionName = &name
		}
	}
	return emp
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var (
		found employee.Employee
		ok    bool
	)
	e.store.read(func(t *tables) {
		found, ok = t.employees[id]
		found = withPosition(t, found)
	})
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return found, nil
}

// GetByUsername implements employee.EmployeeRepository.
func (e *employeeRepository) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	var (
		found employee.Employee
		ok    bool
	)
	e.store.read(func(t *tables) {
		for _, emp := range t.employees {
			if emp.Username == username {
				found, ok = withPosition(t, emp), true
				return
			}
		}
	})
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return found, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	employees := make([]employee.Employee, 0)
	e.store.read(func(t *tables) {
		for _, emp := range t.employees {
			if filter.PositionID != nil && (emp.PositionID == nil || *emp.PositionID != *filter.PositionID) {
				continue
			}
			if filter.Search != nil && *filter.Search != "" && !matchesSearch(emp, *filter.Search) {
				continue
			}
			employees = append(employees, withPosition(t, emp))
		}
	})

	slices.SortFunc(employees, func(x, y employee.Employee) int {
		if c := strings.Compare(x.LastName, y.LastName); c != 0 {
			return c
		}
		return strings.Compare(x.FirstName, y.FirstName)
	})
	return employees, nil
}

func matchesSearch(emp employee.Employee, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{emp.FirstName, emp.LastName, emp.Username} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	return e.store.write(ctx, func(t *tables) error {
		current, ok := t.employees[emp.ID]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		if usernameTaken(t, emp.Username, emp.ID) {
			return employee.ErrDuplicateCredentials
		}
		current.Email = emp.Email
		current.Phone = emp.Phone
		current.Username = emp.Username
		current.PasswordHash = emp.PasswordHash
		current.PositionID = emp.PositionID
		t.employees[emp.ID] = current
		return nil
	})
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepository) Delete(ctx context.Context, id string) error {
	return e.store.write(ctx, func(t *tables) error {
		if _, ok := t.employees[id]; !ok {
			return employee.ErrEmployeeNotFound
		}
		delete(t.employees, id)

		for key := range t.attendance {
			if key.employeeID == id {
				delete(t.attendance, key)
			}
		}
		for key := range t.performance {
			if key.employeeID == id {
				delete(t.performance, key)
			}
		}
		for leaveID, lr := range t.leaves {
			if lr.EmployeeID == id {
				delete(t.leaves, leaveID)
			}
		}
		return nil
	})
}

// CredentialsTaken implements employee.EmployeeRepository.
func (e *employeeRepository) CredentialsTaken(ctx context.Context, username, email, phone, excludeID string) (bool, error) {
	taken := false
	e.store.read(func(t *tables) {
		for _, emp := range t.employees {
			if emp.ID == excludeID {
				continue
			}
			if (username != "" && emp.Username == username) ||
				(email != "" && emp.Email != nil && *emp.Email == email) ||
				(phone != "" && emp.Phone != nil && *emp.Phone == phone) {
				taken = true
				return
			}
		}
	})
	return taken, nil
}

// Count implements employee.EmployeeRepository.
func (e *employeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	e.store.read(func(t *tables) {
		count = len(t.employees)
	})
	return count, nil
}

// ListIDs implements employee.EmployeeRepository.
func (e *employeeRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	e.store.read(func(t *tables) {
		for id := range t.employees {
			ids = append(ids, id)
		}
	})
	slices.Sort(ids)
	return ids, nil
}

// GetPositionPolicy implements attendance.PolicyReader.
func (e *employeeRepository) GetPositionPolicy(ctx context.Context, employeeID string) (*attendance.PositionPolicy, error) {
	var (
		policy *attendance.PositionPolicy
		found  bool
	)
	e.store.read(func(t *tables) {
		emp, ok := t.employees[employeeID]
		if !ok {
			return
		}
		found = true
		if emp.PositionID == nil {
			return
		}
		if pos, ok := t.positions[*emp.PositionID]; ok {
			p := pos.Policy()
			policy = &p
		}
	})
	if !found {
		return nil, employee.ErrEmployeeNotFound
	}
	return policy, nil
}
