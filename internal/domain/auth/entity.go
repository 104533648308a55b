package auth

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

type Admin struct {
	ID            string
	FirstName     string
	MiddleInitial *string
	LastName      string
	Email         *string
	Username      string
	PasswordHash  string
}

func (a Admin) FullName() string {
	return employee.ConcatName(a.FirstName, a.MiddleInitial, a.LastName)
}
