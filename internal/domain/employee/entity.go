package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID            string
	FirstName     string
	MiddleInitial *string
	LastName      string
	Email         *string
	Phone         *string
	Username      string
	PasswordHash  string
	DateHired     time.Time
	PositionID    *string
	CreatedAt     time.Time

	// DTO
	PositionName *string
}

// FullName joins the name parts as "First M. Last".
func (e Employee) FullName() string {
	return ConcatName(e.FirstName, e.MiddleInitial, e.LastName)
}

func ConcatName(first string, middle *string, last string) string {
	parts := []string{first}
	if middle != nil && strings.TrimSpace(*middle) != "" {
		parts = append(parts, strings.TrimSuffix(strings.TrimSpace(*middle), ".")+".")
	}
	parts = append(parts, last)
	return strings.Join(parts, " ")
}
