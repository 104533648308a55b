package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatName(t *testing.T) {
	m := "R"
	dotted := "R."
	blank := " "

	assert.Equal(t, "John R. Doe", ConcatName("John", &m, "Doe"))
	assert.Equal(t, "John R. Doe", ConcatName("John", &dotted, "Doe"))
	assert.Equal(t, "John Doe", ConcatName("John", &blank, "Doe"))
	assert.Equal(t, "John Doe", ConcatName("John", nil, "Doe"))
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	email := "john@example.com"
	req := CreateEmployeeRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     &email,
		Username:  "jdoe",
		Password:  "secret123",
		DateHired: "2023-01-09",
	}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 2023, req.ParsedDateHired.Year())

	bad := "not-an-email"
	req.Email = &bad
	req.Password = "short"
	req.DateHired = "09/01/2023"
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")
	assert.Contains(t, err.Error(), "date_hired")
}
