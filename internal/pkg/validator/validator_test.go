package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), id)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-03-15")
	assert.True(t, ok)
	assert.Equal(t, 15, d.Day())

	for _, s := range []string{"2024-3-15", "15-03-2024", "2024-02-30", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"081234567890", "+6281234567890", "0812-3456-7890", "555 123 4567"}
	invalid := []string{"12345", "phone12345678", "+12345678901234567", ""}
	for _, p := range valid {
		assert.True(t, IsValidPhoneNumber(p), p)
	}
	for _, p := range invalid {
		assert.False(t, IsValidPhoneNumber(p), p)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("jdoe"))
	assert.True(t, IsValidUsername("john.doe_01"))
	assert.False(t, IsValidUsername("jd"))
	assert.False(t, IsValidUsername("john doe"))
}

func TestIsValidTimeOfDay(t *testing.T) {
	for _, s := range []string{"00:00", "08:15", "17:00", "23:59"} {
		assert.True(t, IsValidTimeOfDay(s), s)
	}
	for _, s := range []string{"24:00", "8:15", "12:60", "12:00:00", ""} {
		assert.False(t, IsValidTimeOfDay(s), s)
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date is required"},
		{Field: "limit", Message: "limit must not be negative"},
	}

	assert.Equal(t, "date: date is required; limit: limit must not be negative", errs.Error())
	assert.Equal(t, map[string]string{
		"date":  "date is required",
		"limit": "limit must not be negative",
	}, errs.ToMap())
}
