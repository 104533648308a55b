package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_EmployeeClaims(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", auth.RoleEmployee)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, false, claims["is_admin"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessToken_AdminClaims(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, _, err := svc.GenerateAccessToken("admin-1", auth.RoleAdmin)
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, true, claims["is_admin"])
	assert.NotContains(t, claims, "employee_id")
	assert.Equal(t, "admin-1", decoded.Subject())
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")
	_, _, err := svc.GenerateAccessToken("emp-1", auth.RoleEmployee)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h").(*JWTService)
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.RevokeToken("stale", now.Add(-time.Minute).Unix())
	assert.True(t, svc.IsTokenRevoked("stale"))

	svc.RevokeToken("fresh", now.Add(time.Hour).Unix())
	assert.True(t, svc.IsTokenRevoked("fresh"))
	assert.False(t, svc.IsTokenRevoked("stale"), "expired entries are pruned on the next revoke")
	assert.False(t, svc.IsTokenRevoked("other"))
}
