package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")

	token, expiresAt, err := svc.GenerateAccessToken("u1", "hr@site.test", "c1", user.RoleHR)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), parsed, nil)
	caller, err := CallerFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Caller{UserID: "u1", Email: "hr@site.test", CompanyID: "c1", Role: user.RoleHR}, caller)
}

func TestJWTService_RefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")

	first, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	userID, err := svc.ParseRefreshToken(first)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	access, _, err := svc.GenerateAccessToken("u1", "a@b.cd", "c1", user.RoleForeman)
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.Error(t, err, "access token must not be accepted as refresh token")

	other := NewJWTService("other-secret", "1h", "24h")
	_, err = other.ParseRefreshToken(first)
	assert.Error(t, err)
}

func TestJWTService_Revocation(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h")
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}

func TestCallerFromContext_MissingToken(t *testing.T) {
	_, err := CallerFromContext(context.Background())
	assert.Error(t, err)
}

func TestContextWithCaller(t *testing.T) {
	want := Caller{UserID: "u2", Email: "f@site.test", CompanyID: "c9", Role: user.RoleForeman}
	got, err := CallerFromContext(ContextWithCaller(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
