package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestSession_LoginLogout(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return now })

	_, ok := s.Token()
	assert.False(t, ok)

	tok := signed(t, jwt.MapClaims{"email": "vet@clinic.com", "role": "admin", "exp": now.Add(time.Hour).Unix()})
	require.NoError(t, s.Login(tok))

	got, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, tok, got)

	claims, ok := s.Claims()
	require.True(t, ok)
	assert.Equal(t, "vet@clinic.com", claims.Email)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	s.Logout()
	assert.False(t, s.Authenticated())
	_, ok = s.Claims()
	assert.False(t, ok)
}

func TestSession_ExpiredTokenIsAbsent(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return now })

	require.NoError(t, s.Login(signed(t, jwt.MapClaims{"email": "a@b.c", "role": "employee", "exp": now.Add(-time.Minute).Unix()})))
	assert.False(t, s.Authenticated())
}

func TestSession_OpaqueTokenStillUsable(t *testing.T) {
	s := New()
	require.NoError(t, s.Login("opaque-token"))

	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "opaque-token", tok)

	_, ok = s.Claims()
	assert.False(t, ok)
}

func TestSession_RejectsEmptyToken(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Login("  "), ErrEmptyToken)
	assert.False(t, s.Authenticated())
}
