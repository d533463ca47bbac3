package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge-dev/taskforge/internal/types"
)

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Minute, time.Hour)
	assert.Error(t, err)

	m, err := NewManager("secret", time.Minute, time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestAccessTokenRoundtrip(t *testing.T) {
	m, err := NewManager("secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateAccessToken(42, types.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, types.RoleManager, role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m, err := NewManager("secret", -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateAccessToken(42, types.RoleDeveloper)
	require.NoError(t, err)

	_, _, err = m.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewManager("secret-a", time.Minute, time.Hour)
	require.NoError(t, err)
	verifier, err := NewManager("secret-b", time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken(42, types.RoleAdmin)
	require.NoError(t, err)

	_, _, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m, err := NewManager("secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, _, err = m.VerifyAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestNewRefreshTokenUnique(t *testing.T) {
	m, err := NewManager("secret", time.Minute, 24*time.Hour)
	require.NoError(t, err)

	a, expiryA := m.NewRefreshToken()
	b, _ := m.NewRefreshToken()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiryA, time.Minute)
}
