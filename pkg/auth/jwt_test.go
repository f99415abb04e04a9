package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 2*time.Hour)

	token, err := m.GenerateToken("emp-1", "Priya Nair", "priya@example.com", "employee")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.UserID)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, "Priya Nair", claims.Name)
}

func TestRefreshToken_NotAcceptedAsAccess(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 2*time.Hour)

	refresh, err := m.GenerateRefreshToken("emp-1")
	require.NoError(t, err)

	_, err = m.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.UserID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour, time.Hour).GenerateToken("u", "", "", "admin")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour, time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)
	token, err := m.GenerateToken("u", "", "", "admin")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("emp123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("emp123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
