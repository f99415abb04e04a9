package service_test

import (
	"context"
	"testing"
	"time"

	"docportal/internal/dto"
	"docportal/internal/models"
	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/testutil"
	"docportal/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*service.AuthService, *auth.JWTManager, *repository.UserRepository) {
	t.Helper()

	users := repository.NewUserRepository(testutil.NewTestDatabase(t), zap.NewNop())
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	for _, u := range []struct {
		id     string
		role   models.Role
		active bool
	}{
		{"admin-1", models.RoleAdmin, true},
		{"emp-1", models.RoleEmployee, true},
		{"emp-old", models.RoleEmployee, false},
	} {
		user := testutil.SeedUser(t, users, u.id, u.id, u.role, u.active)
		user.PasswordHash = hash
		require.NoError(t, users.Upsert(context.Background(), user))
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return service.NewAuthService(users, jwtManager, zap.NewNop()), jwtManager, users
}

func TestLogin_IssuesRoleClaims(t *testing.T) {
	svc, jwtManager, _ := newAuthService(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: " Admin-1@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Role)

	claims, err := jwtManager.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_Rejects(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	cases := map[string]dto.LoginRequest{
		"wrong password": {Email: "emp-1@example.com", Password: "nope"},
		"unknown email":  {Email: "ghost@example.com", Password: "secret123"},
		"inactive user":  {Email: "emp-old@example.com", Password: "secret123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, &req)
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	svc, jwtManager, _ := newAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "emp-1@example.com", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	claims, err := jwtManager.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "employee", claims.Role)

	_, err = svc.RefreshToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
