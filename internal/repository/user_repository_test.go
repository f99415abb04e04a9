package repository_test

import (
	"context"
	"testing"

	"docportal/internal/apperr"
	"docportal/internal/models"
	"docportal/internal/repository"
	"docportal/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListActiveEmployees(t *testing.T) {
	users := repository.NewUserRepository(testutil.NewTestDatabase(t), zap.NewNop())
	testutil.SeedUser(t, users, "admin", "Ravi Kumar", models.RoleAdmin, true)
	testutil.SeedUser(t, users, "emp-2", "Priya Nair", models.RoleEmployee, true)
	testutil.SeedUser(t, users, "emp-3", "John Doe", models.RoleEmployee, true)
	testutil.SeedUser(t, users, "emp-4", "Sarah Thomas", models.RoleEmployee, false)

	list, err := users.ListActiveEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "John Doe", list[0].Name)
	assert.Equal(t, "Priya Nair", list[1].Name)
}

func TestUpsertAndLookup(t *testing.T) {
	users := repository.NewUserRepository(testutil.NewTestDatabase(t), zap.NewNop())
	ctx := context.Background()

	u := testutil.SeedUser(t, users, "emp-1", "Priya", models.RoleEmployee, true)
	u.Active = false
	u.Name = "Priya Nair"
	require.NoError(t, users.Upsert(ctx, u))

	got, err := users.GetByEmail(ctx, "emp-1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Priya Nair", got.Name)
	assert.False(t, got.Active)
	assert.False(t, got.Assignable())

	_, err = users.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
