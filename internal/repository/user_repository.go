package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docportal/internal/apperr"
	"docportal/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "role", "department", "active", "created_at", "updated_at",
}

type UserRepository struct {
	*Database
	logger *zap.Logger
}

func NewUserRepository(db *Database, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		Database: db,
		logger:   logger,
	}
}

// Upsert inserts the user or refreshes every mutable column of an existing one.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := r.sb.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.Department, user.Active, user.CreatedAt, user.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			password_hash = excluded.password_hash,
			role = excluded.role,
			department = excluded.department,
			active = excluded.active,
			updated_at = excluded.updated_at`)

	if _, err := exec(ctx, r.db, query); err != nil {
		return fmt.Errorf("upserting user %s: %w", user.ID, err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq, key string) (*models.User, error) {
	var user models.User
	err := get(ctx, r.db, &user, r.sb.Select(userColumns...).From("users").Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", key, err)
	}
	return &user, nil
}

// ListActiveEmployees returns active users with the employee role, by name.
func (r *UserRepository) ListActiveEmployees(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	query := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role": string(models.RoleEmployee), "active": true}).
		OrderBy("name ASC", "id ASC")
	if err := selectAll(ctx, r.db, &users, query); err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return users, nil
}
