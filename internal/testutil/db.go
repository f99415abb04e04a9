// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"docportal/internal/models"
	"docportal/internal/repository"
	"docportal/pkg/sqlite"

	"go.uber.org/zap"
)

// NewTestDatabase opens a migrated SQLite database inside t.TempDir and
// closes it when the test completes.
func NewTestDatabase(t *testing.T) *repository.Database {
	t.Helper()

	ctx := context.Background()
	raw, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	db := repository.NewDatabase(raw, repository.DialectSQLite, zap.NewNop())
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return db
}

// SeedUser stores a user with the given id, role and active flag.
func SeedUser(t *testing.T, users *repository.UserRepository, id, name string, role models.Role, active bool) *models.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &models.User{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		Role:      role,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Upsert(context.Background(), u); err != nil {
		t.Fatalf("seeding user %s: %v", id, err)
	}
	return u
}

// NewDocument returns a pending document ready to insert.
func NewDocument(id, title string, createdAt time.Time) *models.Document {
	return &models.Document{
		ID:               id,
		Title:            title,
		Category:         "Safety",
		Priority:         models.PriorityMedium,
		Status:           models.StatusPending,
		FileReference:    id + ".pdf",
		FileName:         title + ".pdf",
		FileType:         "application/pdf",
		FileSize:         128,
		EnrichmentStatus: models.EnrichmentPending,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}
