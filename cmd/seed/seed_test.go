package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docportal/internal/models"
	"docportal/internal/service"
	"docportal/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `[
		{"id": "admin-1", "name": "Ravi", "email": " Admin@Example.com ", "password": "secret", "role": "admin"},
		{"id": "emp-1", "name": "Priya", "email": "priya@example.com", "password": "pw", "role": "employee", "active": false}
	]`)

	users, err := loadUsers(path, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.True(t, users[0].Active)
	assert.True(t, auth.CheckPasswordHash("secret", users[0].PasswordHash))
	assert.False(t, users[1].Active)
	assert.Equal(t, "admin-1", firstAdmin(users))
}

func TestLoadUsers_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"role":      `[{"id": "x", "email": "x@example.com", "password": "pw", "role": "owner"}]`,
		"password":  `[{"id": "x", "email": "x@example.com", "role": "admin"}]`,
		"duplicate": `[{"id": "x", "email": "a@example.com", "password": "pw", "role": "admin"}, {"id": "x", "email": "b@example.com", "password": "pw", "role": "admin"}]`,
		"json":      `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			writeFile(t, path, body)
			_, err := loadUsers(path, time.Now())
			assert.Error(t, err)
		})
	}
}

type recordingCreator struct {
	inputs []service.CreateDocumentInput
}

func (r *recordingCreator) Create(_ context.Context, in service.CreateDocumentInput) (*models.Document, error) {
	r.inputs = append(r.inputs, in)
	return &models.Document{ID: in.FileName + "-id", Title: in.Title}, nil
}

func TestSeedDocuments_SkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "documents")
	require.NoError(t, os.Mkdir(docsDir, 0755))
	writeFile(t, filepath.Join(docsDir, "safety_manual.txt"), "Evacuate via platform 2")
	writeFile(t, filepath.Join(docsDir, "rota-2026.txt"), "Shift A")
	cacheFile := filepath.Join(dir, ".seed_cache.json")

	creator := &recordingCreator{}
	require.NoError(t, seedDocuments(context.Background(), docsDir, cacheFile, "admin-1", creator, zap.NewNop()))
	require.Len(t, creator.inputs, 2)
	assert.Equal(t, "Rota 2026", creator.inputs[0].Title)
	assert.Equal(t, "Safety Manual", creator.inputs[1].Title)
	assert.Equal(t, "admin-1", creator.inputs[1].UploadedBy)

	require.NoError(t, seedDocuments(context.Background(), docsDir, cacheFile, "admin-1", creator, zap.NewNop()))
	assert.Len(t, creator.inputs, 2)

	writeFile(t, filepath.Join(docsDir, "rota-2026.txt"), "Shift B")
	require.NoError(t, seedDocuments(context.Background(), docsDir, cacheFile, "admin-1", creator, zap.NewNop()))
	require.Len(t, creator.inputs, 3)
	assert.Equal(t, []byte("Shift B"), creator.inputs[2].Data)
}

func TestSeedDocuments_MissingDirectory(t *testing.T) {
	creator := &recordingCreator{}
	dir := t.TempDir()
	err := seedDocuments(context.Background(), filepath.Join(dir, "none"), filepath.Join(dir, "cache.json"), "admin-1", creator, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, creator.inputs)
}
