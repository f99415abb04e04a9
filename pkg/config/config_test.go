package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ENRICH_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2, cfg.Enrichment.Workers)
	assert.Equal(t, "Malayalam", cfg.Enrichment.TranslationLanguage)
	assert.Equal(t, 10*time.Second, cfg.Lifecycle.CollaboratorTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/portal.db")
	t.Setenv("ENRICH_WORKERS", "5")
	t.Setenv("COLLABORATOR_TIMEOUT", "3")
	t.Setenv("STORAGE_BACKOFF_MS", "50")
	t.Setenv("SERVER_PUBLIC_URL", "https://docs.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/portal.db", cfg.Database.SQLitePath)
	assert.Equal(t, 5, cfg.Enrichment.Workers)
	assert.Equal(t, 3*time.Second, cfg.Lifecycle.CollaboratorTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Lifecycle.StorageBackoff)
	assert.Equal(t, "https://docs.example.com", cfg.Server.PublicURL)
}

func TestGetInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("ENRICH_QUEUE_SIZE", "lots")
	assert.Equal(t, 64, getInt("ENRICH_QUEUE_SIZE", 64))
}
