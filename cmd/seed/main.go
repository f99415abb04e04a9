package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"docportal/internal/app"
	"docportal/pkg/config"
	"docportal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	portal, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer portal.Close()

	appLogger.Info("Starting database seeding...")

	seedDir := filepath.Join("cmd", "seed")
	usersFile := os.Getenv("SEED_USERS_FILE")
	if usersFile == "" {
		usersFile = filepath.Join(seedDir, "users.json")
	}

	users, err := loadUsers(usersFile, time.Now().UTC())
	if err != nil {
		appLogger.Fatal("Failed to load seed users", zap.Error(err))
	}
	for _, u := range users {
		if err := portal.Users.Upsert(ctx, u); err != nil {
			appLogger.Fatal("Failed to seed user", zap.String("email", u.Email), zap.Error(err))
		}
		appLogger.Info("Seeded user", zap.String("id", u.ID), zap.String("role", string(u.Role)))
	}

	uploader := firstAdmin(users)
	if uploader == "" {
		appLogger.Warn("No admin in seed users, skipping sample documents")
	} else {
		docsDir := filepath.Join(seedDir, "documents")
		cacheFile := filepath.Join(seedDir, ".seed_cache.json")
		if err := seedDocuments(ctx, docsDir, cacheFile, uploader, portal.DocService, appLogger); err != nil {
			appLogger.Fatal("Failed to seed sample documents", zap.Error(err))
		}
	}

	appLogger.Info("Database seeding completed successfully!")
}
