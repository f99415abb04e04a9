// Package app wires the document portal's stores and services from config.
// Both the HTTP server and the CLI build on it.
package app

import (
	"context"
	"fmt"

	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/storage"
	"docportal/pkg/auth"
	"docportal/pkg/config"

	"go.uber.org/zap"
)

type App struct {
	Config        *config.Config
	DB            *repository.Database
	Users         *repository.UserRepository
	Documents     *repository.DocumentRepository
	Store         *storage.LocalStore
	JWT           *auth.JWTManager
	Auth          *service.AuthService
	Notifications *service.NotificationService
	Enrichment    *service.EnrichmentService
	DocService    *service.DocumentService

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg}

	db, err := repository.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if err := db.Migrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Server.PublicURL, cfg.Storage.SigningKey, logger.Named("storage"))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	a.Users = repository.NewUserRepository(db, logger)
	a.Documents = repository.NewDocumentRepository(db, logger)
	a.Notifications = service.NewNotificationService(repository.NewNotificationRepository(db, logger), logger)
	a.JWT = auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	a.Auth = service.NewAuthService(a.Users, a.JWT, logger)

	var enricher service.Enricher = service.NoopEnricher{}
	if cfg.GigaChat.APIKey != "" {
		llmService, err := service.NewLLMService(ctx, &cfg.GigaChat, logger.Named("llm"))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
		}
		enricher = llmService
		a.closers = append(a.closers, llmService.Close)
	} else {
		logger.Warn("GIGACHAT_API_KEY is not set, summaries and translations are disabled")
	}

	a.Enrichment = service.NewEnrichmentService(
		a.Documents,
		store,
		service.NewOCRService(logger.Named("ocr")),
		enricher,
		service.EnrichmentOptions{
			Workers:             cfg.Enrichment.Workers,
			QueueSize:           cfg.Enrichment.QueueSize,
			Timeout:             cfg.Enrichment.Timeout,
			SweepInterval:       cfg.Enrichment.SweepInterval,
			TranslationLanguage: cfg.Enrichment.TranslationLanguage,
			MaxPromptChars:      cfg.Enrichment.MaxPromptChars,
		},
		logger.Named("enrichment"),
	)

	a.DocService = service.NewDocumentService(
		a.Documents,
		a.Users,
		store,
		a.Notifications,
		a.Enrichment,
		service.LifecycleOptions{
			CollaboratorTimeout: cfg.Lifecycle.CollaboratorTimeout,
			StorageRetries:      cfg.Lifecycle.StorageRetries,
			StorageBackoff:      cfg.Lifecycle.StorageBackoff,
			URLTTL:              cfg.Storage.URLTTL,
			MaxUploadBytes:      cfg.Upload.MaxBytes,
		},
		logger.Named("documents"),
	)

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
