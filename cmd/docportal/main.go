package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docportal/internal/api"
	"docportal/internal/api/handlers"
	"docportal/internal/app"
	"docportal/pkg/config"
	"docportal/pkg/logger"

	"go.uber.org/zap"
)

// @title Document Portal API
// @version 1.0
// @description Document review and distribution portal: upload, review, approve and assign documents to employees
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@docportal.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting document portal", zap.String("db_driver", cfg.Database.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	portal, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer portal.Close()

	// Workers stop once ctx is cancelled; wait for them before closing the store.
	workersDone := make(chan struct{})
	go func() {
		portal.Enrichment.Run(ctx)
		close(workersDone)
	}()

	router := api.SetupRouter(api.Handlers{
		Auth:          handlers.NewAuthHandler(portal.Auth, appLogger),
		Documents:     handlers.NewDocumentHandler(portal.DocService, appLogger),
		Employees:     handlers.NewEmployeeHandler(portal.DocService, appLogger),
		Notifications: handlers.NewNotificationHandler(portal.Notifications, appLogger),
		Files:         handlers.NewFileHandler(portal.Store, appLogger),
	}, portal.JWT, cfg.Upload.MaxBytes, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := router.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := router.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
	cancel()
	<-workersDone
}
