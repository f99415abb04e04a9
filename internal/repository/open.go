package repository

import (
	"context"
	"fmt"

	"docportal/pkg/config"
	"docportal/pkg/postgres"
	"docportal/pkg/sqlite"

	"go.uber.org/zap"
)

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Database, error) {
	switch Dialect(cfg.Driver) {
	case DialectPostgres:
		db, err := postgres.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewDatabase(db, DialectPostgres, logger), nil
	case DialectSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return NewDatabase(db, DialectSQLite, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
