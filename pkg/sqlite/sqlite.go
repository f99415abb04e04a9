package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open opens (or creates) an SQLite database at path. The pool is limited to
// one connection so write transactions are serialised.
func Open(ctx context.Context, path string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", "file:"+path+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	logger.Info("Database connection established",
		zap.String("driver", "sqlite"),
		zap.String("path", path),
	)

	return db, nil
}
