package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Database wraps a sqlx handle together with the placeholder format of its
// dialect so every repository builds queries the same way.
type Database struct {
	db      *sqlx.DB
	dialect Dialect
	sb      squirrel.StatementBuilderType
	logger  *zap.Logger
}

func NewDatabase(db *sqlx.DB, dialect Dialect, logger *zap.Logger) *Database {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if dialect == DialectPostgres {
		placeholder = squirrel.Dollar
	}
	return &Database{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		logger:  logger,
	}
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Migrate applies outstanding schema migrations for the configured dialect.
func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var current int
	if err := d.db.GetContext(ctx, &current, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := d.inTx(ctx, func(tx *sqlx.Tx) error {
			for _, stmt := range m.statements(d.dialect) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.version)
			return err
		}); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		d.logger.Info("Applied schema migration", zap.Int("version", m.version), zap.String("dialect", string(d.dialect)))
	}

	return nil
}

func (d *Database) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func get(ctx context.Context, q sqlx.QueryerContext, dest any, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

func selectAll(ctx context.Context, q sqlx.QueryerContext, dest any, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func exec(ctx context.Context, e sqlx.ExecerContext, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return e.ExecContext(ctx, query, args...)
}
