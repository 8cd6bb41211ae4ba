package persistence

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/spec-kit/gym-service/internal/config"
)

// SQLite wraps access to the single database file backing the service.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens (or creates) the database file at the configured path.
// Pragmas go through the DSN so they apply to every pooled connection,
// not just the one that happens to execute them; foreign keys are off by
// default in SQLite and the schema relies on them.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	dsn := cfg.Path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("path", cfg.Path))
	return &SQLite{DB: db}, nil
}

// Close releases the underlying connection.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Handle returns the underlying sql.DB.
func (s *SQLite) Handle() *sql.DB {
	if s == nil {
		return nil
	}
	return s.DB
}

// Ping verifies database connectivity.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return sql.ErrConnDone
	}
	return s.DB.PingContext(ctx)
}
