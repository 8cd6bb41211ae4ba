package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// schema holds the DDL for all tables. Every statement is idempotent so
// the whole slice can run at each startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		admin_id      TEXT REFERENCES users(id) ON DELETE CASCADE,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id              TEXT PRIMARY KEY,
		admin_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		duration_months INTEGER NOT NULL,
		price_cents     INTEGER NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_admin_id ON plans(admin_id)`,

	`CREATE TABLE IF NOT EXISTS members (
		id         TEXT PRIMARY KEY,
		admin_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		plan_id    TEXT REFERENCES plans(id) ON DELETE SET NULL,
		joined_at  TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_members_admin_id ON members(admin_id)`,

	// member_id and plan_id go NULL when their rows are deleted; the
	// recorded amount and date are history and must survive.
	`CREATE TABLE IF NOT EXISTS payments (
		id           TEXT PRIMARY KEY,
		admin_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		member_id    TEXT REFERENCES members(id) ON DELETE SET NULL,
		plan_id      TEXT REFERENCES plans(id) ON DELETE SET NULL,
		amount_cents INTEGER NOT NULL,
		paid_at      TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_admin_id ON payments(admin_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_paid_at ON payments(paid_at)`,
}

// RunMigrations applies the schema statements in order.
func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no database handle available; skipping migrations")
		return nil
	}

	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(schema)))
	return nil
}
