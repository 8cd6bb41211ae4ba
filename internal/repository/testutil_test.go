package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-service/internal/config"
	"github.com/spec-kit/gym-service/internal/persistence"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	store, err := persistence.NewSQLite(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(store.Close)

	if err := persistence.RunMigrations(context.Background(), store.Handle(), zap.NewNop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return store.Handle()
}
