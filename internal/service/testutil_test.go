package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-service/internal/config"
	"github.com/spec-kit/gym-service/internal/persistence"
	"github.com/spec-kit/gym-service/internal/repository"
)

// testAuthConfig keeps key derivation cheap so the suite stays fast.
var testAuthConfig = config.AuthConfig{
	SessionTTLHours:  24,
	SessionCookie:    "gym_session",
	PBKDF2Iterations: 1000,
}

type testEnv struct {
	db       *sql.DB
	users    repository.UserRepository
	sessions repository.SessionRepository
	members  repository.MemberRepository
	plans    repository.PlanRepository
	payments repository.PaymentRepository
}

func setupTestEnv(t *testing.T) *testEnv {
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

	db := store.Handle()
	return &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		sessions: repository.NewSessionRepository(db),
		members:  repository.NewMemberRepository(db),
		plans:    repository.NewPlanRepository(db),
		payments: repository.NewPaymentRepository(db),
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()

	env := setupTestEnv(t)
	svc := NewAuthService(testAuthConfig, AuthDependencies{
		UserRepo:    env.users,
		SessionRepo: env.sessions,
	})
	return svc, env
}
