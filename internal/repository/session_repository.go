package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// SessionRepository defines persistence access for session tokens.
type SessionRepository interface {
	Create(ctx context.Context, sess *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes the row for the token. Deleting an absent token is
	// not an error; revocation is idempotent.
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes every row whose expiry is at or before now
	// and reports how many were reclaimed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns a SQLite-backed implementation.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, sess *domain.Session) error {
	const query = `
        INSERT INTO sessions (token, user_id, created_at, expires_at)
        VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		sess.Token,
		sess.UserID,
		sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		sess.ExpiresAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	const query = `SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`

	var (
		sess                 domain.Session
		createdAt, expiresAt string
	)
	if err := r.db.QueryRowContext(ctx, query, token).Scan(
		&sess.Token,
		&sess.UserID,
		&createdAt,
		&expiresAt,
	); err != nil {
		return nil, err
	}

	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	sess.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)
	return &sess, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`,
		now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
