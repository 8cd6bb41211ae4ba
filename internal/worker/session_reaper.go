package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-service/internal/repository"
)

// SessionReaper periodically deletes expired session rows. Expiry is
// enforced lazily on the read path; the reaper only reclaims storage and
// is not part of the resolution contract.
type SessionReaper struct {
	sessions repository.SessionRepository
	interval time.Duration
	logger   *zap.Logger
}

// NewSessionReaper builds a reaper sweeping at the given interval.
func NewSessionReaper(sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionReaper{sessions: sessions, interval: interval, logger: logger}
}

// Run sweeps until the context is cancelled.
func (r *SessionReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep deletes every session whose expiry has passed.
func (r *SessionReaper) Sweep(ctx context.Context) {
	reclaimed, err := r.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		r.logger.Warn("session sweep failed", zap.Error(err))
		return
	}
	if reclaimed > 0 {
		r.logger.Info("reclaimed expired sessions", zap.Int64("count", reclaimed))
	}
}
