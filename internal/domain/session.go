package domain

import "time"

// Session is a time-bounded proof of authentication tied to one user.
// The token is an opaque random string used purely as a lookup key.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ExpiredAt reports whether the session has expired at the given instant.
// An expired row still present in storage is treated as nonexistent by all
// read paths; rows are only reclaimed by logout or the background reaper.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
