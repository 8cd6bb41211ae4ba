package domain

import "time"

// MemberStatus derives from the subscription expiry date.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "ACTIVE"
	MemberStatusExpired MemberStatus = "EXPIRED"
)

// Member is a gym member record owned by an admin account.
type Member struct {
	ID        string
	AdminID   string
	Name      string
	Email     string
	Phone     string
	PlanID    *string
	JoinedAt  time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status reports whether the member's subscription is current.
func (m *Member) Status() MemberStatus {
	if m.ExpiresAt.After(time.Now()) {
		return MemberStatusActive
	}
	return MemberStatusExpired
}
