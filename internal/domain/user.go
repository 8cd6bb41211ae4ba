package domain

import "time"

// UserRole differentiates gym owners from provisioned assistants.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleAssistant UserRole = "ASSISTANT"
)

// User is an account that can sign in: a gym admin or one of their assistants.
// Assistants carry the id of the admin that provisioned them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	AdminID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OwnerID returns the admin account that owns this user's gym data:
// the user itself for admins, the provisioning admin for assistants.
func (u *User) OwnerID() string {
	if u.Role == RoleAssistant && u.AdminID != nil {
		return *u.AdminID
	}
	return u.ID
}

// Sanitized returns a copy safe to hand outside the auth boundary.
// The password hash never leaves the service layer.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
