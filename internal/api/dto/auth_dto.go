package dto

import (
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// RegisterRequest payload for admin signup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload for password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AssistantCreateRequest payload for provisioning an assistant.
type AssistantCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the account shape returned to clients. It never carries
// a password field in any form.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AdminID   *string   `json:"admin_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		AdminID:   user.AdminID,
		CreatedAt: user.CreatedAt,
	}
}
