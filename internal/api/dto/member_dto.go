package dto

import (
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// MemberRequest payload for creating or updating a member.
type MemberRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	PlanID *string `json:"plan_id"`
}

// MemberResponse is the member shape returned to clients.
type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	PlanID    *string   `json:"plan_id,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
}

// NewMemberResponse maps a domain member to its wire shape.
func NewMemberResponse(member *domain.Member) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		Name:      member.Name,
		Email:     member.Email,
		Phone:     member.Phone,
		PlanID:    member.PlanID,
		JoinedAt:  member.JoinedAt,
		ExpiresAt: member.ExpiresAt,
		Status:    string(member.Status()),
	}
}

// NewMemberResponses maps a slice of members.
func NewMemberResponses(members []*domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, NewMemberResponse(m))
	}
	return out
}
