package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/gym-service/internal/domain"
	"github.com/spec-kit/gym-service/internal/events"
	"github.com/spec-kit/gym-service/internal/repository"
)

// MemberService coordinates gym member records for one admin's gym.
type MemberService struct {
	members    repository.MemberRepository
	plans      repository.PlanRepository
	dispatcher events.Dispatcher
}

// NewMemberService builds the service.
func NewMemberService(members repository.MemberRepository, plans repository.PlanRepository, dispatcher events.Dispatcher) *MemberService {
	return &MemberService{members: members, plans: plans, dispatcher: dispatcher}
}

// MemberInput carries the writable fields of a member record.
type MemberInput struct {
	Name   string
	Email  string
	Phone  string
	PlanID *string
}

// Create registers a new member. When a plan is given, the initial
// subscription window runs one plan duration from the join date.
func (s *MemberService) Create(ctx context.Context, owner *domain.User, in MemberInput) (*domain.Member, error) {
	now := time.Now()
	member := &domain.Member{
		ID:        uuid.NewString(),
		AdminID:   owner.OwnerID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		PlanID:    in.PlanID,
		JoinedAt:  now,
		ExpiresAt: now,
	}

	if in.PlanID != nil {
		plan, err := s.plans.GetByID(ctx, member.AdminID, *in.PlanID)
		if err != nil {
			return nil, err
		}
		member.ExpiresAt = now.AddDate(0, plan.DurationMonths, 0)
	}

	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventMemberRegistered,
		AdminID:   member.AdminID,
		Timestamp: now,
		Payload: events.MemberRegisteredPayload{
			MemberID: member.ID,
			PlanID:   member.PlanID,
		},
	})

	return member, nil
}

// Get returns one member of the caller's gym.
func (s *MemberService) Get(ctx context.Context, owner *domain.User, id string) (*domain.Member, error) {
	return s.members.GetByID(ctx, owner.OwnerID(), id)
}

// List returns all members of the caller's gym.
func (s *MemberService) List(ctx context.Context, owner *domain.User) ([]*domain.Member, error) {
	return s.members.ListByAdmin(ctx, owner.OwnerID())
}

// Update rewrites the member's contact fields and plan reference.
func (s *MemberService) Update(ctx context.Context, owner *domain.User, id string, in MemberInput) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, owner.OwnerID(), id)
	if err != nil {
		return nil, err
	}

	member.Name = in.Name
	member.Email = in.Email
	member.Phone = in.Phone
	member.PlanID = in.PlanID

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes the member record.
func (s *MemberService) Delete(ctx context.Context, owner *domain.User, id string) error {
	return s.members.Delete(ctx, owner.OwnerID(), id)
}
