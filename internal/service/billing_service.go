package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-service/internal/domain"
	"github.com/spec-kit/gym-service/internal/events"
	"github.com/spec-kit/gym-service/internal/persistence"
	"github.com/spec-kit/gym-service/internal/repository"
)

const revenueCacheTTL = 10 * time.Minute

// BillingService owns subscription plans, payment recording and the
// revenue report. The report is cached in Redis best-effort: when the
// cache is unreachable it falls through to SQL aggregation.
type BillingService struct {
	plans      repository.PlanRepository
	members    repository.MemberRepository
	payments   repository.PaymentRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BillingDependencies encapsulates repo requirements for billing.
type BillingDependencies struct {
	PlanRepo    repository.PlanRepository
	MemberRepo  repository.MemberRepository
	PaymentRepo repository.PaymentRepository
	Cache       *persistence.Redis
	Dispatcher  events.Dispatcher
}

// NewBillingService builds the service and subscribes cache invalidation
// to payment events.
func NewBillingService(deps BillingDependencies, logger *zap.Logger) *BillingService {
	s := &BillingService{
		plans:      deps.PlanRepo,
		members:    deps.MemberRepo,
		payments:   deps.PaymentRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}

	if s.dispatcher != nil {
		s.dispatcher.Subscribe(events.EventPaymentRecorded, func(ctx context.Context, event events.Event) error {
			s.invalidateRevenueCache(ctx, event.AdminID)
			return nil
		})
	}

	return s
}

// PlanInput carries the writable fields of a plan.
type PlanInput struct {
	Name           string
	DurationMonths int
	PriceCents     int64
}

// CreatePlan adds a price point for the admin's gym.
func (s *BillingService) CreatePlan(ctx context.Context, owner *domain.User, in PlanInput) (*domain.Plan, error) {
	plan := &domain.Plan{
		ID:             uuid.NewString(),
		AdminID:        owner.OwnerID(),
		Name:           in.Name,
		DurationMonths: in.DurationMonths,
		PriceCents:     in.PriceCents,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan rewrites a plan's fields.
func (s *BillingService) UpdatePlan(ctx context.Context, owner *domain.User, id string, in PlanInput) (*domain.Plan, error) {
	plan, err := s.plans.GetByID(ctx, owner.OwnerID(), id)
	if err != nil {
		return nil, err
	}

	plan.Name = in.Name
	plan.DurationMonths = in.DurationMonths
	plan.PriceCents = in.PriceCents

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan returns one plan of the caller's gym.
func (s *BillingService) GetPlan(ctx context.Context, owner *domain.User, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, owner.OwnerID(), id)
}

// ListPlans returns the gym's plans ordered by price.
func (s *BillingService) ListPlans(ctx context.Context, owner *domain.User) ([]*domain.Plan, error) {
	return s.plans.ListByAdmin(ctx, owner.OwnerID())
}

// DeletePlan removes a plan.
func (s *BillingService) DeletePlan(ctx context.Context, owner *domain.User, id string) error {
	return s.plans.Delete(ctx, owner.OwnerID(), id)
}

// RecordPayment stores a payment for the member's plan and extends the
// member's subscription by one plan duration from the later of now and
// the current expiry.
func (s *BillingService) RecordPayment(ctx context.Context, owner *domain.User, memberID, planID string) (*domain.Payment, error) {
	adminID := owner.OwnerID()

	member, err := s.members.GetByID(ctx, adminID, memberID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByID(ctx, adminID, planID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.NewString(),
		AdminID:     adminID,
		MemberID:    member.ID,
		PlanID:      plan.ID,
		AmountCents: plan.PriceCents,
		PaidAt:      now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	base := now
	if member.ExpiresAt.After(now) {
		base = member.ExpiresAt
	}
	member.ExpiresAt = base.AddDate(0, plan.DurationMonths, 0)
	member.PlanID = &plan.ID
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPaymentRecorded,
			AdminID:   adminID,
			Timestamp: now,
			Payload: events.PaymentRecordedPayload{
				PaymentID:   payment.ID,
				MemberID:    member.ID,
				AmountCents: payment.AmountCents,
				PaidAt:      payment.PaidAt,
			},
		})
	}

	return payment, nil
}

// ListMemberPayments returns a member's payment history.
func (s *BillingService) ListMemberPayments(ctx context.Context, owner *domain.User, memberID string) ([]*domain.Payment, error) {
	return s.payments.ListByMember(ctx, owner.OwnerID(), memberID)
}

// RevenueReport returns per-month revenue for a year, served from cache
// when possible.
func (s *BillingService) RevenueReport(ctx context.Context, owner *domain.User, year int) ([]domain.MonthlyRevenue, error) {
	adminID := owner.OwnerID()
	key := revenueCacheKey(adminID, year)

	if s.cacheAvailable() {
		if raw, err := s.cache.Client.Get(ctx, key).Result(); err == nil {
			var report []domain.MonthlyRevenue
			if json.Unmarshal([]byte(raw), &report) == nil {
				return report, nil
			}
		}
	}

	report, err := s.payments.MonthlyRevenue(ctx, adminID, year)
	if err != nil {
		return nil, err
	}

	if s.cacheAvailable() {
		if raw, err := json.Marshal(report); err == nil {
			if err := s.cache.Client.Set(ctx, key, raw, revenueCacheTTL).Err(); err != nil {
				s.logger.Warn("revenue cache write failed", zap.Error(err))
			}
		}
	}

	return report, nil
}

func (s *BillingService) invalidateRevenueCache(ctx context.Context, adminID string) {
	if !s.cacheAvailable() {
		return
	}
	year := time.Now().Year()
	if err := s.cache.Client.Del(ctx, revenueCacheKey(adminID, year)).Err(); err != nil {
		s.logger.Warn("revenue cache invalidation failed", zap.Error(err))
	}
}

func (s *BillingService) cacheAvailable() bool {
	return s.cache != nil && s.cache.Client != nil
}

func revenueCacheKey(adminID string, year int) string {
	return fmt.Sprintf("revenue:%s:%d", adminID, year)
}
