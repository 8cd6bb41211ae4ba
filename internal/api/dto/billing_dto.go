package dto

import (
	"time"

	"github.com/spec-kit/gym-service/internal/domain"
)

// PlanRequest payload for creating or updating a plan.
type PlanRequest struct {
	Name           string `json:"name"`
	DurationMonths int    `json:"duration_months"`
	PriceCents     int64  `json:"price_cents"`
}

// PlanResponse is the plan shape returned to clients.
type PlanResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DurationMonths int    `json:"duration_months"`
	PriceCents     int64  `json:"price_cents"`
}

// NewPlanResponse maps a domain plan to its wire shape.
func NewPlanResponse(plan *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:             plan.ID,
		Name:           plan.Name,
		DurationMonths: plan.DurationMonths,
		PriceCents:     plan.PriceCents,
	}
}

// NewPlanResponses maps a slice of plans.
func NewPlanResponses(plans []*domain.Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, NewPlanResponse(p))
	}
	return out
}

// PaymentRequest payload for recording a payment.
type PaymentRequest struct {
	MemberID string `json:"member_id"`
	PlanID   string `json:"plan_id"`
}

// PaymentResponse is the payment shape returned to clients.
type PaymentResponse struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	PlanID      string    `json:"plan_id"`
	AmountCents int64     `json:"amount_cents"`
	PaidAt      time.Time `json:"paid_at"`
}

// NewPaymentResponse maps a domain payment to its wire shape.
func NewPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		MemberID:    payment.MemberID,
		PlanID:      payment.PlanID,
		AmountCents: payment.AmountCents,
		PaidAt:      payment.PaidAt,
	}
}

// NewPaymentResponses maps a slice of payments.
func NewPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}
