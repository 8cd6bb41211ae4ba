package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-service/internal/api/dto"
	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/service"
	apperrors "github.com/spec-kit/gym-service/pkg/util"
)

// BillingHandler exposes plan, payment and revenue report endpoints.
type BillingHandler struct {
	billing *service.BillingService
}

// NewBillingHandler constructs the handler.
func NewBillingHandler(billing *service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// CreatePlan handles POST /api/plans.
func (h *BillingHandler) CreatePlan(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	req, err := parsePlanRequest(c)
	if err != nil {
		return err
	}

	plan, err := h.billing.CreatePlan(c.UserContext(), owner, service.PlanInput{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		PriceCents:     req.PriceCents,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"plan": dto.NewPlanResponse(plan)},
	})
}

// UpdatePlan handles PUT /api/plans/:id.
func (h *BillingHandler) UpdatePlan(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	req, err := parsePlanRequest(c)
	if err != nil {
		return err
	}

	plan, err := h.billing.UpdatePlan(c.UserContext(), owner, c.Params("id"), service.PlanInput{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		PriceCents:     req.PriceCents,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"plan": dto.NewPlanResponse(plan)},
	})
}

// ListPlans handles GET /api/plans.
func (h *BillingHandler) ListPlans(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	plans, err := h.billing.ListPlans(c.UserContext(), owner)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"plans": dto.NewPlanResponses(plans)},
	})
}

// DeletePlan handles DELETE /api/plans/:id.
func (h *BillingHandler) DeletePlan(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	if err := h.billing.DeletePlan(c.UserContext(), owner, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// RecordPayment handles POST /api/payments.
func (h *BillingHandler) RecordPayment(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.MemberID == "" || req.PlanID == "" {
		return fiber.NewError(http.StatusBadRequest, "member_id and plan_id required")
	}

	payment, err := h.billing.RecordPayment(c.UserContext(), owner, req.MemberID, req.PlanID)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"payment": dto.NewPaymentResponse(payment)},
	})
}

// MemberPayments handles GET /api/members/:id/payments.
func (h *BillingHandler) MemberPayments(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	payments, err := h.billing.ListMemberPayments(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"payments": dto.NewPaymentResponses(payments)},
	})
}

// RevenueReport handles GET /api/reports/revenue?year=.
func (h *BillingHandler) RevenueReport(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2999 {
			return fiber.NewError(http.StatusBadRequest, "invalid year")
		}
		year = parsed
	}

	report, err := h.billing.RevenueReport(c.UserContext(), owner, year)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"year": year, "revenue": report},
	})
}

func parsePlanRequest(c *fiber.Ctx) (*dto.PlanRequest, error) {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.DurationMonths <= 0 || req.PriceCents < 0 {
		return nil, fiber.NewError(http.StatusBadRequest, "name, positive duration_months and non-negative price_cents required")
	}
	return &req, nil
}
