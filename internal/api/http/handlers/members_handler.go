package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-service/internal/api/dto"
	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/service"
	apperrors "github.com/spec-kit/gym-service/pkg/util"
)

// MembersHandler exposes gym member CRUD endpoints.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler constructs the handler.
func NewMembersHandler(members *service.MemberService) *MembersHandler {
	return &MembersHandler{members: members}
}

// Create handles POST /api/members.
func (h *MembersHandler) Create(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	member, err := h.members.Create(c.UserContext(), owner, service.MemberInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		PlanID: req.PlanID,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"member": dto.NewMemberResponse(member)},
	})
}

// Get handles GET /api/members/:id.
func (h *MembersHandler) Get(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	member, err := h.members.Get(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"member": dto.NewMemberResponse(member)},
	})
}

// List handles GET /api/members.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	members, err := h.members.List(c.UserContext(), owner)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"members": dto.NewMemberResponses(members)},
	})
}

// Update handles PUT /api/members/:id.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	member, err := h.members.Update(c.UserContext(), owner, c.Params("id"), service.MemberInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		PlanID: req.PlanID,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"member": dto.NewMemberResponse(member)},
	})
}

// Delete handles DELETE /api/members/:id.
func (h *MembersHandler) Delete(c *fiber.Ctx) error {
	owner, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	if err := h.members.Delete(c.UserContext(), owner, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
