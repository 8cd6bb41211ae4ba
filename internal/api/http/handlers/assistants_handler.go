package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-service/internal/api/dto"
	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/service"
	apperrors "github.com/spec-kit/gym-service/pkg/util"
)

// AssistantsHandler exposes admin-only assistant provisioning endpoints.
type AssistantsHandler struct {
	auth *service.AuthService
}

// NewAssistantsHandler constructs the handler.
func NewAssistantsHandler(authService *service.AuthService) *AssistantsHandler {
	return &AssistantsHandler{auth: authService}
}

// Create handles POST /auth/assistants.
func (h *AssistantsHandler) Create(c *fiber.Ctx) error {
	admin, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	var req dto.AssistantCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	assistant, err := h.auth.CreateAssistant(c.UserContext(), admin, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewConflict("email already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"assistant": dto.NewUserResponse(assistant)},
	})
}

// List handles GET /auth/assistants.
func (h *AssistantsHandler) List(c *fiber.Ctx) error {
	admin, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	assistants, err := h.auth.ListAssistants(c.UserContext(), admin)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.UserResponse, 0, len(assistants))
	for _, a := range assistants {
		out = append(out, dto.NewUserResponse(a))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"assistants": out}})
}

// Delete handles DELETE /auth/assistants/:id.
func (h *AssistantsHandler) Delete(c *fiber.Ctx) error {
	admin, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	err := h.auth.RemoveAssistant(c.UserContext(), admin, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeletion):
			return apperrors.NewForbidden("cannot delete own account")
		case errors.Is(err, service.ErrNotYourAssistant):
			return apperrors.NewNotFound("assistant", nil)
		default:
			return apperrors.MapError(err)
		}
	}

	return c.SendStatus(http.StatusNoContent)
}
