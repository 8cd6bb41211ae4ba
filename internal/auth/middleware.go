package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-service/internal/domain"
	apperrors "github.com/spec-kit/gym-service/pkg/util"
)

const principalKey = "auth_principal"

// SessionResolver turns a session token into the owning account.
// Implemented by the auth service; declared here so the middleware does
// not depend on the service package.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware validates session cookies and loads the caller's account.
type AuthMiddleware struct {
	sessions SessionResolver
	cookie   string
}

// NewAuthMiddleware constructs middleware reading the named cookie.
func NewAuthMiddleware(sessions SessionResolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookie: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookie)

	user, err := m.sessions.ResolveSession(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, ErrMissingToken) || errors.Is(err, ErrSessionInvalid) {
			return apperrors.NewUnauthorized("unauthorized")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
