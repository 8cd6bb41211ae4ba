package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-service/internal/domain"
)

// SetSessionCookie attaches the session token to the response as an
// HTTP-only, SameSite=Strict cookie scoped to the whole site. Secure is
// set outside local development.
func SetSessionCookie(c *fiber.Ctx, name string, sess *domain.Session, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an empty value and
// an already-past expiry so the browser drops it.
func ClearSessionCookie(c *fiber.Ctx, name string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
