package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-service/internal/api/http/handlers"
	"github.com/spec-kit/gym-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Assistants     *handlers.AssistantsHandler
	Members        *handlers.MembersHandler
	Billing        *handlers.BillingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/me", cfg.Auth.Me)
	protected.Post("/password/change", cfg.Auth.ChangePassword)

	assistants := protected.Group("/assistants", auth.RequireAdmin())
	assistants.Post("", cfg.Assistants.Create)
	assistants.Get("", cfg.Assistants.List)
	assistants.Delete("/:id", cfg.Assistants.Delete)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	members := api.Group("/members")
	members.Post("", cfg.Members.Create)
	members.Get("", cfg.Members.List)
	members.Get("/:id", cfg.Members.Get)
	members.Put("/:id", cfg.Members.Update)
	members.Delete("/:id", cfg.Members.Delete)
	members.Get("/:id/payments", cfg.Billing.MemberPayments)

	plans := api.Group("/plans")
	plans.Get("", cfg.Billing.ListPlans)
	plans.Post("", auth.RequireAdmin(), cfg.Billing.CreatePlan)
	plans.Put("/:id", auth.RequireAdmin(), cfg.Billing.UpdatePlan)
	plans.Delete("/:id", auth.RequireAdmin(), cfg.Billing.DeletePlan)

	api.Post("/payments", cfg.Billing.RecordPayment)
	api.Get("/reports/revenue", cfg.Billing.RevenueReport)
}
