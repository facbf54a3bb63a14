package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sla/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-sla/internal/auth"
	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tenants        *handlers.TenantsHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Providers      *handlers.ProvidersHandler
	SLA            *handlers.SLAHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Authentication is attached per group so
// unknown paths still answer 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	tenants := app.Group("/tenants")
	tenants.Post("", cfg.Tenants.CreateTenant)
	tenants.Get("/:id", cfg.Tenants.GetTenant)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}

	users := app.Group("/users", authenticated...)
	users.Get("", cfg.Users.ListUsers)
	users.Post("/seed-defaults", auth.RequireRole(domain.RoleAdmin), cfg.Users.SeedDefaults)

	tickets := app.Group("/tickets", authenticated...)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Post("/quick", cfg.Tickets.QuickCreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/assigned", auth.RequireRole(domain.RoleProvider), cfg.Tickets.ListAssignedTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/assign/:userId", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.AssignTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Post("/:id/comments", cfg.Comments.AddComment)
	tickets.Get("/:id/comments", cfg.Comments.ListComments)

	providers := app.Group("/providers", authenticated...)
	providers.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Providers.CreateProvider)
	providers.Get("", auth.RequireRole(domain.RoleAdmin, domain.RoleProvider), cfg.Providers.ListProviders)

	slaGroup := app.Group("/sla", authenticated...)
	slaGroup.Post("/sweep", auth.RequireRole(domain.RoleAdmin), cfg.SLA.RunSweep)
}
