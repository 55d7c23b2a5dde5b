package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bugtrail/bugtrail/internal/api/http/handlers"
	"github.com/bugtrail/bugtrail/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	BasePath string
	Health   *handlers.HealthHandler
	Views    *handlers.ViewsHandler
	Tickets  *handlers.TicketsHandler
	Session  *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	root := app.Group(cfg.BasePath, cfg.Session.Handle)
	root.Get("/tickets", cfg.Views.List)
	root.Get("/ticket-details/:id", cfg.Views.Detail)

	api := root.Group("/api/tickets")
	api.Get("/", cfg.Tickets.ListTickets)
	api.Get("/stream", cfg.Tickets.StreamTickets)
	api.Get("/:id", cfg.Tickets.GetTicket)
}
