package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Datasets       *handlers.DatasetHandler
	Dashboards     *handlers.DashboardHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	authn := cfg.AuthMiddleware.Handle
	viewer := auth.RequireRole(auth.RoleViewer)
	admin := auth.RequireRole(auth.RoleAdmin)

	app.Post("/datasets", authn, admin, cfg.Datasets.Upload)
	app.Get("/datasets/current", authn, viewer, cfg.Datasets.Current)
	app.Get("/datasets/history", authn, viewer, cfg.Datasets.History)

	app.Get("/dashboard", authn, viewer, cfg.Dashboards.Dashboard)
	app.Get("/tickets", authn, viewer, cfg.Dashboards.Tickets)
	app.Get("/report", authn, viewer, cfg.Dashboards.Report)
	app.Get("/report.xlsx", authn, viewer, cfg.Dashboards.ReportWorkbook)

	app.Get("/metrics", authn, viewer, cfg.Metrics.Snapshot)
}
