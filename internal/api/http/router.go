package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civicdesk/internal/api/http/handlers"
	"github.com/spec-kit/civicdesk/internal/auth"
	"github.com/spec-kit/civicdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Dashboards     *handlers.DashboardHandler
	Pages          *handlers.PagesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Auth.Landing)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/api/login", cfg.Auth.LoginAPI)
	app.Get("/register", cfg.Auth.RegisterForm)
	app.Post("/register", cfg.Auth.Register)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/logout", cfg.Auth.Logout)

	protected.Get("/complaint/register", cfg.Complaints.SubmitForm)
	protected.Post("/complaint/register", cfg.Complaints.Submit)
	protected.Get("/complaints", cfg.Complaints.List)
	protected.Get("/complaint/:id", cfg.Complaints.Get)
	protected.Post("/complaint/:id/update-status", cfg.Complaints.UpdateStatus)

	protected.Get("/user/dashboard", cfg.Dashboards.User)
	protected.Get("/department/dashboard",
		auth.RequireRole(domain.RoleDepartmentAdmin), cfg.Dashboards.Department)
	protected.Get("/org-admin/dashboard",
		auth.RequireRole(domain.RoleOrgAdmin, domain.RoleSuperAdmin), cfg.Dashboards.Org)
	protected.Get("/support/dashboard",
		auth.RequireRole(domain.RoleSupportStaff, domain.RoleSuperAdmin), cfg.Dashboards.Support)
	protected.Get("/super-admin/dashboard",
		auth.RequireRole(domain.RoleSuperAdmin), cfg.Dashboards.SuperAdmin)

	protected.Get("/payments", cfg.Pages.Payments)
	protected.Get("/analytics", cfg.Pages.Analytics)
}
