package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civicdesk/internal/auth"
	"github.com/spec-kit/civicdesk/internal/service"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

// DashboardHandler serves the per-role aggregate views.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// User handles GET /user/dashboard.
func (h *DashboardHandler) User(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	summary, err := h.service.ForUser(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Department handles GET /department/dashboard.
func (h *DashboardHandler) Department(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	summary, err := h.service.ForDepartmentAdmin(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Org handles GET /org-admin/dashboard.
func (h *DashboardHandler) Org(c *fiber.Ctx) error {
	summary, err := h.service.ForOrgAdmin(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Support handles GET /support/dashboard.
func (h *DashboardHandler) Support(c *fiber.Ctx) error {
	summary, err := h.service.ForSupportStaff(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// SuperAdmin handles GET /super-admin/dashboard.
func (h *DashboardHandler) SuperAdmin(c *fiber.Ctx) error {
	summary, err := h.service.ForSuperAdmin(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
