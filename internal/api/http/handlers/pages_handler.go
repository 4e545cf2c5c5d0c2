package handlers

import "github.com/gofiber/fiber/v2"

// PagesHandler serves static placeholder views with no data contract.
type PagesHandler struct{}

// NewPagesHandler constructs handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Payments handles GET /payments.
func (h *PagesHandler) Payments(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"page": "payments", "status": "coming_soon"}})
}

// Analytics handles GET /analytics.
func (h *PagesHandler) Analytics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"page": "analytics", "status": "coming_soon"}})
}
