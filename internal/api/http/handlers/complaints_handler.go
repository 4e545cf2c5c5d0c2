package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civicdesk/internal/api/dto"
	"github.com/spec-kit/civicdesk/internal/auth"
	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/service"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// SubmitForm handles GET /complaint/register, describing the submission contract.
func (h *ComplaintsHandler) SubmitForm(c *fiber.Ctx) error {
	departments, err := h.service.Departments(c.Context())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(departments))
	for _, dept := range departments {
		names = append(names, dept.Name)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"departments": names,
			"priorities": []domain.ComplaintPriority{
				domain.ComplaintPriorityNormal,
				domain.ComplaintPriorityHigh,
				domain.ComplaintPriorityUrgent,
			},
		},
	})
}

// Submit handles POST /complaint/register.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.Department == "" {
		return apperrors.NewValidationError("title, description, department required", nil)
	}

	complaint, err := h.service.Submit(c.Context(), identity, service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ComplaintOf(complaint)})
}

// List handles GET /complaints, scoped by the caller's role.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	complaints, err := h.service.List(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintsOf(complaints)})
}

// Get handles GET /complaint/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	complaint, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintOf(complaint)})
}

// UpdateStatus handles POST /complaint/:id/update-status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseComplaintStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}

	complaint, err := h.service.UpdateStatus(c.Context(), identity, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintOf(complaint)})
}
