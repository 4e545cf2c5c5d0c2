package dto

import (
	"time"

	"github.com/spec-kit/civicdesk/internal/domain"
)

// SubmitComplaintRequest payload.
type SubmitComplaintRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Department  string `json:"department" form:"department"`
	Priority    string `json:"priority" form:"priority"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// ComplaintResponse is the public view of a complaint.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Department  string                   `json:"department"`
	Status      domain.ComplaintStatus   `json:"status"`
	Priority    domain.ComplaintPriority `json:"priority"`
	SubmitterID string                   `json:"submitter_id"`
	AssigneeID  *string                  `json:"assignee_id,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ComplaintOf maps a domain complaint to its response shape.
func ComplaintOf(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Department:  complaint.Department,
		Status:      complaint.Status,
		Priority:    complaint.Priority,
		SubmitterID: complaint.SubmitterID,
		AssigneeID:  complaint.AssigneeID,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
}

// ComplaintsOf maps a slice of complaints.
func ComplaintsOf(complaints []domain.Complaint) []ComplaintResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, ComplaintOf(&complaints[i]))
	}
	return items
}
