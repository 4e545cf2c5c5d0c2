package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/events"
	"github.com/spec-kit/civicdesk/internal/policy"
	"github.com/spec-kit/civicdesk/internal/repository"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

// ComplaintService validates and applies complaint lifecycle operations,
// enforcing the access policy on every call.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// SubmitInput describes complaint creation payload.
type SubmitInput struct {
	Title       string
	Description string
	Department  string
	Priority    string
}

// Submit creates a complaint for the identity. Always permitted for any
// authenticated caller; the department must exist in the registry.
func (s *ComplaintService) Submit(ctx context.Context, identity domain.Identity, input SubmitInput) (*domain.Complaint, error) {
	if !policy.Authorize(identity, policy.ActionSubmitComplaint, policy.Resource{}) {
		return nil, apperrors.NewForbidden("submission denied")
	}

	department := strings.TrimSpace(input.Department)
	exists, err := s.departments.ExistsByName(ctx, department)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !exists {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": department})
	}

	priority, err := domain.ParseComplaintPriority(input.Priority)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	complaint := &domain.Complaint{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Department:  department,
		Status:      domain.ComplaintStatusPending,
		Priority:    priority,
		SubmitterID: identity.UserID,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       events.Actor{UserID: identity.UserID, Role: identity.Role},
		Payload: events.ComplaintCreatedPayload{
			Department: complaint.Department,
			Priority:   complaint.Priority,
			Title:      complaint.Title,
		},
	})
	return complaint, nil
}

// List returns the complaints visible to the identity, newest first.
func (s *ComplaintService) List(ctx context.Context, identity domain.Identity) ([]domain.Complaint, error) {
	filter, err := scopedFilter(identity)
	if err != nil {
		return nil, err
	}
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// Get returns a single complaint if the identity's view rule permits it.
func (s *ComplaintService) Get(ctx context.Context, identity domain.Identity, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	resource := policy.Resource{Department: complaint.Department, SubmitterID: complaint.SubmitterID}
	if !policy.Authorize(identity, policy.ActionViewComplaint, resource) {
		return nil, apperrors.NewForbidden("view denied")
	}
	return complaint, nil
}

// UpdateStatus sets a new status on the complaint. Any of the four statuses
// is reachable from any current status for a permitted caller.
func (s *ComplaintService) UpdateStatus(ctx context.Context, identity domain.Identity, complaintID string, newStatus domain.ComplaintStatus) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	resource := policy.Resource{Department: complaint.Department, SubmitterID: complaint.SubmitterID}
	if !policy.Authorize(identity, policy.ActionMutateStatus, resource) {
		return nil, apperrors.NewForbidden("status update denied")
	}

	oldStatus := complaint.Status
	updated, err := s.complaints.UpdateStatus(ctx, complaintID, newStatus)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: updated.ID,
		Actor:       events.Actor{UserID: identity.UserID, Role: identity.Role},
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// Departments lists the active department registry for submission forms.
func (s *ComplaintService) Departments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

func scopedFilter(identity domain.Identity) (repository.ComplaintFilter, error) {
	switch policy.ViewScope(identity) {
	case policy.ScopeOwn:
		submitter := identity.UserID
		return repository.ComplaintFilter{SubmitterID: &submitter}, nil
	case policy.ScopeDepartment:
		if identity.Department == nil {
			return repository.ComplaintFilter{}, apperrors.NewForbidden("department admin without department")
		}
		return repository.ComplaintFilter{Department: identity.Department}, nil
	case policy.ScopeAll:
		return repository.ComplaintFilter{}, nil
	default:
		return repository.ComplaintFilter{}, apperrors.NewForbidden("listing denied")
	}
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
