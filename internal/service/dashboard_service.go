package service

import (
	"context"

	"github.com/spec-kit/civicdesk/internal/domain"
	"github.com/spec-kit/civicdesk/internal/repository"
	apperrors "github.com/spec-kit/civicdesk/pkg/util"
)

// DashboardService computes per-role read-only summaries. Empty stores yield
// all-zero counts and empty lists.
type DashboardService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
}

// NewDashboardService constructs the service.
func NewDashboardService(complaints repository.ComplaintRepository, users repository.UserRepository) *DashboardService {
	return &DashboardService{complaints: complaints, users: users}
}

// UserSummary is the end-user dashboard payload.
type UserSummary struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Resolved int64 `json:"resolved"`
}

// DepartmentSummary is the department-admin dashboard payload.
type DepartmentSummary struct {
	Department string                           `json:"department"`
	ByStatus   map[domain.ComplaintStatus]int64 `json:"by_status"`
	Complaints []domain.Complaint               `json:"complaints"`
}

// OrgSummary is the org-admin dashboard payload.
type OrgSummary struct {
	Total        int64                            `json:"total"`
	ByStatus     map[domain.ComplaintStatus]int64 `json:"by_status"`
	ByDepartment map[string]int64                 `json:"by_department"`
}

// SupportSummary is the support-staff dashboard payload.
type SupportSummary struct {
	Recent []domain.Complaint `json:"recent"`
}

// AdminSummary is the super-admin dashboard payload.
type AdminSummary struct {
	TotalUsers      int64                 `json:"total_users"`
	TotalComplaints int64                 `json:"total_complaints"`
	UsersByRole     map[domain.Role]int64 `json:"users_by_role"`
}

const supportRecentLimit = 10

// ForUser counts the identity's own complaints.
func (s *DashboardService) ForUser(ctx context.Context, identity domain.Identity) (*UserSummary, error) {
	submitter := identity.UserID
	byStatus, err := s.complaints.CountByStatus(ctx, repository.ComplaintFilter{SubmitterID: &submitter})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := &UserSummary{
		Pending:  byStatus[domain.ComplaintStatusPending],
		Resolved: byStatus[domain.ComplaintStatusResolved],
	}
	for _, count := range byStatus {
		summary.Total += count
	}
	return summary, nil
}

// ForDepartmentAdmin counts and lists the identity's department complaints.
func (s *DashboardService) ForDepartmentAdmin(ctx context.Context, identity domain.Identity) (*DepartmentSummary, error) {
	if identity.Department == nil {
		return nil, apperrors.NewForbidden("department admin without department")
	}
	filter := repository.ComplaintFilter{Department: identity.Department}
	byStatus, err := s.complaints.CountByStatus(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if complaints == nil {
		complaints = []domain.Complaint{}
	}
	return &DepartmentSummary{
		Department: *identity.Department,
		ByStatus:   fillStatuses(byStatus),
		Complaints: complaints,
	}, nil
}

// ForOrgAdmin returns global counts and the per-department breakdown.
func (s *DashboardService) ForOrgAdmin(ctx context.Context) (*OrgSummary, error) {
	byStatus, err := s.complaints.CountByStatus(ctx, repository.ComplaintFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byDepartment, err := s.complaints.CountByDepartment(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if byDepartment == nil {
		byDepartment = map[string]int64{}
	}
	summary := &OrgSummary{
		ByStatus:     fillStatuses(byStatus),
		ByDepartment: byDepartment,
	}
	for _, count := range byStatus {
		summary.Total += count
	}
	return summary, nil
}

// ForSupportStaff returns the most recently created complaints.
func (s *DashboardService) ForSupportStaff(ctx context.Context) (*SupportSummary, error) {
	recent, err := s.complaints.List(ctx, repository.ComplaintFilter{Limit: supportRecentLimit})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if recent == nil {
		recent = []domain.Complaint{}
	}
	return &SupportSummary{Recent: recent}, nil
}

// ForSuperAdmin returns system totals and the per-role user breakdown.
func (s *DashboardService) ForSuperAdmin(ctx context.Context) (*AdminSummary, error) {
	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalComplaints, err := s.complaints.CountAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if byRole == nil {
		byRole = map[domain.Role]int64{}
	}
	return &AdminSummary{
		TotalUsers:      totalUsers,
		TotalComplaints: totalComplaints,
		UsersByRole:     byRole,
	}, nil
}

// fillStatuses guarantees every status key is present, zero-valued when the
// store has no matching rows.
func fillStatuses(counts map[domain.ComplaintStatus]int64) map[domain.ComplaintStatus]int64 {
	filled := make(map[domain.ComplaintStatus]int64, 4)
	for _, status := range domain.ComplaintStatuses() {
		filled[status] = counts[status]
	}
	return filled
}
