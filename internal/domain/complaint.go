package domain

import (
	"fmt"
	"strings"
	"time"
)

// ComplaintStatus enumerates complaint states. Transitions are free: any
// permitted caller may set any status from any current status.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "PENDING"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed     ComplaintStatus = "CLOSED"
)

// ComplaintStatuses lists every known status.
func ComplaintStatuses() []ComplaintStatus {
	return []ComplaintStatus{
		ComplaintStatusPending,
		ComplaintStatusInProgress,
		ComplaintStatusResolved,
		ComplaintStatusClosed,
	}
}

// ParseComplaintStatus validates a status string against the closed enum.
func ParseComplaintStatus(val string) (ComplaintStatus, error) {
	status := ComplaintStatus(strings.ToUpper(strings.TrimSpace(val)))
	switch status {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status %q", val)
	}
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityNormal ComplaintPriority = "NORMAL"
	ComplaintPriorityHigh   ComplaintPriority = "HIGH"
	ComplaintPriorityUrgent ComplaintPriority = "URGENT"
)

// ParseComplaintPriority validates a priority string; empty means the default.
func ParseComplaintPriority(val string) (ComplaintPriority, error) {
	if strings.TrimSpace(val) == "" {
		return ComplaintPriorityNormal, nil
	}
	priority := ComplaintPriority(strings.ToUpper(strings.TrimSpace(val)))
	switch priority {
	case ComplaintPriorityNormal, ComplaintPriorityHigh, ComplaintPriorityUrgent:
		return priority, nil
	default:
		return "", fmt.Errorf("unknown priority %q", val)
	}
}

// Complaint is the aggregate for a submitted grievance. SubmitterID is
// immutable; records are never deleted.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Department  string
	Status      ComplaintStatus
	Priority    ComplaintPriority
	SubmitterID string
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
