// Package policy holds the static role-to-capability table. Decisions are
// pure functions of the caller's identity and the resource; unknown roles are
// denied everything.
package policy

import "github.com/spec-kit/civicdesk/internal/domain"

// Action enumerates the operations the policy rules on.
type Action string

const (
	ActionViewComplaint   Action = "view_complaint"
	ActionMutateStatus    Action = "mutate_status"
	ActionSubmitComplaint Action = "submit_complaint"
	ActionViewRoster      Action = "view_roster"
)

// Resource carries the complaint attributes the table scopes on. Zero value
// means the action is not about a specific complaint.
type Resource struct {
	Department  string
	SubmitterID string
}

// Scope describes the slice of the complaint store a role may read.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwn
	ScopeDepartment
	ScopeAll
)

// Authorize answers whether the identity may perform the action on the
// resource. Exhaustive over the role enum; anything unrecognized is denied.
func Authorize(identity domain.Identity, action Action, resource Resource) bool {
	switch action {
	case ActionSubmitComplaint:
		// Any authenticated identity may submit.
		return identity.Role.IsValid()
	case ActionViewComplaint:
		return canView(identity, resource)
	case ActionMutateStatus:
		return canMutate(identity, resource)
	case ActionViewRoster:
		return identity.Role == domain.RoleSuperAdmin
	default:
		return false
	}
}

// ViewScope returns the list visibility for the identity's role.
func ViewScope(identity domain.Identity) Scope {
	switch identity.Role {
	case domain.RoleEndUser:
		return ScopeOwn
	case domain.RoleDepartmentAdmin:
		return ScopeDepartment
	case domain.RoleOrgAdmin, domain.RoleSupportStaff, domain.RoleSuperAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

func canView(identity domain.Identity, resource Resource) bool {
	switch identity.Role {
	case domain.RoleEndUser:
		return resource.SubmitterID == identity.UserID
	case domain.RoleDepartmentAdmin:
		return identity.Department != nil && *identity.Department == resource.Department
	case domain.RoleOrgAdmin, domain.RoleSupportStaff, domain.RoleSuperAdmin:
		return true
	default:
		return false
	}
}

func canMutate(identity domain.Identity, resource Resource) bool {
	switch identity.Role {
	case domain.RoleEndUser:
		return false
	case domain.RoleDepartmentAdmin:
		return identity.Department != nil && *identity.Department == resource.Department
	case domain.RoleOrgAdmin, domain.RoleSupportStaff, domain.RoleSuperAdmin:
		return true
	default:
		return false
	}
}
