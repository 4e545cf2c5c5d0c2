package domain

import (
	"fmt"
	"strings"
)

// Role enumerates the fixed role hierarchy.
type Role string

const (
	RoleEndUser         Role = "END_USER"
	RoleOrgAdmin        Role = "ORG_ADMIN"
	RoleDepartmentAdmin Role = "DEPARTMENT_ADMIN"
	RoleSupportStaff    Role = "SUPPORT_STAFF"
	RoleSuperAdmin      Role = "SUPER_ADMIN"
)

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleEndUser, RoleOrgAdmin, RoleDepartmentAdmin, RoleSupportStaff, RoleSuperAdmin}
}

// ParseRole validates a role string against the closed enum.
func ParseRole(val string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(val)))
	switch role {
	case RoleEndUser, RoleOrgAdmin, RoleDepartmentAdmin, RoleSupportStaff, RoleSuperAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", val)
	}
}

// IsValid reports whether the role is a member of the enum.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// DashboardPath returns the role-specific dashboard route.
func (r Role) DashboardPath() string {
	switch r {
	case RoleOrgAdmin:
		return "/org-admin/dashboard"
	case RoleDepartmentAdmin:
		return "/department/dashboard"
	case RoleSupportStaff:
		return "/support/dashboard"
	case RoleSuperAdmin:
		return "/super-admin/dashboard"
	default:
		return "/user/dashboard"
	}
}
