package policy

import (
	"testing"

	"github.com/spec-kit/civicdesk/internal/domain"
)

func strptr(s string) *string { return &s }

func TestAuthorizeViewComplaint(t *testing.T) {
	resource := Resource{Department: "Water", SubmitterID: "u1"}

	tests := []struct {
		name     string
		identity domain.Identity
		want     bool
	}{
		{"end user own complaint", domain.Identity{UserID: "u1", Role: domain.RoleEndUser}, true},
		{"end user foreign complaint", domain.Identity{UserID: "u2", Role: domain.RoleEndUser}, false},
		{"department admin own department", domain.Identity{UserID: "a1", Role: domain.RoleDepartmentAdmin, Department: strptr("Water")}, true},
		{"department admin other department", domain.Identity{UserID: "a1", Role: domain.RoleDepartmentAdmin, Department: strptr("Health")}, false},
		{"department admin without department", domain.Identity{UserID: "a1", Role: domain.RoleDepartmentAdmin}, false},
		{"org admin", domain.Identity{UserID: "o1", Role: domain.RoleOrgAdmin}, true},
		{"support staff", domain.Identity{UserID: "s1", Role: domain.RoleSupportStaff}, true},
		{"super admin", domain.Identity{UserID: "sa", Role: domain.RoleSuperAdmin}, true},
		{"unknown role denied", domain.Identity{UserID: "x", Role: "INTRUDER"}, false},
		{"empty role denied", domain.Identity{UserID: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.identity, ActionViewComplaint, resource); got != tt.want {
				t.Fatalf("Authorize view = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeMutateStatus(t *testing.T) {
	resource := Resource{Department: "Water", SubmitterID: "u1"}

	tests := []struct {
		name     string
		identity domain.Identity
		want     bool
	}{
		{"end user never mutates, even own", domain.Identity{UserID: "u1", Role: domain.RoleEndUser}, false},
		{"department admin own department", domain.Identity{UserID: "a1", Role: domain.RoleDepartmentAdmin, Department: strptr("Water")}, true},
		{"department admin other department", domain.Identity{UserID: "a1", Role: domain.RoleDepartmentAdmin, Department: strptr("Health")}, false},
		{"org admin any", domain.Identity{UserID: "o1", Role: domain.RoleOrgAdmin}, true},
		{"support staff any", domain.Identity{UserID: "s1", Role: domain.RoleSupportStaff}, true},
		{"super admin any", domain.Identity{UserID: "sa", Role: domain.RoleSuperAdmin}, true},
		{"unknown role denied", domain.Identity{UserID: "x", Role: "root"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.identity, ActionMutateStatus, resource); got != tt.want {
				t.Fatalf("Authorize mutate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeSubmit(t *testing.T) {
	for _, role := range domain.Roles() {
		if !Authorize(domain.Identity{UserID: "u", Role: role}, ActionSubmitComplaint, Resource{}) {
			t.Fatalf("role %s should be allowed to submit", role)
		}
	}
	if Authorize(domain.Identity{UserID: "u", Role: "GHOST"}, ActionSubmitComplaint, Resource{}) {
		t.Fatal("unknown role allowed to submit")
	}
}

func TestAuthorizeViewRoster(t *testing.T) {
	for _, role := range domain.Roles() {
		got := Authorize(domain.Identity{UserID: "u", Role: role}, ActionViewRoster, Resource{})
		want := role == domain.RoleSuperAdmin
		if got != want {
			t.Fatalf("roster access for %s = %v, want %v", role, got, want)
		}
	}
}

func TestAuthorizeUnknownActionDenied(t *testing.T) {
	identity := domain.Identity{UserID: "sa", Role: domain.RoleSuperAdmin}
	if Authorize(identity, Action("delete_everything"), Resource{}) {
		t.Fatal("unknown action must be denied even for super admin")
	}
}

func TestViewScope(t *testing.T) {
	tests := []struct {
		identity domain.Identity
		want     Scope
	}{
		{domain.Identity{Role: domain.RoleEndUser}, ScopeOwn},
		{domain.Identity{Role: domain.RoleDepartmentAdmin}, ScopeDepartment},
		{domain.Identity{Role: domain.RoleOrgAdmin}, ScopeAll},
		{domain.Identity{Role: domain.RoleSupportStaff}, ScopeAll},
		{domain.Identity{Role: domain.RoleSuperAdmin}, ScopeAll},
		{domain.Identity{Role: "INTRUDER"}, ScopeNone},
		{domain.Identity{}, ScopeNone},
	}
	for _, tt := range tests {
		if got := ViewScope(tt.identity); got != tt.want {
			t.Fatalf("ViewScope(%s) = %v, want %v", tt.identity.Role, got, tt.want)
		}
	}
}
