// Package authz implements role-based permission resolution and company
// scoped data isolation. Authorization is deny-by-default: a permission is
// granted only when the user's role explicitly maps to it.
package authz

import (
	"erpcore/internal/domain/entity"
)

// Authorizer resolves the effective permission set for one authenticated
// user. It is built once per request from the user and, when the user belongs
// to a company, that company. Resolution is lazy and cached, so repeated
// checks within a request cost one map lookup.
type Authorizer struct {
	user    *entity.User
	company *entity.Company

	resolved bool
	perms    entity.PermissionSet
}

// NewAuthorizer creates an Authorizer for the given user and company.
// company may be nil for system admins or when the user carries no company.
// A nil user is allowed and resolves to no permissions at all.
func NewAuthorizer(user *entity.User, company *entity.Company) *Authorizer {
	return &Authorizer{user: user, company: company}
}

// permissions resolves and caches the effective set.
func (a *Authorizer) permissions() entity.PermissionSet {
	if a.resolved {
		return a.perms
	}
	a.resolved = true

	switch {
	case a.user == nil:
		a.perms = entity.PermissionSet{}
	case !a.user.IsActive:
		a.perms = entity.PermissionSet{}
	case a.company != nil && !a.company.IsActive:
		// A deactivated company suspends every member's access.
		a.perms = entity.PermissionSet{}
	default:
		a.perms = entity.PermissionsForRole(a.user.Role)
	}

	return a.perms
}

// HasPermission reports whether the user holds the given permission.
func (a *Authorizer) HasPermission(perm entity.Permission) bool {
	return a.permissions().Contains(perm)
}

// HasPermissionString resolves a raw permission string against the catalog
// and reports whether the user holds it. An unknown string is simply not
// held, never an error.
func (a *Authorizer) HasPermissionString(raw string) bool {
	perm, ok := entity.PermissionFromString(raw)
	if !ok {
		return false
	}

	return a.permissions().Contains(perm)
}

// HasAnyPermission reports whether the user holds at least one of the given permissions.
func (a *Authorizer) HasAnyPermission(perms ...entity.Permission) bool {
	set := a.permissions()
	for _, p := range perms {
		if set.Contains(p) {
			return true
		}
	}

	return false
}

// HasAllPermissions reports whether the user holds every one of the given permissions.
func (a *Authorizer) HasAllPermissions(perms ...entity.Permission) bool {
	set := a.permissions()
	for _, p := range perms {
		if !set.Contains(p) {
			return false
		}
	}

	return true
}

// Permissions returns the user's effective permissions in catalog order.
func (a *Authorizer) Permissions() []entity.Permission {
	return a.permissions().List()
}

// IsSystemAdmin reports whether the user is an active system administrator.
func (a *Authorizer) IsSystemAdmin() bool {
	return a.user != nil && a.user.IsActive && a.user.Role == entity.RoleSystemAdmin
}

// User returns the user this authorizer was built for. May be nil.
func (a *Authorizer) User() *entity.User {
	return a.user
}
