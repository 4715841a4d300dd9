package authz

import (
	"github.com/google/uuid"

	"erpcore/internal/domain/entity"
	domainerrors "erpcore/internal/domain/errors"
)

// CompanyContext captures which tenant's rows the current user may touch.
// Regular users are confined to their own company; system admins see across
// all companies. Repositories consult the context instead of re-deriving the
// rule from the user.
type CompanyContext struct {
	userID        uuid.UUID
	companyID     *uuid.UUID
	isSystemAdmin bool
}

// NewCompanyContext builds the context from an authenticated user.
// A non-admin user without a company ID is a data integrity problem, not a
// client mistake, so it surfaces as a tenant configuration error.
func NewCompanyContext(user *entity.User) (*CompanyContext, error) {
	isAdmin := user.Role == entity.RoleSystemAdmin
	if !isAdmin && user.CompanyID == nil {
		return nil, domainerrors.ErrTenantConfiguration.WithDetails(
			"user " + user.ID.String() + " has no company and is not a system admin")
	}

	return &CompanyContext{
		userID:        user.ID,
		companyID:     user.CompanyID,
		isSystemAdmin: isAdmin,
	}, nil
}

// ShouldFilter reports whether queries must be narrowed to the user's company.
// False only for system admins.
func (c *CompanyContext) ShouldFilter() bool {
	return !c.isSystemAdmin
}

// IsSystemAdmin reports whether the context belongs to a system admin.
func (c *CompanyContext) IsSystemAdmin() bool {
	return c.isSystemAdmin
}

// CompanyID returns the user's company ID. Nil for system admins.
func (c *CompanyContext) CompanyID() *uuid.UUID {
	return c.companyID
}

// UserID returns the ID of the user the context was built for.
func (c *CompanyContext) UserID() uuid.UUID {
	return c.userID
}

// EnsureAccess verifies the user may touch a resource owned by the given
// company. System admins pass unconditionally; everyone else must match
// their own company exactly.
func (c *CompanyContext) EnsureAccess(resourceCompanyID *uuid.UUID) error {
	if c.isSystemAdmin {
		return nil
	}
	if resourceCompanyID == nil || c.companyID == nil || *resourceCompanyID != *c.companyID {
		return domainerrors.ErrForbidden
	}

	return nil
}

// CompanyIDForCreate returns the company a new resource must belong to.
// Regular users always create within their own company. A system admin has
// no implicit company and must name one in the request instead.
func (c *CompanyContext) CompanyIDForCreate() (uuid.UUID, error) {
	if c.companyID == nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails(
			"system admin must specify a company when creating resources")
	}

	return *c.companyID, nil
}
