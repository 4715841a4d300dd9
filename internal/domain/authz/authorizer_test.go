package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"erpcore/internal/domain/entity"
)

func activeUser(role entity.Role, companyID *uuid.UUID) *entity.User {
	return &entity.User{
		ID:        uuid.New(),
		Role:      role,
		CompanyID: companyID,
		IsActive:  true,
	}
}

func TestAuthorizer_SystemAdminHasFullCatalog(t *testing.T) {
	auth := NewAuthorizer(activeUser(entity.RoleSystemAdmin, nil), nil)

	for _, perm := range entity.AllPermissions() {
		assert.True(t, auth.HasPermission(perm), "system admin should hold %s", perm)
	}
	assert.True(t, auth.IsSystemAdmin())
}

func TestAuthorizer_RoleGrantsOnlyMappedPermissions(t *testing.T) {
	companyID := uuid.New()
	auth := NewAuthorizer(activeUser(entity.RoleSalesperson, &companyID), &entity.Company{
		ID:       companyID,
		IsActive: true,
	})

	assert.True(t, auth.HasPermission(entity.PermViewProducts))
	assert.True(t, auth.HasPermission(entity.PermCreateInvoices))

	// Nothing outside the salesperson mapping leaks in.
	assert.False(t, auth.HasPermission(entity.PermDeleteInvoices))
	assert.False(t, auth.HasPermission(entity.PermViewFinancials))
	assert.False(t, auth.HasPermission(entity.PermCreateUsers))
	assert.False(t, auth.IsSystemAdmin())
}

func TestAuthorizer_UnknownRoleResolvesToEmptySet(t *testing.T) {
	companyID := uuid.New()
	user := activeUser(entity.Role("intern"), &companyID)
	auth := NewAuthorizer(user, &entity.Company{ID: companyID, IsActive: true})

	assert.Empty(t, auth.Permissions())
	assert.False(t, auth.HasAnyPermission(entity.AllPermissions()...))
}

func TestAuthorizer_NilUserHasNoPermissions(t *testing.T) {
	auth := NewAuthorizer(nil, nil)

	assert.Empty(t, auth.Permissions())
	assert.False(t, auth.HasPermission(entity.PermViewProducts))
	assert.False(t, auth.IsSystemAdmin())
}

func TestAuthorizer_InactiveUserHasNoPermissions(t *testing.T) {
	companyID := uuid.New()
	user := activeUser(entity.RoleCompanyAdmin, &companyID)
	user.IsActive = false

	auth := NewAuthorizer(user, &entity.Company{ID: companyID, IsActive: true})

	assert.Empty(t, auth.Permissions())
	assert.False(t, auth.HasPermission(entity.PermViewProducts))
}

func TestAuthorizer_InactiveCompanySuspendsMembers(t *testing.T) {
	companyID := uuid.New()
	auth := NewAuthorizer(activeUser(entity.RoleCompanyAdmin, &companyID), &entity.Company{
		ID:       companyID,
		IsActive: false,
	})

	assert.Empty(t, auth.Permissions())
	assert.False(t, auth.HasPermission(entity.PermViewProducts))
}

func TestAuthorizer_RawStringPermissionLookup(t *testing.T) {
	companyID := uuid.New()
	auth := NewAuthorizer(activeUser(entity.RoleViewer, &companyID), &entity.Company{
		ID:       companyID,
		IsActive: true,
	})

	assert.True(t, auth.HasPermissionString("products.view"))
	assert.False(t, auth.HasPermissionString("products.delete"))

	// Strings outside the catalog are simply not held.
	assert.False(t, auth.HasPermissionString("products.telepathy"))
	assert.False(t, auth.HasPermissionString(""))
}

func TestAuthorizer_HasAnyAndHasAll(t *testing.T) {
	companyID := uuid.New()
	auth := NewAuthorizer(activeUser(entity.RoleViewer, &companyID), &entity.Company{
		ID:       companyID,
		IsActive: true,
	})

	assert.True(t, auth.HasAnyPermission(entity.PermViewProducts, entity.PermDeleteProducts))
	assert.False(t, auth.HasAnyPermission(entity.PermDeleteProducts, entity.PermEditProducts))

	assert.True(t, auth.HasAllPermissions(entity.PermViewProducts, entity.PermViewReports))
	assert.False(t, auth.HasAllPermissions(entity.PermViewProducts, entity.PermExportReports))
}

func TestAuthorizer_PermissionsReturnedInCatalogOrder(t *testing.T) {
	companyID := uuid.New()
	auth := NewAuthorizer(activeUser(entity.RoleViewer, &companyID), &entity.Company{
		ID:       companyID,
		IsActive: true,
	})

	perms := auth.Permissions()
	assert.Equal(t, []entity.Permission{
		entity.PermViewUsers,
		entity.PermViewProducts,
		entity.PermViewInvoices,
		entity.PermViewPurchases,
		entity.PermViewWarehouse,
		entity.PermViewReports,
	}, perms)
}
