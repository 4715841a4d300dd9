// Package entity contains the core business objects of the project.
package entity

// Permission is an atomic capability, identified by a stable "domain.action"
// token. Permissions are defined at compile time and never persisted per user.
type Permission string

// The full permission catalog, organized by feature domain.
const (
	// User management.
	PermViewUsers   Permission = "users.view"
	PermCreateUsers Permission = "users.create"
	PermEditUsers   Permission = "users.edit"
	PermDeleteUsers Permission = "users.delete"

	// Company management (system admin only).
	PermViewCompanies   Permission = "companies.view"
	PermCreateCompanies Permission = "companies.create"
	PermEditCompanies   Permission = "companies.edit"
	PermDeleteCompanies Permission = "companies.delete"

	// Products and inventory.
	PermViewProducts   Permission = "products.view"
	PermCreateProducts Permission = "products.create"
	PermEditProducts   Permission = "products.edit"
	PermDeleteProducts Permission = "products.delete"

	// Sales and invoices.
	PermViewInvoices   Permission = "invoices.view"
	PermCreateInvoices Permission = "invoices.create"
	PermEditInvoices   Permission = "invoices.edit"
	PermDeleteInvoices Permission = "invoices.delete"

	// Purchases.
	PermViewPurchases   Permission = "purchases.view"
	PermCreatePurchases Permission = "purchases.create"
	PermEditPurchases   Permission = "purchases.edit"
	PermDeletePurchases Permission = "purchases.delete"

	// Warehouse management.
	PermViewWarehouse   Permission = "warehouse.view"
	PermManageWarehouse Permission = "warehouse.manage"

	// Accounting and reports.
	PermViewReports    Permission = "reports.view"
	PermExportReports  Permission = "reports.export"
	PermViewFinancials Permission = "financials.view"

	// System administration.
	PermViewAuditLogs      Permission = "audit.view"
	PermViewSystemSettings Permission = "settings.view"
	PermEditSystemSettings Permission = "settings.edit"
)

// allPermissions is the closed catalog. Order is stable for deterministic listings.
var allPermissions = []Permission{
	PermViewUsers, PermCreateUsers, PermEditUsers, PermDeleteUsers,
	PermViewCompanies, PermCreateCompanies, PermEditCompanies, PermDeleteCompanies,
	PermViewProducts, PermCreateProducts, PermEditProducts, PermDeleteProducts,
	PermViewInvoices, PermCreateInvoices, PermEditInvoices, PermDeleteInvoices,
	PermViewPurchases, PermCreatePurchases, PermEditPurchases, PermDeletePurchases,
	PermViewWarehouse, PermManageWarehouse,
	PermViewReports, PermExportReports, PermViewFinancials,
	PermViewAuditLogs, PermViewSystemSettings, PermEditSystemSettings,
}

// String returns the string representation of the Permission.
func (p Permission) String() string {
	return string(p)
}

// AllPermissions returns the complete permission catalog.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)

	return out
}

// PermissionFromString resolves a raw string against the catalog,
// reporting whether it names a known permission.
func PermissionFromString(s string) (Permission, bool) {
	p := Permission(s)
	for _, known := range allPermissions {
		if known == p {
			return p, true
		}
	}

	return "", false
}

// PermissionSet is a set of permissions keyed for O(1) membership checks.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a PermissionSet from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}

	return set
}

// Contains reports whether the set holds the given permission.
func (s PermissionSet) Contains(p Permission) bool {
	_, ok := s[p]

	return ok
}

// List returns the set's permissions in catalog order.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range allPermissions {
		if s.Contains(p) {
			out = append(out, p)
		}
	}

	return out
}
