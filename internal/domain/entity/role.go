// Package entity contains the core business objects of the project.
package entity

// Role represents the single role a user holds in the system.
// One role maps directly to one permission set.
type Role string

const (
	// RoleSystemAdmin is the only role exempt from company filtering.
	// System admins have no company and hold the full permission catalog.
	RoleSystemAdmin Role = "system_admin"
	// RoleCompanyAdmin has full access within its own company.
	RoleCompanyAdmin Role = "company_admin"
	// RoleAccountant covers financial operations and reports.
	RoleAccountant Role = "accountant"
	// RoleSalesManager manages sales, invoices and salespeople.
	RoleSalesManager Role = "sales_manager"
	// RoleWarehouseKeeper manages inventory and warehouse operations.
	RoleWarehouseKeeper Role = "warehouse_keeper"
	// RoleSalesperson creates invoices and views products.
	RoleSalesperson Role = "salesperson"
	// RoleViewer has read-only access.
	RoleViewer Role = "viewer"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystemAdmin, RoleCompanyAdmin, RoleAccountant, RoleSalesManager,
		RoleWarehouseKeeper, RoleSalesperson, RoleViewer:
		return true
	default:
		return false
	}
}

// RequiresCompany reports whether users holding this role must be scoped to a
// company. Every role except system admin is company-scoped.
func (r Role) RequiresCompany() bool {
	return r != RoleSystemAdmin
}

// RoleFromString converts a string to a Role, reporting whether it is a known role.
func RoleFromString(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
