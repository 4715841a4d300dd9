package entity

// rolePermissions is the single source of truth mapping each role to its
// permission set. The table is immutable configuration: changing what a role
// may do happens here and nowhere else. A role missing from the table yields
// an empty set (default deny), never an error.
var rolePermissions = map[Role]PermissionSet{
	// System admin: the complete catalog, including company management.
	RoleSystemAdmin: NewPermissionSet(allPermissions...),

	// Company admin: full access within the company, but user creation and
	// deletion stay with the system admin.
	RoleCompanyAdmin: NewPermissionSet(
		PermViewUsers, PermEditUsers,
		PermViewProducts, PermCreateProducts, PermEditProducts, PermDeleteProducts,
		PermViewInvoices, PermCreateInvoices, PermEditInvoices, PermDeleteInvoices,
		PermViewPurchases, PermCreatePurchases, PermEditPurchases, PermDeletePurchases,
		PermViewWarehouse, PermManageWarehouse,
		PermViewReports, PermExportReports, PermViewFinancials,
		PermViewAuditLogs,
	),

	// Accountant: financial operations and reports.
	RoleAccountant: NewPermissionSet(
		PermViewUsers,
		PermViewProducts,
		PermViewInvoices, PermCreateInvoices, PermEditInvoices,
		PermViewPurchases, PermCreatePurchases, PermEditPurchases,
		PermViewWarehouse,
		PermViewReports, PermExportReports, PermViewFinancials,
	),

	// Sales manager: manage sales and invoices.
	RoleSalesManager: NewPermissionSet(
		PermViewUsers,
		PermViewProducts, PermCreateProducts, PermEditProducts,
		PermViewInvoices, PermCreateInvoices, PermEditInvoices, PermDeleteInvoices,
		PermViewWarehouse,
		PermViewReports,
	),

	// Warehouse keeper: inventory and warehouse operations.
	RoleWarehouseKeeper: NewPermissionSet(
		PermViewProducts, PermCreateProducts, PermEditProducts,
		PermViewPurchases,
		PermViewWarehouse, PermManageWarehouse,
		PermViewReports,
	),

	// Salesperson: create and view invoices, check stock.
	RoleSalesperson: NewPermissionSet(
		PermViewProducts,
		PermViewInvoices, PermCreateInvoices,
		PermViewWarehouse,
	),

	// Viewer: read-only access.
	RoleViewer: NewPermissionSet(
		PermViewUsers, PermViewProducts, PermViewInvoices,
		PermViewPurchases, PermViewWarehouse, PermViewReports,
	),
}

// PermissionsForRole returns the permission set mapped to the given role.
// Unknown roles get an empty set. The returned set is a copy; callers may
// not mutate the mapping table through it.
func PermissionsForRole(role Role) PermissionSet {
	mapped, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}
	}

	out := make(PermissionSet, len(mapped))
	for p := range mapped {
		out[p] = struct{}{}
	}

	return out
}
