package postgres

import (
	"gorm.io/gorm"

	"erpcore/internal/domain/authz"
)

// CompanyScope narrows a query to the rows visible under the given company
// context. System admins get the query back untouched; everyone else is
// filtered to their own company. Usable as a GORM scope on any table with a
// company_id column.
func CompanyScope(cc *authz.CompanyContext) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cc == nil || !cc.ShouldFilter() {
			return db
		}

		return db.Where("company_id = ?", cc.CompanyID())
	}
}
