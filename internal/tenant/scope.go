package tenant

import "gorm.io/gorm"

// Scope filters rows that carry a company_id column directly.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// EmployeeScope filters rows owned by a company transitively through
// the employee, for tables that only carry employee_id.
func EmployeeScope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"employee_id IN (SELECT id FROM employees WHERE company_id = ?)",
			companyID,
		)
	}
}
