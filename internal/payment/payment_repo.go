package payment

import (
	"context"
	"database/sql"
	"fmt"

	"go-payday/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payment) error
	FindAllByCompany(ctx context.Context, companyID string, filter PaymentQueryFilter) ([]Payment, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, companyID string, id string) (bool, error)
	SalaryExistsForMonth(ctx context.Context, companyID, employeeID, monthKey string, excludeID *string) (bool, error)
	MaxReferenceSeq(ctx context.Context, year int) (int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to the caller's transaction. The gorm
// session runs on the *sql.Tx connection, so the service's rollback
// undoes every statement issued through the returned repository.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx

	return &repository{
		db: session,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter PaymentQueryFilter) ([]Payment, error) {
	db := r.db.WithContext(ctx).
		Model(&Payment{}).
		Joins("LEFT JOIN employees ON employees.id = payments.employee_id").
		Where("employees.company_id = ?", companyID)

	if filter.EmployeeID != "" {
		db = db.Where("payments.employee_id = ?", filter.EmployeeID)
	}

	if len(filter.Months) > 0 {
		db = db.Where("payments.period_month IN ?", filter.Months)
	}

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		db = db.Where(
			"employees.full_name ILIKE ? OR employees.email ILIKE ? OR employees.phone ILIKE ? OR payments.reference ILIKE ?",
			term, term, term, term,
		)
	}

	var payments []Payment
	err := db.
		Preload("Employee").
		Order("payments.date DESC").
		Order("payments.created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).
		Scopes(tenant.EmployeeScope(companyID)).
		Preload("Employee").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.EmployeeScope(companyID)).
		Delete(&Payment{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) SalaryExistsForMonth(
	ctx context.Context,
	companyID, employeeID, monthKey string,
	excludeID *string,
) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Payment{}).
		Joins("LEFT JOIN employees ON employees.id = payments.employee_id").
		Where("employees.company_id = ?", companyID).
		Where("payments.employee_id = ?", employeeID).
		Where("payments.type = ?", TypeSalary).
		Where("payments.period_month = ?", monthKey)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("payments.id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// MaxReferenceSeq scans the highest allocated sequence for a year.
// The result is only a proposal: the unique index on reference is what
// actually arbitrates concurrent allocations.
func (r *repository) MaxReferenceSeq(ctx context.Context, year int) (int, error) {
	var maxSeq int
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(CAST(split_part(reference, '-', 3) AS INTEGER)), 0)
		FROM payments
		WHERE reference LIKE ?
	`, fmt.Sprintf("PAY-%d-%%", year)).Scan(&maxSeq).Error

	if err != nil {
		return 0, err
	}

	return maxSeq, nil
}
