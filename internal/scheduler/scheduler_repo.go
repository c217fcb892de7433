package scheduler

import (
	"context"
	"time"

	"go-payday/internal/payment"

	"gorm.io/gorm"
)

type Repository interface {
	FindDuePending(ctx context.Context, refDate time.Time) ([]DuePayment, error)
	MarkPaid(ctx context.Context, id string) (bool, error)
	FindOverdue(ctx context.Context, companyID string, today time.Time) ([]DuePayment, error)
	FindUpcoming(ctx context.Context, companyID string, today time.Time, days int) ([]DuePayment, error)
	Statistics(ctx context.Context, companyID string) (StatisticsResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const duePaymentColumns = `
	payments.id,
	payments.employee_id,
	COALESCE(employees.full_name, '') AS employee_name,
	employees.company_id,
	payments.amount_cfa,
	payments.amount_usd,
	payments.date,
	payments.status,
	payments.type,
	payments.reference
`

func (r *repository) FindDuePending(ctx context.Context, refDate time.Time) ([]DuePayment, error) {
	var due []DuePayment
	err := r.db.WithContext(ctx).
		Table("payments").
		Select(duePaymentColumns).
		Joins("LEFT JOIN employees ON employees.id = payments.employee_id").
		Where("payments.status = ?", payment.StatusPending).
		Where("payments.date <= ?", refDate).
		Order("payments.date ASC").
		Order("payments.created_at ASC").
		Scan(&due).Error
	return due, err
}

// MarkPaid is the conditional transition of one pass item. The status
// guard makes it a no-op when something else already moved the row.
func (r *repository) MarkPaid(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("id = ? AND status = ?", id, payment.StatusPending).
		Update("status", payment.StatusPaid)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) FindOverdue(ctx context.Context, companyID string, today time.Time) ([]DuePayment, error) {
	db := r.db.WithContext(ctx).
		Table("payments").
		Select(duePaymentColumns).
		Joins("LEFT JOIN employees ON employees.id = payments.employee_id").
		Where("payments.status = ?", payment.StatusPending).
		Where("payments.date < ?", today)

	if companyID != "" {
		db = db.Where("employees.company_id = ?", companyID)
	}

	var due []DuePayment
	err := db.Order("payments.date ASC").Scan(&due).Error
	return due, err
}

func (r *repository) FindUpcoming(ctx context.Context, companyID string, today time.Time, days int) ([]DuePayment, error) {
	future := today.AddDate(0, 0, days)

	db := r.db.WithContext(ctx).
		Table("payments").
		Select(duePaymentColumns).
		Joins("LEFT JOIN employees ON employees.id = payments.employee_id").
		Where("payments.status = ?", payment.StatusPending).
		Where("payments.date > ?", today).
		Where("payments.date <= ?", future)

	if companyID != "" {
		db = db.Where("employees.company_id = ?", companyID)
	}

	var due []DuePayment
	err := db.Order("payments.date ASC").Scan(&due).Error
	return due, err
}

func (r *repository) Statistics(ctx context.Context, companyID string) (StatisticsResponse, error) {
	byStatusQuery := `
SELECT
	p.status,
	COUNT(*) AS count,
	COALESCE(SUM(p.amount_cfa), 0) AS total_cfa,
	COALESCE(SUM(p.amount_usd), 0) AS total_usd
FROM payments p
LEFT JOIN employees e ON e.id = p.employee_id
`
	totalQuery := `
SELECT
	COUNT(*) AS total_count,
	COALESCE(SUM(p.amount_cfa), 0) AS total_cfa,
	COALESCE(SUM(p.amount_usd), 0) AS total_usd
FROM payments p
LEFT JOIN employees e ON e.id = p.employee_id
`

	var args []any
	if companyID != "" {
		byStatusQuery += "WHERE e.company_id = ?\n"
		totalQuery += "WHERE e.company_id = ?\n"
		args = append(args, companyID)
	}
	byStatusQuery += "GROUP BY p.status\nORDER BY p.status"

	var stats StatisticsResponse
	if err := r.db.WithContext(ctx).Raw(byStatusQuery, args...).Scan(&stats.ByStatus).Error; err != nil {
		return StatisticsResponse{}, err
	}
	if err := r.db.WithContext(ctx).Raw(totalQuery, args...).Scan(&stats.Total).Error; err != nil {
		return StatisticsResponse{}, err
	}

	return stats, nil
}
