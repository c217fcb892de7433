package payment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

const (
	TypeSalary = "salary"
	TypeOther  = "other"
)

type Payment struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:uq_payment_salary_month,where:type = 'salary',priority:1"`
	Employee   *PaymentEmployee `gorm:"foreignKey:EmployeeID;references:ID"`

	// Financials disimpan dalam satuan terkecil untuk hindari floating error.
	AmountCFA int64 `gorm:"type:bigint;not null;default:0"`
	AmountUSD int64 `gorm:"type:bigint;not null;default:0"`

	// Date is the due/period date; PeriodMonth is its YYYY-MM key,
	// written alongside so the salary-per-month rule can be a real
	// database constraint instead of an application-only check.
	Date        time.Time `gorm:"type:date;not null;index:idx_payment_status_date,priority:2"`
	PeriodMonth string    `gorm:"type:varchar(7);not null;uniqueIndex:uq_payment_salary_month,where:type = 'salary',priority:2"`

	Status    string `gorm:"type:varchar(10);not null;default:'pending';index:idx_payment_status_date,priority:1"`
	Type      string `gorm:"type:varchar(10);not null;default:'salary'"`
	Reference string `gorm:"type:varchar(20);not null;uniqueIndex:uq_payment_reference"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentEmployee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	Position string
}

func (PaymentEmployee) TableName() string {
	return "employees"
}
