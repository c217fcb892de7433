package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;index"`
	FullName  string
	Email     string `gorm:"uniqueIndex"`
	Phone     string
	Position  string
	StartDate *time.Time `gorm:"type:date"` // Pointer karena bisa null
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HireDate is the effective employment start: the explicit start date
// when present, otherwise the record creation timestamp.
func (e *Employee) HireDate() time.Time {
	if e.StartDate != nil {
		return *e.StartDate
	}
	return e.CreatedAt
}
