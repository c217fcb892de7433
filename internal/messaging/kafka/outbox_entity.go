package kafka

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventRecord is the persisted shape of an outbox row. It exists
// for schema migration only: the repository reads and writes raw SQL
// so it can ride the service's *sql.Tx.
type OutboxEventRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID     string    `gorm:"type:varchar(64)"`
	AggregateType string    `gorm:"type:varchar(32);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EventType     string    `gorm:"type:varchar(64);not null"`
	Topic         string    `gorm:"type:varchar(128);not null"`
	Payload       []byte    `gorm:"type:jsonb;not null"`

	Status      string     `gorm:"type:varchar(10);not null;default:'pending';index:idx_outbox_status_retry,priority:1"`
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"index:idx_outbox_status_retry,priority:2"`
	ProcessedAt *time.Time

	ErrorMessage *string `gorm:"type:varchar(500)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OutboxEventRecord) TableName() string {
	return "outbox_events"
}
