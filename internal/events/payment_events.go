package events

import "time"

const PaymentLifecycleTopic = "payroll.payment.lifecycle.v1"

const (
	PaymentCreatedType    = "payment.created"
	PaymentReconciledType = "payment.reconciled"
)

type PaymentCreatedEvent struct {
	EventType  string    `json:"event_type"`
	PaymentID  string    `json:"payment_id"`
	EmployeeID string    `json:"employee_id"`
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	Type       string    `json:"type"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentReconciledEvent struct {
	EventType  string    `json:"event_type"`
	PaymentID  string    `json:"payment_id"`
	Reference  string    `json:"reference"`
	OccurredAt time.Time `json:"occurred_at"`
}
