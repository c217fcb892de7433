package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// Item outcomes of one reconciliation pass.
const (
	ItemSuccess = "success"
	ItemSkipped = "failed" // no rows affected: already processed elsewhere
	ItemError   = "error"
)

// DuePayment is the joined projection a pass and the read-only views
// operate on.
type DuePayment struct {
	ID           uuid.UUID `json:"id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	CompanyID    uuid.UUID `json:"company_id"`
	AmountCFA    int64     `json:"amount_cfa"`
	AmountUSD    int64     `json:"amount_usd"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	Reference    string    `json:"reference"`
}

type ItemResult struct {
	PaymentID    string `json:"payment_id"`
	Reference    string `json:"reference"`
	EmployeeName string `json:"employee_name"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

type PassResult struct {
	Success   bool         `json:"success"`
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Message   string       `json:"message,omitempty"`
	Details   []ItemResult `json:"details,omitempty"`
}

type StatusCount struct {
	Status   string `json:"status"`
	Count    int64  `json:"count"`
	TotalCFA int64  `json:"total_cfa"`
	TotalUSD int64  `json:"total_usd"`
}

type StatisticsTotal struct {
	TotalCount int64 `json:"total_count"`
	TotalCFA   int64 `json:"total_cfa"`
	TotalUSD   int64 `json:"total_usd"`
}

type StatisticsResponse struct {
	ByStatus []StatusCount   `json:"by_status"`
	Total    StatisticsTotal `json:"total"`
}

type LoopStatus struct {
	Running bool `json:"running"`
}
