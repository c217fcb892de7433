package payment

type CreatePaymentRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	AmountCFA  int64  `json:"amount_cfa" binding:"required,gt=0"`
	AmountUSD  int64  `json:"amount_usd" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"omitempty,oneof=pending paid"`
	Type       string `json:"type" binding:"omitempty,oneof=salary other"`
}

type UpdatePaymentRequest struct {
	AmountCFA *int64  `json:"amount_cfa" binding:"omitempty,gt=0"`
	AmountUSD *int64  `json:"amount_usd" binding:"omitempty,gt=0"`
	Date      *string `json:"date"`
	Status    *string `json:"status" binding:"omitempty,oneof=pending paid"`
	Type      *string `json:"type" binding:"omitempty,oneof=salary other"`
}

type BatchCreatePaymentRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	AmountCFA   int64    `json:"amount_cfa" binding:"required,gt=0"`
	AmountUSD   int64    `json:"amount_usd" binding:"required,gt=0"`
	Date        string   `json:"date" binding:"required"`
	Status      string   `json:"status" binding:"omitempty,oneof=pending paid"`
	Type        string   `json:"type" binding:"omitempty,oneof=salary other"`
}

type PaymentQueryFilter struct {
	Search     string   `form:"search"`
	EmployeeID string   `form:"employee_id" binding:"omitempty,uuid"`
	Months     []string `form:"months"`
}

type PaymentResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	AmountCFA    int64  `json:"amount_cfa"`
	AmountUSD    int64  `json:"amount_usd"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	Reference    string `json:"reference"`
}

type BatchCreateError struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Error        string `json:"error"`
}

type BatchSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

type BatchCreatePaymentResponse struct {
	Success         bool               `json:"success"`
	CreatedPayments []PaymentResponse  `json:"created_payments"`
	Errors          []BatchCreateError `json:"errors"`
	Summary         BatchSummary       `json:"summary"`
}
