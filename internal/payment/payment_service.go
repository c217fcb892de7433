package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go-payday/internal/employee"
	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	paymenterrors "go-payday/internal/payment/errors"
	"go-payday/internal/shared/apperror"
	"go-payday/internal/shared/contextutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type Service interface {
	Create(ctx context.Context, companyID string, req CreatePaymentRequest) (PaymentResponse, error)
	GetAll(ctx context.Context, companyID string, filter PaymentQueryFilter) ([]PaymentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PaymentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdatePaymentRequest) (PaymentResponse, error)
	Delete(ctx context.Context, companyID, id string) (bool, error)
	BatchCreate(ctx context.Context, companyID string, req BatchCreatePaymentRequest) (BatchCreatePaymentResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	outboxRepo   kafka.OutboxRepository
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository) Service {
	return &service{db: db, repo: repo, employeeRepo: employeeRepo}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
) Service {
	return &service{db: db, repo: repo, employeeRepo: employeeRepo, outboxRepo: outboxRepo}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreatePaymentRequest,
) (PaymentResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PaymentResponse{}, paymenterrors.ErrInvalidCompanyID
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return PaymentResponse{}, err
	}

	emp, err := s.findEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PaymentResponse{}, err
	}

	return s.createForEmployee(ctx, companyID, emp, date, req)
}

// createForEmployee runs the whole creation pipeline for one resolved
// employee: hire-date validation, duplicate-salary fast path, status
// derivation, reference allocation and the insert, in one transaction.
// BatchCreate reuses it per employee so one failure stays isolated.
func (s *service) createForEmployee(
	ctx context.Context,
	companyID string,
	emp *employee.Employee,
	date time.Time,
	req CreatePaymentRequest,
) (PaymentResponse, error) {
	// Binding already rejects non-positive amounts on the HTTP edge;
	// this guard holds for callers that do not come through gin.
	if req.AmountCFA <= 0 || req.AmountUSD <= 0 {
		return PaymentResponse{}, paymenterrors.ErrInvalidAmount
	}

	if err := ValidateEmploymentDate(date, emp); err != nil {
		return PaymentResponse{}, err
	}

	paymentType := req.Type
	if paymentType == "" {
		paymentType = TypeSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PaymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Fast-path rejection only. The partial unique index on
	// (employee_id, period_month) is what actually guarantees the
	// one-salary-per-month rule under concurrency.
	if paymentType == TypeSalary {
		exists, err := qtx.SalaryExistsForMonth(ctx, companyID, emp.ID.String(), MonthKey(date), nil)
		if err != nil {
			return PaymentResponse{}, err
		}
		if exists {
			return PaymentResponse{}, paymenterrors.ErrSalaryMonthConflict
		}
	}

	p := &Payment{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		AmountCFA:   req.AmountCFA,
		AmountUSD:   req.AmountUSD,
		Date:        TruncateDay(date),
		PeriodMonth: MonthKey(date),
		Status:      ResolveStatus(date, req.Status),
		Type:        paymentType,
	}

	if err := createWithReference(ctx, qtx, p); err != nil {
		return PaymentResponse{}, err
	}

	if err := s.enqueueCreatedEvent(ctx, tx, p); err != nil {
		return PaymentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PaymentResponse{}, err
	}

	resp := mapToResponse(*p)
	resp.EmployeeName = emp.FullName
	return resp, nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter PaymentQueryFilter,
) ([]PaymentResponse, error) {
	for _, month := range filter.Months {
		if !monthKeyPattern.MatchString(month) {
			return nil, paymenterrors.ErrInvalidMonthFormat
		}
	}

	payments, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payments), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (PaymentResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PaymentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*p), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdatePaymentRequest,
) (PaymentResponse, error) {
	if (req.AmountCFA != nil && *req.AmountCFA <= 0) ||
		(req.AmountUSD != nil && *req.AmountUSD <= 0) {
		return PaymentResponse{}, paymenterrors.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PaymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PaymentResponse{}, mapRepositoryError(err)
	}

	candidateDate := p.Date
	dateChanged := false
	if req.Date != nil {
		candidateDate, err = parseDate(*req.Date)
		if err != nil {
			return PaymentResponse{}, err
		}
		dateChanged = !TruncateDay(candidateDate).Equal(TruncateDay(p.Date))
	}

	candidateType := p.Type
	if req.Type != nil {
		candidateType = *req.Type
	}

	if dateChanged {
		emp, err := s.findEmployee(ctx, companyID, p.EmployeeID.String())
		if err != nil {
			return PaymentResponse{}, err
		}
		if err := ValidateEmploymentDate(candidateDate, emp); err != nil {
			return PaymentResponse{}, err
		}
	}

	if candidateType == TypeSalary {
		exists, err := qtx.SalaryExistsForMonth(
			ctx, companyID, p.EmployeeID.String(), MonthKey(candidateDate), &id,
		)
		if err != nil {
			return PaymentResponse{}, err
		}
		if exists {
			return PaymentResponse{}, paymenterrors.ErrSalaryMonthConflict
		}
	}

	if req.AmountCFA != nil {
		p.AmountCFA = *req.AmountCFA
	}
	if req.AmountUSD != nil {
		p.AmountUSD = *req.AmountUSD
	}
	p.Type = candidateType

	// A changed date re-derives the status: a future date always goes
	// back to pending, whatever the caller asked for.
	if req.Date != nil {
		requested := ""
		if req.Status != nil {
			requested = *req.Status
		}
		p.Date = TruncateDay(candidateDate)
		p.PeriodMonth = MonthKey(candidateDate)
		p.Status = ResolveStatus(candidateDate, requested)
	} else if req.Status != nil {
		p.Status = *req.Status
	}

	if err := qtx.Update(ctx, p); err != nil {
		return PaymentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PaymentResponse{}, err
	}

	return mapToResponse(*p), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	deleted, err := qtx.Delete(ctx, companyID, id)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return deleted, nil
}

func (s *service) BatchCreate(
	ctx context.Context,
	companyID string,
	req BatchCreatePaymentRequest,
) (BatchCreatePaymentResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return BatchCreatePaymentResponse{}, paymenterrors.ErrInvalidCompanyID
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return BatchCreatePaymentResponse{}, err
	}

	// Every employee id must resolve before anything is created, so a
	// typo in one id fails the request instead of half the batch.
	employees := make([]*employee.Employee, 0, len(req.EmployeeIDs))
	for _, employeeID := range req.EmployeeIDs {
		emp, err := s.findEmployee(ctx, companyID, employeeID)
		if err != nil {
			if errors.Is(err, paymenterrors.ErrEmployeeNotFound) {
				return BatchCreatePaymentResponse{}, apperror.New(
					apperror.CodeNotFound,
					fmt.Sprintf("employee %s not found or not accessible", employeeID),
					http.StatusNotFound,
				)
			}
			return BatchCreatePaymentResponse{}, err
		}
		employees = append(employees, emp)
	}

	resp := BatchCreatePaymentResponse{
		CreatedPayments: []PaymentResponse{},
		Errors:          []BatchCreateError{},
	}

	for _, emp := range employees {
		created, err := s.createForEmployee(ctx, companyID, emp, date, CreatePaymentRequest{
			EmployeeID: emp.ID.String(),
			AmountCFA:  req.AmountCFA,
			AmountUSD:  req.AmountUSD,
			Date:       req.Date,
			Status:     req.Status,
			Type:       req.Type,
		})
		if err != nil {
			resp.Errors = append(resp.Errors, BatchCreateError{
				EmployeeID:   emp.ID.String(),
				EmployeeName: emp.FullName,
				Error:        err.Error(),
			})
			continue
		}

		resp.CreatedPayments = append(resp.CreatedPayments, created)
	}

	resp.Success = len(resp.CreatedPayments) > 0
	resp.Summary = BatchSummary{
		Total:   len(req.EmployeeIDs),
		Created: len(resp.CreatedPayments),
		Failed:  len(resp.Errors),
	}

	return resp, nil
}

func (s *service) findEmployee(ctx context.Context, companyID, employeeID string) (*employee.Employee, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, paymenterrors.ErrInvalidEmployeeID
	}

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		// Out-of-company employees collapse to not-found so existence
		// never leaks across company boundaries.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymenterrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	return emp, nil
}

func (s *service) enqueueCreatedEvent(ctx context.Context, tx *sql.Tx, p *Payment) error {
	if s.outboxRepo == nil {
		return nil
	}

	payload, err := json.Marshal(events.PaymentCreatedEvent{
		EventType:  events.PaymentCreatedType,
		PaymentID:  p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Reference:  p.Reference,
		Status:     p.Status,
		Type:       p.Type,
		Date:       p.Date.Format(DateLayout),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payment",
		AggregateID:   p.ID.String(),
		EventType:     events.PaymentCreatedType,
		Topic:         events.PaymentLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, paymenterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(p Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		AmountCFA:  p.AmountCFA,
		AmountUSD:  p.AmountUSD,
		Date:       p.Date.Format(DateLayout),
		Status:     p.Status,
		Type:       p.Type,
		Reference:  p.Reference,
	}

	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}

	return resp
}

func mapToListResponse(payments []Payment) []PaymentResponse {
	resp := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = mapToResponse(p)
	}
	return resp
}
