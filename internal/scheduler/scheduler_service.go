package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/payment"
	"go-payday/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	ProcessPending(ctx context.Context, refDate *time.Time) (PassResult, error)
	DuePending(ctx context.Context, refDate *time.Time) ([]DuePayment, error)
	Overdue(ctx context.Context, companyID string) ([]DuePayment, error)
	Upcoming(ctx context.Context, companyID string, days int) ([]DuePayment, error)
	Statistics(ctx context.Context, companyID string) (StatisticsResponse, error)
}

type service struct {
	repo       Repository
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func NewServiceWithOutbox(repo Repository, outboxRepo kafka.OutboxRepository, logger *zap.Logger) Service {
	return &service{repo: repo, outboxRepo: outboxRepo, logger: logger}
}

// ProcessPending is one reconciliation pass: every pending payment due
// on or before the reference date is conditionally advanced to paid.
// Item failures are recorded and never abort the pass. The scheduled
// timer and the manual admin trigger both land here.
func (s *service) ProcessPending(ctx context.Context, refDate *time.Time) (PassResult, error) {
	ref := payment.Today()
	if refDate != nil {
		ref = payment.TruncateDay(*refDate)
	}

	log := contextutil.GetLogger(ctx, s.logger).Named("scheduler.pass")

	due, err := s.repo.FindDuePending(ctx, ref)
	if err != nil {
		return PassResult{}, err
	}

	if len(due) == 0 {
		return PassResult{
			Success: true,
			Message: "No pending payments to process",
			Details: []ItemResult{},
		}, nil
	}

	log.Info("processing due pending payments",
		zap.Int("count", len(due)),
		zap.Time("reference_date", ref),
	)

	result := PassResult{Details: make([]ItemResult, 0, len(due))}

	for _, p := range due {
		item := ItemResult{
			PaymentID:    p.ID.String(),
			Reference:    p.Reference,
			EmployeeName: p.EmployeeName,
		}

		updated, err := s.markPaid(ctx, p)
		switch {
		case err != nil:
			result.Failed++
			item.Status = ItemError
			item.Message = err.Error()
			log.Error("reconcile payment failed",
				zap.String("reference", p.Reference),
				zap.Error(err),
			)
		case !updated:
			result.Failed++
			item.Status = ItemSkipped
			item.Message = "payment was not updated (may have been already processed)"
		default:
			result.Processed++
			item.Status = ItemSuccess
			item.Message = fmt.Sprintf("payment updated from '%s' to '%s'", payment.StatusPending, payment.StatusPaid)
			s.enqueueReconciledEvent(ctx, p, log)
		}

		result.Details = append(result.Details, item)
	}

	result.Success = result.Failed == 0

	log.Info("reconciliation pass finished",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// markPaid isolates the per-item attempt so a panic inside one update
// is folded into that item instead of killing the pass.
func (s *service) markPaid(ctx context.Context, p DuePayment) (updated bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during reconciliation: %v", r)
		}
	}()

	return s.repo.MarkPaid(ctx, p.ID.String())
}

func (s *service) DuePending(ctx context.Context, refDate *time.Time) ([]DuePayment, error) {
	ref := payment.Today()
	if refDate != nil {
		ref = payment.TruncateDay(*refDate)
	}
	return s.repo.FindDuePending(ctx, ref)
}

func (s *service) Overdue(ctx context.Context, companyID string) ([]DuePayment, error) {
	return s.repo.FindOverdue(ctx, companyID, payment.Today())
}

func (s *service) Upcoming(ctx context.Context, companyID string, days int) ([]DuePayment, error) {
	return s.repo.FindUpcoming(ctx, companyID, payment.Today(), days)
}

func (s *service) Statistics(ctx context.Context, companyID string) (StatisticsResponse, error) {
	return s.repo.Statistics(ctx, companyID)
}

// enqueueReconciledEvent is best-effort: a full outbox must not undo a
// transition that already committed.
func (s *service) enqueueReconciledEvent(ctx context.Context, p DuePayment, log *zap.Logger) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(events.PaymentReconciledEvent{
		EventType:  events.PaymentReconciledType,
		PaymentID:  p.ID.String(),
		Reference:  p.Reference,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	err = s.outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payment",
		AggregateID:   p.ID.String(),
		EventType:     events.PaymentReconciledType,
		Topic:         events.PaymentLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		log.Warn("enqueue reconciled event failed",
			zap.String("reference", p.Reference),
			zap.Error(err),
		)
	}
}
