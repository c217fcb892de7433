package scheduler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/payment"
	"go-payday/internal/scheduler"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSchedulerRepository struct {
	findDuePendingFn func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error)
	markPaidFn       func(ctx context.Context, id string) (bool, error)
	findOverdueFn    func(ctx context.Context, companyID string, today time.Time) ([]scheduler.DuePayment, error)
	findUpcomingFn   func(ctx context.Context, companyID string, today time.Time, days int) ([]scheduler.DuePayment, error)
	statisticsFn     func(ctx context.Context, companyID string) (scheduler.StatisticsResponse, error)
}

func (f *fakeSchedulerRepository) FindDuePending(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
	if f.findDuePendingFn != nil {
		return f.findDuePendingFn(ctx, refDate)
	}
	return nil, nil
}

func (f *fakeSchedulerRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	if f.markPaidFn != nil {
		return f.markPaidFn(ctx, id)
	}
	return true, nil
}

func (f *fakeSchedulerRepository) FindOverdue(ctx context.Context, companyID string, today time.Time) ([]scheduler.DuePayment, error) {
	if f.findOverdueFn != nil {
		return f.findOverdueFn(ctx, companyID, today)
	}
	return nil, nil
}

func (f *fakeSchedulerRepository) FindUpcoming(ctx context.Context, companyID string, today time.Time, days int) ([]scheduler.DuePayment, error) {
	if f.findUpcomingFn != nil {
		return f.findUpcomingFn(ctx, companyID, today, days)
	}
	return nil, nil
}

func (f *fakeSchedulerRepository) Statistics(ctx context.Context, companyID string) (scheduler.StatisticsResponse, error) {
	if f.statisticsFn != nil {
		return f.statisticsFn(ctx, companyID)
	}
	return scheduler.StatisticsResponse{}, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func duePayment(reference string, dueDate time.Time) scheduler.DuePayment {
	return scheduler.DuePayment{
		ID:           uuid.New(),
		EmployeeID:   uuid.New(),
		EmployeeName: "Fatou Sarr",
		CompanyID:    uuid.New(),
		AmountCFA:    650000,
		AmountUSD:    1080,
		Date:         dueDate,
		Status:       payment.StatusPending,
		Type:         payment.TypeSalary,
		Reference:    reference,
	}
}

func TestSchedulerService_ProcessPending(t *testing.T) {
	ctx := context.Background()
	today := payment.Today()

	t.Run("all due payments transition", func(t *testing.T) {
		due := []scheduler.DuePayment{
			duePayment("PAY-2024-001", today.AddDate(0, 0, -3)),
			duePayment("PAY-2024-002", today.AddDate(0, 0, -1)),
			duePayment("PAY-2024-003", today),
		}

		marked := []string{}
		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				assert.Equal(t, today, refDate)
				return due, nil
			},
			markPaidFn: func(ctx context.Context, id string) (bool, error) {
				marked = append(marked, id)
				return true, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		result, err := svc.ProcessPending(ctx, nil)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.Processed)
		assert.Equal(t, 0, result.Failed)
		assert.Len(t, result.Details, 3)
		assert.Len(t, marked, 3)
		for i, item := range result.Details {
			assert.Equal(t, due[i].ID.String(), item.PaymentID)
			assert.Equal(t, scheduler.ItemSuccess, item.Status)
		}
	})

	t.Run("empty pass succeeds with a message", func(t *testing.T) {
		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				return []scheduler.DuePayment{}, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		result, err := svc.ProcessPending(ctx, nil)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 0, result.Processed)
		assert.Equal(t, "No pending payments to process", result.Message)
	})

	t.Run("already processed row counts as failed", func(t *testing.T) {
		due := []scheduler.DuePayment{
			duePayment("PAY-2024-001", today.AddDate(0, 0, -1)),
			duePayment("PAY-2024-002", today),
		}

		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				return due, nil
			},
			markPaidFn: func(ctx context.Context, id string) (bool, error) {
				// First row was raced away by something else.
				return id != due[0].ID.String(), nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		result, err := svc.ProcessPending(ctx, nil)

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, scheduler.ItemSkipped, result.Details[0].Status)
		assert.Contains(t, result.Details[0].Message, "already processed")
		assert.Equal(t, scheduler.ItemSuccess, result.Details[1].Status)
	})

	t.Run("one item error does not abort the pass", func(t *testing.T) {
		due := []scheduler.DuePayment{
			duePayment("PAY-2024-001", today),
			duePayment("PAY-2024-002", today),
			duePayment("PAY-2024-003", today),
		}

		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				return due, nil
			},
			markPaidFn: func(ctx context.Context, id string) (bool, error) {
				if id == due[1].ID.String() {
					return false, errors.New("deadlock detected")
				}
				return true, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		result, err := svc.ProcessPending(ctx, nil)

		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, scheduler.ItemError, result.Details[1].Status)
		assert.Contains(t, result.Details[1].Message, "deadlock")
	})

	t.Run("panic in one item is folded into its result", func(t *testing.T) {
		due := []scheduler.DuePayment{
			duePayment("PAY-2024-001", today),
			duePayment("PAY-2024-002", today),
		}

		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				return due, nil
			},
			markPaidFn: func(ctx context.Context, id string) (bool, error) {
				if id == due[0].ID.String() {
					panic("nil map write")
				}
				return true, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		result, err := svc.ProcessPending(ctx, nil)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, scheduler.ItemError, result.Details[0].Status)
		assert.Contains(t, result.Details[0].Message, "panic")
	})

	t.Run("explicit reference date is truncated and passed through", func(t *testing.T) {
		ref := time.Date(2024, time.July, 1, 15, 4, 5, 0, time.UTC)

		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), refDate)
				return nil, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		_, err := svc.ProcessPending(ctx, &ref)

		assert.NoError(t, err)
	})

	t.Run("second pass finds nothing left", func(t *testing.T) {
		due := []scheduler.DuePayment{duePayment("PAY-2024-001", today)}
		paid := map[string]bool{}

		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				if paid[due[0].ID.String()] {
					return nil, nil
				}
				return due, nil
			},
			markPaidFn: func(ctx context.Context, id string) (bool, error) {
				if paid[id] {
					return false, nil
				}
				paid[id] = true
				return true, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())

		first, err := svc.ProcessPending(ctx, nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, first.Processed)

		second, err := svc.ProcessPending(ctx, nil)
		assert.NoError(t, err)
		assert.True(t, second.Success)
		assert.Equal(t, 0, second.Processed)
	})

	t.Run("repo error aborts the pass", func(t *testing.T) {
		repo := &fakeSchedulerRepository{
			findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
				return nil, errors.New("connection refused")
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		_, err := svc.ProcessPending(ctx, nil)

		assert.EqualError(t, err, "connection refused")
	})
}

func TestSchedulerService_ProcessPending_QueuesReconciledEvent(t *testing.T) {
	ctx := context.Background()
	due := duePayment("PAY-2024-007", payment.Today())

	repo := &fakeSchedulerRepository{
		findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
			return []scheduler.DuePayment{due}, nil
		},
	}

	queued := 0
	outbox := &fakeOutboxRepository{
		createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
			queued++
			assert.Equal(t, events.PaymentLifecycleTopic, event.Topic)
			assert.Equal(t, events.PaymentReconciledType, event.EventType)

			var payload events.PaymentReconciledEvent
			assert.NoError(t, json.Unmarshal(event.Payload, &payload))
			assert.Equal(t, due.ID.String(), payload.PaymentID)
			assert.Equal(t, "PAY-2024-007", payload.Reference)
			return nil
		},
	}

	svc := scheduler.NewServiceWithOutbox(repo, outbox, zap.NewNop())
	result, err := svc.ProcessPending(ctx, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, queued)
}

func TestSchedulerService_ProcessPending_OutboxFailureIsBestEffort(t *testing.T) {
	ctx := context.Background()

	repo := &fakeSchedulerRepository{
		findDuePendingFn: func(ctx context.Context, refDate time.Time) ([]scheduler.DuePayment, error) {
			return []scheduler.DuePayment{duePayment("PAY-2024-001", payment.Today())}, nil
		},
	}
	outbox := &fakeOutboxRepository{
		createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
			return errors.New("outbox full")
		},
	}

	svc := scheduler.NewServiceWithOutbox(repo, outbox, zap.NewNop())
	result, err := svc.ProcessPending(ctx, nil)

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Processed)
}

func TestSchedulerService_Projections(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	today := payment.Today()

	t.Run("overdue is strictly before today", func(t *testing.T) {
		repo := &fakeSchedulerRepository{
			findOverdueFn: func(ctx context.Context, cid string, ref time.Time) ([]scheduler.DuePayment, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, today, ref)
				return []scheduler.DuePayment{duePayment("PAY-2024-003", today.AddDate(0, 0, -5))}, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		overdue, err := svc.Overdue(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, overdue, 1)
	})

	t.Run("upcoming window is passed through", func(t *testing.T) {
		repo := &fakeSchedulerRepository{
			findUpcomingFn: func(ctx context.Context, cid string, ref time.Time, days int) ([]scheduler.DuePayment, error) {
				assert.Equal(t, 14, days)
				return nil, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		_, err := svc.Upcoming(ctx, companyID, 14)

		assert.NoError(t, err)
	})

	t.Run("statistics delegate to the repository", func(t *testing.T) {
		repo := &fakeSchedulerRepository{
			statisticsFn: func(ctx context.Context, cid string) (scheduler.StatisticsResponse, error) {
				return scheduler.StatisticsResponse{
					ByStatus: []scheduler.StatusCount{
						{Status: payment.StatusPaid, Count: 4, TotalCFA: 2600000, TotalUSD: 4320},
						{Status: payment.StatusPending, Count: 2, TotalCFA: 1300000, TotalUSD: 2160},
					},
					Total: scheduler.StatisticsTotal{TotalCount: 6, TotalCFA: 3900000, TotalUSD: 6480},
				}, nil
			},
		}

		svc := scheduler.NewService(repo, zap.NewNop())
		stats, err := svc.Statistics(ctx, companyID)

		assert.NoError(t, err)
		assert.Len(t, stats.ByStatus, 2)
		assert.Equal(t, int64(6), stats.Total.TotalCount)
	})
}
