package payment_test

import (
	"testing"
	"time"

	"go-payday/internal/employee"
	"go-payday/internal/payment"
	paymenterrors "go-payday/internal/payment/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveStatusAt(t *testing.T) {
	now := date(2024, time.June, 15)

	t.Run("future date is always pending", func(t *testing.T) {
		assert.Equal(t, payment.StatusPending, payment.ResolveStatusAt(date(2024, time.June, 16), "", now))
		assert.Equal(t, payment.StatusPending, payment.ResolveStatusAt(date(2024, time.June, 16), payment.StatusPaid, now))
		assert.Equal(t, payment.StatusPending, payment.ResolveStatusAt(date(2025, time.January, 1), payment.StatusPaid, now))
	})

	t.Run("today uses requested status", func(t *testing.T) {
		assert.Equal(t, payment.StatusPending, payment.ResolveStatusAt(date(2024, time.June, 15), payment.StatusPending, now))
		assert.Equal(t, payment.StatusPaid, payment.ResolveStatusAt(date(2024, time.June, 15), payment.StatusPaid, now))
	})

	t.Run("past date defaults to paid", func(t *testing.T) {
		assert.Equal(t, payment.StatusPaid, payment.ResolveStatusAt(date(2024, time.June, 1), "", now))
		assert.Equal(t, payment.StatusPending, payment.ResolveStatusAt(date(2024, time.June, 1), payment.StatusPending, now))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		lateToday := time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, payment.StatusPaid, payment.ResolveStatusAt(lateToday, "", now))
	})

	t.Run("deterministic for same inputs", func(t *testing.T) {
		first := payment.ResolveStatusAt(date(2024, time.June, 10), payment.StatusPending, now)
		second := payment.ResolveStatusAt(date(2024, time.June, 10), payment.StatusPending, now)
		assert.Equal(t, first, second)
	})
}

func TestValidateEmploymentDate(t *testing.T) {
	hired := date(2024, time.March, 15)
	emp := &employee.Employee{
		ID:        uuid.New(),
		FullName:  "Awa Diop",
		StartDate: &hired,
	}

	t.Run("payment before hire date fails on day check", func(t *testing.T) {
		err := payment.ValidateEmploymentDate(date(2024, time.March, 10), emp)
		assert.ErrorIs(t, err, paymenterrors.ErrPaymentBeforeHireDate)
	})

	t.Run("payment in month before hire fails on month check", func(t *testing.T) {
		err := payment.ValidateEmploymentDate(date(2024, time.February, 28), emp)
		assert.ErrorIs(t, err, paymenterrors.ErrPaymentBeforeHireMonth)

		err = payment.ValidateEmploymentDate(date(2023, time.December, 31), emp)
		assert.ErrorIs(t, err, paymenterrors.ErrPaymentBeforeHireMonth)
	})

	t.Run("payment after hire succeeds", func(t *testing.T) {
		assert.NoError(t, payment.ValidateEmploymentDate(date(2024, time.March, 20), emp))
	})

	t.Run("payment on hire date succeeds", func(t *testing.T) {
		assert.NoError(t, payment.ValidateEmploymentDate(date(2024, time.March, 15), emp))
	})

	t.Run("creation date is the fallback hire date", func(t *testing.T) {
		implicit := &employee.Employee{
			ID:        uuid.New(),
			CreatedAt: date(2024, time.May, 2),
		}

		assert.ErrorIs(t,
			payment.ValidateEmploymentDate(date(2024, time.May, 1), implicit),
			paymenterrors.ErrPaymentBeforeHireDate,
		)
		assert.NoError(t, payment.ValidateEmploymentDate(date(2024, time.May, 2), implicit))
	})
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-03", payment.MonthKey(date(2024, time.March, 31)))
	assert.Equal(t, "2025-12", payment.MonthKey(date(2025, time.December, 1)))
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "PAY-2024-001", payment.FormatReference(2024, 1))
	assert.Equal(t, "PAY-2024-042", payment.FormatReference(2024, 42))
	assert.Equal(t, "PAY-2025-1000", payment.FormatReference(2025, 1000))

	assert.True(t, payment.ReferencePattern.MatchString(payment.FormatReference(2024, 7)))
	assert.True(t, payment.ReferencePattern.MatchString(payment.FormatReference(2024, 999)))
}
