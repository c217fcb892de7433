package payment

import (
	"fmt"
	"regexp"
	"time"

	paymenterrors "go-payday/internal/payment/errors"

	"go-payday/internal/employee"
)

const DateLayout = "2006-01-02"

// ReferencePattern is the shape of every allocated reference.
var ReferencePattern = regexp.MustCompile(`^PAY-\d{4}-\d{3}$`)

// Today is the calendar day used for status derivation and due-date
// windows. UTC is the reference timezone for the whole service.
func Today() time.Time {
	return TruncateDay(time.Now().UTC())
}

func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthKey derives the YYYY-MM key a salary payment is constrained on.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// FormatReference builds PAY-<year>-<seq> with a 3-digit sequence.
func FormatReference(year, seq int) string {
	return fmt.Sprintf("PAY-%d-%03d", year, seq)
}

// ResolveStatus computes the settlement status for a payment date.
// A future-dated payment is always pending, whatever was requested.
// On or before today, the requested status wins, defaulting to paid.
func ResolveStatus(date time.Time, requested string) string {
	return ResolveStatusAt(date, requested, time.Now().UTC())
}

// ResolveStatusAt is ResolveStatus against an explicit reference time.
// Both sides are truncated to calendar days before comparing.
func ResolveStatusAt(date time.Time, requested string, now time.Time) string {
	if TruncateDay(date).After(TruncateDay(now)) {
		return StatusPending
	}
	if requested == "" {
		return StatusPaid
	}
	return requested
}

// ValidateEmploymentDate rejects a payment that predates hire. The two
// checks report distinct failures: a payment in a calendar month before
// the hire month, and a payment inside the hire month but before the
// exact hire date.
func ValidateEmploymentDate(paymentDate time.Time, emp *employee.Employee) error {
	hire := TruncateDay(emp.HireDate())
	date := TruncateDay(paymentDate)

	if date.Year() < hire.Year() ||
		(date.Year() == hire.Year() && date.Month() < hire.Month()) {
		return paymenterrors.ErrPaymentBeforeHireMonth
	}

	if date.Before(hire) {
		return paymenterrors.ErrPaymentBeforeHireDate
	}

	return nil
}
