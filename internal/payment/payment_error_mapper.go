package payment

import (
	"errors"
	"strings"

	paymenterrors "go-payday/internal/payment/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// errReferenceTaken marks a lost race on the reference unique index.
// It never leaves the package: the allocator retries on it.
var errReferenceTaken = errors.New("payment reference already taken")

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return paymenterrors.ErrPaymentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_payment_salary_month":
			return paymenterrors.ErrSalaryMonthConflict
		case "uq_payment_reference":
			return errReferenceTaken
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_payment_salary_month") {
			return paymenterrors.ErrSalaryMonthConflict
		}
		if strings.Contains(errMsg, "uq_payment_reference") {
			return errReferenceTaken
		}
	}

	return err
}
