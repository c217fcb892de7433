package payment

import (
	"context"
	"errors"

	paymenterrors "go-payday/internal/payment/errors"
)

// referenceMaxAttempts bounds the scan-propose-insert cycle. Three
// attempts, no backoff: a caller that exhausts them is told to retry
// the whole creation request.
const referenceMaxAttempts = 3

// createWithReference allocates PAY-<year>-<seq> for the payment and
// inserts it in one step. The scan only proposes a sequence; the
// uniqueness index on reference is the arbiter, so a lost race shows
// up as an insert failure and triggers a fresh scan.
func createWithReference(ctx context.Context, repo Repository, p *Payment) error {
	year := p.Date.Year()

	for attempt := 1; attempt <= referenceMaxAttempts; attempt++ {
		maxSeq, err := repo.MaxReferenceSeq(ctx, year)
		if err != nil {
			return err
		}

		p.Reference = FormatReference(year, maxSeq+1)

		err = mapRepositoryError(repo.Create(ctx, p))
		if err == nil {
			return nil
		}
		if errors.Is(err, errReferenceTaken) {
			continue
		}
		return err
	}

	return paymenterrors.ErrReferenceExhausted
}
