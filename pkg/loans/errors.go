package loans

import (
	"errors"
	"fmt"

	"github.com/Ettuli11/BlockDebt/pkg/storage"
)

var (
	// ErrUnauthorized is returned when the actor may not perform the transition.
	ErrUnauthorized = errors.New("not allowed to perform this action")

	// ErrAlreadyHandled is returned when the loan or payment is not in the required state,
	// typically because the same request was already processed.
	ErrAlreadyHandled = errors.New("already handled")

	// ErrNotFound is returned when the referenced loan or payment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the record store fails.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidAmount is returned when an amount cannot be parsed or is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPaymentExceedsBalance is returned when a payment is larger than the current balance.
	ErrPaymentExceedsBalance = errors.New("payment exceeds current balance")

	// ErrInvalidCategory is returned for an unknown loan category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrSelfLoan is returned when creditor and debtor are the same actor.
	ErrSelfLoan = errors.New("creditor and debtor must be different")
)

// storeError classifies a record store failure.
func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrLoanNotFound) || errors.Is(err, storage.ErrPaymentNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: failed to %s: %w", ErrStoreUnavailable, op, err)
}

func invalidAmount(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
}
