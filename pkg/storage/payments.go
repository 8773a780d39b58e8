package storage

import (
	"context"

	"github.com/Ettuli11/BlockDebt/pkg/models"
)

// PaymentStore defines the interface for the append-only payment ledger.
type PaymentStore interface {
	// InsertPayment assigns an ID to a new payment and appends it to the ledger.
	InsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)

	// GetPayment retrieves a payment by its ID. It returns ErrPaymentNotFound if it does not exist.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPaymentsByLoan retrieves every payment of a loan, oldest first.
	ListPaymentsByLoan(ctx context.Context, loanID string) ([]models.Payment, error)

	// ResolvePayment records a settlement that does not touch the loan balance, such as a rejection.
	// It returns ErrPaymentAlreadySettled if the stored payment is no longer pending.
	ResolvePayment(ctx context.Context, payment *models.Payment) error
}
