package storage

import (
	"context"

	"github.com/Ettuli11/BlockDebt/pkg/models"
)

// SettlementStore defines the privileged interface for confirming a payment.
// The operation writes the loan and the payment atomically.
type SettlementStore interface {
	// SettlePayment stores the updated loan and the confirmed payment in one atomic write.
	// It fails with ErrVersionConflict if the loan changed since expectedVersion, and with
	// ErrPaymentAlreadySettled if the payment is no longer pending. Nothing is written then.
	SettlePayment(ctx context.Context, loan *models.Loan, expectedVersion int64, payment *models.Payment) error
}
