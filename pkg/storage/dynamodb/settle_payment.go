package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SettlePayment writes the new loan balance and the confirmed payment in a single
// TransactWriteItems call. Either both conditions hold and both items change, or nothing is written.
func (s *Store) SettlePayment(ctx context.Context, loan *models.Loan, expectedVersion int64, payment *models.Payment) error {
	// 1. Loan put, conditional on the version we validated against.
	loanPut, err := s.conditionalLoanPut(loan, expectedVersion)
	if err != nil {
		return err
	}

	// 2. Payment update, conditional on the payment still being pending.
	paymentUpdate, err := s.pendingPaymentUpdate(payment)
	if err != nil {
		loan.Version = expectedVersion
		return err
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: loanPut},
			{Update: paymentUpdate},
		},
	}

	// 3. Execute the transaction.
	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		loan.Version = expectedVersion
		return settlementError(err)
	}

	return nil
}

// settlementError maps a cancelled transaction to the condition that failed.
// Cancellation reasons are reported in the order of TransactItems.
func settlementError(err error) error {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return fmt.Errorf("failed to execute settlement transaction: %w", err)
	}

	for i, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
			continue
		}
		if i == 0 {
			return storage.ErrVersionConflict
		}
		return storage.ErrPaymentAlreadySettled
	}

	return fmt.Errorf("failed to execute settlement transaction: %w", err)
}
