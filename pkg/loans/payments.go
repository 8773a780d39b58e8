package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
)

// ProposePayment records an unconfirmed payment from the debtor. The balance is
// only reduced once the creditor confirms it.
func (s *Service) ProposePayment(ctx context.Context, loanID, actorID, input string) (*Result, error) {
	var amount float64
	loan, accrual, err := s.mutate(ctx, loanID, func(loan *models.Loan, _ time.Time) (bool, error) {
		if actorID == "" || actorID != loan.DebtorID {
			return false, ErrUnauthorized
		}
		if loan.Status != models.ACTIVE {
			return false, ErrAlreadyHandled
		}

		v, err := parsePayment(loan.Category, input)
		if err != nil {
			return false, err
		}
		if err := checkPayable(loan, v); err != nil {
			return false, err
		}
		amount = v
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	payment, err := s.store.InsertPayment(ctx, &models.Payment{
		LoanID:     loan.ID,
		Amount:     amount,
		ProposedBy: actorID,
		Status:     models.PAYMENT_PENDING,
		RecordedAt: s.clock.Now(),
	})
	if err != nil {
		return nil, storeError("insert payment", err)
	}

	s.logger.Info("payment proposed", "loan_id", loan.ID, "payment_id", payment.ID, "amount", payment.Amount)
	res := s.result(loan, accrual)
	res.Payment = payment
	return res, nil
}

// ConfirmPayment applies a pending payment to the loan balance. Only the creditor
// may confirm. A balance with nothing payable left completes the loan.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID, actorID string) (*Result, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		payment, err := s.store.GetPayment(ctx, paymentID)
		if err != nil {
			return nil, storeError("get payment", err)
		}
		stored, err := s.store.GetLoan(ctx, payment.LoanID)
		if err != nil {
			return nil, storeError("get loan", err)
		}

		if actorID == "" || actorID != stored.CreditorID {
			return nil, ErrUnauthorized
		}
		if payment.Status != models.PAYMENT_PENDING || stored.Status != models.ACTIVE {
			return nil, ErrAlreadyHandled
		}

		now := s.clock.Now()
		loan := stored.Clone()
		accrual := s.applyAccrual(loan, now)
		if err := checkPayable(loan, payment.Amount); err != nil {
			return nil, err
		}

		loan.CurrentAmount -= payment.Amount
		if rule, _ := ruleFor(loan.Category); rule.settled(loan.CurrentAmount) {
			complete(loan)
		}
		loan.UpdatedAt = now

		settled := *payment
		settled.Status = models.PAYMENT_CONFIRMED
		settled.SettledBy = actorID
		settled.SettledAt = &now

		err = s.store.SettlePayment(ctx, loan, stored.Version, &settled)
		if errors.Is(err, storage.ErrVersionConflict) {
			s.logger.Debug("loan changed concurrently, re-validating", "loan_id", loan.ID, "attempt", attempt+1)
			continue
		}
		if errors.Is(err, storage.ErrPaymentAlreadySettled) {
			return nil, fmt.Errorf("%w: %w", ErrAlreadyHandled, err)
		}
		if err != nil {
			return nil, storeError("settle payment", err)
		}

		s.logger.Info("payment confirmed", "loan_id", loan.ID, "payment_id", settled.ID, "amount", settled.Amount, "status", loan.Status)
		s.discardPending(ctx, loan, actorID)
		s.notify(ctx, loan)
		res := s.result(loan, accrual)
		res.Payment = &settled
		return res, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrAlreadyHandled, storage.ErrVersionConflict)
}

// RejectPayment discards a pending payment without touching the balance.
func (s *Service) RejectPayment(ctx context.Context, paymentID, actorID string) (*Result, error) {
	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, storeError("get payment", err)
	}
	loan, err := s.store.GetLoan(ctx, payment.LoanID)
	if err != nil {
		return nil, storeError("get loan", err)
	}

	if actorID == "" || actorID != loan.CreditorID {
		return nil, ErrUnauthorized
	}
	if payment.Status != models.PAYMENT_PENDING {
		return nil, ErrAlreadyHandled
	}

	now := s.clock.Now()
	rejected := *payment
	rejected.Status = models.PAYMENT_REJECTED
	rejected.SettledBy = actorID
	rejected.SettledAt = &now

	err = s.store.ResolvePayment(ctx, &rejected)
	if errors.Is(err, storage.ErrPaymentAlreadySettled) {
		return nil, fmt.Errorf("%w: %w", ErrAlreadyHandled, err)
	}
	if err != nil {
		return nil, storeError("resolve payment", err)
	}

	s.logger.Info("payment rejected", "loan_id", loan.ID, "payment_id", rejected.ID)
	res := s.result(loan, nil)
	res.Payment = &rejected
	return res, nil
}

// ListPayments returns the ledger of a loan in recording order.
func (s *Service) ListPayments(ctx context.Context, loanID string) ([]models.Payment, error) {
	if _, err := s.store.GetLoan(ctx, loanID); err != nil {
		return nil, storeError("get loan", err)
	}
	payments, err := s.store.ListPaymentsByLoan(ctx, loanID)
	if err != nil {
		return nil, storeError("list payments", err)
	}
	return payments, nil
}

// checkPayable rejects a payment larger than the balance as the category displays it.
func checkPayable(loan *models.Loan, amount float64) error {
	rule, _ := ruleFor(loan.Category)
	if limit := rule.payable(loan.CurrentAmount); amount > limit {
		return fmt.Errorf("%w: %s > %s", ErrPaymentExceedsBalance,
			FormatAmount(loan.Category, amount), FormatAmount(loan.Category, limit))
	}
	return nil
}

// discardPending rejects the payments still awaiting confirmation once the loan
// is Completed or Closed. Failures are logged; a late press on such a payment
// answers ErrAlreadyHandled either way.
func (s *Service) discardPending(ctx context.Context, loan *models.Loan, actorID string) {
	if loan.Status != models.COMPLETED && loan.Status != models.CLOSED {
		return
	}

	payments, err := s.store.ListPaymentsByLoan(ctx, loan.ID)
	if err != nil {
		s.logger.Warn("failed to list pending payments", "loan_id", loan.ID, "error", err)
		return
	}

	now := s.clock.Now()
	for _, p := range payments {
		if p.Status != models.PAYMENT_PENDING {
			continue
		}
		p.Status = models.PAYMENT_REJECTED
		p.SettledBy = actorID
		p.SettledAt = &now
		err := s.store.ResolvePayment(ctx, &p)
		if err != nil && !errors.Is(err, storage.ErrPaymentAlreadySettled) {
			s.logger.Warn("failed to discard pending payment", "loan_id", loan.ID, "payment_id", p.ID, "error", err)
			continue
		}
		if err == nil {
			s.logger.Info("pending payment discarded", "loan_id", loan.ID, "payment_id", p.ID, "status", loan.Status)
		}
	}
}

func parsePayment(c models.Category, input string) (float64, error) {
	r, ok := ruleFor(c)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	if r.parsePayment == nil {
		return 0, invalidAmount(errNoBalance)
	}
	v, err := r.parsePayment(input)
	if err != nil {
		return 0, invalidAmount(err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	return v, nil
}
