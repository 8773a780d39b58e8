package loans

import (
	"context"
	"fmt"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/models"
)

// CreateRequest carries the raw fields of a "create loan" request. Which of
// Amount, Stacks/Extra and Notes are read depends on the category.
type CreateRequest struct {
	GuildID      string          `json:"guild_id"`
	Category     models.Category `json:"category"`
	CreditorID   string          `json:"creditor_id"`
	CreditorName string          `json:"creditor_name"`
	DebtorID     string          `json:"debtor_id"`
	DebtorName   string          `json:"debtor_name"`
	Amount       string          `json:"amount"`
	Stacks       string          `json:"stacks"`
	Extra        string          `json:"extra"`
	Notes        string          `json:"notes"`
}

// Create validates the request and stores a new Pending loan.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Result, error) {
	rule, ok := ruleFor(req.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}
	if req.CreditorID == "" {
		return nil, ErrUnauthorized
	}

	debtorID := req.DebtorID
	if debtorID == "" {
		debtorID = UnknownActor
	}
	if debtorID == req.CreditorID {
		return nil, ErrSelfLoan
	}

	amount, notes, err := rule.parseCreate(req)
	if err != nil {
		return nil, invalidAmount(err)
	}
	if rule.parsePayment != nil && amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}

	now := s.clock.Now()
	loan, err := s.store.InsertLoan(ctx, &models.Loan{
		GuildID:        req.GuildID,
		Category:       req.Category,
		CreditorID:     req.CreditorID,
		CreditorName:   req.CreditorName,
		DebtorID:       debtorID,
		DebtorName:     req.DebtorName,
		OriginalAmount: amount,
		CurrentAmount:  amount,
		Status:         models.PENDING,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, storeError("insert loan", err)
	}

	s.logger.Info("loan created", "loan_id", loan.ID, "category", loan.Category, "amount", loan.OriginalAmount)
	s.notify(ctx, loan)
	return s.result(loan, nil), nil
}

// Accept activates a Pending loan. Only the debtor may accept.
func (s *Service) Accept(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "loan accepted", func(loan *models.Loan, now time.Time) (bool, error) {
		if actorID == "" || actorID != loan.DebtorID {
			return false, ErrUnauthorized
		}
		if loan.Status != models.PENDING {
			return false, ErrAlreadyHandled
		}
		loan.Status = models.ACTIVE
		accepted := now
		loan.AcceptedAt = &accepted
		last := now
		loan.LastAccrualAt = &last
		return true, nil
	})
}

// Decline rejects a Pending loan. Only the debtor may decline.
func (s *Service) Decline(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "loan declined", func(loan *models.Loan, _ time.Time) (bool, error) {
		if actorID == "" || actorID != loan.DebtorID {
			return false, ErrUnauthorized
		}
		if loan.Status != models.PENDING {
			return false, ErrAlreadyHandled
		}
		loan.Status = models.DECLINED
		return true, nil
	})
}

// MarkPaid records the debtor's claim that the loan is fully repaid. The
// creditor still has to confirm it.
func (s *Service) MarkPaid(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "completion requested", func(loan *models.Loan, now time.Time) (bool, error) {
		if actorID == "" || actorID != loan.DebtorID {
			return false, ErrUnauthorized
		}
		if loan.Status != models.ACTIVE || loan.CompletionRequestedBy != "" {
			return false, ErrAlreadyHandled
		}
		loan.CompletionRequestedBy = actorID
		at := now
		loan.CompletionRequestedAt = &at
		return true, nil
	})
}

// ConfirmCompletion completes a loan the debtor marked as paid.
func (s *Service) ConfirmCompletion(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "loan completed", func(loan *models.Loan, _ time.Time) (bool, error) {
		if actorID == "" || actorID != loan.CreditorID {
			return false, ErrUnauthorized
		}
		if loan.Status != models.ACTIVE || loan.CompletionRequestedBy == "" {
			return false, ErrAlreadyHandled
		}
		complete(loan)
		return true, nil
	})
}

// DenyCompletion withdraws a pending mark-paid request. The loan stays Active.
func (s *Service) DenyCompletion(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "completion denied", func(loan *models.Loan, _ time.Time) (bool, error) {
		if actorID == "" || actorID != loan.CreditorID {
			return false, ErrUnauthorized
		}
		if loan.Status != models.ACTIVE || loan.CompletionRequestedBy == "" {
			return false, ErrAlreadyHandled
		}
		loan.CompletionRequestedBy = ""
		loan.CompletionRequestedAt = nil
		return true, nil
	})
}

// RequestClose asks for a forced close. Either party may ask; the same party
// confirms it with ConfirmClose.
func (s *Service) RequestClose(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "close requested", func(loan *models.Loan, now time.Time) (bool, error) {
		if !loan.IsParty(actorID) {
			return false, ErrUnauthorized
		}
		if !closable(loan.Status) || loan.CloseRequestedBy != "" {
			return false, ErrAlreadyHandled
		}
		loan.CloseRequestedBy = actorID
		at := now
		loan.CloseRequestedAt = &at
		return true, nil
	})
}

// ConfirmClose closes the loan. Only the actor that requested the close may confirm it.
func (s *Service) ConfirmClose(ctx context.Context, loanID, actorID string) (*Result, error) {
	return s.run(ctx, loanID, actorID, "loan closed", func(loan *models.Loan, _ time.Time) (bool, error) {
		if !loan.IsParty(actorID) {
			return false, ErrUnauthorized
		}
		if !closable(loan.Status) || loan.CloseRequestedBy == "" {
			return false, ErrAlreadyHandled
		}
		if loan.CloseRequestedBy != actorID {
			return false, ErrUnauthorized
		}
		loan.Status = models.CLOSED
		return true, nil
	})
}

func (s *Service) run(ctx context.Context, loanID, actorID, event string, fn transition) (*Result, error) {
	loan, accrual, err := s.mutate(ctx, loanID, fn)
	if err != nil {
		return nil, err
	}
	s.logger.Info(event, "loan_id", loan.ID, "status", loan.Status)
	s.discardPending(ctx, loan, actorID)
	return s.result(loan, accrual), nil
}

func closable(status models.LoanStatus) bool {
	return status == models.PENDING || status == models.ACTIVE
}

// complete moves a loan to Completed with a zero balance.
func complete(loan *models.Loan) {
	loan.Status = models.COMPLETED
	loan.CurrentAmount = 0
	loan.CompletionRequestedBy = ""
	loan.CompletionRequestedAt = nil
	loan.CloseRequestedBy = ""
	loan.CloseRequestedAt = nil
}
