package loans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/interest"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/numeric"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
)

// Epsilon is the money balance at or below which a loan counts as fully paid.
const Epsilon = 1e-2

// maxAttempts bounds how often a write is re-validated after a concurrent change.
const maxAttempts = 3

// UnknownActor stands in for a debtor that could not be resolved at creation time.
const UnknownActor = "unknown"

// Notifier is told about every committed loan change so it can re-render the loan.
type Notifier interface {
	LoanChanged(ctx context.Context, loan *models.Loan) error
}

// Service implements the loan lifecycle state machine and the payment ledger.
type Service struct {
	store    storage.Storage
	clock    clock.Clock
	calendar *interest.Calendar
	notifier Notifier
	logger   *slog.Logger
}

// NewService wires a Service. A nil calendar means no holidays, a nil notifier
// disables change notifications and a nil logger uses slog.Default.
func NewService(store storage.Storage, clk clock.Clock, cal *interest.Calendar, notifier Notifier, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		clock:    clk,
		calendar: cal,
		notifier: notifier,
		logger:   logger,
	}
}

// SetNotifier replaces the notifier. Gateways that need the service to exist
// before they can be built register themselves here.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Result is returned by every operation: the loan as stored and its display values.
type Result struct {
	Loan    *models.Loan     `json:"loan"`
	Display Display          `json:"display"`
	Accrual *interest.Result `json:"accrual,omitempty"`
	Payment *models.Payment  `json:"payment,omitempty"`
}

// Display holds the category-formatted values a gateway renders.
type Display struct {
	Category       string                `json:"category"`
	Original       string                `json:"original"`
	Current        string                `json:"current"`
	OriginalStacks *numeric.StackDisplay `json:"original_stacks,omitempty"`
	CurrentStacks  *numeric.StackDisplay `json:"current_stacks,omitempty"`
	DaysActive     int                   `json:"days_active"`
}

// DisplayFor computes the display values of a loan at the given time.
func DisplayFor(loan *models.Loan, now time.Time) Display {
	d := Display{
		Category: Label(loan.Category),
		Original: FormatAmount(loan.Category, loan.OriginalAmount),
		Current:  FormatAmount(loan.Category, loan.CurrentAmount),
	}
	if r, ok := ruleFor(loan.Category); ok && r.stacks {
		orig := numeric.ToStackDisplay(numeric.RoundHalfUp(loan.OriginalAmount))
		cur := numeric.ToStackDisplay(numeric.RoundHalfUp(loan.CurrentAmount))
		d.OriginalStacks = &orig
		d.CurrentStacks = &cur
	}
	if loan.AcceptedAt != nil && now.After(*loan.AcceptedAt) {
		d.DaysActive = int(now.Sub(*loan.AcceptedAt) / interest.Day)
	}
	return d
}

func (s *Service) result(loan *models.Loan, accrual *interest.Result) *Result {
	return &Result{
		Loan:    loan,
		Display: DisplayFor(loan, s.clock.Now()),
		Accrual: accrual,
	}
}

// transition validates and applies a change to a working copy of the loan.
// It reports whether the loan changed. Returning an error aborts without writing.
type transition func(loan *models.Loan, now time.Time) (bool, error)

// mutate loads a loan, applies pending accrual and the transition, and writes the
// result conditionally on the version it read. A concurrent change causes the loan
// to be reloaded and the transition to be validated again.
func (s *Service) mutate(ctx context.Context, loanID string, fn transition) (*models.Loan, *interest.Result, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		stored, err := s.store.GetLoan(ctx, loanID)
		if err != nil {
			return nil, nil, storeError("get loan", err)
		}

		loan := stored.Clone()
		now := s.clock.Now()
		accrual := s.applyAccrual(loan, now)

		changed, err := fn(loan, now)
		if err != nil {
			return nil, nil, err
		}
		if !changed && accrual == nil {
			return stored, nil, nil
		}

		loan.UpdatedAt = now
		err = s.store.UpdateLoan(ctx, loan, stored.Version)
		if errors.Is(err, storage.ErrVersionConflict) {
			s.logger.Debug("loan changed concurrently, re-validating", "loan_id", loanID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, nil, storeError("update loan", err)
		}

		s.notify(ctx, loan)
		return loan, accrual, nil
	}

	return nil, nil, fmt.Errorf("%w: %w", ErrAlreadyHandled, storage.ErrVersionConflict)
}

// applyAccrual compounds interest into an Active loan in place. It returns nil
// when the loan does not accrue or no interest-bearing day has elapsed.
func (s *Service) applyAccrual(loan *models.Loan, now time.Time) *interest.Result {
	r, ok := ruleFor(loan.Category)
	if !ok || !r.accrues || loan.Status != models.ACTIVE || loan.LastAccrualAt == nil {
		return nil
	}

	res, ok := interest.Apply(loan.CurrentAmount, *loan.LastAccrualAt, now, s.calendar)
	if !ok {
		return nil
	}

	loan.CurrentAmount = res.Amount
	at := res.At
	loan.LastAccrualAt = &at
	return &res
}

// notify reports a committed change. Failures never undo the change.
func (s *Service) notify(ctx context.Context, loan *models.Loan) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.LoanChanged(ctx, loan); err != nil {
		s.logger.Warn("failed to notify loan change", "loan_id", loan.ID, "error", err)
	}
}

// Get returns a loan with any pending accrual applied.
func (s *Service) Get(ctx context.Context, loanID string) (*Result, error) {
	loan, accrual, err := s.mutate(ctx, loanID, func(*models.Loan, time.Time) (bool, error) {
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return s.result(loan, accrual), nil
}

// Accrue applies pending interest to a loan. Loans that are not Active are left untouched.
func (s *Service) Accrue(ctx context.Context, loanID string) (*Result, error) {
	res, err := s.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if res.Accrual != nil {
		s.logger.Info("interest accrued", "loan_id", loanID, "days", res.Accrual.Days, "amount", res.Accrual.Amount)
	}
	return res, nil
}

// Refresh is the user-invoked accrual, allowed for either party of an Active loan.
func (s *Service) Refresh(ctx context.Context, loanID, actorID string) (*Result, error) {
	loan, accrual, err := s.mutate(ctx, loanID, func(loan *models.Loan, _ time.Time) (bool, error) {
		if !loan.IsParty(actorID) {
			return false, ErrUnauthorized
		}
		if loan.Status != models.ACTIVE {
			return false, ErrAlreadyHandled
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return s.result(loan, accrual), nil
}

// AttachThread records the gateway handle of the loan's discussion thread.
func (s *Service) AttachThread(ctx context.Context, loanID, threadRef string) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		loan, err := s.store.GetLoan(ctx, loanID)
		if err != nil {
			return storeError("get loan", err)
		}
		if loan.ThreadRef == threadRef {
			return nil
		}

		expected := loan.Version
		loan.ThreadRef = threadRef
		err = s.store.UpdateLoan(ctx, loan, expected)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return storeError("update loan", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAlreadyHandled, storage.ErrVersionConflict)
}
