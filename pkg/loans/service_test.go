package loans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/interest"
	"github.com/Ettuli11/BlockDebt/pkg/loans/mocks"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/numeric"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/Ettuli11/BlockDebt/pkg/storage/memory"
	storagemocks "github.com/Ettuli11/BlockDebt/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	creditor = "creditor-1"
	debtor   = "debtor-1"
	stranger = "stranger-1"
)

var epoch = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Store, *clock.Manual) {
	t.Helper()
	store := memory.New()
	clk := clock.NewManual(epoch)
	return NewService(store, clk, nil, nil, nil), store, clk
}

func moneyRequest(amount string) CreateRequest {
	return CreateRequest{
		Category:     models.MONEY,
		CreditorID:   creditor,
		CreditorName: "Alice",
		DebtorID:     debtor,
		DebtorName:   "Bob",
		Amount:       amount,
	}
}

func activeLoan(t *testing.T, s *Service, amount string) *models.Loan {
	t.Helper()
	ctx := context.Background()
	created, err := s.Create(ctx, moneyRequest(amount))
	require.NoError(t, err)
	accepted, err := s.Accept(ctx, created.Loan.ID, debtor)
	require.NoError(t, err)
	return accepted.Loan
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Money", func(t *testing.T) {
		s, _, _ := newTestService(t)
		res, err := s.Create(ctx, moneyRequest("1.5m"))
		require.NoError(t, err)
		assert.Equal(t, 1_500_000.0, res.Loan.OriginalAmount)
		assert.Equal(t, 1_500_000.0, res.Loan.CurrentAmount)
		assert.Equal(t, models.PENDING, res.Loan.Status)
		assert.Nil(t, res.Loan.AcceptedAt)
		assert.Equal(t, "1.5M", res.Display.Current)
	})

	t.Run("Item Fields", func(t *testing.T) {
		s, _, _ := newTestService(t)
		req := CreateRequest{Category: models.ITEM, CreditorID: creditor, DebtorID: debtor, Stacks: "2", Extra: "10"}
		res, err := s.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 138.0, res.Loan.OriginalAmount)
		require.NotNil(t, res.Display.CurrentStacks)
		assert.Equal(t, numeric.StackDisplay{Stacks: 2, Extra: 10}, *res.Display.CurrentStacks)
	})

	t.Run("Info Has No Balance", func(t *testing.T) {
		s, _, _ := newTestService(t)
		req := CreateRequest{Category: models.INFO, CreditorID: creditor, DebtorID: debtor, Notes: "  coords of the base  "}
		res, err := s.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Loan.OriginalAmount)
		assert.Equal(t, "coords of the base", res.Loan.Notes)
		assert.Equal(t, "-", res.Display.Current)
	})

	t.Run("Unknown Debtor", func(t *testing.T) {
		s, _, _ := newTestService(t)
		req := moneyRequest("10k")
		req.DebtorID = ""
		res, err := s.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, UnknownActor, res.Loan.DebtorID)
	})

	t.Run("Validation", func(t *testing.T) {
		s, store, _ := newTestService(t)

		_, err := s.Create(ctx, moneyRequest("1,000"))
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.ErrorIs(t, err, numeric.ErrForbiddenSeparator)

		_, err = s.Create(ctx, moneyRequest("0"))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		self := moneyRequest("10")
		self.DebtorID = creditor
		_, err = s.Create(ctx, self)
		assert.ErrorIs(t, err, ErrSelfLoan)

		bad := moneyRequest("10")
		bad.Category = "GOLD"
		_, err = s.Create(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidCategory)

		pending, _ := store.ListLoansByStatus(ctx, models.PENDING)
		assert.Empty(t, pending)
	})

	t.Run("Notifies", func(t *testing.T) {
		notifier := new(mocks.Notifier)
		notifier.On("LoanChanged", mock.Anything, mock.MatchedBy(func(l *models.Loan) bool {
			return l.Status == models.PENDING
		})).Once().Return(nil)

		s := NewService(memory.New(), clock.NewManual(epoch), nil, notifier, nil)
		_, err := s.Create(ctx, moneyRequest("5k"))
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("Store Failure", func(t *testing.T) {
		store := new(storagemocks.Storage)
		store.On("InsertLoan", mock.Anything, mock.Anything).Once().Return(nil, errors.New("disk full"))

		s := NewService(store, clock.NewManual(epoch), nil, nil, nil)
		_, err := s.Create(ctx, moneyRequest("5k"))
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "failed to insert loan")
		store.AssertExpectations(t)
	})
}

func TestAcceptDecline(t *testing.T) {
	ctx := context.Background()

	t.Run("Accept", func(t *testing.T) {
		s, _, _ := newTestService(t)
		created, _ := s.Create(ctx, moneyRequest("1000"))

		res, err := s.Accept(ctx, created.Loan.ID, debtor)
		require.NoError(t, err)
		assert.Equal(t, models.ACTIVE, res.Loan.Status)
		require.NotNil(t, res.Loan.AcceptedAt)
		require.NotNil(t, res.Loan.LastAccrualAt)
		assert.True(t, epoch.Equal(*res.Loan.AcceptedAt))
		assert.True(t, epoch.Equal(*res.Loan.LastAccrualAt))
	})

	t.Run("Only Debtor", func(t *testing.T) {
		s, store, _ := newTestService(t)
		created, _ := s.Create(ctx, moneyRequest("1000"))

		_, err := s.Accept(ctx, created.Loan.ID, creditor)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = s.Decline(ctx, created.Loan.ID, stranger)
		assert.ErrorIs(t, err, ErrUnauthorized)

		got, _ := store.GetLoan(ctx, created.Loan.ID)
		assert.Equal(t, models.PENDING, got.Status)
		assert.Equal(t, int64(1), got.Version)
	})

	t.Run("Accept Declined Loan", func(t *testing.T) {
		s, store, _ := newTestService(t)
		created, _ := s.Create(ctx, moneyRequest("1000"))
		_, err := s.Decline(ctx, created.Loan.ID, debtor)
		require.NoError(t, err)

		_, err = s.Accept(ctx, created.Loan.ID, debtor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)

		got, _ := store.GetLoan(ctx, created.Loan.ID)
		assert.Equal(t, models.DECLINED, got.Status)
	})

	t.Run("Double Accept", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		_, err := s.Accept(ctx, loan.ID, debtor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)
	})

	t.Run("Not Found", func(t *testing.T) {
		s, _, _ := newTestService(t)
		_, err := s.Accept(ctx, "missing", debtor)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccrual(t *testing.T) {
	ctx := context.Background()

	t.Run("One Day", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := activeLoan(t, s, "1000")

		clk.Advance(interest.Day)
		res, err := s.Accrue(ctx, loan.ID)
		require.NoError(t, err)
		require.NotNil(t, res.Accrual)
		assert.Equal(t, 1, res.Accrual.Days)
		assert.InDelta(t, 1030, res.Loan.CurrentAmount, 1e-9)
	})

	t.Run("Idempotent Within A Day", func(t *testing.T) {
		s, store, clk := newTestService(t)
		loan := activeLoan(t, s, "1000")

		clk.Advance(interest.Day + time.Hour)
		_, err := s.Accrue(ctx, loan.ID)
		require.NoError(t, err)

		clk.Advance(time.Hour)
		res, err := s.Accrue(ctx, loan.ID)
		require.NoError(t, err)
		assert.Nil(t, res.Accrual)

		got, _ := store.GetLoan(ctx, loan.ID)
		assert.InDelta(t, 1030, got.CurrentAmount, 1e-9)
		assert.Equal(t, int64(3), got.Version)
	})

	t.Run("Two Days Compound", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := activeLoan(t, s, "1000")

		clk.Advance(2 * interest.Day)
		res, err := s.Get(ctx, loan.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1060.9, res.Loan.CurrentAmount, 1e-9)
		assert.Equal(t, 2, res.Display.DaysActive)
	})

	t.Run("Holiday Skipped", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewManual(epoch)
		cal := interest.NewCalendar(time.UTC, epoch.Add(interest.Day))
		s := NewService(store, clk, cal, nil, nil)
		loan := activeLoan(t, s, "1000")

		clk.Advance(2 * interest.Day)
		res, err := s.Accrue(ctx, loan.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1030, res.Loan.CurrentAmount, 1e-9)
	})

	t.Run("Pending And Info Never Accrue", func(t *testing.T) {
		s, _, clk := newTestService(t)
		pending, _ := s.Create(ctx, moneyRequest("1000"))
		info, _ := s.Create(ctx, CreateRequest{Category: models.INFO, CreditorID: creditor, DebtorID: debtor, Notes: "x"})
		_, err := s.Accept(ctx, info.Loan.ID, debtor)
		require.NoError(t, err)

		clk.Advance(5 * interest.Day)
		res, err := s.Accrue(ctx, pending.Loan.ID)
		require.NoError(t, err)
		assert.Nil(t, res.Accrual)
		assert.Equal(t, 1000.0, res.Loan.CurrentAmount)

		res, err = s.Accrue(ctx, info.Loan.ID)
		require.NoError(t, err)
		assert.Nil(t, res.Accrual)
	})

	t.Run("Refresh", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := activeLoan(t, s, "1000")
		clk.Advance(interest.Day)

		_, err := s.Refresh(ctx, loan.ID, stranger)
		assert.ErrorIs(t, err, ErrUnauthorized)

		res, err := s.Refresh(ctx, loan.ID, creditor)
		require.NoError(t, err)
		assert.InDelta(t, 1030, res.Loan.CurrentAmount, 1e-9)
	})
}

func TestPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("Exceeds Balance", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")

		_, err := s.ProposePayment(ctx, loan.ID, debtor, "1500")
		assert.ErrorIs(t, err, ErrPaymentExceedsBalance)

		payments, _ := store.ListPaymentsByLoan(ctx, loan.ID)
		assert.Empty(t, payments)
	})

	t.Run("Only Debtor Proposes", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		_, err := s.ProposePayment(ctx, loan.ID, creditor, "10")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Unconfirmed Payment Leaves Balance", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")

		res, err := s.ProposePayment(ctx, loan.ID, debtor, "400")
		require.NoError(t, err)
		require.NotNil(t, res.Payment)
		assert.Equal(t, models.PAYMENT_PENDING, res.Payment.Status)

		got, _ := store.GetLoan(ctx, loan.ID)
		assert.Equal(t, 1000.0, got.CurrentAmount)
	})

	t.Run("Confirm", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		proposed, _ := s.ProposePayment(ctx, loan.ID, debtor, "400")

		_, err := s.ConfirmPayment(ctx, proposed.Payment.ID, debtor)
		assert.ErrorIs(t, err, ErrUnauthorized)

		res, err := s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, 600.0, res.Loan.CurrentAmount)
		assert.Equal(t, models.ACTIVE, res.Loan.Status)
		assert.True(t, res.Payment.Confirmed())

		_, err = s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)
	})

	t.Run("Auto Completion", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		proposed, err := s.ProposePayment(ctx, loan.ID, debtor, "999.99995")
		require.NoError(t, err)

		res, err := s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, models.COMPLETED, res.Loan.Status)
		assert.Equal(t, 0.0, res.Loan.CurrentAmount)
	})

	t.Run("Second Full Payment Rejected", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		first, _ := s.ProposePayment(ctx, loan.ID, debtor, "600")
		second, _ := s.ProposePayment(ctx, loan.ID, debtor, "600")

		_, err := s.ConfirmPayment(ctx, first.Payment.ID, creditor)
		require.NoError(t, err)
		_, err = s.ConfirmPayment(ctx, second.Payment.ID, creditor)
		assert.ErrorIs(t, err, ErrPaymentExceedsBalance)

		got, _ := store.GetLoan(ctx, loan.ID)
		assert.Equal(t, 400.0, got.CurrentAmount)
	})

	t.Run("Reject", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		proposed, _ := s.ProposePayment(ctx, loan.ID, debtor, "400")

		res, err := s.RejectPayment(ctx, proposed.Payment.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, models.PAYMENT_REJECTED, res.Payment.Status)

		_, err = s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)

		got, _ := store.GetLoan(ctx, loan.ID)
		assert.Equal(t, 1000.0, got.CurrentAmount)

		payments, err := s.ListPayments(ctx, loan.ID)
		require.NoError(t, err)
		assert.Len(t, payments, 1)
	})

	t.Run("Info Cannot Be Paid", func(t *testing.T) {
		s, _, _ := newTestService(t)
		info, _ := s.Create(ctx, CreateRequest{Category: models.INFO, CreditorID: creditor, DebtorID: debtor, Notes: "x"})
		_, _ = s.Accept(ctx, info.Loan.ID, debtor)

		_, err := s.ProposePayment(ctx, info.Loan.ID, debtor, "1")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Concurrent Change Is Revalidated", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		proposed, _ := s.ProposePayment(ctx, loan.ID, debtor, "400")

		racing := &racingStore{Store: store, race: func() {
			current, _ := store.GetLoan(ctx, loan.ID)
			current.Status = models.CLOSED
			_ = store.UpdateLoan(ctx, current, current.Version)
		}}
		s.store = racing

		_, err := s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)

		got, _ := store.GetPayment(ctx, proposed.Payment.ID)
		assert.Equal(t, models.PAYMENT_PENDING, got.Status)
	})
}

// racingStore runs race once, right before the first settlement reaches the store.
type racingStore struct {
	*memory.Store
	race func()
}

func (r *racingStore) SettlePayment(ctx context.Context, loan *models.Loan, expectedVersion int64, payment *models.Payment) error {
	if r.race != nil {
		r.race()
		r.race = nil
	}
	return r.Store.SettlePayment(ctx, loan, expectedVersion, payment)
}

func TestCompletionAndClose(t *testing.T) {
	ctx := context.Background()

	t.Run("Mark Paid Then Confirm", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")

		_, err := s.ConfirmCompletion(ctx, loan.ID, creditor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)

		_, err = s.MarkPaid(ctx, loan.ID, debtor)
		require.NoError(t, err)
		_, err = s.MarkPaid(ctx, loan.ID, debtor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)

		_, err = s.ConfirmCompletion(ctx, loan.ID, debtor)
		assert.ErrorIs(t, err, ErrUnauthorized)

		res, err := s.ConfirmCompletion(ctx, loan.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, models.COMPLETED, res.Loan.Status)
		assert.Equal(t, 0.0, res.Loan.CurrentAmount)
	})

	t.Run("Deny Completion", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		_, _ = s.MarkPaid(ctx, loan.ID, debtor)

		res, err := s.DenyCompletion(ctx, loan.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, models.ACTIVE, res.Loan.Status)
		assert.Empty(t, res.Loan.CompletionRequestedBy)
	})

	t.Run("Close Needs Same Actor", func(t *testing.T) {
		s, _, _ := newTestService(t)
		created, _ := s.Create(ctx, moneyRequest("1000"))

		_, err := s.ConfirmClose(ctx, created.Loan.ID, creditor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)

		_, err = s.RequestClose(ctx, created.Loan.ID, creditor)
		require.NoError(t, err)

		_, err = s.ConfirmClose(ctx, created.Loan.ID, debtor)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = s.ConfirmClose(ctx, created.Loan.ID, stranger)
		assert.ErrorIs(t, err, ErrUnauthorized)

		res, err := s.ConfirmClose(ctx, created.Loan.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, models.CLOSED, res.Loan.Status)

		_, err = s.RequestClose(ctx, created.Loan.ID, debtor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)
	})

	t.Run("Notifier Failure Keeps Transition", func(t *testing.T) {
		notifier := new(mocks.Notifier)
		notifier.On("LoanChanged", mock.Anything, mock.Anything).Return(errors.New("message deleted"))

		store := memory.New()
		s := NewService(store, clock.NewManual(epoch), nil, notifier, nil)
		created, err := s.Create(ctx, moneyRequest("1000"))
		require.NoError(t, err)
		_, err = s.Decline(ctx, created.Loan.ID, debtor)
		require.NoError(t, err)

		got, _ := store.GetLoan(ctx, created.Loan.ID)
		assert.Equal(t, models.DECLINED, got.Status)
		notifier.AssertNumberOfCalls(t, "LoanChanged", 2)
	})

	t.Run("Attach Thread", func(t *testing.T) {
		s, store, _ := newTestService(t)
		created, _ := s.Create(ctx, moneyRequest("1000"))

		require.NoError(t, s.AttachThread(ctx, created.Loan.ID, "thread-1"))
		require.NoError(t, s.AttachThread(ctx, created.Loan.ID, "thread-1"))

		got, _ := store.GetLoan(ctx, created.Loan.ID)
		assert.Equal(t, "thread-1", got.ThreadRef)
		assert.Equal(t, int64(2), got.Version)
	})
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("Continues Past Failures", func(t *testing.T) {
		last := epoch
		loans := []models.Loan{
			{ID: "a", Category: models.MONEY, Status: models.ACTIVE, CurrentAmount: 1000, LastAccrualAt: &last, Version: 1},
			{ID: "b", Category: models.MONEY, Status: models.ACTIVE, CurrentAmount: 1000, LastAccrualAt: &last, Version: 1},
		}

		store := new(storagemocks.Storage)
		store.On("ListLoansByStatus", mock.Anything, models.ACTIVE).Once().Return(loans, nil)
		store.On("GetLoan", mock.Anything, "a").Once().Return(nil, errors.New("connection reset"))
		store.On("GetLoan", mock.Anything, "b").Once().Return(loans[1].Clone(), nil)
		store.On("UpdateLoan", mock.Anything, mock.Anything, int64(1)).Once().Return(nil)

		clk := clock.NewManual(epoch.Add(interest.Day))
		s := NewService(store, clk, nil, nil, nil)

		report, err := s.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, SweepReport{Scanned: 2, Accrued: 1, Failed: 1}, report)
		store.AssertExpectations(t)
	})

	t.Run("List Failure", func(t *testing.T) {
		store := new(storagemocks.Storage)
		store.On("ListLoansByStatus", mock.Anything, models.ACTIVE).Once().Return(nil, errors.New("timeout"))

		s := NewService(store, clock.NewManual(epoch), nil, nil, nil)
		_, err := s.Sweep(ctx)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Contains(t, err.Error(), "failed to list active loans")
	})

	t.Run("Update Conflict Exhausts Attempts", func(t *testing.T) {
		last := epoch
		loan := &models.Loan{ID: "a", Category: models.MONEY, Status: models.ACTIVE, CurrentAmount: 1000, LastAccrualAt: &last, Version: 1}

		store := new(storagemocks.Storage)
		store.On("GetLoan", mock.Anything, "a").Times(maxAttempts).Return(func(context.Context, string) *models.Loan {
			return loan.Clone()
		}, nil)
		store.On("UpdateLoan", mock.Anything, mock.Anything, int64(1)).Times(maxAttempts).Return(storage.ErrVersionConflict)

		s := NewService(store, clock.NewManual(epoch.Add(interest.Day)), nil, nil, nil)
		_, err := s.Accrue(ctx, "a")
		assert.ErrorIs(t, err, ErrAlreadyHandled)
		assert.ErrorIs(t, err, storage.ErrVersionConflict)
		store.AssertExpectations(t)
	})
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestService(t)

	created, err := s.Create(ctx, moneyRequest("1.5m"))
	require.NoError(t, err)
	assert.Equal(t, 1_500_000.0, created.Loan.OriginalAmount)

	accepted, err := s.Accept(ctx, created.Loan.ID, debtor)
	require.NoError(t, err)
	assert.Equal(t, models.ACTIVE, accepted.Loan.Status)
	assert.True(t, clk.Now().Equal(*accepted.Loan.LastAccrualAt))

	clk.Advance(interest.Day)
	report, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accrued)

	got, err := s.Get(ctx, created.Loan.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1_545_000, got.Loan.CurrentAmount, 1e-6)

	proposed, err := s.ProposePayment(ctx, created.Loan.ID, debtor, "500k")
	require.NoError(t, err)
	assert.Equal(t, 500_000.0, proposed.Payment.Amount)

	confirmed, err := s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
	require.NoError(t, err)
	assert.InDelta(t, 1_045_000, confirmed.Loan.CurrentAmount, 1e-6)
	assert.Equal(t, models.ACTIVE, confirmed.Loan.Status)
}

func acceptedLoan(t *testing.T, s *Service, req CreateRequest) *models.Loan {
	t.Helper()
	ctx := context.Background()
	req.CreditorID, req.DebtorID = creditor, debtor
	created, err := s.Create(ctx, req)
	require.NoError(t, err)
	accepted, err := s.Accept(ctx, created.Loan.ID, debtor)
	require.NoError(t, err)
	return accepted.Loan
}

func payOff(t *testing.T, s *Service, loanID, amount string) *Result {
	t.Helper()
	ctx := context.Background()
	proposed, err := s.ProposePayment(ctx, loanID, debtor, amount)
	require.NoError(t, err)
	res, err := s.ConfirmPayment(ctx, proposed.Payment.ID, creditor)
	require.NoError(t, err)
	return res
}

func TestWholeUnitCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("Kill Compounds Current Balance", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := acceptedLoan(t, s, CreateRequest{Category: models.KILL, Amount: "100"})

		clk.Advance(interest.Day)
		res := payOff(t, s, loan.ID, "50")
		assert.InDelta(t, 53, res.Loan.CurrentAmount, 1e-9)

		clk.Advance(interest.Day)
		got, err := s.Get(ctx, loan.ID)
		require.NoError(t, err)
		assert.InDelta(t, 54.59, got.Loan.CurrentAmount, 1e-9)
		assert.Equal(t, "55", got.Display.Current)
	})

	t.Run("Kill Paid Off With Displayed Balance", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := acceptedLoan(t, s, CreateRequest{Category: models.KILL, Amount: "10"})

		clk.Advance(interest.Day)
		got, err := s.Get(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, "10", got.Display.Current)

		res := payOff(t, s, loan.ID, "10")
		assert.Equal(t, models.COMPLETED, res.Loan.Status)
		assert.Equal(t, 0.0, res.Loan.CurrentAmount)
	})

	t.Run("Kill Fraction Rounded Up Is Payable", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := acceptedLoan(t, s, CreateRequest{Category: models.KILL, Amount: "1"})

		// 1.03^14 is about 1.51, shown as 2.
		clk.Advance(14 * interest.Day)
		_, err := s.ProposePayment(ctx, loan.ID, debtor, "3")
		assert.ErrorIs(t, err, ErrPaymentExceedsBalance)
		assert.Contains(t, err.Error(), "3 > 2")

		res := payOff(t, s, loan.ID, "2")
		assert.Equal(t, models.COMPLETED, res.Loan.Status)
		assert.Equal(t, 0.0, res.Loan.CurrentAmount)
	})

	t.Run("Item Stack Payment", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := acceptedLoan(t, s, CreateRequest{Category: models.ITEM, Stacks: "2", Extra: "10"})

		clk.Advance(interest.Day)
		got, err := s.Get(ctx, loan.ID)
		require.NoError(t, err)
		assert.InDelta(t, 142.14, got.Loan.CurrentAmount, 1e-9)
		require.NotNil(t, got.Display.CurrentStacks)
		assert.Equal(t, numeric.StackDisplay{Stacks: 2, Extra: 14}, *got.Display.CurrentStacks)

		res := payOff(t, s, loan.ID, "1 stack + 6")
		assert.Equal(t, 70.0, res.Payment.Amount)
		assert.Equal(t, models.ACTIVE, res.Loan.Status)

		res = payOff(t, s, loan.ID, "1 stack + 8")
		assert.Equal(t, models.COMPLETED, res.Loan.Status)
		assert.Equal(t, 0.0, res.Loan.CurrentAmount)
	})

	t.Run("Remaining Whole Unit Keeps Loan Active", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := acceptedLoan(t, s, CreateRequest{Category: models.KILL, Amount: "10"})

		clk.Advance(interest.Day)
		res := payOff(t, s, loan.ID, "9")
		assert.Equal(t, models.ACTIVE, res.Loan.Status)
		assert.Equal(t, "1", res.Display.Current)
	})
}

func TestPaymentLimits(t *testing.T) {
	ctx := context.Background()

	t.Run("Money Cannot Exceed Balance", func(t *testing.T) {
		s, _, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")

		_, err := s.ProposePayment(ctx, loan.ID, debtor, "1000.01")
		assert.ErrorIs(t, err, ErrPaymentExceedsBalance)
	})

	t.Run("Money Accrued Balance Payable In Full", func(t *testing.T) {
		s, _, clk := newTestService(t)
		loan := activeLoan(t, s, "1000")

		clk.Advance(2 * interest.Day)
		res := payOff(t, s, loan.ID, "1060.9")
		assert.Equal(t, models.COMPLETED, res.Loan.Status)
	})
}

func TestPendingPaymentsDiscarded(t *testing.T) {
	ctx := context.Background()

	t.Run("On Completion", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		first, err := s.ProposePayment(ctx, loan.ID, debtor, "1000")
		require.NoError(t, err)
		second, err := s.ProposePayment(ctx, loan.ID, debtor, "200")
		require.NoError(t, err)

		res, err := s.ConfirmPayment(ctx, first.Payment.ID, creditor)
		require.NoError(t, err)
		assert.Equal(t, models.COMPLETED, res.Loan.Status)

		got, err := store.GetPayment(ctx, second.Payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PAYMENT_REJECTED, got.Status)
		assert.Equal(t, creditor, got.SettledBy)

		_, err = s.ConfirmPayment(ctx, second.Payment.ID, creditor)
		assert.ErrorIs(t, err, ErrAlreadyHandled)
	})

	t.Run("On Close", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		pending, err := s.ProposePayment(ctx, loan.ID, debtor, "200")
		require.NoError(t, err)

		_, err = s.RequestClose(ctx, loan.ID, creditor)
		require.NoError(t, err)
		_, err = s.ConfirmClose(ctx, loan.ID, creditor)
		require.NoError(t, err)

		got, err := store.GetPayment(ctx, pending.Payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PAYMENT_REJECTED, got.Status)
	})

	t.Run("Active Loan Keeps Them", func(t *testing.T) {
		s, store, _ := newTestService(t)
		loan := activeLoan(t, s, "1000")
		first, _ := s.ProposePayment(ctx, loan.ID, debtor, "300")
		second, _ := s.ProposePayment(ctx, loan.ID, debtor, "200")

		_, err := s.ConfirmPayment(ctx, first.Payment.ID, creditor)
		require.NoError(t, err)

		got, err := store.GetPayment(ctx, second.Payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PAYMENT_PENDING, got.Status)
	})
}
