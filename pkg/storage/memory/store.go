package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/google/uuid"
)

// Store implements the Storage interface in process memory.
// It is used for local development and tests; nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	loans    map[string]*models.Loan
	payments map[string]*models.Payment
	order    []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		loans:    make(map[string]*models.Loan),
		payments: make(map[string]*models.Payment),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) GetLoan(_ context.Context, loanID string) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[loanID]
	if !ok {
		return nil, fmt.Errorf("loan with ID %s: %w", loanID, storage.ErrLoanNotFound)
	}
	return loan.Clone(), nil
}

func (s *Store) ListLoansByStatus(_ context.Context, status models.LoanStatus) ([]models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loans []models.Loan
	for _, loan := range s.loans {
		if loan.Status == status {
			loans = append(loans, *loan.Clone())
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].CreatedAt.Before(loans[j].CreatedAt) })
	return loans, nil
}

func (s *Store) InsertLoan(_ context.Context, loan *models.Loan) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan.ID = uuid.New().String()
	loan.Version = 1
	if loan.UpdatedAt.IsZero() {
		loan.UpdatedAt = loan.CreatedAt
	}
	s.loans[loan.ID] = loan.Clone()
	return loan, nil
}

func (s *Store) UpdateLoan(_ context.Context, loan *models.Loan, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.putLoanLocked(loan, expectedVersion)
}

func (s *Store) InsertPayment(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[payment.LoanID]; !ok {
		return nil, fmt.Errorf("loan with ID %s: %w", payment.LoanID, storage.ErrLoanNotFound)
	}

	payment.ID = uuid.New().String()
	if payment.Status == "" {
		payment.Status = models.PAYMENT_PENDING
	}
	p := *payment
	s.payments[p.ID] = &p
	s.order = append(s.order, p.ID)
	return payment, nil
}

func (s *Store) GetPayment(_ context.Context, paymentID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment with ID %s: %w", paymentID, storage.ErrPaymentNotFound)
	}
	c := *p
	return &c, nil
}

func (s *Store) ListPaymentsByLoan(_ context.Context, loanID string) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []models.Payment
	for _, id := range s.order {
		if p := s.payments[id]; p.LoanID == loanID {
			payments = append(payments, *p)
		}
	}
	return payments, nil
}

func (s *Store) ResolvePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPendingLocked(payment.ID); err != nil {
		return err
	}
	p := *payment
	s.payments[p.ID] = &p
	return nil
}

func (s *Store) SettlePayment(_ context.Context, loan *models.Loan, expectedVersion int64, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.loans[loan.ID]
	if !ok {
		return fmt.Errorf("loan with ID %s: %w", loan.ID, storage.ErrLoanNotFound)
	}
	if stored.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	if err := s.checkPendingLocked(payment.ID); err != nil {
		return err
	}

	if err := s.putLoanLocked(loan, expectedVersion); err != nil {
		return err
	}
	p := *payment
	s.payments[p.ID] = &p
	return nil
}

func (s *Store) putLoanLocked(loan *models.Loan, expectedVersion int64) error {
	stored, ok := s.loans[loan.ID]
	if !ok {
		return fmt.Errorf("loan with ID %s: %w", loan.ID, storage.ErrLoanNotFound)
	}
	if stored.Version != expectedVersion {
		return storage.ErrVersionConflict
	}

	loan.Version = expectedVersion + 1
	if loan.UpdatedAt.IsZero() {
		loan.UpdatedAt = time.Now().UTC()
	}
	s.loans[loan.ID] = loan.Clone()
	return nil
}

func (s *Store) checkPendingLocked(paymentID string) error {
	p, ok := s.payments[paymentID]
	if !ok {
		return fmt.Errorf("payment with ID %s: %w", paymentID, storage.ErrPaymentNotFound)
	}
	if p.Status != models.PAYMENT_PENDING {
		return storage.ErrPaymentAlreadySettled
	}
	return nil
}
