package storage

import (
	"context"

	"github.com/Ettuli11/BlockDebt/pkg/models"
)

// LoanReader defines the interface for reading loan data.
type LoanReader interface {
	// GetLoan retrieves a loan by its ID. It returns ErrLoanNotFound if it does not exist.
	GetLoan(ctx context.Context, loanID string) (*models.Loan, error)

	// ListLoansByStatus retrieves all loans currently in the given status.
	ListLoansByStatus(ctx context.Context, status models.LoanStatus) ([]models.Loan, error)
}

// LoanWriter defines the interface for creating and mutating loans.
type LoanWriter interface {
	// InsertLoan assigns an ID and the first version to a new loan and stores it.
	InsertLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error)

	// UpdateLoan replaces the stored loan only if its version still equals expectedVersion.
	// On success loan.Version is set to the new version. Otherwise ErrVersionConflict is returned.
	UpdateLoan(ctx context.Context, loan *models.Loan, expectedVersion int64) error
}

// LoanStore combines the reader and writer interfaces.
type LoanStore interface {
	LoanReader
	LoanWriter
}
