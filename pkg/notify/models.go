package notify

import (
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/models"
)

// MessageType defines the type of a published event.
type MessageType string

const (
	// MessageTypeLoanChanged is published after every committed loan change.
	MessageTypeLoanChanged MessageType = "loanChanged"
)

// Message is the envelope of every published event.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// LoanChangedPayload is the payload for a loanChanged message.
type LoanChangedPayload struct {
	LoanID        string            `json:"loan_id"`
	Category      models.Category   `json:"category"`
	Status        models.LoanStatus `json:"status"`
	CreditorID    string            `json:"creditor_id"`
	DebtorID      string            `json:"debtor_id"`
	CurrentAmount float64           `json:"current_amount"`
	Version       int64             `json:"version"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewLoanChanged builds the loanChanged message for a loan.
func NewLoanChanged(loan *models.Loan) Message {
	return Message{
		Type: MessageTypeLoanChanged,
		Payload: LoanChangedPayload{
			LoanID:        loan.ID,
			Category:      loan.Category,
			Status:        loan.Status,
			CreditorID:    loan.CreditorID,
			DebtorID:      loan.DebtorID,
			CurrentAmount: loan.CurrentAmount,
			Version:       loan.Version,
			UpdatedAt:     loan.UpdatedAt,
		},
	}
}
