package models

import (
	"time"
)

// Category defines what a loan is denominated in. It is fixed at creation.
type Category string

const (
	MONEY Category = "MONEY"
	ITEM  Category = "ITEM"
	KILL  Category = "KILL"
	INFO  Category = "INFO"
)

// Categories lists every supported category in display order.
var Categories = []Category{MONEY, ITEM, KILL, INFO}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case MONEY, ITEM, KILL, INFO:
		return true
	}
	return false
}

// LoanStatus defines the possible states of a loan.
type LoanStatus string

const (
	PENDING   LoanStatus = "PENDING"
	ACTIVE    LoanStatus = "ACTIVE"
	DECLINED  LoanStatus = "DECLINED"
	COMPLETED LoanStatus = "COMPLETED"
	CLOSED    LoanStatus = "CLOSED"
)

// Terminal reports whether no further transition can leave the status.
func (s LoanStatus) Terminal() bool {
	return s == DECLINED || s == COMPLETED || s == CLOSED
}

// Loan represents the internal domain model for a loan.
// It includes dynamodbav tags for marshalling.
type Loan struct {
	ID             string     `json:"id" dynamodbav:"id"`
	GuildID        string     `json:"guild_id,omitempty" dynamodbav:"guild_id,omitempty"`
	Category       Category   `json:"category" dynamodbav:"category"`
	CreditorID     string     `json:"creditor_id" dynamodbav:"creditor_id"`
	CreditorName   string     `json:"creditor_name" dynamodbav:"creditor_name"`
	DebtorID       string     `json:"debtor_id" dynamodbav:"debtor_id"`
	DebtorName     string     `json:"debtor_name" dynamodbav:"debtor_name"`
	OriginalAmount float64    `json:"original_amount" dynamodbav:"original_amount"`
	CurrentAmount  float64    `json:"current_amount" dynamodbav:"current_amount"`
	Status         LoanStatus `json:"status" dynamodbav:"status"`
	Notes          string     `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	ThreadRef      string     `json:"thread_ref,omitempty" dynamodbav:"thread_ref,omitempty"`
	CreatedAt      time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" dynamodbav:"updated_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty" dynamodbav:"accepted_at,omitempty"`
	LastAccrualAt  *time.Time `json:"last_accrual_at,omitempty" dynamodbav:"last_accrual_at,omitempty"`

	CompletionRequestedBy string     `json:"completion_requested_by,omitempty" dynamodbav:"completion_requested_by,omitempty"`
	CompletionRequestedAt *time.Time `json:"completion_requested_at,omitempty" dynamodbav:"completion_requested_at,omitempty"`
	CloseRequestedBy      string     `json:"close_requested_by,omitempty" dynamodbav:"close_requested_by,omitempty"`
	CloseRequestedAt      *time.Time `json:"close_requested_at,omitempty" dynamodbav:"close_requested_at,omitempty"`

	Version int64 `json:"version" dynamodbav:"version"`
}

// IsParty reports whether actorID is the creditor or the debtor of the loan.
func (l *Loan) IsParty(actorID string) bool {
	return actorID != "" && (actorID == l.CreditorID || actorID == l.DebtorID)
}

// Clone returns a deep copy of the loan so callers can mutate it freely.
func (l *Loan) Clone() *Loan {
	c := *l
	c.AcceptedAt = cloneTime(l.AcceptedAt)
	c.LastAccrualAt = cloneTime(l.LastAccrualAt)
	c.CompletionRequestedAt = cloneTime(l.CompletionRequestedAt)
	c.CloseRequestedAt = cloneTime(l.CloseRequestedAt)
	return &c
}

// PaymentStatus defines the possible states of a ledger entry.
type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "PENDING"
	PAYMENT_CONFIRMED PaymentStatus = "CONFIRMED"
	PAYMENT_REJECTED  PaymentStatus = "REJECTED"
)

// Payment is a single entry in the append-only payment ledger of a loan.
type Payment struct {
	ID         string        `json:"id" dynamodbav:"id"`
	LoanID     string        `json:"loan_id" dynamodbav:"loan_id"`
	Amount     float64       `json:"amount" dynamodbav:"amount"`
	ProposedBy string        `json:"proposed_by" dynamodbav:"proposed_by"`
	Status     PaymentStatus `json:"status" dynamodbav:"status"`
	RecordedAt time.Time     `json:"recorded_at" dynamodbav:"recorded_at"`
	SettledBy  string        `json:"settled_by,omitempty" dynamodbav:"settled_by,omitempty"`
	SettledAt  *time.Time    `json:"settled_at,omitempty" dynamodbav:"settled_at,omitempty"`
}

// Confirmed reports whether the creditor has confirmed the payment.
func (p *Payment) Confirmed() bool {
	return p.Status == PAYMENT_CONFIRMED
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
