package api

import "time"

// Defines values for LoanStatus.
const (
	ACTIVE    LoanStatus = "ACTIVE"
	CLOSED    LoanStatus = "CLOSED"
	COMPLETED LoanStatus = "COMPLETED"
	DECLINED  LoanStatus = "DECLINED"
	PENDING   LoanStatus = "PENDING"
)

// Defines values for Action.
const (
	ActionAccept            Action = "accept"
	ActionDecline           Action = "decline"
	ActionRefresh           Action = "refresh"
	ActionProposePayment    Action = "propose-payment"
	ActionConfirmPayment    Action = "confirm-payment"
	ActionRejectPayment     Action = "reject-payment"
	ActionMarkPaid          Action = "mark-paid"
	ActionConfirmCompletion Action = "confirm-completion"
	ActionDenyCompletion    Action = "deny-completion"
	ActionRequestClose      Action = "request-close"
	ActionConfirmClose      Action = "confirm-close"
)

// LoanStatus defines model for Loan.Status.
type LoanStatus string

// Action names a lifecycle transition.
type Action string

// NewLoan defines model for NewLoan.
type NewLoan struct {
	GuildId      string `json:"guild_id,omitempty"`
	Category     string `json:"category"`
	CreditorId   string `json:"creditor_id"`
	CreditorName string `json:"creditor_name,omitempty"`
	DebtorId     string `json:"debtor_id"`
	DebtorName   string `json:"debtor_name,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Stacks       string `json:"stacks,omitempty"`
	Extra        string `json:"extra,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ActionRequest defines model for ActionRequest.
type ActionRequest struct {
	ActorId   string `json:"actor_id"`
	Amount    string `json:"amount,omitempty"`
	PaymentId string `json:"payment_id,omitempty"`
}

// Stacks defines model for Stacks.
type Stacks struct {
	Stacks int64 `json:"stacks"`
	Extra  int64 `json:"extra"`
}

// Loan defines model for Loan.
type Loan struct {
	Id             string     `json:"id"`
	Category       string     `json:"category"`
	CategoryLabel  string     `json:"category_label"`
	Status         LoanStatus `json:"status"`
	CreditorId     string     `json:"creditor_id"`
	CreditorName   string     `json:"creditor_name,omitempty"`
	DebtorId       string     `json:"debtor_id"`
	DebtorName     string     `json:"debtor_name,omitempty"`
	OriginalAmount float64    `json:"original_amount"`
	CurrentAmount  float64    `json:"current_amount"`
	Original       string     `json:"original"`
	Current        string     `json:"current"`
	OriginalStacks *Stacks    `json:"original_stacks,omitempty"`
	CurrentStacks  *Stacks    `json:"current_stacks,omitempty"`
	DaysActive     int        `json:"days_active"`
	Notes          string     `json:"notes,omitempty"`
	ThreadRef      string     `json:"thread_ref,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	LastAccrualAt  *time.Time `json:"last_accrual_at,omitempty"`
	AccruedDays    int        `json:"accrued_days,omitempty"`
	Version        int64      `json:"version"`

	CompletionRequestedBy string `json:"completion_requested_by,omitempty"`
	CloseRequestedBy      string `json:"close_requested_by,omitempty"`

	Payment *Payment `json:"payment,omitempty"`
}

// Payment defines model for Payment.
type Payment struct {
	Id         string     `json:"id"`
	LoanId     string     `json:"loan_id"`
	Amount     float64    `json:"amount"`
	ProposedBy string     `json:"proposed_by"`
	Confirmed  bool       `json:"confirmed"`
	Status     string     `json:"status"`
	RecordedAt time.Time  `json:"recorded_at"`
	SettledBy  string     `json:"settled_by,omitempty"`
	SettledAt  *time.Time `json:"settled_at,omitempty"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Status defines model for the health responses.
type Status struct {
	Status string `json:"status"`
}
