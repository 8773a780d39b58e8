package discord

import "strings"

// Custom ID kinds. A custom ID is "<kind>_<action>_<ref>" or "<kind>_<ref>".
const (
	kindCategory = "cat"
	kindCreate   = "create"
	kindLoan     = "loan"
	kindPayModal = "paymodal"
	kindPayment  = "payment"
)

// Loan card actions.
const (
	actionAccept       = "accept"
	actionDecline      = "decline"
	actionRefresh      = "refresh"
	actionPay          = "pay"
	actionMarkPaid     = "markpaid"
	actionConfirmDone  = "confirmdone"
	actionDenyDone     = "denydone"
	actionClose        = "close"
	actionCloseConfirm = "closeconfirm"
)

// Payment message actions.
const (
	actionConfirm = "confirm"
	actionReject  = "reject"
)

// customID identifies the control an interaction came from.
type customID struct {
	Kind   string
	Action string
	Ref    string
}

func (c customID) String() string {
	if c.Action == "" {
		return c.Kind + "_" + c.Ref
	}
	return c.Kind + "_" + c.Action + "_" + c.Ref
}

func loanButtonID(action, loanID string) string {
	return customID{Kind: kindLoan, Action: action, Ref: loanID}.String()
}

func paymentButtonID(action, paymentID string) string {
	return customID{Kind: kindPayment, Action: action, Ref: paymentID}.String()
}

// parseCustomID splits a custom ID. Refs are store ids and never contain "_".
func parseCustomID(raw string) (customID, bool) {
	kind, rest, ok := strings.Cut(raw, "_")
	if !ok || rest == "" {
		return customID{}, false
	}

	switch kind {
	case kindCategory, kindCreate, kindPayModal:
		return customID{Kind: kind, Ref: rest}, true
	case kindLoan, kindPayment:
		action, ref, ok := strings.Cut(rest, "_")
		if !ok || action == "" || ref == "" {
			return customID{}, false
		}
		return customID{Kind: kind, Action: action, Ref: ref}, true
	}
	return customID{}, false
}
