package mapping

import (
	"github.com/Ettuli11/BlockDebt/pkg/api"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/numeric"
)

// ToApiLoan converts a service result to an API Loan model.
func ToApiLoan(res *loans.Result) *api.Loan {
	loan := res.Loan
	out := &api.Loan{
		Id:                    loan.ID,
		Category:              string(loan.Category),
		CategoryLabel:         res.Display.Category,
		Status:                api.LoanStatus(loan.Status),
		CreditorId:            loan.CreditorID,
		CreditorName:          loan.CreditorName,
		DebtorId:              loan.DebtorID,
		DebtorName:            loan.DebtorName,
		OriginalAmount:        loan.OriginalAmount,
		CurrentAmount:         loan.CurrentAmount,
		Original:              res.Display.Original,
		Current:               res.Display.Current,
		OriginalStacks:        toApiStacks(res.Display.OriginalStacks),
		CurrentStacks:         toApiStacks(res.Display.CurrentStacks),
		DaysActive:            res.Display.DaysActive,
		Notes:                 loan.Notes,
		ThreadRef:             loan.ThreadRef,
		CreatedAt:             loan.CreatedAt,
		AcceptedAt:            loan.AcceptedAt,
		LastAccrualAt:         loan.LastAccrualAt,
		Version:               loan.Version,
		CompletionRequestedBy: loan.CompletionRequestedBy,
		CloseRequestedBy:      loan.CloseRequestedBy,
	}
	if res.Accrual != nil {
		out.AccruedDays = res.Accrual.Days
	}
	if res.Payment != nil {
		out.Payment = ToApiPayment(res.Payment)
	}
	return out
}

// ToApiPayment converts a domain Payment model to an API Payment model.
func ToApiPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		Id:         p.ID,
		LoanId:     p.LoanID,
		Amount:     p.Amount,
		ProposedBy: p.ProposedBy,
		Confirmed:  p.Confirmed(),
		Status:     string(p.Status),
		RecordedAt: p.RecordedAt,
		SettledBy:  p.SettledBy,
		SettledAt:  p.SettledAt,
	}
}

// ToCreateRequest converts an API NewLoan model to a service request.
func ToCreateRequest(newLoan *api.NewLoan) loans.CreateRequest {
	return loans.CreateRequest{
		GuildID:      newLoan.GuildId,
		Category:     models.Category(newLoan.Category),
		CreditorID:   newLoan.CreditorId,
		CreditorName: newLoan.CreditorName,
		DebtorID:     newLoan.DebtorId,
		DebtorName:   newLoan.DebtorName,
		Amount:       newLoan.Amount,
		Stacks:       newLoan.Stacks,
		Extra:        newLoan.Extra,
		Notes:        newLoan.Notes,
	}
}

func toApiStacks(s *numeric.StackDisplay) *api.Stacks {
	if s == nil {
		return nil
	}
	return &api.Stacks{Stacks: s.Stacks, Extra: s.Extra}
}
