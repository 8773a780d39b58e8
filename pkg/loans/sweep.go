package loans

import (
	"context"

	"github.com/Ettuli11/BlockDebt/pkg/models"
)

// SweepReport summarizes one accrual sweep.
type SweepReport struct {
	Scanned int `json:"scanned"`
	Accrued int `json:"accrued"`
	Failed  int `json:"failed"`
}

// ActiveLoanIDs lists the ids of every Active loan.
func (s *Service) ActiveLoanIDs(ctx context.Context) ([]string, error) {
	loans, err := s.store.ListLoansByStatus(ctx, models.ACTIVE)
	if err != nil {
		return nil, storeError("list active loans", err)
	}

	ids := make([]string, 0, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.ID)
	}
	return ids, nil
}

// Sweep accrues interest on every Active loan. A failure on one loan is logged
// and the sweep moves on to the next.
func (s *Service) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	ids, err := s.ActiveLoanIDs(ctx)
	if err != nil {
		return report, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		res, err := s.Accrue(ctx, id)
		if err != nil {
			report.Failed++
			s.logger.Error("failed to accrue loan", "loan_id", id, "error", err)
			continue
		}
		if res.Accrual != nil {
			report.Accrued++
		}
	}

	s.logger.Info("accrual sweep finished", "scanned", report.Scanned, "accrued", report.Accrued, "failed", report.Failed)
	return report, nil
}
