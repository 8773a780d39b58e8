package scheduler

import (
	"context"
	"time"
)

// AccrualJob is the message body of one queued accrual.
type AccrualJob struct {
	LoanID      string    `json:"loan_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Scheduler defines the interface for a component that schedules a loan accrual for later processing.
type Scheduler interface {
	// ScheduleAccrual enqueues an accrual of the loan for asynchronous processing.
	ScheduleAccrual(ctx context.Context, job AccrualJob) error
}
