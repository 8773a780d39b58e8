package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/config"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/logging"
	"github.com/Ettuli11/BlockDebt/pkg/notify"
	"github.com/Ettuli11/BlockDebt/pkg/scheduler"
	"github.com/Ettuli11/BlockDebt/pkg/storage/backend"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// activeLoans lists the loans that accrue interest.
type activeLoans interface {
	ActiveLoanIDs(ctx context.Context) ([]string, error)
}

// handler fans out one accrual job per Active loan. It is triggered by an
// EventBridge schedule; the accrual itself runs in the accrual lambda.
type handler struct {
	loans     activeLoans
	scheduler scheduler.Scheduler
	clock     clock.Clock
	logger    *slog.Logger
}

// newHandler wires dependencies once per cold start.
func newHandler() *handler {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.RequireAccrualQueue(); err != nil {
		log.Fatal(err)
	}
	cal, err := cfg.Calendar()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, _, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}
	sqsClient := sqs.NewFromConfig(awsCfg)

	// Nothing changes here, so nobody is notified.
	service := loans.NewService(store, clock.System{}, cal, notify.NoOpPublisher{}, logger)
	return &handler{
		loans:     service,
		scheduler: scheduler.NewSQSScheduler(sqsClient, cfg.AccrualQueueURL),
		clock:     clock.System{},
		logger:    logger,
	}
}

// HandleRequest enqueues every Active loan. A failed enqueue is logged and the
// batch continues; the next run picks the loan up again.
func (h *handler) HandleRequest(ctx context.Context) error {
	h.logger.Info("starting accrual fan-out")

	ids, err := h.loans.ActiveLoanIDs(ctx)
	if err != nil {
		h.logger.Error("failed to list active loans", "error", err)
		return err
	}
	if len(ids) == 0 {
		h.logger.Info("no active loans found")
		return nil
	}

	now := h.clock.Now()
	var queued int
	for _, id := range ids {
		if err := h.scheduler.ScheduleAccrual(ctx, scheduler.AccrualJob{LoanID: id, RequestedAt: now}); err != nil {
			h.logger.Error("failed to enqueue accrual", "loan_id", id, "error", err)
			continue
		}
		queued++
	}

	h.logger.Info("accrual fan-out finished", "active", len(ids), "queued", queued)
	return nil
}

func main() {
	lambda.Start(newHandler().HandleRequest)
}
