package main

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/config"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/logging"
	"github.com/Ettuli11/BlockDebt/pkg/notify"
	"github.com/Ettuli11/BlockDebt/pkg/scheduler"
	"github.com/Ettuli11/BlockDebt/pkg/storage/backend"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type accruer interface {
	Accrue(ctx context.Context, loanID string) (*loans.Result, error)
}

// handler applies queued accrual jobs.
type handler struct {
	service accruer
	logger  *slog.Logger
}

// newHandler wires dependencies once per cold start.
func newHandler() *handler {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	cal, err := cfg.Calendar()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, _, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	var notifier loans.Notifier = notify.NoOpPublisher{}
	if cfg.EventsQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		notifier = notify.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
	}

	return &handler{
		service: loans.NewService(store, clock.System{}, cal, notifier, logger),
		logger:  logger,
	}
}

// HandleRequest processes SQS messages and accrues the referenced loans.
// Messages that fail for a transient reason are reported back so SQS retries
// only those; malformed messages and loans that no longer accrue are dropped.
func (h *handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, message := range sqsEvent.Records {
		job, err := scheduler.DecodeAccrualJob(message.Body)
		if err != nil {
			h.logger.Error("dropping malformed accrual message", "message_id", message.MessageId, "error", err)
			continue
		}

		res, err := h.service.Accrue(ctx, job.LoanID)
		switch {
		case errors.Is(err, loans.ErrNotFound):
			h.logger.Warn("loan no longer exists", "loan_id", job.LoanID, "message_id", message.MessageId)
		case err != nil:
			h.logger.Error("failed to accrue loan", "loan_id", job.LoanID, "message_id", message.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		case res.Accrual == nil:
			h.logger.Debug("nothing to accrue", "loan_id", job.LoanID)
		}
	}

	return resp, nil
}

func main() {
	lambda.Start(newHandler().HandleRequest)
}
