package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/scheduler"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSPublisher publishes loan change events to an SQS queue.
type SQSPublisher struct {
	Client   scheduler.SQSAPI
	QueueURL string
}

// NewSQSPublisher creates a new SQSPublisher.
func NewSQSPublisher(client scheduler.SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ loans.Notifier = (*SQSPublisher)(nil)

// LoanChanged sends a loanChanged message for the loan.
func (p *SQSPublisher) LoanChanged(ctx context.Context, loan *models.Loan) error {
	body, err := json.Marshal(NewLoanChanged(loan))
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = p.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(MessageTypeLoanChanged)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}
	return nil
}

// NoOpPublisher is a notifier that does nothing.
type NoOpPublisher struct{}

// LoanChanged does nothing.
func (NoOpPublisher) LoanChanged(context.Context, *models.Loan) error {
	return nil
}

// Multi fans a change out to several notifiers. Every notifier is called even
// when an earlier one fails; the failures are joined.
type Multi []loans.Notifier

// LoanChanged calls every notifier in order.
func (m Multi) LoanChanged(ctx context.Context, loan *models.Loan) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.LoanChanged(ctx, loan); err != nil {
			slog.Debug("notifier failed", "loan_id", loan.ID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
