package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of the SQS client used to enqueue messages.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// ScheduleAccrual sends the job to an SQS queue for later processing.
func (s *SQSScheduler) ScheduleAccrual(ctx context.Context, job AccrualJob) error {
	if job.LoanID == "" {
		return fmt.Errorf("accrual job has no loan ID")
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal accrual job for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

// DecodeAccrualJob parses a message body produced by ScheduleAccrual.
func DecodeAccrualJob(body string) (AccrualJob, error) {
	var job AccrualJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return job, fmt.Errorf("failed to unmarshal accrual job: %w", err)
	}
	if job.LoanID == "" {
		return job, fmt.Errorf("accrual job has no loan ID")
	}
	return job, nil
}
