package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// InsertPayment appends a new payment to the ledger table.
func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	payment.ID = uuid.New().String()
	if payment.Status == "" {
		payment.Status = models.PAYMENT_PENDING
	}

	paymentAV, err := attributevalue.MarshalMap(payment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.PaymentsTableName),
		Item:                paymentAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create payment in DynamoDB: %w", err)
	}

	return payment, nil
}

// GetPayment retrieves a payment by its ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": paymentID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.PaymentsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payment from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("payment with ID %s: %w", paymentID, storage.ErrPaymentNotFound)
	}

	var payment models.Payment
	if err := attributevalue.UnmarshalMap(result.Item, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
	}

	return &payment, nil
}

// ListPaymentsByLoan queries the loan index in ascending recorded_at order.
func (s *Store) ListPaymentsByLoan(ctx context.Context, loanID string) ([]models.Payment, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.PaymentsTableName),
		IndexName:              aws.String(loanIDIndex),
		KeyConditionExpression: aws.String("loan_id = :loanID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":loanID": &types.AttributeValueMemberS{Value: loanID},
		},
		ScanIndexForward: aws.Bool(true),
	}

	var payments []models.Payment
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query payments by loan ID: %w", err)
		}

		var page []models.Payment
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payments: %w", err)
		}
		payments = append(payments, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return payments, nil
}

// ResolvePayment writes the payment's final status while it is still pending.
func (s *Store) ResolvePayment(ctx context.Context, payment *models.Payment) error {
	update, err := s.pendingPaymentUpdate(payment)
	if err != nil {
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 update.TableName,
		Key:                       update.Key,
		UpdateExpression:          update.UpdateExpression,
		ConditionExpression:       update.ConditionExpression,
		ExpressionAttributeNames:  update.ExpressionAttributeNames,
		ExpressionAttributeValues: update.ExpressionAttributeValues,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrPaymentAlreadySettled
		}
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return nil
}

// pendingPaymentUpdate builds an Update that settles a payment only if it is still PENDING.
func (s *Store) pendingPaymentUpdate(payment *models.Payment) (*types.Update, error) {
	settledAtAV, err := attributevalue.Marshal(payment.SettledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settlement timestamp: %w", err)
	}

	return &types.Update{
		TableName: aws.String(s.PaymentsTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: payment.ID},
		},
		UpdateExpression:    aws.String("SET #status = :new_status, settled_by = :settled_by, settled_at = :settled_at"),
		ConditionExpression: aws.String("#status = :pending_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new_status":     &types.AttributeValueMemberS{Value: string(payment.Status)},
			":pending_status": &types.AttributeValueMemberS{Value: string(models.PAYMENT_PENDING)},
			":settled_by":     &types.AttributeValueMemberS{Value: payment.SettledBy},
			":settled_at":     settledAtAV,
		},
	}, nil
}
