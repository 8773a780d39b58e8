package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// GetLoan retrieves a loan from DynamoDB by its ID.
func (s *Store) GetLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": loanID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal loan ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.LoansTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("loan with ID %s: %w", loanID, storage.ErrLoanNotFound)
	}

	var loan models.Loan
	if err := attributevalue.UnmarshalMap(result.Item, &loan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal loan: %w", err)
	}

	return &loan, nil
}

// ListLoansByStatus queries the status index, following pagination until exhausted.
func (s *Store) ListLoansByStatus(ctx context.Context, status models.LoanStatus) ([]models.Loan, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LoansTableName),
		IndexName:              aws.String(statusCreatedAtIndex),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	}

	var loans []models.Loan
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query loans by status: %w", err)
		}

		var page []models.Loan
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal loans: %w", err)
		}
		loans = append(loans, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return loans, nil
}

// InsertLoan stores a new loan with a fresh ID and version 1.
func (s *Store) InsertLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	loan.ID = uuid.New().String()
	loan.Version = 1
	if loan.UpdatedAt.IsZero() {
		loan.UpdatedAt = loan.CreatedAt
	}

	loanAV, err := attributevalue.MarshalMap(loan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal loan: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.LoansTableName),
		Item:                loanAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create loan in DynamoDB: %w", err)
	}

	return loan, nil
}

// UpdateLoan replaces the loan item on the condition that its version is unchanged.
func (s *Store) UpdateLoan(ctx context.Context, loan *models.Loan, expectedVersion int64) error {
	put, err := s.conditionalLoanPut(loan, expectedVersion)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 put.TableName,
		Item:                      put.Item,
		ConditionExpression:       put.ConditionExpression,
		ExpressionAttributeValues: put.ExpressionAttributeValues,
	})
	if err != nil {
		loan.Version = expectedVersion
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrVersionConflict
		}
		return fmt.Errorf("failed to update loan in DynamoDB: %w", err)
	}

	return nil
}

// conditionalLoanPut builds a Put that only succeeds while the stored version equals expectedVersion.
// It bumps loan.Version to the version being written.
func (s *Store) conditionalLoanPut(loan *models.Loan, expectedVersion int64) (*types.Put, error) {
	loan.Version = expectedVersion + 1
	loanAV, err := attributevalue.MarshalMap(loan)
	if err != nil {
		loan.Version = expectedVersion
		return nil, fmt.Errorf("failed to marshal loan: %w", err)
	}

	return &types.Put{
		TableName:           aws.String(s.LoansTableName),
		Item:                loanAV,
		ConditionExpression: aws.String("attribute_exists(id) AND version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	}, nil
}
