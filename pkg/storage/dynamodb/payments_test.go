package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/Ettuli11/BlockDebt/pkg/storage/dynamodb/mocks"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testPayment() *models.Payment {
	return &models.Payment{
		ID:         "payment-1",
		LoanID:     "loan-1",
		Amount:     500_000,
		ProposedBy: "debtor",
		Status:     models.PAYMENT_PENDING,
		RecordedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestInsertPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, PaymentsTableName: "payments"}

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return aws.ToString(in.TableName) == "payments"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		p := testPayment()
		p.ID = ""
		p.Status = ""
		result, err := store.InsertPayment(context.Background(), p)

		assert.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.Equal(t, models.PAYMENT_PENDING, result.Status)
		mockClient.AssertExpectations(t)
	})
}

func TestGetPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, PaymentsTableName: "payments"}

		p := testPayment()
		paymentAV, _ := attributevalue.MarshalMap(p)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: paymentAV}, nil)

		result, err := store.GetPayment(context.Background(), p.ID)

		assert.NoError(t, err)
		assert.Equal(t, p, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, PaymentsTableName: "payments"}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := store.GetPayment(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrPaymentNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListPaymentsByLoan(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := &Store{Client: mockClient, PaymentsTableName: "payments"}

	paymentAV, _ := attributevalue.MarshalMap(testPayment())
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == loanIDIndex
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{paymentAV}}, nil)

	payments, err := store.ListPaymentsByLoan(context.Background(), "loan-1")

	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	mockClient.AssertExpectations(t)
}

func TestResolvePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, PaymentsTableName: "payments"}

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return aws.ToString(in.ConditionExpression) == "#status = :pending_status"
		})).Return(&dynamodb.UpdateItemOutput{}, nil)

		p := testPayment()
		p.Status = models.PAYMENT_REJECTED
		err := store.ResolvePayment(context.Background(), p)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Settled", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, PaymentsTableName: "payments"}

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.ResolvePayment(context.Background(), testPayment())

		assert.ErrorIs(t, err, storage.ErrPaymentAlreadySettled)
		mockClient.AssertExpectations(t)
	})
}

func TestSettlePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, LoansTableName: "loans", PaymentsTableName: "payments"}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 2 && in.TransactItems[0].Put != nil && in.TransactItems[1].Update != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		loan := testLoan()
		err := store.SettlePayment(context.Background(), loan, 3, testPayment())

		assert.NoError(t, err)
		assert.Equal(t, int64(4), loan.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Loan Changed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, LoansTableName: "loans", PaymentsTableName: "payments"}

		reasons := []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}, {Code: aws.String("None")}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: reasons})

		loan := testLoan()
		err := store.SettlePayment(context.Background(), loan, 3, testPayment())

		assert.ErrorIs(t, err, storage.ErrVersionConflict)
		assert.Equal(t, int64(3), loan.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Payment Already Settled", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, LoansTableName: "loans", PaymentsTableName: "payments"}

		reasons := []types.CancellationReason{{Code: aws.String("None")}, {Code: aws.String("ConditionalCheckFailed")}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: reasons})

		err := store.SettlePayment(context.Background(), testLoan(), 3, testPayment())

		assert.ErrorIs(t, err, storage.ErrPaymentAlreadySettled)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, LoansTableName: "loans", PaymentsTableName: "payments"}

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed"))

		err := store.SettlePayment(context.Background(), testLoan(), 3, testPayment())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute settlement transaction")
		mockClient.AssertExpectations(t)
	})
}
