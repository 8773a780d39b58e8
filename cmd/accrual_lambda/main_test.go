package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage/memory"
	storagemocks "github.com/Ettuli11/BlockDebt/pkg/storage/mocks"
	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func message(id, loanID string) events.SQSMessage {
	return events.SQSMessage{
		MessageId: id,
		Body:      fmt.Sprintf(`{"loan_id":%q,"requested_at":"2025-06-03T12:00:00Z"}`, loanID),
	}
}

func TestHandleRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Accrues Queued Loan", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewManual(epoch)
		service := loans.NewService(store, clk, nil, nil, discard())

		created, err := service.Create(ctx, loans.CreateRequest{
			Category: models.MONEY, CreditorID: "c", DebtorID: "d", Amount: "1m",
		})
		require.NoError(t, err)
		_, err = service.Accept(ctx, created.Loan.ID, "d")
		require.NoError(t, err)
		clk.Advance(24 * time.Hour)

		h := &handler{service: service, logger: discard()}
		resp, err := h.HandleRequest(ctx, events.SQSEvent{Records: []events.SQSMessage{message("m1", created.Loan.ID)}})
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)

		stored, err := store.GetLoan(ctx, created.Loan.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1_030_000.0, stored.CurrentAmount, loans.Epsilon)
	})

	t.Run("Drops Malformed And Missing", func(t *testing.T) {
		service := loans.NewService(memory.New(), clock.NewManual(epoch), nil, nil, discard())
		h := &handler{service: service, logger: discard()}

		resp, err := h.HandleRequest(ctx, events.SQSEvent{Records: []events.SQSMessage{
			{MessageId: "bad", Body: "not json"},
			message("gone", "no-such-loan"),
		}})
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
	})

	t.Run("Reports Store Failures For Retry", func(t *testing.T) {
		mockStore := new(storagemocks.Storage)
		mockStore.On("GetLoan", mock.Anything, "loan-1").Once().Return(nil, errors.New("connection reset"))
		service := loans.NewService(mockStore, clock.NewManual(epoch), nil, nil, discard())
		h := &handler{service: service, logger: discard()}

		resp, err := h.HandleRequest(ctx, events.SQSEvent{Records: []events.SQSMessage{message("m1", "loan-1")}})
		require.NoError(t, err)
		require.Len(t, resp.BatchItemFailures, 1)
		assert.Equal(t, "m1", resp.BatchItemFailures[0].ItemIdentifier)
		mockStore.AssertExpectations(t)
	})
}
