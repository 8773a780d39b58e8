package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Ettuli11/BlockDebt/pkg/api"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/mapping"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ApiHandler implements the server interface on top of the loan service.
type ApiHandler struct {
	Service *loans.Service
	Health  Pinger
}

// NewApiHandler creates a new ApiHandler. health may be nil.
func NewApiHandler(service *loans.Service, health Pinger) *ApiHandler {
	return &ApiHandler{Service: service, Health: health}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// GetRoot reports that the process is up.
func (h *ApiHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Status{Status: "online"})
}

// GetHealth reports whether the store is reachable.
func (h *ApiHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, api.Status{Status: "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, api.Status{Status: "healthy"})
}

// CreateLoan handles the logic for creating a new loan.
func (h *ApiHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var newLoan api.NewLoan
	if err := json.NewDecoder(r.Body).Decode(&newLoan); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Error{Error: fmt.Sprintf("Invalid request body: %v", err), Kind: "bad_request"})
		return
	}

	res, err := h.Service.Create(r.Context(), mapping.ToCreateRequest(&newLoan))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapping.ToApiLoan(res))
}

// GetLoanById returns a loan with pending accrual applied.
func (h *ApiHandler) GetLoanById(w http.ResponseWriter, r *http.Request, loanID string) {
	res, err := h.Service.Get(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApiLoan(res))
}

// ListLoanPayments returns the payment ledger of a loan.
func (h *ApiHandler) ListLoanPayments(w http.ResponseWriter, r *http.Request, loanID string) {
	payments, err := h.Service.ListPayments(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	apiPayments := make([]*api.Payment, len(payments))
	for i := range payments {
		apiPayments[i] = mapping.ToApiPayment(&payments[i])
	}
	writeJSON(w, http.StatusOK, apiPayments)
}

// PerformLoanAction runs one lifecycle transition on behalf of an actor.
func (h *ApiHandler) PerformLoanAction(w http.ResponseWriter, r *http.Request, loanID string, action api.Action) {
	var req api.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Error{Error: fmt.Sprintf("Invalid request body: %v", err), Kind: "bad_request"})
		return
	}

	res, err := h.dispatch(r.Context(), loanID, action, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping.ToApiLoan(res))
}

var errUnknownAction = errors.New("unknown action")

func (h *ApiHandler) dispatch(ctx context.Context, loanID string, action api.Action, req *api.ActionRequest) (*loans.Result, error) {
	s := h.Service
	switch action {
	case api.ActionAccept:
		return s.Accept(ctx, loanID, req.ActorId)
	case api.ActionDecline:
		return s.Decline(ctx, loanID, req.ActorId)
	case api.ActionRefresh:
		return s.Refresh(ctx, loanID, req.ActorId)
	case api.ActionProposePayment:
		return s.ProposePayment(ctx, loanID, req.ActorId, req.Amount)
	case api.ActionConfirmPayment, api.ActionRejectPayment:
		if err := h.checkPaymentLoan(ctx, loanID, req.PaymentId); err != nil {
			return nil, err
		}
		if action == api.ActionConfirmPayment {
			return s.ConfirmPayment(ctx, req.PaymentId, req.ActorId)
		}
		return s.RejectPayment(ctx, req.PaymentId, req.ActorId)
	case api.ActionMarkPaid:
		return s.MarkPaid(ctx, loanID, req.ActorId)
	case api.ActionConfirmCompletion:
		return s.ConfirmCompletion(ctx, loanID, req.ActorId)
	case api.ActionDenyCompletion:
		return s.DenyCompletion(ctx, loanID, req.ActorId)
	case api.ActionRequestClose:
		return s.RequestClose(ctx, loanID, req.ActorId)
	case api.ActionConfirmClose:
		return s.ConfirmClose(ctx, loanID, req.ActorId)
	}
	return nil, fmt.Errorf("%w: %q", errUnknownAction, action)
}

// checkPaymentLoan makes sure the payment belongs to the loan in the path.
func (h *ApiHandler) checkPaymentLoan(ctx context.Context, loanID, paymentID string) error {
	payments, err := h.Service.ListPayments(ctx, loanID)
	if err != nil {
		return err
	}
	for _, p := range payments {
		if p.ID == paymentID {
			return nil
		}
	}
	return fmt.Errorf("%w: payment %q on loan %q", loans.ErrNotFound, paymentID, loanID)
}

func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, api.Error{Error: err.Error(), Kind: kind})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errUnknownAction):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, loans.ErrInvalidAmount),
		errors.Is(err, loans.ErrPaymentExceedsBalance),
		errors.Is(err, loans.ErrInvalidCategory),
		errors.Is(err, loans.ErrSelfLoan):
		return http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, loans.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, loans.ErrAlreadyHandled):
		return http.StatusConflict, "already_handled"
	case errors.Is(err, loans.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, loans.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	}
	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
