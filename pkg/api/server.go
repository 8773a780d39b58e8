package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /)
	GetRoot(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (POST /loans)
	CreateLoan(w http.ResponseWriter, r *http.Request)
	// (GET /loans/{loanID})
	GetLoanById(w http.ResponseWriter, r *http.Request, loanID string)
	// (GET /loans/{loanID}/payments)
	ListLoanPayments(w http.ResponseWriter, r *http.Request, loanID string)
	// (POST /loans/{loanID}/actions/{action})
	PerformLoanAction(w http.ResponseWriter, r *http.Request, loanID string, action Action)
}

// HandlerFromMux mounts the server interface on r and returns it.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	r.Get("/", si.GetRoot)
	r.Get("/health", si.GetHealth)
	r.Post("/loans", si.CreateLoan)
	r.Get("/loans/{loanID}", func(w http.ResponseWriter, req *http.Request) {
		si.GetLoanById(w, req, chi.URLParam(req, "loanID"))
	})
	r.Get("/loans/{loanID}/payments", func(w http.ResponseWriter, req *http.Request) {
		si.ListLoanPayments(w, req, chi.URLParam(req, "loanID"))
	})
	r.Post("/loans/{loanID}/actions/{action}", func(w http.ResponseWriter, req *http.Request) {
		si.PerformLoanAction(w, req, chi.URLParam(req, "loanID"), Action(chi.URLParam(req, "action")))
	})
	return r
}
