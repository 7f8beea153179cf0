package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/insureflow/internal/core"
)

// TransactionHandler records premium payments and serves the earnings report.
type TransactionHandler struct {
	Svc core.ReportService
	Log *slog.Logger
}

func NewTransactionHandler(svc core.ReportService, log *slog.Logger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Log: log}
}

func (h *TransactionHandler) Mount(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", h.Record)
		r.Get("/", h.List)
	})
	r.Get("/reports/earnings", h.Earnings)
}

// Record stores a payment confirmed by the payment processor.
// 201: JSON; 400: validation; 403: not owner or not approved; 409: payment_ref already recorded.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.PaymentInput
	if !decode(w, r, &in) {
		return
	}

	txn, err := h.Svc.RecordPayment(r.Context(), a, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to record payment")
		return
	}
	h.Log.InfoContext(r.Context(), "payment recorded",
		"transaction_id", txn.ID, "application_id", txn.ApplicationID, "amount", txn.Amount)
	respond(h.Log, w, http.StatusCreated, txn)
}

// List returns payments: all for admins, own for customers.
// 200: JSON; 403: agents; 500: internal error.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "")
		return
	}
	txns, err := h.Svc.ListTransactions(r.Context(), a, core.TransactionFilter{
		PolicyID: r.URL.Query().Get("policy_id"),
		Limit:    int(limit),
	})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list transactions")
		return
	}
	respond(h.Log, w, http.StatusOK, list(txns))
}

// Earnings aggregates all payments by policy and by month (admin only).
// 200: JSON; 403: not admin; 500: internal error.
func (h *TransactionHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	report, err := h.Svc.Earnings(r.Context(), a)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to build earnings report")
		return
	}
	respond(h.Log, w, http.StatusOK, report)
}
