package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/insureflow/internal/core"
)

type QuoteHandler struct {
	Svc core.QuoteService
	Log *slog.Logger
}

func NewQuoteHandler(svc core.QuoteService, log *slog.Logger) *QuoteHandler {
	return &QuoteHandler{Svc: svc, Log: log}
}

func (h *QuoteHandler) Mount(r chi.Router) {
	r.Get("/quotes", h.Get)
}

// Get prices a coverage for a policy without persisting anything.
// 200: JSON; 400: non-numeric parameters; 404: policy not found; 422: out of range; 500: internal error.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	coverage, err := queryInt(r, "coverage_amount")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "")
		return
	}
	years, err := queryInt(r, "duration_years")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "")
		return
	}

	quote, err := h.Svc.Quote(r.Context(), core.QuoteInput{
		PolicyID:       r.URL.Query().Get("policy_id"),
		CoverageAmount: coverage,
		DurationYears:  int(years),
	})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to price quote")
		return
	}
	respond(h.Log, w, http.StatusOK, quote)
}
