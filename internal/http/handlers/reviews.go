package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/insureflow/internal/core"
)

// ReviewHandler accepts new reviews. Listing lives under /policies.
type ReviewHandler struct {
	Svc core.ReviewService
	Log *slog.Logger
}

func NewReviewHandler(svc core.ReviewService, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Log: log}
}

func (h *ReviewHandler) Mount(r chi.Router) {
	r.Post("/reviews", h.Create)
}

// Create rates a policy the caller holds an approved claim on.
// 201: JSON; 400: validation; 403: not eligible; 409: already reviewed.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.ReviewInput
	if !decode(w, r, &in) {
		return
	}

	review, err := h.Svc.Create(r.Context(), a, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to create review")
		return
	}
	respond(h.Log, w, http.StatusCreated, review)
}
