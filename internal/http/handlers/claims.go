package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/insureflow/internal/core"
)

type ClaimHandler struct {
	Svc core.ClaimService
	Log *slog.Logger
}

func NewClaimHandler(svc core.ClaimService, log *slog.Logger) *ClaimHandler {
	return &ClaimHandler{Svc: svc, Log: log}
}

func (h *ClaimHandler) Mount(r chi.Router) {
	r.Route("/claims", func(r chi.Router) {
		r.Get("/eligible", h.Eligible)
		r.Post("/", h.File)
		r.Get("/", h.List)
		r.Get("/{claim_id}", h.Get)
		r.Patch("/{claim_id}/approve", h.Approve)
		r.Patch("/{claim_id}/reject", h.Reject)
	})
}

// Eligible lists approved applications that have no claim yet.
// 200: JSON; 403: another customer's eligibility; 500: internal error.
func (h *ClaimHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	apps, err := h.Svc.EligibleApplications(r.Context(), a, r.URL.Query().Get("customer_id"))
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list eligible applications")
		return
	}
	respond(h.Log, w, http.StatusOK, list(apps))
}

// File submits the single claim allowed for an approved application.
// 201: JSON; 400: validation; 403: not owner or not approved; 404: application not found; 409: duplicate claim.
func (h *ClaimHandler) File(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.ClaimInput
	if !decode(w, r, &in) {
		return
	}

	claim, err := h.Svc.FileClaim(r.Context(), a, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to file claim")
		return
	}
	h.Log.InfoContext(r.Context(), "claim filed", "claim_id", claim.ID, "application_id", claim.ApplicationID)
	respond(h.Log, w, http.StatusCreated, claim)
}

// List returns the claims visible to the caller.
// 200: JSON; 400: bad filter; 403: unknown role; 500: internal error.
func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "")
		return
	}
	q := r.URL.Query()
	claims, err := h.Svc.List(r.Context(), a, core.ClaimFilter{
		ApplicationID: q.Get("application_id"),
		Status:        core.ClaimStatus(q.Get("status")),
		Limit:         int(limit),
	})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list claims")
		return
	}
	respond(h.Log, w, http.StatusOK, list(claims))
}

// Get retrieves a claim by ID.
// 200: JSON; 403: not visible to caller; 404: not found; 500: internal error.
func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	claim, err := h.Svc.Get(r.Context(), a, chi.URLParam(r, "claim_id"))
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get claim")
		return
	}
	respond(h.Log, w, http.StatusOK, claim)
}

// Approve resolves a pending claim in the customer's favour.
// 200: JSON; 403: not agent or admin; 404: not found; 409: already resolved.
func (h *ClaimHandler) Approve(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "claim_id")
	claim, err := h.Svc.Approve(r.Context(), a, id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to approve claim")
		return
	}
	h.Log.InfoContext(r.Context(), "claim approved", "claim_id", id, "by", a.ID)
	respond(h.Log, w, http.StatusOK, claim)
}

type rejectClaimRequest struct {
	Feedback string `json:"feedback"`
}

// Reject resolves a pending claim with feedback.
// 200: JSON; 400: missing feedback; 403: not agent or admin; 404: not found; 409: already resolved.
func (h *ClaimHandler) Reject(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in rejectClaimRequest
	if !decode(w, r, &in) {
		return
	}

	id := chi.URLParam(r, "claim_id")
	claim, err := h.Svc.Reject(r.Context(), a, id, in.Feedback)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to reject claim")
		return
	}
	h.Log.InfoContext(r.Context(), "claim rejected", "claim_id", id, "by", a.ID)
	respond(h.Log, w, http.StatusOK, claim)
}
