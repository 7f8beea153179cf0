package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/insureflow/internal/core"
)

type PolicyHandler struct {
	Svc     core.PolicyService
	Reviews core.ReviewService
	Log     *slog.Logger
}

func NewPolicyHandler(svc core.PolicyService, reviews core.ReviewService, log *slog.Logger) *PolicyHandler {
	return &PolicyHandler{Svc: svc, Reviews: reviews, Log: log}
}

func (h *PolicyHandler) Mount(r chi.Router) {
	r.Route("/policies", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{policy_id}", h.Get)
		r.Put("/{policy_id}", h.Update)
		r.Get("/{policy_id}/reviews", h.ListReviews)
	})
}

// List returns the catalog, optionally filtered by category or free-text search.
// 200: JSON; 400: bad limit; 500: internal error.
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "")
		return
	}
	q := r.URL.Query()
	policies, err := h.Svc.List(r.Context(), core.PolicyFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Limit:    int(limit),
	})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list policies")
		return
	}
	respond(h.Log, w, http.StatusOK, list(policies))
}

// Get retrieves a policy by ID.
// 200: JSON; 404: not found; 500: internal error.
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policy_id")
	policy, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get policy")
		return
	}
	respond(h.Log, w, http.StatusOK, policy)
}

// Create adds a policy to the catalog (admin only).
// 201: JSON; 400: bad JSON/validation; 403: not admin; 500: internal error.
func (h *PolicyHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.PolicyInput
	if !decode(w, r, &in) {
		return
	}

	policy, err := h.Svc.Create(r.Context(), a, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to create policy")
		return
	}
	h.Log.InfoContext(r.Context(), "policy created", "policy_id", policy.ID, "by", a.ID)
	respond(h.Log, w, http.StatusCreated, policy)
}

// Update replaces the editable fields of a policy (admin only).
// 200: JSON; 400: bad JSON/validation; 403: not admin; 404: not found; 500: internal error.
func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.PolicyInput
	if !decode(w, r, &in) {
		return
	}

	id := chi.URLParam(r, "policy_id")
	policy, err := h.Svc.Update(r.Context(), a, id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to update policy")
		return
	}
	respond(h.Log, w, http.StatusOK, policy)
}

type policyReviewsResponse struct {
	Rating core.PolicyRating `json:"rating"`
	listResponse[core.Review]
}

// ListReviews returns the newest reviews of a policy and its rating summary.
// 200: JSON; 404: policy not found; 500: internal error.
func (h *PolicyHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "policy_id")
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "")
		return
	}
	if _, err := h.Svc.Get(r.Context(), id); err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get policy")
		return
	}

	reviews, rating, err := h.Reviews.ListForPolicy(r.Context(), id, int(limit))
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list reviews")
		return
	}
	respond(h.Log, w, http.StatusOK, policyReviewsResponse{Rating: rating, listResponse: list(reviews)})
}
