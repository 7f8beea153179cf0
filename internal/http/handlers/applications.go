package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/insureflow/internal/core"
)

type ApplicationHandler struct {
	Svc core.ApplicationService
	Log *slog.Logger
}

func NewApplicationHandler(svc core.ApplicationService, log *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Log: log}
}

func (h *ApplicationHandler) Mount(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.Submit)
		r.Get("/", h.List)
		r.Get("/{application_id}", h.Get)
		r.Patch("/{application_id}/agent", h.AssignAgent)
		r.Patch("/{application_id}/status", h.SetStatus)
	})
}

// Submit creates a pending application for the calling customer.
// 201: JSON; 400: bad JSON/validation; 403: not a customer; 404: policy not found; 422: coverage out of range.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.ApplicationInput
	if !decode(w, r, &in) {
		return
	}

	app, err := h.Svc.Submit(r.Context(), a, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to submit application")
		return
	}
	h.Log.InfoContext(r.Context(), "application submitted",
		"application_id", app.ID, "policy_id", app.PolicyID, "customer_id", app.CustomerID)
	respond(h.Log, w, http.StatusCreated, app)
}

// List returns the applications visible to the caller.
// 200: JSON; 400: bad filter; 403: unknown role; 500: internal error.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
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
	apps, err := h.Svc.List(r.Context(), a, core.ApplicationFilter{
		PolicyID: q.Get("policy_id"),
		Status:   core.ApplicationStatus(q.Get("status")),
		Limit:    int(limit),
	})
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list applications")
		return
	}
	respond(h.Log, w, http.StatusOK, list(apps))
}

// Get retrieves an application by ID.
// 200: JSON; 403: not visible to caller; 404: not found; 500: internal error.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "application_id")
	app, err := h.Svc.Get(r.Context(), a, id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get application")
		return
	}
	respond(h.Log, w, http.StatusOK, app)
}

type assignAgentRequest struct {
	AgentID string `json:"agent_id"`
}

// AssignAgent sets or replaces the reviewing agent (admin only).
// 200: JSON; 400: missing agent; 403: not admin; 404: not found; 409: decided or changed concurrently.
func (h *ApplicationHandler) AssignAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in assignAgentRequest
	if !decode(w, r, &in) {
		return
	}

	id := chi.URLParam(r, "application_id")
	app, err := h.Svc.AssignAgent(r.Context(), a, id, in.AgentID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to assign agent")
		return
	}
	h.Log.InfoContext(r.Context(), "agent assigned", "application_id", id, "agent_id", app.AssignedAgentID)
	respond(h.Log, w, http.StatusOK, app)
}

// SetStatus moves an application through review.
// 200: JSON; 400: unknown status or missing feedback; 403: not admin or assigned agent; 404: not found; 409: invalid transition.
func (h *ApplicationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in core.StatusInput
	if !decode(w, r, &in) {
		return
	}

	id := chi.URLParam(r, "application_id")
	app, err := h.Svc.SetStatus(r.Context(), a, id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to update application status")
		return
	}
	h.Log.InfoContext(r.Context(), "application status changed",
		"application_id", id, "status", app.Status, "by", a.ID)
	respond(h.Log, w, http.StatusOK, app)
}
