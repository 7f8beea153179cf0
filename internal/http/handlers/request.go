package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/pkg/problem"
)

// actor returns the caller set by the identity middleware. A missing actor
// is answered with 401 and ok=false.
func actor(w http.ResponseWriter, r *http.Request) (core.Actor, bool) {
	a, ok := core.ActorFrom(r.Context())
	if !ok {
		problem.New(problem.TypeUnauthorized, http.StatusUnauthorized, "Unauthorized",
			"Request carries no authenticated user.").Send(w)
	}
	return a, ok
}

// decode reads a single JSON object into dst, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		detail := "Body could not be decoded."
		if errors.Is(err, io.EOF) {
			detail = "Body is empty."
		}
		problem.New(problem.TypeValidation, http.StatusBadRequest, "Invalid JSON", detail).Send(w)
		return false
	}
	return true
}

func respond(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

// queryInt parses an optional integer query parameter. Absent values yield 0.
func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &core.ValidationError{Fields: []core.FieldError{{Field: name, Message: "must be an integer"}}}
	}
	return n, nil
}

// nonNil keeps empty collections serialized as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
