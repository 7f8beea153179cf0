package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
)

func TestWriteError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		err      error
		status   int
		typ      string
		internal bool
	}{
		{"validation", &core.ValidationError{Fields: []core.FieldError{{Field: "rating", Message: "must be between 1 and 5"}}}, http.StatusBadRequest, "/problems/validation", false},
		{"invalid quote", fmt.Errorf("%w: coverage must be between 1 and 2", core.ErrInvalidQuote), http.StatusUnprocessableEntity, "/problems/invalid-quote", false},
		{"unauthorized", core.ErrUnauthorized, http.StatusUnauthorized, "/problems/unauthorized", false},
		{"forbidden", fmt.Errorf("%w: nope", core.ErrForbidden), http.StatusForbidden, "/problems/forbidden", false},
		{"transition", &core.TransitionError{Resource: "claim", From: "approved", To: "rejected"}, http.StatusConflict, "/problems/invalid-state", false},
		{"duplicate claim", core.ErrDuplicateClaim, http.StatusConflict, "/problems/duplicate-claim", false},
		{"lost update", core.ErrApplicationChanged, http.StatusConflict, "/problems/conflict", false},
		{"not found", core.ErrClaimNotFound, http.StatusNotFound, "/problems/not-found", false},
		{"timeout", fmt.Errorf("claims.find: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "/problems/internal", true},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "/problems/internal", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), log, rec, tt.err, "Failed to do the thing")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.typ, body["type"])
			if tt.internal {
				assert.NotContains(t, body["detail"], "connection reset")
			}
		})
	}
}

func TestWriteErrorExtensions(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("validation lists fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ve := &core.ValidationError{}
		ve.Add("nominee.name", "is required")
		ve.Add("health.height_cm", "must be a positive number")
		writeError(context.Background(), log, rec, ve, "")

		var body struct {
			Errors []core.FieldError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, ve.Fields, body.Errors)
	})

	t.Run("transition without target", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(context.Background(), log, rec,
			&core.TransitionError{Resource: "application", From: "rejected", Action: "assign an agent to"}, "")

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "rejected", body["current_status"])
		assert.NotContains(t, body, "requested_status")
	})
}
