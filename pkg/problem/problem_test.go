package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, http.StatusNotFound, "Not Found", "policy missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "about:blank", body["type"])
	assert.Equal(t, "Not Found", body["title"])
	assert.Equal(t, float64(404), body["status"])
	assert.Equal(t, "policy missing", body["detail"])
	assert.NotContains(t, body, "instance")
}

func TestExtensionsAreTopLevel(t *testing.T) {
	rec := httptest.NewRecorder()
	New(TypeInvalidState, http.StatusConflict, "Invalid State Transition", "").
		With("current_status", "approved").
		With("requested_status", "pending").
		Send(rec)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInvalidState, body["type"])
	assert.Equal(t, "approved", body["current_status"])
	assert.Equal(t, "pending", body["requested_status"])
	assert.NotContains(t, body, "detail")
}

func TestExtensionsCannotShadowStandardMembers(t *testing.T) {
	p := New(TypeConflict, http.StatusConflict, "Conflict", "x").With("status", 200)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(409), body["status"])
}
