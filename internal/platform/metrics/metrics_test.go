package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsesIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.PendingClaims.Set(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(a.PendingClaims))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PendingClaims))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.HTTPRequests.WithLabelValues("GET", "/api/v1/policies", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `insureflow_http_requests_total{method="GET",route="/api/v1/policies",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "insureflow_backlog_pending_claims")
}
