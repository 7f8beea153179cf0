package transporthttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/internal/http/handlers"
	"github.com/MrKriegler/insureflow/internal/middleware"
	"github.com/MrKriegler/insureflow/internal/platform/metrics"
	"github.com/MrKriegler/insureflow/internal/store"
	"github.com/MrKriegler/insureflow/internal/store/memory"
)

var (
	admin    = core.Actor{ID: "adm-1", Email: "admin@example.com", Role: core.RoleAdmin}
	agent    = core.Actor{ID: "agt-1", Email: "agent@example.com", Role: core.RoleAgent}
	customer = core.Actor{ID: "cus-1", Email: "jane@example.com", Role: core.RoleCustomer}
	stranger = core.Actor{ID: "cus-2", Email: "bob@example.com", Role: core.RoleCustomer}
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.Memory(memory.New())

	policies := core.NewPolicyService(st.Policies)
	reviews := core.NewReviewService(st.Reviews, st.Applications, st.Claims)

	return NewRouter(Deps{
		Log:          log,
		Store:        st,
		Metrics:      metrics.New(),
		Identity:     middleware.NewIdentity("test-secret", true, log),
		APIKey:       "test-key",
		StoreTimeout: time.Second,
		Mounts: []handlers.Mountable{
			handlers.NewPolicyHandler(policies, reviews, log),
			handlers.NewQuoteHandler(core.NewQuoteService(st.Policies), log),
			handlers.NewApplicationHandler(core.NewApplicationService(st.Applications, st.Policies), log),
			handlers.NewClaimHandler(core.NewClaimService(st.Claims, st.Applications), log),
			handlers.NewReviewHandler(reviews, log),
			handlers.NewTransactionHandler(core.NewReportService(st.Transactions, st.Applications), log),
		},
	})
}

func call(t *testing.T, h http.Handler, method, path string, as *core.Actor, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("X-API-Key", "test-key")
	if as != nil {
		req.Header.Set("X-User-ID", as.ID)
		req.Header.Set("X-User-Email", as.Email)
		req.Header.Set("X-User-Role", string(as.Role))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createPolicy(t *testing.T, h http.Handler) core.Policy {
	rec := call(t, h, http.MethodPost, "/api/v1/policies", &admin, core.PolicyInput{
		Title:    "Term Life 20",
		Category: "life",
		MinAge:   18,
		MaxAge:   65,
		Coverage: core.CoverageRange{MinAmount: 100000, MaxAmount: 5000000},
		Duration: core.DurationOptions{Options: []int{10, 20, 30}},
		Premium:  core.PremiumDetails{BaseRate: 0.5},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[core.Policy](t, rec)
}

func applicationBody(policyID string) core.ApplicationInput {
	return core.ApplicationInput{
		PolicyID:       policyID,
		CoverageAmount: 500000,
		DurationYears:  20,
		Applicant: core.Applicant{
			FullName:    "Jane Doe",
			Email:       "jane@example.com",
			Phone:       "+15550100",
			Address:     "1 Main St",
			DateOfBirth: "1990-04-12",
			NationalID:  "A1234567",
		},
		Nominee: core.Nominee{Name: "John Doe", Relationship: "spouse"},
		Health:  core.HealthDisclosure{HeightCm: "170", WeightKg: "65"},
	}
}

// approvedApplication drives an application through assignment and review.
func approvedApplication(t *testing.T, h http.Handler, policyID string) core.Application {
	rec := call(t, h, http.MethodPost, "/api/v1/applications", &customer, applicationBody(policyID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := decodeBody[core.Application](t, rec)

	path := "/api/v1/applications/" + app.ID
	rec = call(t, h, http.MethodPatch, path+"/agent", &admin, map[string]string{"agent_id": agent.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPatch, path+"/status", &agent, core.StatusInput{Status: core.ApplicationStatusUnderReview})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPatch, path+"/status", &agent, core.StatusInput{Status: core.ApplicationStatusApproved})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[core.Application](t, rec)
}

func TestOpsEndpoints(t *testing.T) {
	h := newServer(t)

	for _, path := range []string{"/health", "/readyz", "/metrics", "/swagger/doc.json"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestAPIRequiresKeyAndIdentity(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/policies", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/applications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/v1/policies", nil, core.PolicyInput{Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/policies", &customer, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"count":0}`, rec.Body.String())
}

func TestCatalogReadsAreAnonymous(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)

	for _, path := range []string{
		"/api/v1/policies",
		"/api/v1/policies/" + p.ID,
		"/api/v1/policies/" + p.ID + "/reviews",
		fmt.Sprintf("/api/v1/quotes?policy_id=%s&coverage_amount=500000&duration_years=20", p.ID),
	} {
		t.Run(path, func(t *testing.T) {
			rec := call(t, h, http.MethodGet, path, nil, nil)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}

	// credentials that are sent must still be valid
	req := httptest.NewRequest(http.MethodGet, "/api/v1/policies", nil)
	req.Header.Set("X-API-Key", "test-key")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPolicyCatalog(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)

	rec := call(t, h, http.MethodPost, "/api/v1/policies", &customer, core.PolicyInput{Title: "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "/problems/forbidden", decodeBody[map[string]any](t, rec)["type"])

	rec = call(t, h, http.MethodGet, "/api/v1/policies/"+p.ID, &customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Term Life 20", decodeBody[core.Policy](t, rec).Title)

	rec = call(t, h, http.MethodGet, "/api/v1/policies/missing", &customer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/v1/policies", &admin, map[string]any{"title": "x", "bogus": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuote(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)

	rec := call(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/quotes?policy_id=%s&coverage_amount=500000&duration_years=20", p.ID), &customer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decodeBody[core.Quote](t, rec)
	assert.Equal(t, core.Premium{Monthly: 208, Annual: 2500, Total: 50000}, q.Premium)

	rec = call(t, h, http.MethodGet,
		fmt.Sprintf("/api/v1/quotes?policy_id=%s&coverage_amount=50&duration_years=20", p.ID), &customer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "/problems/invalid-quote", decodeBody[map[string]any](t, rec)["type"])

	rec = call(t, h, http.MethodGet, "/api/v1/quotes?policy_id=x&coverage_amount=lots", &customer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitValidationListsEveryField(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)

	in := applicationBody(p.ID)
	in.Applicant.Email = "not-an-email"
	in.Nominee = core.Nominee{}

	rec := call(t, h, http.MethodPost, "/api/v1/applications", &customer, in)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[struct {
		Type   string            `json:"type"`
		Errors []core.FieldError `json:"errors"`
	}](t, rec)
	assert.Equal(t, "/problems/validation", body.Type)

	fields := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"applicant.email", "nominee.name", "nominee.relationship"}, fields)
}

func TestApplicationLifecycle(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)
	app := approvedApplication(t, h, p.ID)

	assert.Equal(t, core.ApplicationStatusApproved, app.Status)
	assert.Equal(t, agent.ID, app.AssignedAgentID)
	require.NotNil(t, app.ApprovedAt)

	rec := call(t, h, http.MethodGet, "/api/v1/policies/"+p.ID, &customer, nil)
	assert.Equal(t, int64(1), decodeBody[core.Policy](t, rec).PurchaseCount)

	// Terminal: further transitions report both statuses.
	rec = call(t, h, http.MethodPatch, "/api/v1/applications/"+app.ID+"/status", &admin,
		core.StatusInput{Status: core.ApplicationStatusRejected, Feedback: "too late"})
	require.Equal(t, http.StatusConflict, rec.Code)
	prob := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "/problems/invalid-state", prob["type"])
	assert.Equal(t, "approved", prob["current_status"])
	assert.Equal(t, "rejected", prob["requested_status"])

	rec = call(t, h, http.MethodGet, "/api/v1/applications/"+app.ID, &stranger, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/applications", &customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[listResponseOf[core.Application]](t, rec).Count)
}

func TestRejectRequiresFeedback(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)

	rec := call(t, h, http.MethodPost, "/api/v1/applications", &customer, applicationBody(p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	app := decodeBody[core.Application](t, rec)
	path := "/api/v1/applications/" + app.ID + "/status"

	rec = call(t, h, http.MethodPatch, path, &admin, core.StatusInput{Status: core.ApplicationStatusRejected})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodPatch, path, &admin, core.StatusInput{Status: core.ApplicationStatusRejected, Feedback: "incomplete history"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[core.Application](t, rec)
	assert.Equal(t, "incomplete history", got.RejectionFeedback)
	assert.NotNil(t, got.RejectedAt)

	// Unassigned agents cannot act.
	rec = call(t, h, http.MethodPatch, path, &agent, core.StatusInput{Status: core.ApplicationStatusPending})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClaimsAndReviews(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)
	app := approvedApplication(t, h, p.ID)

	rec := call(t, h, http.MethodGet, "/api/v1/claims/eligible", &customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[listResponseOf[core.Application]](t, rec).Items, 1)

	claim := core.ClaimInput{ApplicationID: app.ID, Reason: "hospitalisation", DocumentRef: "doc-1"}
	rec = call(t, h, http.MethodPost, "/api/v1/claims", &customer, claim)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	filed := decodeBody[core.Claim](t, rec)

	rec = call(t, h, http.MethodPost, "/api/v1/claims", &customer, claim)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/problems/duplicate-claim", decodeBody[map[string]any](t, rec)["type"])

	rec = call(t, h, http.MethodGet, "/api/v1/claims/eligible", &customer, nil)
	assert.Empty(t, decodeBody[listResponseOf[core.Application]](t, rec).Items)

	// Review needs an approved claim.
	review := core.ReviewInput{ApplicationID: app.ID, Rating: 4, Comment: "quick payout"}
	rec = call(t, h, http.MethodPost, "/api/v1/reviews", &customer, review)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodPatch, "/api/v1/claims/"+filed.ID+"/approve", &customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodPatch, "/api/v1/claims/"+filed.ID+"/approve", &agent, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, core.ClaimStatusApproved, decodeBody[core.Claim](t, rec).Status)

	rec = call(t, h, http.MethodPatch, "/api/v1/claims/"+filed.ID+"/reject", &agent, map[string]string{"feedback": "no"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/v1/reviews", &customer, review)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/api/v1/policies/"+p.ID+"/reviews", &stranger, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Rating core.PolicyRating `json:"rating"`
		Items  []core.Review     `json:"items"`
	}](t, rec)
	assert.Equal(t, 1, body.Rating.Count)
	assert.Equal(t, 4.0, body.Rating.Average)
	require.Len(t, body.Items, 1)
}

func TestTransactionsAndEarnings(t *testing.T) {
	h := newServer(t)
	p := createPolicy(t, h)
	app := approvedApplication(t, h, p.ID)

	rec := call(t, h, http.MethodPost, "/api/v1/transactions", &customer,
		core.PaymentInput{ApplicationID: app.ID, PaymentRef: "pi_1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(208), decodeBody[core.Transaction](t, rec).Amount)

	rec = call(t, h, http.MethodPost, "/api/v1/transactions", &customer,
		core.PaymentInput{ApplicationID: app.ID, PaymentRef: "pi_1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/transactions", &stranger, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[listResponseOf[core.Transaction]](t, rec).Items)

	rec = call(t, h, http.MethodGet, "/api/v1/reports/earnings", &customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/reports/earnings", &admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[core.EarningsReport](t, rec)
	assert.Equal(t, int64(208), report.Total)
	require.Len(t, report.ByPolicy, 1)
	assert.Equal(t, p.ID, report.ByPolicy[0].PolicyID)
}

type listResponseOf[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}
