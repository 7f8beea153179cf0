package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/internal/store/memory"
)

var (
	admin    = core.Actor{ID: "adm-1", Email: "admin@example.com", Role: core.RoleAdmin}
	agent    = core.Actor{ID: "agt-1", Email: "agent@example.com", Role: core.RoleAgent}
	other    = core.Actor{ID: "agt-2", Email: "agent2@example.com", Role: core.RoleAgent}
	customer = core.Actor{ID: "cus-1", Email: "jane@example.com", Name: "Jane Doe", Role: core.RoleCustomer}
	stranger = core.Actor{ID: "cus-2", Email: "john@example.com", Role: core.RoleCustomer}
)

// now is the fixed instant every fixture service reads as the current time.
var now = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type fixture struct {
	store        *memory.Store
	policies     core.PolicyService
	quotes       core.QuoteService
	applications core.ApplicationService
	claims       core.ClaimService
	reviews      core.ReviewService
	reports      core.ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	clock := core.WithClock(fixedClock)
	return &fixture{
		store:        s,
		policies:     core.NewPolicyService(s.Policies(), clock),
		quotes:       core.NewQuoteService(s.Policies()),
		applications: core.NewApplicationService(s.Applications(), s.Policies(), clock),
		claims:       core.NewClaimService(s.Claims(), s.Applications(), clock),
		reviews:      core.NewReviewService(s.Reviews(), s.Applications(), s.Claims(), clock),
		reports:      core.NewReportService(s.Transactions(), s.Applications(), clock),
	}
}

func policyInput() core.PolicyInput {
	return core.PolicyInput{
		Title:       "Term Life Secure",
		Category:    "life",
		Description: "Level cover for a fixed term",
		MinAge:      18,
		MaxAge:      65,
		Coverage:    core.CoverageRange{MinAmount: 100000, MaxAmount: 5000000},
		Duration:    core.DurationOptions{Options: []int{10, 15, 20, 25}},
		Premium:     core.PremiumDetails{BaseRate: 0.5},
	}
}

func applicationInput(policyID string) core.ApplicationInput {
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

func (f *fixture) createPolicy(t *testing.T) core.Policy {
	t.Helper()
	p, err := f.policies.Create(context.Background(), admin, policyInput())
	require.NoError(t, err)
	return p
}

func (f *fixture) submit(t *testing.T, policyID string) core.Application {
	t.Helper()
	app, err := f.applications.Submit(context.Background(), customer, applicationInput(policyID))
	require.NoError(t, err)
	return app
}

// approved returns an application that has been assigned and approved.
func (f *fixture) approved(t *testing.T) core.Application {
	t.Helper()
	ctx := context.Background()
	p := f.createPolicy(t)
	app := f.submit(t, p.ID)
	_, err := f.applications.AssignAgent(ctx, admin, app.ID, agent.ID)
	require.NoError(t, err)
	app, err = f.applications.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusApproved})
	require.NoError(t, err)
	return app
}

func claimInput(appID string) core.ClaimInput {
	return core.ClaimInput{ApplicationID: appID, Reason: "Hospitalised after an accident", DocumentRef: "docs/claim-1.pdf"}
}
