package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
)

func TestPolicyCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.policies.Create(ctx, customer, policyInput())
	require.ErrorIs(t, err, core.ErrForbidden)

	bad := policyInput()
	bad.Title = ""
	bad.Premium.BaseRate = 0
	_, err = f.policies.Create(ctx, admin, bad)
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Len(t, core.ValidationFields(err), 2)

	life := f.createPolicy(t)
	health := policyInput()
	health.Title = "Family Health Plus"
	health.Category = "health"
	_, err = f.policies.Create(ctx, admin, health)
	require.NoError(t, err)

	list, err := f.policies.List(ctx, core.PolicyFilter{Category: "life"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, life.ID, list[0].ID)

	list, err = f.policies.List(ctx, core.PolicyFilter{Search: "family"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Family Health Plus", list[0].Title)

	// approving an application makes its policy the most popular
	app := f.submit(t, life.ID)
	_, err = f.applications.SetStatus(ctx, admin, app.ID, core.StatusInput{Status: core.ApplicationStatusApproved})
	require.NoError(t, err)

	list, err = f.policies.List(ctx, core.PolicyFilter{Sort: core.PolicySortPopular})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, life.ID, list[0].ID)

	// editing keeps the purchase counter
	in := policyInput()
	in.Title = "Term Life Secure II"
	updated, err := f.policies.Update(ctx, admin, life.ID, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.PurchaseCount)
}

func TestQuoteService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)

	q, err := f.quotes.Quote(ctx, core.QuoteInput{PolicyID: p.ID, CoverageAmount: 500000, DurationYears: 20})
	require.NoError(t, err)
	assert.Equal(t, core.Premium{Monthly: 208, Annual: 2500, Total: 50000}, q.Premium)

	_, err = f.quotes.Quote(ctx, core.QuoteInput{PolicyID: p.ID, CoverageAmount: 500000, DurationYears: 7})
	assert.ErrorIs(t, err, core.ErrInvalidQuote)

	_, err = f.quotes.Quote(ctx, core.QuoteInput{PolicyID: "nope", CoverageAmount: 500000, DurationYears: 20})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
