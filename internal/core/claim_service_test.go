package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
)

func TestFileClaim_OnePerApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.approved(t)

	eligible, err := f.claims.EligibleApplications(ctx, customer, "")
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, app.ID, eligible[0].ID)

	claim, err := f.claims.FileClaim(ctx, customer, claimInput(app.ID))
	require.NoError(t, err)
	assert.Equal(t, core.ClaimStatusPending, claim.Status)
	assert.Equal(t, app.PolicyID, claim.PolicyID)

	_, err = f.claims.FileClaim(ctx, customer, claimInput(app.ID))
	assert.ErrorIs(t, err, core.ErrDuplicateClaim)

	eligible, err = f.claims.EligibleApplications(ctx, customer, "")
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestFileClaim_Concurrent(t *testing.T) {
	f := newFixture(t)
	app := f.approved(t)

	const n = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.claims.FileClaim(context.Background(), customer, claimInput(app.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, core.ErrDuplicateClaim):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)

	claims, err := f.claims.List(context.Background(), admin, core.ClaimFilter{ApplicationID: app.ID})
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}

func TestFileClaim_Forbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	pending := f.submit(t, p.ID)
	approved := f.approved(t)

	tests := []struct {
		name  string
		actor core.Actor
		appID string
	}{
		{"pending application", customer, pending.ID},
		{"someone else's application", stranger, approved.ID},
		{"unknown application", customer, "missing"},
		{"agent filing", agent, approved.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.claims.FileClaim(ctx, tt.actor, claimInput(tt.appID))
			assert.ErrorIs(t, err, core.ErrForbidden)
		})
	}

	_, err := f.claims.FileClaim(ctx, customer, core.ClaimInput{ApplicationID: approved.ID})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Len(t, core.ValidationFields(err), 2)
}

func TestResolveClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.approved(t)
	claim, err := f.claims.FileClaim(ctx, customer, claimInput(app.ID))
	require.NoError(t, err)

	_, err = f.claims.Approve(ctx, customer, claim.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = f.claims.Reject(ctx, agent, claim.ID, "  ")
	require.ErrorIs(t, err, core.ErrValidation)

	claim, err = f.claims.Reject(ctx, agent, claim.ID, "policy exclusion applies")
	require.NoError(t, err)
	assert.Equal(t, core.ClaimStatusRejected, claim.Status)
	assert.Equal(t, agent.ID, claim.ResolvedBy)

	_, err = f.claims.Approve(ctx, admin, claim.ID)
	require.ErrorIs(t, err, core.ErrInvalidState)

	// a rejected claim still occupies the slot
	_, err = f.claims.FileClaim(ctx, customer, claimInput(app.ID))
	assert.ErrorIs(t, err, core.ErrDuplicateClaim)
}

func TestClaimVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.approved(t)
	claim, err := f.claims.FileClaim(ctx, customer, claimInput(app.ID))
	require.NoError(t, err)

	_, err = f.claims.Get(ctx, stranger, claim.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)

	got, err := f.claims.Get(ctx, agent, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, got.ID)

	list, err := f.claims.List(ctx, stranger, core.ClaimFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.claims.EligibleApplications(ctx, stranger, customer.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
}
