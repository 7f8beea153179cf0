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

func TestSubmit_FreezesQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)

	app := f.submit(t, p.ID)
	assert.Equal(t, core.ApplicationStatusPending, app.Status)
	assert.Equal(t, customer.ID, app.CustomerID)
	assert.Equal(t, int64(2500), app.Quote.Annual)
	assert.Equal(t, int64(208), app.Quote.Monthly)
	assert.Equal(t, int64(50000), app.Quote.Total)

	// a later rate change leaves the submitted economics alone
	in := policyInput()
	in.Premium.BaseRate = 2
	_, err := f.policies.Update(ctx, admin, p.ID, in)
	require.NoError(t, err)

	got, err := f.applications.Get(ctx, customer, app.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got.Quote.Annual)
	assert.Equal(t, 0.5, got.Quote.BaseRate)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)

	t.Run("collects every field error", func(t *testing.T) {
		in := applicationInput(p.ID)
		in.Applicant.Email = "not-an-email"
		in.Applicant.Phone = ""
		in.Nominee.Name = ""
		in.Health.WeightKg = "-3"

		_, err := f.applications.Submit(ctx, customer, in)
		require.ErrorIs(t, err, core.ErrValidation)

		fields := map[string]bool{}
		for _, fe := range core.ValidationFields(err) {
			fields[fe.Field] = true
		}
		assert.True(t, fields["applicant.email"])
		assert.True(t, fields["applicant.phone"])
		assert.True(t, fields["nominee.name"])
		assert.True(t, fields["health.weight_kg"])
	})

	t.Run("age outside policy range", func(t *testing.T) {
		in := applicationInput(p.ID)
		in.Applicant.DateOfBirth = "1940-01-01"
		_, err := f.applications.Submit(ctx, customer, in)
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("age computed on the service clock", func(t *testing.T) {
		// turns 18 on the fixture date, one day short the day after
		in := applicationInput(p.ID)
		in.Applicant.DateOfBirth = "2008-06-15"
		app, err := f.applications.Submit(ctx, customer, in)
		require.NoError(t, err)
		assert.Equal(t, now, app.AppliedAt)

		in.Applicant.DateOfBirth = "2008-06-16"
		_, err = f.applications.Submit(ctx, customer, in)
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("coverage outside policy bounds", func(t *testing.T) {
		in := applicationInput(p.ID)
		in.CoverageAmount = 10
		_, err := f.applications.Submit(ctx, customer, in)
		assert.ErrorIs(t, err, core.ErrInvalidQuote)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := f.applications.Submit(ctx, customer, applicationInput("missing"))
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("agents cannot apply", func(t *testing.T) {
		_, err := f.applications.Submit(ctx, agent, applicationInput(p.ID))
		assert.ErrorIs(t, err, core.ErrForbidden)
	})
}

func TestApplicationLifecycle_Approve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	app := f.submit(t, p.ID)

	// unassigned agent may not act
	_, err := f.applications.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusUnderReview})
	require.ErrorIs(t, err, core.ErrForbidden)

	app, err = f.applications.AssignAgent(ctx, admin, app.ID, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, app.AssignedAgentID)

	app, err = f.applications.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusUnderReview})
	require.NoError(t, err)
	assert.Equal(t, core.ApplicationStatusUnderReview, app.Status)

	app, err = f.applications.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, core.ApplicationStatusApproved, app.Status)
	assert.NotNil(t, app.ApprovedAt)
	assert.Equal(t, agent.ID, app.ReviewedBy)

	got, err := f.policies.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.PurchaseCount)

	// approved is terminal
	_, err = f.applications.SetStatus(ctx, admin, app.ID, core.StatusInput{Status: core.ApplicationStatusRejected, Feedback: "late"})
	require.ErrorIs(t, err, core.ErrInvalidState)
	_, err = f.applications.SetStatus(ctx, admin, app.ID, core.StatusInput{Status: core.ApplicationStatusApproved})
	require.ErrorIs(t, err, core.ErrInvalidState)
	_, err = f.applications.AssignAgent(ctx, admin, app.ID, other.ID)
	require.ErrorIs(t, err, core.ErrInvalidState)

	got, err = f.policies.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.PurchaseCount)
}

func TestApplicationLifecycle_Reject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	app := f.submit(t, p.ID)

	_, err := f.applications.SetStatus(ctx, admin, app.ID, core.StatusInput{Status: core.ApplicationStatusRejected})
	require.ErrorIs(t, err, core.ErrValidation)

	got, err := f.applications.Get(ctx, admin, app.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ApplicationStatusPending, got.Status)

	app, err = f.applications.SetStatus(ctx, admin, app.ID, core.StatusInput{
		Status:   core.ApplicationStatusRejected,
		Feedback: "incomplete medical history",
	})
	require.NoError(t, err)
	assert.Equal(t, core.ApplicationStatusRejected, app.Status)
	assert.Equal(t, "incomplete medical history", app.RejectionFeedback)
	assert.NotNil(t, app.RejectedAt)

	pol, err := f.policies.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, pol.PurchaseCount)

	_, err = f.applications.SetStatus(ctx, admin, app.ID, core.StatusInput{Status: core.ApplicationStatusPending})
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestApplicationLifecycle_Reassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	app := f.submit(t, p.ID)

	_, err := f.applications.AssignAgent(ctx, agent, app.ID, agent.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = f.applications.AssignAgent(ctx, admin, app.ID, agent.ID)
	require.NoError(t, err)
	app, err = f.applications.AssignAgent(ctx, admin, app.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, app.AssignedAgentID)

	// the previous agent loses access
	_, err = f.applications.Get(ctx, agent, app.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)
	_, err = f.applications.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusUnderReview})
	assert.ErrorIs(t, err, core.ErrForbidden)

	list, err := f.applications.List(ctx, other, core.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// reassignOnGet hands the application to another agent right after the
// service has read it, the way a concurrent admin request would.
type reassignOnGet struct {
	core.ApplicationRepo
	reassign func(id string)
	once     sync.Once
}

func (r *reassignOnGet) Get(ctx context.Context, id string) (core.Application, error) {
	app, err := r.ApplicationRepo.Get(ctx, id)
	if err == nil {
		r.once.Do(func() { r.reassign(id) })
	}
	return app, err
}

func TestSetStatus_ReassignedAwayMidRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	app := f.submit(t, p.ID)
	_, err := f.applications.AssignAgent(ctx, admin, app.ID, agent.ID)
	require.NoError(t, err)

	repo := &reassignOnGet{
		ApplicationRepo: f.store.Applications(),
		reassign: func(id string) {
			_, err := f.applications.AssignAgent(ctx, admin, id, other.ID)
			require.NoError(t, err)
		},
	}
	svc := core.NewApplicationService(repo, f.store.Policies(), core.WithClock(fixedClock))

	_, err = svc.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusUnderReview})
	require.ErrorIs(t, err, core.ErrConflict)

	got, err := f.applications.Get(ctx, admin, app.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.AssignedAgentID)
	assert.Equal(t, core.ApplicationStatusPending, got.Status)

	// on reload the stale agent is refused outright
	_, err = svc.SetStatus(ctx, agent, app.ID, core.StatusInput{Status: core.ApplicationStatusUnderReview})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestSetStatus_ConcurrentApproveCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	app := f.submit(t, p.ID)
	_, err := f.applications.AssignAgent(ctx, admin, app.ID, agent.ID)
	require.NoError(t, err)

	const callers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < callers; i++ {
		actor := admin
		if i%2 == 0 {
			actor = agent
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.applications.SetStatus(ctx, actor, app.ID, core.StatusInput{Status: core.ApplicationStatusApproved})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.True(t, errors.Is(err, core.ErrConflict) || errors.Is(err, core.ErrInvalidState), err)
	}

	got, err := f.policies.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.PurchaseCount)
}

func TestApplicationList_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.createPolicy(t)
	f.submit(t, p.ID)
	_, err := f.applications.Submit(ctx, stranger, applicationInput(p.ID))
	require.NoError(t, err)

	mine, err := f.applications.List(ctx, customer, core.ApplicationFilter{CustomerID: stranger.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, customer.ID, mine[0].CustomerID)

	all, err := f.applications.List(ctx, admin, core.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assigned, err := f.applications.List(ctx, agent, core.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to core.ApplicationStatus
		ok       bool
	}{
		{core.ApplicationStatusPending, core.ApplicationStatusUnderReview, true},
		{core.ApplicationStatusPending, core.ApplicationStatusApproved, true},
		{core.ApplicationStatusPending, core.ApplicationStatusRejected, true},
		{core.ApplicationStatusUnderReview, core.ApplicationStatusPending, true},
		{core.ApplicationStatusUnderReview, core.ApplicationStatusApproved, true},
		{core.ApplicationStatusPending, core.ApplicationStatusPending, false},
		{core.ApplicationStatusApproved, core.ApplicationStatusRejected, false},
		{core.ApplicationStatusRejected, core.ApplicationStatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
