// Package memory keeps every repository in process maps. It backs local
// development and the service tests; all repositories share one lock so that
// multi-entity writes such as application approval stay atomic.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/MrKriegler/insureflow/internal/core"
)

type Store struct {
	mu           sync.RWMutex
	policies     map[string]core.Policy
	applications map[string]core.Application
	claims       map[string]core.Claim
	claimByApp   map[string]string
	reviews      map[string]core.Review
	reviewByApp  map[string]string
	transactions map[string]core.Transaction
	paymentRefs  map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		policies:     make(map[string]core.Policy),
		applications: make(map[string]core.Application),
		claims:       make(map[string]core.Claim),
		claimByApp:   make(map[string]string),
		reviews:      make(map[string]core.Review),
		reviewByApp:  make(map[string]string),
		transactions: make(map[string]core.Transaction),
		paymentRefs:  make(map[string]string),
	}
}

func (s *Store) Policies() *PolicyRepo { return &PolicyRepo{s: s} }
func (s *Store) Applications() *ApplicationRepo { return &ApplicationRepo{s: s} }
func (s *Store) Claims() *ClaimRepo { return &ClaimRepo{s: s} }
func (s *Store) Reviews() *ReviewRepo { return &ReviewRepo{s: s} }
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }
func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close(context.Context) error { return nil }

var (
	_ core.PolicyRepo      = (*PolicyRepo)(nil)
	_ core.ApplicationRepo = (*ApplicationRepo)(nil)
	_ core.ClaimRepo       = (*ClaimRepo)(nil)
	_ core.ReviewRepo      = (*ReviewRepo)(nil)
	_ core.TransactionRepo = (*TransactionRepo)(nil)
)

// Policies ----------------------------------------------------------------

type PolicyRepo struct{ s *Store }

func (r *PolicyRepo) Create(_ context.Context, p core.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.policies[p.ID]; exists {
		return core.ErrPolicyExists
	}
	r.s.policies[p.ID] = clonePolicy(p)
	return nil
}

func (r *PolicyRepo) Get(_ context.Context, id string) (core.Policy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.policies[id]
	if !ok {
		return core.Policy{}, core.ErrPolicyNotFound
	}
	return clonePolicy(p), nil
}

func (r *PolicyRepo) Update(_ context.Context, p core.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.policies[p.ID]
	if !ok {
		return core.ErrPolicyNotFound
	}
	p.PurchaseCount = existing.PurchaseCount
	p.CreatedAt = existing.CreatedAt
	r.s.policies[p.ID] = clonePolicy(p)
	return nil
}

func (r *PolicyRepo) List(_ context.Context, filter core.PolicyFilter) ([]core.Policy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]core.Policy, 0, len(r.s.policies))
	for _, p := range r.s.policies {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, clonePolicy(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Sort == core.PolicySortPopular && out[i].PurchaseCount != out[j].PurchaseCount {
			return out[i].PurchaseCount > out[j].PurchaseCount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return limit(out, filter.Limit), nil
}

// Applications ------------------------------------------------------------

type ApplicationRepo struct{ s *Store }

func (r *ApplicationRepo) Create(_ context.Context, app core.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.applications[app.ID]; exists {
		return core.ErrApplicationExists
	}
	r.s.applications[app.ID] = cloneApplication(app)
	return nil
}

func (r *ApplicationRepo) Get(_ context.Context, id string) (core.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	app, ok := r.s.applications[id]
	if !ok {
		return core.Application{}, core.ErrApplicationNotFound
	}
	return cloneApplication(app), nil
}

func (r *ApplicationRepo) List(_ context.Context, filter core.ApplicationFilter) ([]core.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]core.Application, 0)
	for _, app := range r.s.applications {
		switch {
		case filter.CustomerID != "" && app.CustomerID != filter.CustomerID,
			filter.AgentID != "" && app.AssignedAgentID != filter.AgentID,
			filter.PolicyID != "" && app.PolicyID != filter.PolicyID,
			filter.Status != "" && app.Status != filter.Status,
			filter.Unassigned && app.AssignedAgentID != "":
			continue
		}
		out = append(out, cloneApplication(app))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].AppliedAt.After(out[j].AppliedAt)
		}
		return out[i].ID > out[j].ID
	})
	return limit(out, filter.Limit), nil
}

func (r *ApplicationRepo) Update(_ context.Context, app core.Application, prev core.ApplicationState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.swapLocked(app, prev)
}

func (r *ApplicationRepo) Approve(_ context.Context, app core.Application, prev core.ApplicationState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.policies[app.PolicyID]
	if !ok {
		return core.ErrPolicyNotFound
	}
	if err := r.swapLocked(app, prev); err != nil {
		return err
	}
	p.PurchaseCount++
	r.s.policies[p.ID] = p
	return nil
}

func (r *ApplicationRepo) swapLocked(app core.Application, prev core.ApplicationState) error {
	current, ok := r.s.applications[app.ID]
	if !ok {
		return core.ErrApplicationNotFound
	}
	if current.State() != prev {
		return core.ErrApplicationChanged
	}
	r.s.applications[app.ID] = cloneApplication(app)
	return nil
}

// Claims ------------------------------------------------------------------

type ClaimRepo struct{ s *Store }

func (r *ClaimRepo) Create(_ context.Context, c core.Claim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.claimByApp[c.ApplicationID]; taken {
		return core.ErrDuplicateClaim
	}
	r.s.claims[c.ID] = c
	r.s.claimByApp[c.ApplicationID] = c.ID
	return nil
}

func (r *ClaimRepo) Get(_ context.Context, id string) (core.Claim, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.claims[id]
	if !ok {
		return core.Claim{}, core.ErrClaimNotFound
	}
	return c, nil
}

func (r *ClaimRepo) List(_ context.Context, filter core.ClaimFilter) ([]core.Claim, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]core.Claim, 0)
	for _, c := range r.s.claims {
		switch {
		case filter.CustomerID != "" && c.CustomerID != filter.CustomerID,
			filter.ApplicationID != "" && c.ApplicationID != filter.ApplicationID,
			filter.Status != "" && c.Status != filter.Status:
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID > out[j].ID
	})
	return limit(out, filter.Limit), nil
}

func (r *ClaimRepo) Update(_ context.Context, c core.Claim, from core.ClaimStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.claims[c.ID]
	if !ok {
		return core.ErrClaimNotFound
	}
	if current.Status != from {
		return core.ErrClaimChanged
	}
	r.s.claims[c.ID] = c
	return nil
}

// Reviews -----------------------------------------------------------------

type ReviewRepo struct{ s *Store }

func (r *ReviewRepo) Create(_ context.Context, rv core.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.reviewByApp[rv.ApplicationID]; taken {
		return core.ErrReviewExists
	}
	r.s.reviews[rv.ID] = rv
	r.s.reviewByApp[rv.ApplicationID] = rv.ID
	return nil
}

func (r *ReviewRepo) ListByPolicy(_ context.Context, policyID string, n int) ([]core.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]core.Review, 0)
	for _, rv := range r.s.reviews {
		if rv.PolicyID == policyID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return limit(out, n), nil
}

// Transactions ------------------------------------------------------------

type TransactionRepo struct{ s *Store }

func (r *TransactionRepo) Create(_ context.Context, t core.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, seen := r.s.paymentRefs[t.PaymentRef]; seen {
		return core.ErrPaymentExists
	}
	r.s.transactions[t.ID] = t
	r.s.paymentRefs[t.PaymentRef] = t.ID
	return nil
}

func (r *TransactionRepo) List(_ context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]core.Transaction, 0)
	for _, t := range r.s.transactions {
		if filter.CustomerID != "" && t.CustomerID != filter.CustomerID {
			continue
		}
		if filter.PolicyID != "" && t.PolicyID != filter.PolicyID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaidAt.Equal(out[j].PaidAt) {
			return out[i].PaidAt.After(out[j].PaidAt)
		}
		return out[i].ID > out[j].ID
	})
	return limit(out, filter.Limit), nil
}

// helpers -----------------------------------------------------------------

// limit truncates items to n; n <= 0 keeps everything.
func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func clonePolicy(p core.Policy) core.Policy {
	p.Duration.Options = slices.Clone(p.Duration.Options)
	return p
}

func cloneApplication(app core.Application) core.Application {
	app.Health.Conditions = slices.Clone(app.Health.Conditions)
	return app
}
