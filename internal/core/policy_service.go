package core

import (
	"context"
	"fmt"
	"time"

	"github.com/MrKriegler/insureflow/internal/platform/ids"
)

type PolicyService interface {
	// List returns catalog entries; open to everyone
	List(ctx context.Context, filter PolicyFilter) ([]Policy, error)

	// Get retrieves a policy by ID
	Get(ctx context.Context, id string) (Policy, error)

	// Create adds a policy to the catalog (admin only)
	Create(ctx context.Context, actor Actor, in PolicyInput) (Policy, error)

	// Update replaces the editable fields of a policy (admin only)
	Update(ctx context.Context, actor Actor, id string, in PolicyInput) (Policy, error)
}

type policyService struct {
	policies PolicyRepo
	clock    func() time.Time
}

func NewPolicyService(policies PolicyRepo, opts ...Option) PolicyService {
	o := applyOptions(opts)
	return &policyService{
		policies: policies,
		clock:    o.clock,
	}
}

func (s *policyService) List(ctx context.Context, filter PolicyFilter) ([]Policy, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Sort != PolicySortPopular {
		filter.Sort = PolicySortNewest
	}
	return s.policies.List(ctx, filter)
}

func (s *policyService) Get(ctx context.Context, id string) (Policy, error) {
	if id == "" {
		return Policy{}, fmt.Errorf("%w: missing policy ID", ErrValidation)
	}
	return s.policies.Get(ctx, id)
}

func (s *policyService) Create(ctx context.Context, actor Actor, in PolicyInput) (Policy, error) {
	if !actor.Is(RoleAdmin) {
		return Policy{}, forbidden("only admins can manage policies")
	}
	if err := in.Validate(); err != nil {
		return Policy{}, err
	}

	now := s.clock()
	p := in.Apply(Policy{
		ID:        ids.New(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := s.policies.Create(ctx, p); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (s *policyService) Update(ctx context.Context, actor Actor, id string, in PolicyInput) (Policy, error) {
	if !actor.Is(RoleAdmin) {
		return Policy{}, forbidden("only admins can manage policies")
	}
	if err := in.Validate(); err != nil {
		return Policy{}, err
	}

	p, err := s.policies.Get(ctx, id)
	if err != nil {
		return Policy{}, err
	}
	p = in.Apply(p)
	p.UpdatedAt = s.clock()

	if err := s.policies.Update(ctx, p); err != nil {
		return Policy{}, err
	}
	return p, nil
}
