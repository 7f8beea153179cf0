package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrKriegler/insureflow/internal/platform/ids"
)

type ClaimService interface {
	// EligibleApplications lists approved applications of a customer that
	// have no claim yet
	EligibleApplications(ctx context.Context, actor Actor, customerID string) ([]Application, error)

	// FileClaim creates the single claim allowed for an approved application
	FileClaim(ctx context.Context, actor Actor, in ClaimInput) (Claim, error)

	// Approve resolves a pending claim in the customer's favour
	Approve(ctx context.Context, actor Actor, id string) (Claim, error)

	// Reject resolves a pending claim with feedback; the application keeps
	// its claim slot consumed
	Reject(ctx context.Context, actor Actor, id, feedback string) (Claim, error)

	Get(ctx context.Context, actor Actor, id string) (Claim, error)
	List(ctx context.Context, actor Actor, filter ClaimFilter) ([]Claim, error)
}

type claimService struct {
	claims ClaimRepo
	apps   ApplicationRepo
	clock  func() time.Time
}

func NewClaimService(claims ClaimRepo, apps ApplicationRepo, opts ...Option) ClaimService {
	o := applyOptions(opts)
	return &claimService{
		claims: claims,
		apps:   apps,
		clock:  o.clock,
	}
}

func (s *claimService) EligibleApplications(ctx context.Context, actor Actor, customerID string) ([]Application, error) {
	if customerID == "" {
		customerID = actor.ID
	}
	switch actor.Role {
	case RoleAdmin, RoleAgent:
	case RoleCustomer:
		if customerID != actor.ID {
			return nil, forbidden("customers can only see their own eligibility")
		}
	default:
		return nil, forbidden("unknown role %q", actor.Role)
	}

	approved, err := s.apps.List(ctx, ApplicationFilter{
		CustomerID: customerID,
		Status:     ApplicationStatusApproved,
	})
	if err != nil {
		return nil, err
	}
	if len(approved) == 0 {
		return []Application{}, nil
	}

	claims, err := s.claims.List(ctx, ClaimFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	claimed := make(map[string]bool, len(claims))
	for _, c := range claims {
		claimed[c.ApplicationID] = true
	}

	eligible := make([]Application, 0, len(approved))
	for _, app := range approved {
		if !claimed[app.ID] {
			eligible = append(eligible, app)
		}
	}
	return eligible, nil
}

func (s *claimService) FileClaim(ctx context.Context, actor Actor, in ClaimInput) (Claim, error) {
	// 1) Only customers file claims
	if !actor.Is(RoleCustomer) {
		return Claim{}, forbidden("only customers can file claims")
	}

	// 2) Validate input
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return Claim{}, err
	}

	// 3) Application must exist, be owned by the actor and be approved
	app, err := s.apps.Get(ctx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Claim{}, forbidden("application %s is not eligible for a claim", in.ApplicationID)
		}
		return Claim{}, err
	}
	if app.CustomerID != actor.ID {
		return Claim{}, forbidden("application %s does not belong to you", app.ID)
	}
	if app.Status != ApplicationStatusApproved {
		return Claim{}, forbidden("application %s is %s, only approved applications can be claimed", app.ID, app.Status)
	}

	// 4) Insert; the store enforces one claim per application
	now := s.clock()
	claim := Claim{
		ID:            ids.New(),
		ApplicationID: app.ID,
		PolicyID:      app.PolicyID,
		PolicyTitle:   app.PolicyTitle,
		CustomerID:    actor.ID,
		CustomerEmail: app.CustomerEmail,
		Reason:        in.Reason,
		DocumentRef:   in.DocumentRef,
		Status:        ClaimStatusPending,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		return Claim{}, err
	}
	return claim, nil
}

func (s *claimService) Approve(ctx context.Context, actor Actor, id string) (Claim, error) {
	return s.resolve(ctx, actor, id, ClaimStatusApproved, "")
}

func (s *claimService) Reject(ctx context.Context, actor Actor, id, feedback string) (Claim, error) {
	return s.resolve(ctx, actor, id, ClaimStatusRejected, feedback)
}

func (s *claimService) resolve(ctx context.Context, actor Actor, id string, to ClaimStatus, feedback string) (Claim, error) {
	// 1) Agents and admins resolve claims
	if !actor.Is(RoleAgent, RoleAdmin) {
		return Claim{}, forbidden("only agents and admins can resolve claims")
	}

	// 2) Load claim
	claim, err := s.claims.Get(ctx, id)
	if err != nil {
		return Claim{}, err
	}

	// 3) Only pending claims move
	from := claim.Status
	if !from.CanTransitionTo(to) {
		return Claim{}, &TransitionError{Resource: "claim", From: string(from), To: string(to)}
	}
	feedback = strings.TrimSpace(feedback)
	if to == ClaimStatusRejected && feedback == "" {
		return Claim{}, &ValidationError{Fields: []FieldError{{Field: "feedback", Message: "is required when rejecting"}}}
	}

	// 4) Apply
	now := s.clock()
	claim.Status = to
	claim.UpdatedAt = now
	claim.ResolvedBy = actor.ID
	if to == ClaimStatusApproved {
		claim.ApprovedAt = &now
	} else {
		claim.RejectionFeedback = feedback
		claim.RejectedAt = &now
	}

	if err := s.claims.Update(ctx, claim, from); err != nil {
		return Claim{}, err
	}
	return claim, nil
}

func (s *claimService) Get(ctx context.Context, actor Actor, id string) (Claim, error) {
	if id == "" {
		return Claim{}, fmt.Errorf("%w: missing claim ID", ErrValidation)
	}
	claim, err := s.claims.Get(ctx, id)
	if err != nil {
		return Claim{}, err
	}
	if actor.Is(RoleCustomer) && claim.CustomerID != actor.ID {
		return Claim{}, forbidden("claim %s is not visible to you", id)
	}
	if !actor.Role.Valid() {
		return Claim{}, forbidden("unknown role %q", actor.Role)
	}
	return claim, nil
}

func (s *claimService) List(ctx context.Context, actor Actor, filter ClaimFilter) ([]Claim, error) {
	switch actor.Role {
	case RoleAdmin, RoleAgent:
	case RoleCustomer:
		filter.CustomerID = actor.ID
	default:
		return nil, forbidden("unknown role %q", actor.Role)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "status", Message: "unknown status"}}}
	}
	filter.Limit = clampLimit(filter.Limit)
	return s.claims.List(ctx, filter)
}
