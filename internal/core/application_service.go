package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrKriegler/insureflow/internal/platform/ids"
)

type ApplicationService interface {
	// Submit creates a pending application for the acting customer
	Submit(ctx context.Context, actor Actor, in ApplicationInput) (Application, error)

	// Get retrieves an application visible to the actor
	Get(ctx context.Context, actor Actor, id string) (Application, error)

	// List returns the applications visible to the actor
	List(ctx context.Context, actor Actor, filter ApplicationFilter) ([]Application, error)

	// AssignAgent sets or replaces the reviewing agent (admin only)
	AssignAgent(ctx context.Context, actor Actor, id, agentID string) (Application, error)

	// SetStatus moves the application through its state machine
	SetStatus(ctx context.Context, actor Actor, id string, in StatusInput) (Application, error)
}

type applicationService struct {
	apps     ApplicationRepo
	policies PolicyRepo
	clock    func() time.Time
}

func NewApplicationService(apps ApplicationRepo, policies PolicyRepo, opts ...Option) ApplicationService {
	o := applyOptions(opts)
	return &applicationService{
		apps:     apps,
		policies: policies,
		clock:    o.clock,
	}
}

func (s *applicationService) Submit(ctx context.Context, actor Actor, in ApplicationInput) (Application, error) {
	// 1) Only customers apply for themselves
	if !actor.Is(RoleCustomer) {
		return Application{}, forbidden("only customers can submit applications")
	}
	if strings.TrimSpace(in.PolicyID) == "" {
		return Application{}, &ValidationError{Fields: []FieldError{{Field: "policy_id", Message: "is required"}}}
	}

	// 2) Load policy
	policy, err := s.policies.Get(ctx, in.PolicyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Application{}, fmt.Errorf("%w: policy %q", ErrNotFound, in.PolicyID)
		}
		return Application{}, err
	}

	// 3) Price the requested coverage
	quote, err := NewQuote(policy, in.CoverageAmount, in.DurationYears)
	if err != nil {
		return Application{}, err
	}

	// 4) Validate disclosures
	now := s.clock()
	if err := in.Validate(policy, now); err != nil {
		return Application{}, err
	}

	email := actor.Email
	if email == "" {
		email = strings.TrimSpace(in.Applicant.Email)
	}

	// 5) Create application
	app := Application{
		ID:            ids.New(),
		CustomerID:    actor.ID,
		CustomerEmail: email,
		PolicyID:      policy.ID,
		PolicyTitle:   policy.Title,
		Quote:         quote,
		Applicant:     in.Applicant,
		Nominee:       in.Nominee,
		Health:        in.Health,
		Status:        ApplicationStatusPending,
		AppliedAt:     now,
		UpdatedAt:     now,
	}

	// 6) Persist
	if err := s.apps.Create(ctx, app); err != nil {
		return Application{}, err
	}

	return app, nil
}

func (s *applicationService) Get(ctx context.Context, actor Actor, id string) (Application, error) {
	if id == "" {
		return Application{}, fmt.Errorf("%w: missing application ID", ErrValidation)
	}
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if !canViewApplication(actor, app) {
		return Application{}, forbidden("application %s is not visible to you", id)
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, actor Actor, filter ApplicationFilter) ([]Application, error) {
	switch actor.Role {
	case RoleAdmin:
	case RoleAgent:
		filter.AgentID = actor.ID
	case RoleCustomer:
		filter.CustomerID = actor.ID
	default:
		return nil, forbidden("unknown role %q", actor.Role)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "status", Message: "unknown status"}}}
	}
	filter.Limit = clampLimit(filter.Limit)
	return s.apps.List(ctx, filter)
}

func (s *applicationService) AssignAgent(ctx context.Context, actor Actor, id, agentID string) (Application, error) {
	// 1) Only admins assign
	if !actor.Is(RoleAdmin) {
		return Application{}, forbidden("only admins can assign agents")
	}
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return Application{}, &ValidationError{Fields: []FieldError{{Field: "agent_id", Message: "is required"}}}
	}

	// 2) Load application
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}

	// 3) Assignment is frozen once a decision is made
	if app.Status.Terminal() {
		return Application{}, &TransitionError{Resource: "application", From: string(app.Status), Action: "assign an agent to"}
	}

	// 4) Overwrite any previous assignment
	prev := app.State()
	app.AssignedAgentID = agentID
	app.UpdatedAt = s.clock()

	if err := s.apps.Update(ctx, app, prev); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *applicationService) SetStatus(ctx context.Context, actor Actor, id string, in StatusInput) (Application, error) {
	// 1) Load application
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}

	// 2) Admin, or the agent the application is assigned to
	if err := authorizeReviewer(actor, app); err != nil {
		return Application{}, err
	}

	// 3) Validate the requested transition
	if !in.Status.Valid() {
		return Application{}, &ValidationError{Fields: []FieldError{{Field: "status", Message: "unknown status"}}}
	}
	prev := app.State()
	if !prev.Status.CanTransitionTo(in.Status) {
		return Application{}, &TransitionError{Resource: "application", From: string(prev.Status), To: string(in.Status)}
	}
	feedback := strings.TrimSpace(in.Feedback)
	if in.Status == ApplicationStatusRejected && feedback == "" {
		return Application{}, &ValidationError{Fields: []FieldError{{Field: "feedback", Message: "is required when rejecting"}}}
	}

	// 4) Apply
	now := s.clock()
	app.Status = in.Status
	app.UpdatedAt = now
	app.ReviewedBy = actor.ID
	switch in.Status {
	case ApplicationStatusRejected:
		app.RejectionFeedback = feedback
		app.RejectedAt = &now
	case ApplicationStatusApproved:
		app.ApprovedAt = &now
	}

	// 5) Persist against the status and assignment authorized above; approval
	// also bumps the policy purchase counter
	if in.Status == ApplicationStatusApproved {
		err = s.apps.Approve(ctx, app, prev)
	} else {
		err = s.apps.Update(ctx, app, prev)
	}
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

func authorizeReviewer(actor Actor, app Application) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleAgent:
		if app.AssignedAgentID == "" || app.AssignedAgentID != actor.ID {
			return forbidden("application %s is not assigned to you", app.ID)
		}
		return nil
	default:
		return forbidden("only admins and the assigned agent can change application status")
	}
}

func canViewApplication(actor Actor, app Application) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleAgent:
		return app.AssignedAgentID != "" && app.AssignedAgentID == actor.ID
	case RoleCustomer:
		return app.CustomerID == actor.ID
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
