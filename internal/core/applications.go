package core

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusUnderReview,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CanTransitionTo checks if a status transition is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	transitions := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusPending: {
			ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected,
		},
		ApplicationStatusUnderReview: {
			ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected,
		},
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Applicant holds personal details as submitted by the form. Values are kept
// verbatim; only presence and parseability are checked.
type Applicant struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DateOfBirth  string `json:"date_of_birth"` // YYYY-MM-DD
	NationalID   string `json:"national_id"`
	Occupation   string `json:"occupation,omitempty"`
	AnnualIncome string `json:"annual_income,omitempty"`
}

type Nominee struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone,omitempty"`
}

type HealthDisclosure struct {
	HeightCm   string   `json:"height_cm"`
	WeightKg   string   `json:"weight_kg"`
	Smoker     bool     `json:"smoker"`
	Conditions []string `json:"conditions,omitempty"`
}

// Application is a customer's request to buy a policy at a fixed coverage
// and duration.
type Application struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customer_id"`
	CustomerEmail     string            `json:"customer_email"`
	PolicyID          string            `json:"policy_id"`
	PolicyTitle       string            `json:"policy_title"`
	Quote             Quote             `json:"quote"`
	Applicant         Applicant         `json:"applicant"`
	Nominee           Nominee           `json:"nominee"`
	Health            HealthDisclosure  `json:"health"`
	Status            ApplicationStatus `json:"status"`
	AssignedAgentID   string            `json:"assigned_agent_id,omitempty"`
	RejectionFeedback string            `json:"rejection_feedback,omitempty"`
	ReviewedBy        string            `json:"reviewed_by,omitempty"`
	AppliedAt         time.Time         `json:"applied_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	RejectedAt        *time.Time        `json:"rejected_at,omitempty"`
}

type ApplicationInput struct {
	PolicyID       string           `json:"policy_id"`
	CoverageAmount int64            `json:"coverage_amount"`
	DurationYears  int              `json:"duration_years"`
	Applicant      Applicant        `json:"applicant"`
	Nominee        Nominee          `json:"nominee"`
	Health         HealthDisclosure `json:"health"`
}

type StatusInput struct {
	Status   ApplicationStatus `json:"status"`
	Feedback string            `json:"feedback,omitempty"`
}

type ApplicationFilter struct {
	CustomerID string
	AgentID    string
	PolicyID   string
	Status     ApplicationStatus
	Unassigned bool
	Limit      int
}

// ApplicationState is what a conditional write checks against the stored
// application: its status and the agent allowed to review it.
type ApplicationState struct {
	Status          ApplicationStatus
	AssignedAgentID string
}

// State returns the guard for a write based on a as read.
func (a Application) State() ApplicationState {
	return ApplicationState{Status: a.Status, AssignedAgentID: a.AssignedAgentID}
}

type ApplicationRepo interface {
	Create(ctx context.Context, app Application) error
	Get(ctx context.Context, id string) (Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, error)

	// Update persists app only if the stored status and assigned agent still
	// equal prev; otherwise it returns ErrApplicationChanged.
	Update(ctx context.Context, app Application, prev ApplicationState) error

	// Approve persists app like Update and increments the purchase counter of
	// app.PolicyID in the same atomic unit.
	Approve(ctx context.Context, app Application, prev ApplicationState) error
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	dateLayout = "2006-01-02"
)

// Validate checks the disclosure sections and returns every violation found.
func (in ApplicationInput) Validate(p Policy, now time.Time) error {
	ve := &ValidationError{}

	a := in.Applicant
	required(ve, "applicant.full_name", a.FullName)
	required(ve, "applicant.phone", a.Phone)
	required(ve, "applicant.address", a.Address)
	required(ve, "applicant.national_id", a.NationalID)
	if required(ve, "applicant.email", a.Email) && !emailRegex.MatchString(strings.TrimSpace(a.Email)) {
		ve.Add("applicant.email", "invalid email format")
	}
	if required(ve, "applicant.date_of_birth", a.DateOfBirth) {
		dob, err := time.Parse(dateLayout, strings.TrimSpace(a.DateOfBirth))
		if err != nil {
			ve.Add("applicant.date_of_birth", "must be formatted YYYY-MM-DD")
		} else if age := AgeOn(dob, now); age < p.MinAge || age > p.MaxAge {
			ve.Add("applicant.date_of_birth",
				fmt.Sprintf("age %d is outside the policy range %d-%d", age, p.MinAge, p.MaxAge))
		}
	}
	if strings.TrimSpace(a.AnnualIncome) != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(a.AnnualIncome), 64); err != nil || v < 0 {
			ve.Add("applicant.annual_income", "must be a non-negative number")
		}
	}

	required(ve, "nominee.name", in.Nominee.Name)
	required(ve, "nominee.relationship", in.Nominee.Relationship)

	positiveNumber(ve, "health.height_cm", in.Health.HeightCm)
	positiveNumber(ve, "health.weight_kg", in.Health.WeightKg)

	return ve.Err()
}

func required(ve *ValidationError, field, v string) bool {
	if strings.TrimSpace(v) == "" {
		ve.Add(field, "is required")
		return false
	}
	return true
}

func positiveNumber(ve *ValidationError, field, v string) {
	if !required(ve, field, v) {
		return
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 {
		ve.Add(field, "must be a positive number")
	}
}

// AgeOn returns the age in whole years of someone born on dob at time now.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

var (
	ErrApplicationNotFound = fmt.Errorf("%w: application not found", ErrNotFound)
	ErrApplicationExists   = fmt.Errorf("%w: application already exists", ErrConflict)
	ErrApplicationChanged  = fmt.Errorf("%w: application was modified concurrently, reload and retry", ErrConflict)
)
