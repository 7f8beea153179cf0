package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if a status transition is valid.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	return s == ClaimStatusPending && (next == ClaimStatusApproved || next == ClaimStatusRejected)
}

// Claim draws on the coverage of an approved application. Each application
// holds at most one claim, whatever that claim's outcome.
type Claim struct {
	ID                string      `json:"id"`
	ApplicationID     string      `json:"application_id"`
	PolicyID          string      `json:"policy_id"`
	PolicyTitle       string      `json:"policy_title"`
	CustomerID        string      `json:"customer_id"`
	CustomerEmail     string      `json:"customer_email"`
	Reason            string      `json:"reason"`
	DocumentRef       string      `json:"document_ref"`
	Status            ClaimStatus `json:"status"`
	RejectionFeedback string      `json:"rejection_feedback,omitempty"`
	ResolvedBy        string      `json:"resolved_by,omitempty"`
	SubmittedAt       time.Time   `json:"submitted_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	ApprovedAt        *time.Time  `json:"approved_at,omitempty"`
	RejectedAt        *time.Time  `json:"rejected_at,omitempty"`
}

type ClaimInput struct {
	ApplicationID string `json:"application_id"`
	Reason        string `json:"reason"`
	DocumentRef   string `json:"document_ref"`
}

type ClaimFilter struct {
	CustomerID    string
	ApplicationID string
	Status        ClaimStatus
	Limit         int
}

type ClaimRepo interface {
	// Create inserts c; a second claim for the same application fails with
	// ErrDuplicateClaim, decided atomically by the store.
	Create(ctx context.Context, c Claim) error
	Get(ctx context.Context, id string) (Claim, error)
	List(ctx context.Context, filter ClaimFilter) ([]Claim, error)

	// Update persists c only if the stored status still equals from.
	Update(ctx context.Context, c Claim, from ClaimStatus) error
}

const maxReasonLength = 4000

func (in ClaimInput) Validate() error {
	ve := &ValidationError{}
	required(ve, "application_id", in.ApplicationID)
	if required(ve, "reason", in.Reason) && len(in.Reason) > maxReasonLength {
		ve.Add("reason", fmt.Sprintf("must be at most %d characters", maxReasonLength))
	}
	required(ve, "document_ref", in.DocumentRef)
	return ve.Err()
}

func (in ClaimInput) normalized() ClaimInput {
	return ClaimInput{
		ApplicationID: strings.TrimSpace(in.ApplicationID),
		Reason:        strings.TrimSpace(in.Reason),
		DocumentRef:   strings.TrimSpace(in.DocumentRef),
	}
}

var (
	ErrClaimNotFound = fmt.Errorf("%w: claim not found", ErrNotFound)
	ErrClaimChanged  = fmt.Errorf("%w: claim was modified concurrently, reload and retry", ErrConflict)
)
