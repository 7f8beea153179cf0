package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Review is a customer's rating of a policy they hold and have claimed on.
type Review struct {
	ID            string    `json:"id"`
	PolicyID      string    `json:"policy_id"`
	ApplicationID string    `json:"application_id"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReviewInput struct {
	ApplicationID string `json:"application_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// PolicyRating summarises the reviews of one policy.
type PolicyRating struct {
	PolicyID string  `json:"policy_id"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}

type ReviewRepo interface {
	// Create fails with ErrReviewExists if the application was already reviewed.
	Create(ctx context.Context, r Review) error
	ListByPolicy(ctx context.Context, policyID string, limit int) ([]Review, error)
}

const maxCommentLength = 1000

func (in ReviewInput) Validate() error {
	ve := &ValidationError{}
	required(ve, "application_id", in.ApplicationID)
	if in.Rating < 1 || in.Rating > 5 {
		ve.Add("rating", "must be between 1 and 5")
	}
	if len(strings.TrimSpace(in.Comment)) > maxCommentLength {
		ve.Add("comment", fmt.Sprintf("must be at most %d characters", maxCommentLength))
	}
	return ve.Err()
}

var ErrReviewExists = fmt.Errorf("%w: application was already reviewed", ErrConflict)
