package core

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/MrKriegler/insureflow/internal/platform/ids"
)

type ReviewService interface {
	Create(ctx context.Context, actor Actor, in ReviewInput) (Review, error)
	ListForPolicy(ctx context.Context, policyID string, limit int) ([]Review, PolicyRating, error)
}

type reviewService struct {
	reviews ReviewRepo
	apps    ApplicationRepo
	claims  ClaimRepo
	clock   func() time.Time
}

func NewReviewService(reviews ReviewRepo, apps ApplicationRepo, claims ClaimRepo, opts ...Option) ReviewService {
	o := applyOptions(opts)
	return &reviewService{
		reviews: reviews,
		apps:    apps,
		claims:  claims,
		clock:   o.clock,
	}
}

func (s *reviewService) Create(ctx context.Context, actor Actor, in ReviewInput) (Review, error) {
	if !actor.Is(RoleCustomer) {
		return Review{}, forbidden("only customers can review policies")
	}
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	if err := in.Validate(); err != nil {
		return Review{}, err
	}

	// The reviewer must hold the policy and have had a claim paid on it.
	app, err := s.apps.Get(ctx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Review{}, forbidden("application %s cannot be reviewed", in.ApplicationID)
		}
		return Review{}, err
	}
	if app.CustomerID != actor.ID || app.Status != ApplicationStatusApproved {
		return Review{}, forbidden("application %s cannot be reviewed", app.ID)
	}
	claims, err := s.claims.List(ctx, ClaimFilter{ApplicationID: app.ID})
	if err != nil {
		return Review{}, err
	}
	if len(claims) == 0 || claims[0].Status != ClaimStatusApproved {
		return Review{}, forbidden("only policies with an approved claim can be reviewed")
	}

	name := actor.Name
	if name == "" {
		name = app.Applicant.FullName
	}
	review := Review{
		ID:            ids.New(),
		PolicyID:      app.PolicyID,
		ApplicationID: app.ID,
		CustomerID:    actor.ID,
		CustomerName:  name,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
		CreatedAt:     s.clock(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return Review{}, err
	}
	return review, nil
}

func (s *reviewService) ListForPolicy(ctx context.Context, policyID string, limit int) ([]Review, PolicyRating, error) {
	rating := PolicyRating{PolicyID: policyID}
	if policyID == "" {
		return nil, rating, &ValidationError{Fields: []FieldError{{Field: "policy_id", Message: "is required"}}}
	}
	all, err := s.reviews.ListByPolicy(ctx, policyID, 0)
	if err != nil {
		return nil, rating, err
	}
	rating = Rate(policyID, all)
	if limit = clampLimit(limit); len(all) > limit {
		all = all[:limit]
	}
	return all, rating, nil
}

// Rate averages the ratings of reviews, rounded to two decimals.
func Rate(policyID string, reviews []Review) PolicyRating {
	r := PolicyRating{PolicyID: policyID, Count: len(reviews)}
	if len(reviews) == 0 {
		return r
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	r.Average = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	return r
}
