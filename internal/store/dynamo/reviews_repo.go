package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/insureflow/internal/core"
)

type ReviewRepo struct {
	client *dynamodb.Client
}

func NewReviewRepo(client *dynamodb.Client) *ReviewRepo {
	return &ReviewRepo{client: client}
}

func (r *ReviewRepo) Create(ctx context.Context, rv core.Review) error {
	return putUnique(ctx, r.client, TableReviews, reviewItemFromCore(rv),
		reviewKey(rv.ApplicationID), rv.ID, core.ErrReviewExists)
}

func (r *ReviewRepo) ListByPolicy(ctx context.Context, policyID string, limit int) ([]core.Review, error) {
	items, err := queryIndex[ReviewItem](ctx, r.client, TableReviews, GSIPolicy, "policy_id", policyID)
	if err != nil {
		return nil, err
	}
	reviews := make([]core.Review, 0, len(items))
	for _, item := range items {
		reviews = append(reviews, item.ToCore())
	}
	return truncate(reviews, limit), nil
}
