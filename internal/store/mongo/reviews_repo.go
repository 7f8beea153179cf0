package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewReviewRepo(db *mongodrv.Database, opTimeout time.Duration) *ReviewRepoMongo {
	return &ReviewRepoMongo{
		coll:      db.Collection(ColReviews),
		opTimeout: opTimeout,
	}
}

func (repo *ReviewRepoMongo) Create(ctx context.Context, review core.Review) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toReviewDoc(review))
	if err != nil {
		if isDuplicateKey(err) {
			return core.ErrReviewExists
		}
		return fmt.Errorf("reviews.insert: %w", err)
	}
	return nil
}

func (repo *ReviewRepoMongo) ListByPolicy(ctx context.Context, policyID string, limit int) ([]core.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := repo.coll.Find(ctx, bson.M{"policy_id": policyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("reviews.find: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []core.Review{}
	for cursor.Next(ctx) {
		var doc ReviewDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("reviews.decode: %w", err)
		}
		reviews = append(reviews, fromReviewDoc(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("reviews.cursor: %w", err)
	}

	return reviews, nil
}
