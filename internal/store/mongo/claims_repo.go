package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClaimRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewClaimRepo(db *mongodrv.Database, opTimeout time.Duration) *ClaimRepoMongo {
	return &ClaimRepoMongo{
		coll:      db.Collection(ColClaims),
		opTimeout: opTimeout,
	}
}

// Create relies on the unique application_id index to reject a second claim.
func (repo *ClaimRepoMongo) Create(ctx context.Context, claim core.Claim) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toClaimDoc(claim))
	if err != nil {
		if isDuplicateKey(err) {
			return core.ErrDuplicateClaim
		}
		return fmt.Errorf("claims.insert: %w", err)
	}
	return nil
}

func (repo *ClaimRepoMongo) Get(ctx context.Context, id string) (core.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc ClaimDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Claim{}, core.ErrClaimNotFound
		}
		return core.Claim{}, fmt.Errorf("claims.findOne: %w", err)
	}
	return fromClaimDoc(doc), nil
}

func (repo *ClaimRepoMongo) List(ctx context.Context, filter core.ClaimFilter) ([]core.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	mongoFilter := bson.M{}
	if filter.CustomerID != "" {
		mongoFilter["customer_id"] = filter.CustomerID
	}
	if filter.ApplicationID != "" {
		mongoFilter["application_id"] = filter.ApplicationID
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := repo.coll.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("claims.find: %w", err)
	}
	defer cursor.Close(ctx)

	claims := []core.Claim{}
	for cursor.Next(ctx) {
		var doc ClaimDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("claims.decode: %w", err)
		}
		claims = append(claims, fromClaimDoc(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("claims.cursor: %w", err)
	}

	return claims, nil
}

func (repo *ClaimRepoMongo) Update(ctx context.Context, claim core.Claim, from core.ClaimStatus) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	result, err := repo.coll.ReplaceOne(ctx,
		bson.M{"_id": claim.ID, "status": string(from)},
		toClaimDoc(claim),
	)
	if err != nil {
		return fmt.Errorf("claims.replace: %w", err)
	}
	if result.MatchedCount == 0 {
		n, err := repo.coll.CountDocuments(ctx, bson.M{"_id": claim.ID})
		if err != nil {
			return fmt.Errorf("claims.count: %w", err)
		}
		if n == 0 {
			return core.ErrClaimNotFound
		}
		return core.ErrClaimChanged
	}
	return nil
}
