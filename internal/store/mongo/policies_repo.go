package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PolicyRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewPolicyRepo(db *mongodrv.Database, opTimeout time.Duration) *PolicyRepoMongo {
	return &PolicyRepoMongo{
		coll:      db.Collection(ColPolicies),
		opTimeout: opTimeout,
	}
}

func (repo *PolicyRepoMongo) Create(ctx context.Context, policy core.Policy) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toPolicyDoc(policy))
	if err != nil {
		if isDuplicateKey(err) {
			return core.ErrPolicyExists
		}
		return fmt.Errorf("policies.insert: %w", err)
	}
	return nil
}

func (repo *PolicyRepoMongo) Get(ctx context.Context, id string) (core.Policy, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc PolicyDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Policy{}, core.ErrPolicyNotFound
		}
		return core.Policy{}, fmt.Errorf("policies.findOne: %w", err)
	}
	return fromPolicyDoc(doc), nil
}

// Update rewrites the editable fields; purchase_count is owned by approvals.
func (repo *PolicyRepoMongo) Update(ctx context.Context, policy core.Policy) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	doc := toPolicyDoc(policy)
	set := bson.M{
		"title":        doc.Title,
		"category":     doc.Category,
		"description":  doc.Description,
		"min_age":      doc.MinAge,
		"max_age":      doc.MaxAge,
		"min_coverage": doc.MinCoverage,
		"max_coverage": doc.MaxCoverage,
		"durations":    doc.Durations,
		"base_rate":    doc.BaseRate,
		"updated_at":   doc.UpdatedAt,
	}
	result, err := repo.coll.UpdateOne(ctx, bson.M{"_id": policy.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("policies.update: %w", err)
	}
	if result.MatchedCount == 0 {
		return core.ErrPolicyNotFound
	}
	return nil
}

func (repo *PolicyRepoMongo) List(ctx context.Context, filter core.PolicyFilter) ([]core.Policy, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	mongoFilter := bson.M{}
	if filter.Category != "" {
		mongoFilter["category"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filter.Category) + "$", "$options": "i"}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if filter.Sort == core.PolicySortPopular {
		sort = append(bson.D{{Key: "purchase_count", Value: -1}}, sort...)
	}
	opts := options.Find().SetSort(sort)
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := repo.coll.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("policies.find: %w", err)
	}
	defer cursor.Close(ctx)

	policies := []core.Policy{}
	for cursor.Next(ctx) {
		var doc PolicyDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("policies.decode: %w", err)
		}
		policies = append(policies, fromPolicyDoc(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("policies.cursor: %w", err)
	}

	return policies, nil
}
