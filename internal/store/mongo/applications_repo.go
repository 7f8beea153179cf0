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

type ApplicationRepoMongo struct {
	client    *mongodrv.Client
	coll      *mongodrv.Collection
	policies  *mongodrv.Collection
	opTimeout time.Duration
}

func NewApplicationRepo(db *mongodrv.Database, opTimeout time.Duration) *ApplicationRepoMongo {
	return &ApplicationRepoMongo{
		client:    db.Client(),
		coll:      db.Collection(ColApplications),
		policies:  db.Collection(ColPolicies),
		opTimeout: opTimeout,
	}
}

func (repo *ApplicationRepoMongo) Create(ctx context.Context, app core.Application) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toApplicationDoc(app))
	if err != nil {
		if isDuplicateKey(err) {
			return core.ErrApplicationExists
		}
		return fmt.Errorf("applications.insert: %w", err)
	}
	return nil
}

func (repo *ApplicationRepoMongo) Get(ctx context.Context, id string) (core.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc ApplicationDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Application{}, core.ErrApplicationNotFound
		}
		return core.Application{}, fmt.Errorf("applications.findOne: %w", err)
	}
	return fromApplicationDoc(doc), nil
}

func (repo *ApplicationRepoMongo) List(ctx context.Context, filter core.ApplicationFilter) ([]core.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	mongoFilter := bson.M{}
	if filter.CustomerID != "" {
		mongoFilter["customer_id"] = filter.CustomerID
	}
	if filter.AgentID != "" {
		mongoFilter["assigned_agent_id"] = filter.AgentID
	} else if filter.Unassigned {
		mongoFilter["assigned_agent_id"] = bson.M{"$in": bson.A{nil, ""}}
	}
	if filter.PolicyID != "" {
		mongoFilter["policy_id"] = filter.PolicyID
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := repo.coll.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("applications.find: %w", err)
	}
	defer cursor.Close(ctx)

	apps := []core.Application{}
	for cursor.Next(ctx) {
		var doc ApplicationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("applications.decode: %w", err)
		}
		apps = append(apps, fromApplicationDoc(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("applications.cursor: %w", err)
	}

	return apps, nil
}

// Update replaces the document only while its status and assigned agent
// still match prev.
func (repo *ApplicationRepoMongo) Update(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()
	return repo.replace(ctx, app, prev)
}

// Approve swaps the status and bumps the policy purchase counter inside one
// multi-document transaction.
func (repo *ApplicationRepoMongo) Approve(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	session, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("applications.startSession: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongodrv.SessionContext) (any, error) {
		if err := repo.replace(sc, app, prev); err != nil {
			return nil, err
		}
		result, err := repo.policies.UpdateOne(sc,
			bson.M{"_id": app.PolicyID},
			bson.M{"$inc": bson.M{"purchase_count": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("policies.incPurchaseCount: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, core.ErrPolicyNotFound
		}
		return nil, nil
	})
	return err
}

func (repo *ApplicationRepoMongo) replace(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	result, err := repo.coll.ReplaceOne(ctx, casFilter(app.ID, prev), toApplicationDoc(app))
	if err != nil {
		return fmt.Errorf("applications.replace: %w", err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing document from a lost race.
		n, err := repo.coll.CountDocuments(ctx, bson.M{"_id": app.ID})
		if err != nil {
			return fmt.Errorf("applications.count: %w", err)
		}
		if n == 0 {
			return core.ErrApplicationNotFound
		}
		return core.ErrApplicationChanged
	}
	return nil
}

// casFilter matches the application only in the state it was read in. An
// unassigned application has no assigned_agent_id field.
func casFilter(id string, prev core.ApplicationState) bson.M {
	filter := bson.M{"_id": id, "status": string(prev.Status)}
	if prev.AssignedAgentID == "" {
		filter["assigned_agent_id"] = bson.M{"$in": bson.A{nil, ""}}
	} else {
		filter["assigned_agent_id"] = prev.AssignedAgentID
	}
	return filter
}
