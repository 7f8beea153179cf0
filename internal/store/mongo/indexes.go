package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensurePoliciesIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure policies indexes: %w", err)
	}
	if err := ensureApplicationsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure applications indexes: %w", err)
	}
	if err := ensureClaimsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure claims indexes: %w", err)
	}
	if err := ensureReviewsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure reviews indexes: %w", err)
	}
	if err := ensureTransactionsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure transactions indexes: %w", err)
	}
	return nil
}

func ensurePoliciesIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColPolicies)
	models := []mongo.IndexModel{
		newIndex("category", 1, "policies_category", false),
		newIndex("created_at", -1, "policies_created_at_desc", false),
		newIndex("purchase_count", -1, "policies_purchase_count_desc", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureApplicationsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColApplications)
	models := []mongo.IndexModel{
		newIndex("customer_id", 1, "apps_customer_id", false),
		newIndex("assigned_agent_id", 1, "apps_assigned_agent_id", false),
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "applied_at", Value: -1}},
			Options: options.Index().SetName("apps_status_applied_at"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureClaimsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColClaims)
	models := []mongo.IndexModel{
		// one claim per application, whatever its outcome
		newIndex("application_id", 1, "claims_application_id_unique", true),
		newIndex("customer_id", 1, "claims_customer_id", false),
		newIndex("status", 1, "claims_status", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureReviewsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColReviews)
	models := []mongo.IndexModel{
		newIndex("application_id", 1, "reviews_application_id_unique", true),
		{Keys: bson.D{{Key: "policy_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("reviews_policy_created_at"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureTransactionsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColTransactions)
	models := []mongo.IndexModel{
		newIndex("payment_ref", 1, "transactions_payment_ref_unique", true),
		newIndex("customer_id", 1, "transactions_customer_id", false),
		newIndex("paid_at", -1, "transactions_paid_at_desc", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func newIndex(field string, order int32, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: order}},
		Options: opts,
	}
}

// isDuplicateKey reports whether err carries a unique index violation (E11000).
func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
