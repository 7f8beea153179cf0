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

type TransactionRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewTransactionRepo(db *mongodrv.Database, opTimeout time.Duration) *TransactionRepoMongo {
	return &TransactionRepoMongo{
		coll:      db.Collection(ColTransactions),
		opTimeout: opTimeout,
	}
}

func (repo *TransactionRepoMongo) Create(ctx context.Context, txn core.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toTransactionDoc(txn))
	if err != nil {
		if isDuplicateKey(err) {
			return core.ErrPaymentExists
		}
		return fmt.Errorf("transactions.insert: %w", err)
	}
	return nil
}

func (repo *TransactionRepoMongo) List(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	mongoFilter := bson.M{}
	if filter.CustomerID != "" {
		mongoFilter["customer_id"] = filter.CustomerID
	}
	if filter.PolicyID != "" {
		mongoFilter["policy_id"] = filter.PolicyID
	}

	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := repo.coll.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("transactions.find: %w", err)
	}
	defer cursor.Close(ctx)

	txns := []core.Transaction{}
	for cursor.Next(ctx) {
		var doc TransactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("transactions.decode: %w", err)
		}
		txns = append(txns, fromTransactionDoc(doc))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("transactions.cursor: %w", err)
	}

	return txns, nil
}
