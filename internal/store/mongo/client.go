package mongo

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/MrKriegler/insureflow/internal/platform/config"
	"github.com/MrKriegler/insureflow/internal/platform/retry"
)

type MongoClient struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewClient connects to cfg.MongoURI, retrying while the server comes up.
// Approvals run in transactions, so the deployment must be a replica set.
func NewClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (*MongoClient, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())

	connectTimeout := time.Duration(cfg.MongoConnectTimeoutSec) * time.Second

	var client *mongo.Client
	err := retry.Startup.Do(ctx, log, "connect to mongo", func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		c, err := mongo.Connect(attemptCtx, clientOpts)
		if err != nil {
			return err
		}
		if err := c.Ping(attemptCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MongoClient{Client: client, DB: client.Database(cfg.MongoDB)}, nil
}

// Ping verifies connectivity (used by /readyz).
func (c *MongoClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c *MongoClient) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
