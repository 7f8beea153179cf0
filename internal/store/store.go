// Package store selects and wires the persistence backend named by DB_TYPE.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/internal/platform/config"
	"github.com/MrKriegler/insureflow/internal/store/dynamo"
	"github.com/MrKriegler/insureflow/internal/store/memory"
	"github.com/MrKriegler/insureflow/internal/store/mongo"
	"github.com/MrKriegler/insureflow/internal/store/postgres"
)

// Store bundles the repositories of one backend.
type Store struct {
	Backend      string
	Policies     core.PolicyRepo
	Applications core.ApplicationRepo
	Claims       core.ClaimRepo
	Reviews      core.ReviewRepo
	Transactions core.TransactionRepo

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping verifies backend connectivity (used by /readyz).
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases backend connections.
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	switch cfg.DBType {
	case config.DBMemory:
		return Memory(memory.New()), nil
	case config.DBMongo:
		return openMongo(ctx, cfg, log)
	case config.DBDynamo:
		return openDynamo(ctx, cfg, log)
	case config.DBPostgres:
		return openPostgres(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
}

// Memory wraps an in-process store.
func Memory(m *memory.Store) *Store {
	return &Store{
		Backend:      config.DBMemory,
		Policies:     m.Policies(),
		Applications: m.Applications(),
		Claims:       m.Claims(),
		Reviews:      m.Reviews(),
		Transactions: m.Transactions(),
		ping:         m.Ping,
		close:        m.Close,
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	log.Info("connecting to mongodb", "db", cfg.MongoDB)
	client, err := mongo.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mongo.EnsureIndexes(idxCtx, client.DB); err != nil {
		_ = client.Close(context.Background())
		return nil, err
	}

	opTimeout := cfg.StoreOpTimeout()
	return &Store{
		Backend:      config.DBMongo,
		Policies:     mongo.NewPolicyRepo(client.DB, opTimeout),
		Applications: mongo.NewApplicationRepo(client.DB, opTimeout),
		Claims:       mongo.NewClaimRepo(client.DB, opTimeout),
		Reviews:      mongo.NewReviewRepo(client.DB, opTimeout),
		Transactions: mongo.NewTransactionRepo(client.DB, opTimeout),
		ping:         client.Ping,
		close:        client.Close,
	}, nil
}

func openDynamo(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	log.Info("connecting to dynamodb", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
	client, err := dynamo.NewClient(ctx, dynamo.Config{
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.DynamoDBEndpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}, log)
	if err != nil {
		return nil, err
	}
	if err := dynamo.EnsureTables(ctx, client.DB, log); err != nil {
		return nil, err
	}

	return &Store{
		Backend:      config.DBDynamo,
		Policies:     dynamo.NewPolicyRepo(client.DB),
		Applications: dynamo.NewApplicationRepo(client.DB),
		Claims:       dynamo.NewClaimRepo(client.DB),
		Reviews:      dynamo.NewReviewRepo(client.DB),
		Transactions: dynamo.NewTransactionRepo(client.DB),
		ping:         client.Ping,
		close:        client.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	log.Info("connecting to postgres")
	client, err := postgres.NewClient(ctx, cfg.PostgresDSN, log)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, client.DB); err != nil {
		_ = client.Close(context.Background())
		return nil, err
	}

	return &Store{
		Backend:      config.DBPostgres,
		Policies:     postgres.NewPolicyRepo(client.DB),
		Applications: postgres.NewApplicationRepo(client.DB),
		Claims:       postgres.NewClaimRepo(client.DB),
		Reviews:      postgres.NewReviewRepo(client.DB),
		Transactions: postgres.NewTransactionRepo(client.DB),
		ping:         client.Ping,
		close:        client.Close,
	}, nil
}
