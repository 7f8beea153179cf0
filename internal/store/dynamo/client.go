package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/insureflow/internal/platform/retry"
)

// Client wraps the DynamoDB client.
type Client struct {
	DB *dynamodb.Client
}

type Config struct {
	Region   string
	Endpoint string // DynamoDB Local, e.g. http://localhost:8000

	// Static credentials for DynamoDB Local; production uses the default chain.
	AccessKeyID     string
	SecretAccessKey string
}

func (c Config) loadOptions() []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.Endpoint == "" {
		return opts
	}
	// DynamoDB Local accepts any key pair.
	key, secret := c.AccessKeyID, c.SecretAccessKey
	if key == "" {
		key = "local"
	}
	if secret == "" {
		secret = "local"
	}
	return append(opts, config.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(key, secret, ""),
	))
}

// NewClient builds the SDK client and waits until the endpoint answers.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, cfg.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	c := &Client{DB: dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})}

	err = retry.Startup.Do(ctx, log, "ping dynamodb", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return c.Ping(pingCtx)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Ping checks DynamoDB connectivity by listing tables.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.DB.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	return err
}

// Close is a no-op; the SDK client holds no long-lived connections.
func (c *Client) Close(context.Context) error { return nil }
