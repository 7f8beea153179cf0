package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/MrKriegler/insureflow/internal/platform/retry"
)

// Client wraps the sqlx handle shared by every Postgres repository.
type Client struct {
	DB *sqlx.DB
}

// NewClient connects to dsn, retrying while the server comes up.
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	var db *sqlx.DB
	err := retry.Startup.Do(ctx, log, "connect to postgres", func(ctx context.Context) error {
		var err error
		db, err = sqlx.ConnectContext(ctx, "postgres", dsn)
		return err
	})
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Client{DB: db}, nil
}

// Ping verifies connectivity (used by /readyz).
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close(context.Context) error {
	return c.DB.Close()
}
