package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations run in order on every start; each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS policies (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		category       TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		min_age        INTEGER NOT NULL,
		max_age        INTEGER NOT NULL,
		min_coverage   BIGINT NOT NULL,
		max_coverage   BIGINT NOT NULL,
		durations      BIGINT[] NOT NULL,
		base_rate      DOUBLE PRECISION NOT NULL,
		purchase_count BIGINT NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id                 TEXT PRIMARY KEY,
		customer_id        TEXT NOT NULL,
		customer_email     TEXT NOT NULL,
		policy_id          TEXT NOT NULL REFERENCES policies (id),
		policy_title       TEXT NOT NULL,
		coverage_amount    BIGINT NOT NULL,
		duration_years     INTEGER NOT NULL,
		base_rate          DOUBLE PRECISION NOT NULL,
		monthly_premium    BIGINT NOT NULL,
		annual_premium     BIGINT NOT NULL,
		total_premium      BIGINT NOT NULL,
		applicant          JSONB NOT NULL,
		nominee            JSONB NOT NULL,
		health             JSONB NOT NULL,
		status             TEXT NOT NULL,
		assigned_agent_id  TEXT NOT NULL DEFAULT '',
		rejection_feedback TEXT NOT NULL DEFAULT '',
		reviewed_by        TEXT NOT NULL DEFAULT '',
		applied_at         TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL,
		approved_at        TIMESTAMPTZ,
		rejected_at        TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS applications_customer_idx ON applications (customer_id, applied_at DESC)`,
	`CREATE INDEX IF NOT EXISTS applications_agent_idx ON applications (assigned_agent_id, applied_at DESC)`,
	`CREATE INDEX IF NOT EXISTS applications_status_idx ON applications (status, applied_at DESC)`,
	`CREATE TABLE IF NOT EXISTS claims (
		id                 TEXT PRIMARY KEY,
		application_id     TEXT NOT NULL UNIQUE REFERENCES applications (id),
		policy_id          TEXT NOT NULL,
		policy_title       TEXT NOT NULL,
		customer_id        TEXT NOT NULL,
		customer_email     TEXT NOT NULL,
		reason             TEXT NOT NULL,
		document_ref       TEXT NOT NULL,
		status             TEXT NOT NULL,
		rejection_feedback TEXT NOT NULL DEFAULT '',
		resolved_by        TEXT NOT NULL DEFAULT '',
		submitted_at       TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL,
		approved_at        TIMESTAMPTZ,
		rejected_at        TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS claims_customer_idx ON claims (customer_id, submitted_at DESC)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id             TEXT PRIMARY KEY,
		policy_id      TEXT NOT NULL REFERENCES policies (id),
		application_id TEXT NOT NULL UNIQUE REFERENCES applications (id),
		customer_id    TEXT NOT NULL,
		customer_name  TEXT NOT NULL,
		rating         INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment        TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_policy_idx ON reviews (policy_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id             TEXT PRIMARY KEY,
		application_id TEXT NOT NULL REFERENCES applications (id),
		policy_id      TEXT NOT NULL,
		policy_title   TEXT NOT NULL,
		customer_id    TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		amount         BIGINT NOT NULL,
		payment_ref    TEXT NOT NULL UNIQUE,
		paid_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_customer_idx ON transactions (customer_id, paid_at DESC)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
