package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrKriegler/insureflow/internal/core"
)

type ReviewRepo struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) Create(ctx context.Context, rv core.Review) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reviews (id, policy_id, application_id, customer_id, customer_name, rating, comment, created_at)
		VALUES (:id, :policy_id, :application_id, :customer_id, :customer_name, :rating, :comment, :created_at)`,
		reviewRow(rv))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrReviewExists
		}
		return fmt.Errorf("reviews.insert: %w", err)
	}
	return nil
}

func (r *ReviewRepo) ListByPolicy(ctx context.Context, policyID string, limit int) ([]core.Review, error) {
	var w where
	w.add("policy_id = $%d", policyID)
	query, args := w.build(`
		SELECT id, policy_id, application_id, customer_id, customer_name, rating, comment, created_at
		FROM reviews`, "created_at DESC, id DESC", limit)

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("reviews.list: %w", err)
	}
	reviews := make([]core.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, core.Review(row))
	}
	return reviews, nil
}
