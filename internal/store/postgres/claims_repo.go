package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrKriegler/insureflow/internal/core"
)

const claimColumns = `id, application_id, policy_id, policy_title, customer_id, customer_email,
	reason, document_ref, status, rejection_feedback, resolved_by,
	submitted_at, updated_at, approved_at, rejected_at`

type ClaimRepo struct {
	db *sqlx.DB
}

func NewClaimRepo(db *sqlx.DB) *ClaimRepo {
	return &ClaimRepo{db: db}
}

// Create relies on the UNIQUE (application_id) constraint.
func (r *ClaimRepo) Create(ctx context.Context, c core.Claim) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO claims (`+claimColumns+`)
		VALUES (:id, :application_id, :policy_id, :policy_title, :customer_id, :customer_email,
			:reason, :document_ref, :status, :rejection_feedback, :resolved_by,
			:submitted_at, :updated_at, :approved_at, :rejected_at)`,
		claimRowFromCore(c))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateClaim
		}
		return fmt.Errorf("claims.insert: %w", err)
	}
	return nil
}

func (r *ClaimRepo) Get(ctx context.Context, id string) (core.Claim, error) {
	var row claimRow
	err := r.db.GetContext(ctx, &row, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Claim{}, core.ErrClaimNotFound
		}
		return core.Claim{}, fmt.Errorf("claims.get: %w", err)
	}
	return row.toCore(), nil
}

func (r *ClaimRepo) List(ctx context.Context, filter core.ClaimFilter) ([]core.Claim, error) {
	var w where
	if filter.CustomerID != "" {
		w.add("customer_id = $%d", filter.CustomerID)
	}
	if filter.ApplicationID != "" {
		w.add("application_id = $%d", filter.ApplicationID)
	}
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	query, args := w.build(`SELECT `+claimColumns+` FROM claims`, "submitted_at DESC, id DESC", filter.Limit)

	var rows []claimRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("claims.list: %w", err)
	}
	claims := make([]core.Claim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, row.toCore())
	}
	return claims, nil
}

func (r *ClaimRepo) Update(ctx context.Context, c core.Claim, from core.ClaimStatus) error {
	row := claimRowFromCore(c)
	res, err := r.db.ExecContext(ctx, `
		UPDATE claims SET
			status = $1, rejection_feedback = $2, resolved_by = $3,
			updated_at = $4, approved_at = $5, rejected_at = $6
		WHERE id = $7 AND status = $8`,
		row.Status, row.RejectionFeedback, row.ResolvedBy,
		row.UpdatedAt, row.ApprovedAt, row.RejectedAt,
		row.ID, string(from))
	if err != nil {
		return fmt.Errorf("claims.update: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := r.Get(ctx, c.ID); err != nil {
		return err
	}
	return core.ErrClaimChanged
}
