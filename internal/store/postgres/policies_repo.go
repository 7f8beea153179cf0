package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/MrKriegler/insureflow/internal/core"
)

const policyColumns = `id, title, category, description, min_age, max_age, min_coverage, max_coverage,
	durations, base_rate, purchase_count, created_at, updated_at`

type PolicyRepo struct {
	db *sqlx.DB
}

func NewPolicyRepo(db *sqlx.DB) *PolicyRepo {
	return &PolicyRepo{db: db}
}

func (r *PolicyRepo) Create(ctx context.Context, p core.Policy) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO policies (`+policyColumns+`)
		VALUES (:id, :title, :category, :description, :min_age, :max_age, :min_coverage, :max_coverage,
			:durations, :base_rate, :purchase_count, :created_at, :updated_at)`,
		policyRowFromCore(p))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrPolicyExists
		}
		return fmt.Errorf("policies.insert: %w", err)
	}
	return nil
}

func (r *PolicyRepo) Get(ctx context.Context, id string) (core.Policy, error) {
	var row policyRow
	err := r.db.GetContext(ctx, &row, `SELECT `+policyColumns+` FROM policies WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Policy{}, core.ErrPolicyNotFound
		}
		return core.Policy{}, fmt.Errorf("policies.get: %w", err)
	}
	return row.toCore(), nil
}

// Update rewrites the editable columns; purchase_count is left to approvals.
func (r *PolicyRepo) Update(ctx context.Context, p core.Policy) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE policies SET
			title = :title, category = :category, description = :description,
			min_age = :min_age, max_age = :max_age,
			min_coverage = :min_coverage, max_coverage = :max_coverage,
			durations = :durations, base_rate = :base_rate, updated_at = :updated_at
		WHERE id = :id`,
		policyRowFromCore(p))
	if err != nil {
		return fmt.Errorf("policies.update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrPolicyNotFound
	}
	return nil
}

func (r *PolicyRepo) List(ctx context.Context, filter core.PolicyFilter) ([]core.Policy, error) {
	var w where
	if filter.Category != "" {
		w.add("LOWER(category) = LOWER($%d)", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		w.add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(search)+"%")
	}
	orderBy := "created_at DESC, id DESC"
	if filter.Sort == core.PolicySortPopular {
		orderBy = "purchase_count DESC, " + orderBy
	}
	query, args := w.build(`SELECT `+policyColumns+` FROM policies`, orderBy, filter.Limit)

	var rows []policyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("policies.list: %w", err)
	}
	policies := make([]core.Policy, 0, len(rows))
	for _, row := range rows {
		policies = append(policies, row.toCore())
	}
	return policies, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
