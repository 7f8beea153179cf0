package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrKriegler/insureflow/internal/core"
)

const applicationColumns = `id, customer_id, customer_email, policy_id, policy_title,
	coverage_amount, duration_years, base_rate, monthly_premium, annual_premium, total_premium,
	applicant, nominee, health, status, assigned_agent_id, rejection_feedback, reviewed_by,
	applied_at, updated_at, approved_at, rejected_at`

const updateApplication = `
	UPDATE applications SET
		status = :status, assigned_agent_id = :assigned_agent_id,
		rejection_feedback = :rejection_feedback, reviewed_by = :reviewed_by,
		updated_at = :updated_at, approved_at = :approved_at, rejected_at = :rejected_at
	WHERE id = :id AND status = :from_status AND assigned_agent_id = :from_agent_id`

type ApplicationRepo struct {
	db *sqlx.DB
}

func NewApplicationRepo(db *sqlx.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func (r *ApplicationRepo) Create(ctx context.Context, app core.Application) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES (:id, :customer_id, :customer_email, :policy_id, :policy_title,
			:coverage_amount, :duration_years, :base_rate, :monthly_premium, :annual_premium, :total_premium,
			:applicant, :nominee, :health, :status, :assigned_agent_id, :rejection_feedback, :reviewed_by,
			:applied_at, :updated_at, :approved_at, :rejected_at)`,
		applicationRowFromCore(app))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrApplicationExists
		}
		return fmt.Errorf("applications.insert: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Get(ctx context.Context, id string) (core.Application, error) {
	var row applicationRow
	err := r.db.GetContext(ctx, &row, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Application{}, core.ErrApplicationNotFound
		}
		return core.Application{}, fmt.Errorf("applications.get: %w", err)
	}
	return row.toCore(), nil
}

func (r *ApplicationRepo) List(ctx context.Context, filter core.ApplicationFilter) ([]core.Application, error) {
	var w where
	if filter.CustomerID != "" {
		w.add("customer_id = $%d", filter.CustomerID)
	}
	if filter.AgentID != "" {
		w.add("assigned_agent_id = $%d", filter.AgentID)
	} else if filter.Unassigned {
		w.raw("assigned_agent_id = ''")
	}
	if filter.PolicyID != "" {
		w.add("policy_id = $%d", filter.PolicyID)
	}
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	query, args := w.build(`SELECT `+applicationColumns+` FROM applications`, "applied_at DESC, id DESC", filter.Limit)

	var rows []applicationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("applications.list: %w", err)
	}
	apps := make([]core.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toCore())
	}
	return apps, nil
}

// Update writes the mutable columns only while the stored status and
// assigned agent still match prev.
func (r *ApplicationRepo) Update(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("applications.begin: %w", err)
	}
	defer tx.Rollback()

	if err := casApplication(ctx, tx, app, prev); err != nil {
		return err
	}
	return tx.Commit()
}

// Approve performs the status swap and the purchase counter increment in one
// transaction.
func (r *ApplicationRepo) Approve(ctx context.Context, app core.Application, prev core.ApplicationState) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("applications.begin: %w", err)
	}
	defer tx.Rollback()

	if err := casApplication(ctx, tx, app, prev); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE policies SET purchase_count = purchase_count + 1 WHERE id = $1`, app.PolicyID)
	if err != nil {
		return fmt.Errorf("policies.incPurchaseCount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrPolicyNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("applications.commit: %w", err)
	}
	return nil
}

type casApplicationRow struct {
	applicationRow
	FromStatus  string `db:"from_status"`
	FromAgentID string `db:"from_agent_id"`
}

func casApplication(ctx context.Context, tx *sqlx.Tx, app core.Application, prev core.ApplicationState) error {
	res, err := tx.NamedExecContext(ctx, updateApplication, casApplicationRow{
		applicationRow: applicationRowFromCore(app),
		FromStatus:     string(prev.Status),
		FromAgentID:    prev.AssignedAgentID,
	})
	if err != nil {
		return fmt.Errorf("applications.update: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, app.ID); err != nil {
		return fmt.Errorf("applications.exists: %w", err)
	}
	if !exists {
		return core.ErrApplicationNotFound
	}
	return core.ErrApplicationChanged
}
