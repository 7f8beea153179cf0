package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrKriegler/insureflow/internal/core"
)

const transactionColumns = `id, application_id, policy_id, policy_title, customer_id, customer_email,
	amount, payment_ref, paid_at`

type TransactionRepo struct {
	db *sqlx.DB
}

func NewTransactionRepo(db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Create(ctx context.Context, t core.Transaction) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (:id, :application_id, :policy_id, :policy_title, :customer_id, :customer_email,
			:amount, :payment_ref, :paid_at)`,
		transactionRow(t))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrPaymentExists
		}
		return fmt.Errorf("transactions.insert: %w", err)
	}
	return nil
}

func (r *TransactionRepo) List(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	var w where
	if filter.CustomerID != "" {
		w.add("customer_id = $%d", filter.CustomerID)
	}
	if filter.PolicyID != "" {
		w.add("policy_id = $%d", filter.PolicyID)
	}
	query, args := w.build(`SELECT `+transactionColumns+` FROM transactions`, "paid_at DESC, id DESC", filter.Limit)

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("transactions.list: %w", err)
	}
	txns := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, core.Transaction(row))
	}
	return txns, nil
}
