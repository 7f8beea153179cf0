package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
)

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.approved(t)

	txn, err := f.reports.RecordPayment(ctx, customer, core.PaymentInput{ApplicationID: app.ID, PaymentRef: "pi_001"})
	require.NoError(t, err)
	assert.Equal(t, app.Quote.Monthly, txn.Amount)
	assert.Equal(t, app.PolicyID, txn.PolicyID)

	_, err = f.reports.RecordPayment(ctx, customer, core.PaymentInput{ApplicationID: app.ID, PaymentRef: "pi_001"})
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = f.reports.RecordPayment(ctx, stranger, core.PaymentInput{ApplicationID: app.ID, PaymentRef: "pi_002"})
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = f.reports.RecordPayment(ctx, customer, core.PaymentInput{ApplicationID: app.ID})
	assert.ErrorIs(t, err, core.ErrValidation)

	mine, err := f.reports.ListTransactions(ctx, customer, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.reports.ListTransactions(ctx, agent, core.TransactionFilter{})
	assert.ErrorIs(t, err, core.ErrForbidden)

	report, err := f.reports.Earnings(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, app.Quote.Monthly, report.Total)
	assert.Equal(t, 1, report.TransactionCount)

	_, err = f.reports.Earnings(ctx, customer)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestAggregateEarnings(t *testing.T) {
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	txns := []core.Transaction{
		{PolicyID: "a", PolicyTitle: "A", Amount: 100, PaidAt: feb},
		{PolicyID: "b", PolicyTitle: "B", Amount: 300, PaidAt: jan},
		{PolicyID: "a", PolicyTitle: "A", Amount: 50, PaidAt: jan},
	}

	r := core.AggregateEarnings(txns)
	assert.Equal(t, int64(450), r.Total)
	assert.Equal(t, 3, r.TransactionCount)
	assert.Equal(t, []core.PolicyEarnings{
		{PolicyID: "b", PolicyTitle: "B", Total: 300, Count: 1},
		{PolicyID: "a", PolicyTitle: "A", Total: 150, Count: 2},
	}, r.ByPolicy)
	assert.Equal(t, []core.MonthlyEarnings{
		{Month: "2026-01", Total: 350},
		{Month: "2026-02", Total: 100},
	}, r.ByMonth)

	empty := core.AggregateEarnings(nil)
	assert.Empty(t, empty.ByPolicy)
	assert.NotNil(t, empty.ByMonth)
}
