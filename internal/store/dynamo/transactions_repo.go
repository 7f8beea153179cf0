package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/insureflow/internal/core"
)

type TransactionRepo struct {
	client *dynamodb.Client
}

func NewTransactionRepo(client *dynamodb.Client) *TransactionRepo {
	return &TransactionRepo{client: client}
}

func (r *TransactionRepo) Create(ctx context.Context, t core.Transaction) error {
	return putUnique(ctx, r.client, TableTransactions, transactionItemFromCore(t),
		paymentKey(t.PaymentRef), t.ID, core.ErrPaymentExists)
}

func (r *TransactionRepo) List(ctx context.Context, filter core.TransactionFilter) ([]core.Transaction, error) {
	var (
		items []TransactionItem
		err   error
	)
	if filter.CustomerID != "" {
		items, err = queryIndex[TransactionItem](ctx, r.client, TableTransactions, GSICustomer, "customer_id", filter.CustomerID)
	} else {
		items, err = scanTable[TransactionItem](ctx, r.client, TableTransactions)
		sortByDesc(items, func(i TransactionItem) string { return i.PaidAt + i.ID })
	}
	if err != nil {
		return nil, err
	}

	txns := make([]core.Transaction, 0, len(items))
	for _, item := range items {
		if filter.PolicyID != "" && item.PolicyID != filter.PolicyID {
			continue
		}
		txns = append(txns, item.ToCore())
	}
	return truncate(txns, filter.Limit), nil
}
