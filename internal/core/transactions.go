package core

import (
	"context"
	"fmt"
	"time"
)

// Transaction records a premium payment captured by an external processor.
type Transaction struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	PolicyID      string    `json:"policy_id"`
	PolicyTitle   string    `json:"policy_title"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	Amount        int64     `json:"amount"`
	PaymentRef    string    `json:"payment_ref"`
	PaidAt        time.Time `json:"paid_at"`
}

type PaymentInput struct {
	ApplicationID string `json:"application_id"`
	Amount        int64  `json:"amount"`
	PaymentRef    string `json:"payment_ref"`
}

type TransactionFilter struct {
	CustomerID string
	PolicyID   string
	Limit      int
}

type TransactionRepo interface {
	// Create fails with ErrPaymentExists when payment_ref was already recorded.
	Create(ctx context.Context, t Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
}

type PolicyEarnings struct {
	PolicyID    string `json:"policy_id"`
	PolicyTitle string `json:"policy_title"`
	Total       int64  `json:"total"`
	Count       int    `json:"count"`
}

type MonthlyEarnings struct {
	Month string `json:"month"` // YYYY-MM
	Total int64  `json:"total"`
}

type EarningsReport struct {
	Total            int64             `json:"total"`
	TransactionCount int               `json:"transaction_count"`
	ByPolicy         []PolicyEarnings  `json:"by_policy"`
	ByMonth          []MonthlyEarnings `json:"by_month"`
}

func (in PaymentInput) Validate() error {
	ve := &ValidationError{}
	required(ve, "application_id", in.ApplicationID)
	required(ve, "payment_ref", in.PaymentRef)
	if in.Amount < 0 {
		ve.Add("amount", "must be > 0")
	}
	return ve.Err()
}

var ErrPaymentExists = fmt.Errorf("%w: payment already recorded", ErrConflict)
