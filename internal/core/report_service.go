package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/MrKriegler/insureflow/internal/platform/ids"
)

type ReportService interface {
	// RecordPayment stores a premium payment against an approved application
	RecordPayment(ctx context.Context, actor Actor, in PaymentInput) (Transaction, error)

	// ListTransactions returns the payments visible to the actor
	ListTransactions(ctx context.Context, actor Actor, filter TransactionFilter) ([]Transaction, error)

	// Earnings aggregates every recorded payment (admin only)
	Earnings(ctx context.Context, actor Actor) (EarningsReport, error)
}

type reportService struct {
	txns  TransactionRepo
	apps  ApplicationRepo
	clock func() time.Time
}

func NewReportService(txns TransactionRepo, apps ApplicationRepo, opts ...Option) ReportService {
	o := applyOptions(opts)
	return &reportService{
		txns:  txns,
		apps:  apps,
		clock: o.clock,
	}
}

func (s *reportService) RecordPayment(ctx context.Context, actor Actor, in PaymentInput) (Transaction, error) {
	if !actor.Is(RoleCustomer) {
		return Transaction{}, forbidden("only customers can record payments")
	}
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	in.PaymentRef = strings.TrimSpace(in.PaymentRef)
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}

	app, err := s.apps.Get(ctx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Transaction{}, forbidden("application %s cannot be paid for", in.ApplicationID)
		}
		return Transaction{}, err
	}
	if app.CustomerID != actor.ID || app.Status != ApplicationStatusApproved {
		return Transaction{}, forbidden("application %s cannot be paid for", app.ID)
	}

	amount := in.Amount
	if amount == 0 {
		amount = app.Quote.Monthly
	}
	if amount <= 0 {
		return Transaction{}, &ValidationError{Fields: []FieldError{{Field: "amount", Message: "must be > 0"}}}
	}

	txn := Transaction{
		ID:            ids.New(),
		ApplicationID: app.ID,
		PolicyID:      app.PolicyID,
		PolicyTitle:   app.PolicyTitle,
		CustomerID:    actor.ID,
		CustomerEmail: app.CustomerEmail,
		Amount:        amount,
		PaymentRef:    in.PaymentRef,
		PaidAt:        s.clock(),
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func (s *reportService) ListTransactions(ctx context.Context, actor Actor, filter TransactionFilter) ([]Transaction, error) {
	switch actor.Role {
	case RoleAdmin:
	case RoleCustomer:
		filter.CustomerID = actor.ID
	default:
		return nil, forbidden("transactions are visible to admins and their payers only")
	}
	filter.Limit = clampLimit(filter.Limit)
	return s.txns.List(ctx, filter)
}

func (s *reportService) Earnings(ctx context.Context, actor Actor) (EarningsReport, error) {
	if !actor.Is(RoleAdmin) {
		return EarningsReport{}, forbidden("only admins can view earnings")
	}
	txns, err := s.txns.List(ctx, TransactionFilter{})
	if err != nil {
		return EarningsReport{}, err
	}
	return AggregateEarnings(txns), nil
}

// AggregateEarnings totals txns overall, per policy (largest first) and per
// calendar month in UTC (oldest first).
func AggregateEarnings(txns []Transaction) EarningsReport {
	report := EarningsReport{
		ByPolicy: []PolicyEarnings{},
		ByMonth:  []MonthlyEarnings{},
	}
	byPolicy := map[string]*PolicyEarnings{}
	byMonth := map[string]int64{}

	for _, t := range txns {
		report.Total += t.Amount
		report.TransactionCount++

		pe, ok := byPolicy[t.PolicyID]
		if !ok {
			pe = &PolicyEarnings{PolicyID: t.PolicyID, PolicyTitle: t.PolicyTitle}
			byPolicy[t.PolicyID] = pe
		}
		pe.Total += t.Amount
		pe.Count++

		byMonth[t.PaidAt.UTC().Format("2006-01")] += t.Amount
	}

	for _, pe := range byPolicy {
		report.ByPolicy = append(report.ByPolicy, *pe)
	}
	sort.Slice(report.ByPolicy, func(i, j int) bool {
		if report.ByPolicy[i].Total != report.ByPolicy[j].Total {
			return report.ByPolicy[i].Total > report.ByPolicy[j].Total
		}
		return report.ByPolicy[i].PolicyID < report.ByPolicy[j].PolicyID
	})

	for month, total := range byMonth {
		report.ByMonth = append(report.ByMonth, MonthlyEarnings{Month: month, Total: total})
	}
	sort.Slice(report.ByMonth, func(i, j int) bool {
		return report.ByMonth[i].Month < report.ByMonth[j].Month
	})
	return report
}
