package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/MrKriegler/insureflow/internal/core"
)

// jsonb stores a value as a JSONB column.
type jsonb[T any] struct {
	V T
}

func (j jsonb[T]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

func (j *jsonb[T]) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, &j.V)
	case string:
		return json.Unmarshal([]byte(v), &j.V)
	case nil:
		return nil
	}
	return fmt.Errorf("jsonb: cannot scan %T", src)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// where accumulates positional predicates.
type where struct {
	clauses []string
	args    []any
}

// add appends a predicate; expr holds one %d for the placeholder number.
func (w *where) add(expr string, v any) {
	w.args = append(w.args, v)
	w.clauses = append(w.clauses, fmt.Sprintf(expr, len(w.args)))
}

func (w *where) raw(expr string) {
	w.clauses = append(w.clauses, expr)
}

// build renders base with the collected predicates, ordering and limit.
func (w *where) build(base, orderBy string, limit int) (string, []any) {
	var b strings.Builder
	b.WriteString(base)
	if len(w.clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(w.clauses, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy)
	args := w.args
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

type policyRow struct {
	ID            string        `db:"id"`
	Title         string        `db:"title"`
	Category      string        `db:"category"`
	Description   string        `db:"description"`
	MinAge        int           `db:"min_age"`
	MaxAge        int           `db:"max_age"`
	MinCoverage   int64         `db:"min_coverage"`
	MaxCoverage   int64         `db:"max_coverage"`
	Durations     pq.Int64Array `db:"durations"`
	BaseRate      float64       `db:"base_rate"`
	PurchaseCount int64         `db:"purchase_count"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func policyRowFromCore(p core.Policy) policyRow {
	durations := make(pq.Int64Array, len(p.Duration.Options))
	for i, y := range p.Duration.Options {
		durations[i] = int64(y)
	}
	return policyRow{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category,
		Description:   p.Description,
		MinAge:        p.MinAge,
		MaxAge:        p.MaxAge,
		MinCoverage:   p.Coverage.MinAmount,
		MaxCoverage:   p.Coverage.MaxAmount,
		Durations:     durations,
		BaseRate:      p.Premium.BaseRate,
		PurchaseCount: p.PurchaseCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r policyRow) toCore() core.Policy {
	options := make([]int, len(r.Durations))
	for i, y := range r.Durations {
		options[i] = int(y)
	}
	return core.Policy{
		ID:            r.ID,
		Title:         r.Title,
		Category:      r.Category,
		Description:   r.Description,
		MinAge:        r.MinAge,
		MaxAge:        r.MaxAge,
		Coverage:      core.CoverageRange{MinAmount: r.MinCoverage, MaxAmount: r.MaxCoverage},
		Duration:      core.DurationOptions{Options: options},
		Premium:       core.PremiumDetails{BaseRate: r.BaseRate},
		PurchaseCount: r.PurchaseCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type applicationRow struct {
	ID                string                       `db:"id"`
	CustomerID        string                       `db:"customer_id"`
	CustomerEmail     string                       `db:"customer_email"`
	PolicyID          string                       `db:"policy_id"`
	PolicyTitle       string                       `db:"policy_title"`
	CoverageAmount    int64                        `db:"coverage_amount"`
	DurationYears     int                          `db:"duration_years"`
	BaseRate          float64                      `db:"base_rate"`
	MonthlyPremium    int64                        `db:"monthly_premium"`
	AnnualPremium     int64                        `db:"annual_premium"`
	TotalPremium      int64                        `db:"total_premium"`
	Applicant         jsonb[core.Applicant]        `db:"applicant"`
	Nominee           jsonb[core.Nominee]          `db:"nominee"`
	Health            jsonb[core.HealthDisclosure] `db:"health"`
	Status            string                       `db:"status"`
	AssignedAgentID   string                       `db:"assigned_agent_id"`
	RejectionFeedback string                       `db:"rejection_feedback"`
	ReviewedBy        string                       `db:"reviewed_by"`
	AppliedAt         time.Time                    `db:"applied_at"`
	UpdatedAt         time.Time                    `db:"updated_at"`
	ApprovedAt        *time.Time                   `db:"approved_at"`
	RejectedAt        *time.Time                   `db:"rejected_at"`
}

func applicationRowFromCore(a core.Application) applicationRow {
	return applicationRow{
		ID:                a.ID,
		CustomerID:        a.CustomerID,
		CustomerEmail:     a.CustomerEmail,
		PolicyID:          a.PolicyID,
		PolicyTitle:       a.PolicyTitle,
		CoverageAmount:    a.Quote.CoverageAmount,
		DurationYears:     a.Quote.DurationYears,
		BaseRate:          a.Quote.BaseRate,
		MonthlyPremium:    a.Quote.Monthly,
		AnnualPremium:     a.Quote.Annual,
		TotalPremium:      a.Quote.Total,
		Applicant:         jsonb[core.Applicant]{V: a.Applicant},
		Nominee:           jsonb[core.Nominee]{V: a.Nominee},
		Health:            jsonb[core.HealthDisclosure]{V: a.Health},
		Status:            string(a.Status),
		AssignedAgentID:   a.AssignedAgentID,
		RejectionFeedback: a.RejectionFeedback,
		ReviewedBy:        a.ReviewedBy,
		AppliedAt:         a.AppliedAt,
		UpdatedAt:         a.UpdatedAt,
		ApprovedAt:        a.ApprovedAt,
		RejectedAt:        a.RejectedAt,
	}
}

func (r applicationRow) toCore() core.Application {
	return core.Application{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		CustomerEmail: r.CustomerEmail,
		PolicyID:      r.PolicyID,
		PolicyTitle:   r.PolicyTitle,
		Quote: core.Quote{
			PolicyID:       r.PolicyID,
			CoverageAmount: r.CoverageAmount,
			DurationYears:  r.DurationYears,
			BaseRate:       r.BaseRate,
			Premium: core.Premium{
				Monthly: r.MonthlyPremium,
				Annual:  r.AnnualPremium,
				Total:   r.TotalPremium,
			},
		},
		Applicant:         r.Applicant.V,
		Nominee:           r.Nominee.V,
		Health:            r.Health.V,
		Status:            core.ApplicationStatus(r.Status),
		AssignedAgentID:   r.AssignedAgentID,
		RejectionFeedback: r.RejectionFeedback,
		ReviewedBy:        r.ReviewedBy,
		AppliedAt:         r.AppliedAt,
		UpdatedAt:         r.UpdatedAt,
		ApprovedAt:        r.ApprovedAt,
		RejectedAt:        r.RejectedAt,
	}
}

type claimRow struct {
	ID                string     `db:"id"`
	ApplicationID     string     `db:"application_id"`
	PolicyID          string     `db:"policy_id"`
	PolicyTitle       string     `db:"policy_title"`
	CustomerID        string     `db:"customer_id"`
	CustomerEmail     string     `db:"customer_email"`
	Reason            string     `db:"reason"`
	DocumentRef       string     `db:"document_ref"`
	Status            string     `db:"status"`
	RejectionFeedback string     `db:"rejection_feedback"`
	ResolvedBy        string     `db:"resolved_by"`
	SubmittedAt       time.Time  `db:"submitted_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	ApprovedAt        *time.Time `db:"approved_at"`
	RejectedAt        *time.Time `db:"rejected_at"`
}

func claimRowFromCore(c core.Claim) claimRow {
	return claimRow{
		ID:                c.ID,
		ApplicationID:     c.ApplicationID,
		PolicyID:          c.PolicyID,
		PolicyTitle:       c.PolicyTitle,
		CustomerID:        c.CustomerID,
		CustomerEmail:     c.CustomerEmail,
		Reason:            c.Reason,
		DocumentRef:       c.DocumentRef,
		Status:            string(c.Status),
		RejectionFeedback: c.RejectionFeedback,
		ResolvedBy:        c.ResolvedBy,
		SubmittedAt:       c.SubmittedAt,
		UpdatedAt:         c.UpdatedAt,
		ApprovedAt:        c.ApprovedAt,
		RejectedAt:        c.RejectedAt,
	}
}

func (r claimRow) toCore() core.Claim {
	return core.Claim{
		ID:                r.ID,
		ApplicationID:     r.ApplicationID,
		PolicyID:          r.PolicyID,
		PolicyTitle:       r.PolicyTitle,
		CustomerID:        r.CustomerID,
		CustomerEmail:     r.CustomerEmail,
		Reason:            r.Reason,
		DocumentRef:       r.DocumentRef,
		Status:            core.ClaimStatus(r.Status),
		RejectionFeedback: r.RejectionFeedback,
		ResolvedBy:        r.ResolvedBy,
		SubmittedAt:       r.SubmittedAt,
		UpdatedAt:         r.UpdatedAt,
		ApprovedAt:        r.ApprovedAt,
		RejectedAt:        r.RejectedAt,
	}
}

type reviewRow struct {
	ID            string    `db:"id"`
	PolicyID      string    `db:"policy_id"`
	ApplicationID string    `db:"application_id"`
	CustomerID    string    `db:"customer_id"`
	CustomerName  string    `db:"customer_name"`
	Rating        int       `db:"rating"`
	Comment       string    `db:"comment"`
	CreatedAt     time.Time `db:"created_at"`
}

type transactionRow struct {
	ID            string    `db:"id"`
	ApplicationID string    `db:"application_id"`
	PolicyID      string    `db:"policy_id"`
	PolicyTitle   string    `db:"policy_title"`
	CustomerID    string    `db:"customer_id"`
	CustomerEmail string    `db:"customer_email"`
	Amount        int64     `db:"amount"`
	PaymentRef    string    `db:"payment_ref"`
	PaidAt        time.Time `db:"paid_at"`
}
