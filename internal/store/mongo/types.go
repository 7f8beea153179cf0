package mongo

import (
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
)

const (
	ColPolicies     = "policies"
	ColApplications = "applications"
	ColClaims       = "claims"
	ColReviews      = "reviews"
	ColTransactions = "transactions"
)

// Policy
type PolicyDoc struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Category      string    `bson:"category"`
	Description   string    `bson:"description,omitempty"`
	MinAge        int       `bson:"min_age"`
	MaxAge        int       `bson:"max_age"`
	MinCoverage   int64     `bson:"min_coverage"`
	MaxCoverage   int64     `bson:"max_coverage"`
	Durations     []int     `bson:"durations"`
	BaseRate      float64   `bson:"base_rate"`
	PurchaseCount int64     `bson:"purchase_count"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toPolicyDoc(p core.Policy) PolicyDoc {
	return PolicyDoc{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category,
		Description:   p.Description,
		MinAge:        p.MinAge,
		MaxAge:        p.MaxAge,
		MinCoverage:   p.Coverage.MinAmount,
		MaxCoverage:   p.Coverage.MaxAmount,
		Durations:     p.Duration.Options,
		BaseRate:      p.Premium.BaseRate,
		PurchaseCount: p.PurchaseCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fromPolicyDoc(d PolicyDoc) core.Policy {
	return core.Policy{
		ID:            d.ID,
		Title:         d.Title,
		Category:      d.Category,
		Description:   d.Description,
		MinAge:        d.MinAge,
		MaxAge:        d.MaxAge,
		Coverage:      core.CoverageRange{MinAmount: d.MinCoverage, MaxAmount: d.MaxCoverage},
		Duration:      core.DurationOptions{Options: d.Durations},
		Premium:       core.PremiumDetails{BaseRate: d.BaseRate},
		PurchaseCount: d.PurchaseCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Application
type QuoteDoc struct {
	CoverageAmount int64   `bson:"coverage_amount"`
	DurationYears  int     `bson:"duration_years"`
	BaseRate       float64 `bson:"base_rate"`
	Monthly        int64   `bson:"monthly"`
	Annual         int64   `bson:"annual"`
	Total          int64   `bson:"total"`
}

type ApplicationDoc struct {
	ID                string                `bson:"_id"`
	CustomerID        string                `bson:"customer_id"`
	CustomerEmail     string                `bson:"customer_email"`
	PolicyID          string                `bson:"policy_id"`
	PolicyTitle       string                `bson:"policy_title"`
	Quote             QuoteDoc              `bson:"quote"`
	Applicant         core.Applicant        `bson:"applicant"`
	Nominee           core.Nominee          `bson:"nominee"`
	Health            core.HealthDisclosure `bson:"health"`
	Status            string                `bson:"status"`
	AssignedAgentID   string                `bson:"assigned_agent_id,omitempty"`
	RejectionFeedback string                `bson:"rejection_feedback,omitempty"`
	ReviewedBy        string                `bson:"reviewed_by,omitempty"`
	AppliedAt         time.Time             `bson:"applied_at"`
	UpdatedAt         time.Time             `bson:"updated_at"`
	ApprovedAt        *time.Time            `bson:"approved_at,omitempty"`
	RejectedAt        *time.Time            `bson:"rejected_at,omitempty"`
}

func toApplicationDoc(a core.Application) ApplicationDoc {
	return ApplicationDoc{
		ID:            a.ID,
		CustomerID:    a.CustomerID,
		CustomerEmail: a.CustomerEmail,
		PolicyID:      a.PolicyID,
		PolicyTitle:   a.PolicyTitle,
		Quote: QuoteDoc{
			CoverageAmount: a.Quote.CoverageAmount,
			DurationYears:  a.Quote.DurationYears,
			BaseRate:       a.Quote.BaseRate,
			Monthly:        a.Quote.Monthly,
			Annual:         a.Quote.Annual,
			Total:          a.Quote.Total,
		},
		Applicant:         a.Applicant,
		Nominee:           a.Nominee,
		Health:            a.Health,
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

func fromApplicationDoc(d ApplicationDoc) core.Application {
	return core.Application{
		ID:            d.ID,
		CustomerID:    d.CustomerID,
		CustomerEmail: d.CustomerEmail,
		PolicyID:      d.PolicyID,
		PolicyTitle:   d.PolicyTitle,
		Quote: core.Quote{
			PolicyID:       d.PolicyID,
			CoverageAmount: d.Quote.CoverageAmount,
			DurationYears:  d.Quote.DurationYears,
			BaseRate:       d.Quote.BaseRate,
			Premium: core.Premium{
				Monthly: d.Quote.Monthly,
				Annual:  d.Quote.Annual,
				Total:   d.Quote.Total,
			},
		},
		Applicant:         d.Applicant,
		Nominee:           d.Nominee,
		Health:            d.Health,
		Status:            core.ApplicationStatus(d.Status),
		AssignedAgentID:   d.AssignedAgentID,
		RejectionFeedback: d.RejectionFeedback,
		ReviewedBy:        d.ReviewedBy,
		AppliedAt:         d.AppliedAt,
		UpdatedAt:         d.UpdatedAt,
		ApprovedAt:        d.ApprovedAt,
		RejectedAt:        d.RejectedAt,
	}
}

// Claim
type ClaimDoc struct {
	ID                string     `bson:"_id"`
	ApplicationID     string     `bson:"application_id"` // unique index
	PolicyID          string     `bson:"policy_id"`
	PolicyTitle       string     `bson:"policy_title"`
	CustomerID        string     `bson:"customer_id"`
	CustomerEmail     string     `bson:"customer_email"`
	Reason            string     `bson:"reason"`
	DocumentRef       string     `bson:"document_ref"`
	Status            string     `bson:"status"`
	RejectionFeedback string     `bson:"rejection_feedback,omitempty"`
	ResolvedBy        string     `bson:"resolved_by,omitempty"`
	SubmittedAt       time.Time  `bson:"submitted_at"`
	UpdatedAt         time.Time  `bson:"updated_at"`
	ApprovedAt        *time.Time `bson:"approved_at,omitempty"`
	RejectedAt        *time.Time `bson:"rejected_at,omitempty"`
}

func toClaimDoc(c core.Claim) ClaimDoc {
	return ClaimDoc{
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

func fromClaimDoc(d ClaimDoc) core.Claim {
	return core.Claim{
		ID:                d.ID,
		ApplicationID:     d.ApplicationID,
		PolicyID:          d.PolicyID,
		PolicyTitle:       d.PolicyTitle,
		CustomerID:        d.CustomerID,
		CustomerEmail:     d.CustomerEmail,
		Reason:            d.Reason,
		DocumentRef:       d.DocumentRef,
		Status:            core.ClaimStatus(d.Status),
		RejectionFeedback: d.RejectionFeedback,
		ResolvedBy:        d.ResolvedBy,
		SubmittedAt:       d.SubmittedAt,
		UpdatedAt:         d.UpdatedAt,
		ApprovedAt:        d.ApprovedAt,
		RejectedAt:        d.RejectedAt,
	}
}

// Review
type ReviewDoc struct {
	ID            string    `bson:"_id"`
	PolicyID      string    `bson:"policy_id"`
	ApplicationID string    `bson:"application_id"` // unique index
	CustomerID    string    `bson:"customer_id"`
	CustomerName  string    `bson:"customer_name"`
	Rating        int       `bson:"rating"`
	Comment       string    `bson:"comment,omitempty"`
	CreatedAt     time.Time `bson:"created_at"`
}

func toReviewDoc(r core.Review) ReviewDoc { return ReviewDoc(r) }
func fromReviewDoc(d ReviewDoc) core.Review { return core.Review(d) }

// Transaction
type TransactionDoc struct {
	ID            string    `bson:"_id"`
	ApplicationID string    `bson:"application_id"`
	PolicyID      string    `bson:"policy_id"`
	PolicyTitle   string    `bson:"policy_title"`
	CustomerID    string    `bson:"customer_id"`
	CustomerEmail string    `bson:"customer_email"`
	Amount        int64     `bson:"amount"`
	PaymentRef    string    `bson:"payment_ref"` // unique index
	PaidAt        time.Time `bson:"paid_at"`
}

func toTransactionDoc(t core.Transaction) TransactionDoc { return TransactionDoc(t) }
func fromTransactionDoc(d TransactionDoc) core.Transaction { return core.Transaction(d) }
