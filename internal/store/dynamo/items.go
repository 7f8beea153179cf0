package dynamo

import (
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
)

// Fixed-width UTC timestamps sort lexicographically, which the GSI range
// keys rely on.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

type PolicyItem struct {
	ID            string  `dynamodbav:"id"`
	Title         string  `dynamodbav:"title"`
	Category      string  `dynamodbav:"category"`
	Description   string  `dynamodbav:"description,omitempty"`
	MinAge        int     `dynamodbav:"min_age"`
	MaxAge        int     `dynamodbav:"max_age"`
	MinCoverage   int64   `dynamodbav:"min_coverage"`
	MaxCoverage   int64   `dynamodbav:"max_coverage"`
	Durations     []int   `dynamodbav:"durations"`
	BaseRate      float64 `dynamodbav:"base_rate"`
	PurchaseCount int64   `dynamodbav:"purchase_count"`
	CreatedAt     string  `dynamodbav:"created_at"`
	UpdatedAt     string  `dynamodbav:"updated_at"`
}

func (i PolicyItem) ToCore() core.Policy {
	return core.Policy{
		ID:            i.ID,
		Title:         i.Title,
		Category:      i.Category,
		Description:   i.Description,
		MinAge:        i.MinAge,
		MaxAge:        i.MaxAge,
		Coverage:      core.CoverageRange{MinAmount: i.MinCoverage, MaxAmount: i.MaxCoverage},
		Duration:      core.DurationOptions{Options: i.Durations},
		Premium:       core.PremiumDetails{BaseRate: i.BaseRate},
		PurchaseCount: i.PurchaseCount,
		CreatedAt:     parseTime(i.CreatedAt),
		UpdatedAt:     parseTime(i.UpdatedAt),
	}
}

func policyItemFromCore(p core.Policy) PolicyItem {
	return PolicyItem{
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
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

type ApplicantItem struct {
	FullName     string `dynamodbav:"full_name"`
	Email        string `dynamodbav:"email"`
	Phone        string `dynamodbav:"phone"`
	Address      string `dynamodbav:"address"`
	DateOfBirth  string `dynamodbav:"date_of_birth"`
	NationalID   string `dynamodbav:"national_id"`
	Occupation   string `dynamodbav:"occupation,omitempty"`
	AnnualIncome string `dynamodbav:"annual_income,omitempty"`
}

type NomineeItem struct {
	Name         string `dynamodbav:"name"`
	Relationship string `dynamodbav:"relationship"`
	Phone        string `dynamodbav:"phone,omitempty"`
}

type HealthItem struct {
	HeightCm   string   `dynamodbav:"height_cm"`
	WeightKg   string   `dynamodbav:"weight_kg"`
	Smoker     bool     `dynamodbav:"smoker"`
	Conditions []string `dynamodbav:"conditions,omitempty"`
}

type ApplicationItem struct {
	ID                string        `dynamodbav:"id"`
	CustomerID        string        `dynamodbav:"customer_id"`
	CustomerEmail     string        `dynamodbav:"customer_email"`
	PolicyID          string        `dynamodbav:"policy_id"`
	PolicyTitle       string        `dynamodbav:"policy_title"`
	CoverageAmount    int64         `dynamodbav:"coverage_amount"`
	DurationYears     int           `dynamodbav:"duration_years"`
	BaseRate          float64       `dynamodbav:"base_rate"`
	MonthlyPremium    int64         `dynamodbav:"monthly_premium"`
	AnnualPremium     int64         `dynamodbav:"annual_premium"`
	TotalPremium      int64         `dynamodbav:"total_premium"`
	Applicant         ApplicantItem `dynamodbav:"applicant"`
	Nominee           NomineeItem   `dynamodbav:"nominee"`
	Health            HealthItem    `dynamodbav:"health"`
	Status            string        `dynamodbav:"status"`
	AssignedAgentID   string        `dynamodbav:"assigned_agent_id,omitempty"` // sparse GSI
	RejectionFeedback string        `dynamodbav:"rejection_feedback,omitempty"`
	ReviewedBy        string        `dynamodbav:"reviewed_by,omitempty"`
	AppliedAt         string        `dynamodbav:"applied_at"`
	UpdatedAt         string        `dynamodbav:"updated_at"`
	ApprovedAt        string        `dynamodbav:"approved_at,omitempty"`
	RejectedAt        string        `dynamodbav:"rejected_at,omitempty"`
}

func (i ApplicationItem) ToCore() core.Application {
	return core.Application{
		ID:            i.ID,
		CustomerID:    i.CustomerID,
		CustomerEmail: i.CustomerEmail,
		PolicyID:      i.PolicyID,
		PolicyTitle:   i.PolicyTitle,
		Quote: core.Quote{
			PolicyID:       i.PolicyID,
			CoverageAmount: i.CoverageAmount,
			DurationYears:  i.DurationYears,
			BaseRate:       i.BaseRate,
			Premium: core.Premium{
				Monthly: i.MonthlyPremium,
				Annual:  i.AnnualPremium,
				Total:   i.TotalPremium,
			},
		},
		Applicant:         core.Applicant(i.Applicant),
		Nominee:           core.Nominee(i.Nominee),
		Health:            core.HealthDisclosure(i.Health),
		Status:            core.ApplicationStatus(i.Status),
		AssignedAgentID:   i.AssignedAgentID,
		RejectionFeedback: i.RejectionFeedback,
		ReviewedBy:        i.ReviewedBy,
		AppliedAt:         parseTime(i.AppliedAt),
		UpdatedAt:         parseTime(i.UpdatedAt),
		ApprovedAt:        parseTimePtr(i.ApprovedAt),
		RejectedAt:        parseTimePtr(i.RejectedAt),
	}
}

func applicationItemFromCore(a core.Application) ApplicationItem {
	return ApplicationItem{
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
		Applicant:         ApplicantItem(a.Applicant),
		Nominee:           NomineeItem(a.Nominee),
		Health:            HealthItem(a.Health),
		Status:            string(a.Status),
		AssignedAgentID:   a.AssignedAgentID,
		RejectionFeedback: a.RejectionFeedback,
		ReviewedBy:        a.ReviewedBy,
		AppliedAt:         formatTime(a.AppliedAt),
		UpdatedAt:         formatTime(a.UpdatedAt),
		ApprovedAt:        formatTimePtr(a.ApprovedAt),
		RejectedAt:        formatTimePtr(a.RejectedAt),
	}
}

type ClaimItem struct {
	ID                string `dynamodbav:"id"`
	ApplicationID     string `dynamodbav:"application_id"`
	PolicyID          string `dynamodbav:"policy_id"`
	PolicyTitle       string `dynamodbav:"policy_title"`
	CustomerID        string `dynamodbav:"customer_id"`
	CustomerEmail     string `dynamodbav:"customer_email"`
	Reason            string `dynamodbav:"reason"`
	DocumentRef       string `dynamodbav:"document_ref"`
	Status            string `dynamodbav:"status"`
	RejectionFeedback string `dynamodbav:"rejection_feedback,omitempty"`
	ResolvedBy        string `dynamodbav:"resolved_by,omitempty"`
	SubmittedAt       string `dynamodbav:"submitted_at"`
	UpdatedAt         string `dynamodbav:"updated_at"`
	ApprovedAt        string `dynamodbav:"approved_at,omitempty"`
	RejectedAt        string `dynamodbav:"rejected_at,omitempty"`
}

func (i ClaimItem) ToCore() core.Claim {
	return core.Claim{
		ID:                i.ID,
		ApplicationID:     i.ApplicationID,
		PolicyID:          i.PolicyID,
		PolicyTitle:       i.PolicyTitle,
		CustomerID:        i.CustomerID,
		CustomerEmail:     i.CustomerEmail,
		Reason:            i.Reason,
		DocumentRef:       i.DocumentRef,
		Status:            core.ClaimStatus(i.Status),
		RejectionFeedback: i.RejectionFeedback,
		ResolvedBy:        i.ResolvedBy,
		SubmittedAt:       parseTime(i.SubmittedAt),
		UpdatedAt:         parseTime(i.UpdatedAt),
		ApprovedAt:        parseTimePtr(i.ApprovedAt),
		RejectedAt:        parseTimePtr(i.RejectedAt),
	}
}

func claimItemFromCore(c core.Claim) ClaimItem {
	return ClaimItem{
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
		SubmittedAt:       formatTime(c.SubmittedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
		ApprovedAt:        formatTimePtr(c.ApprovedAt),
		RejectedAt:        formatTimePtr(c.RejectedAt),
	}
}

type ReviewItem struct {
	ID            string `dynamodbav:"id"`
	PolicyID      string `dynamodbav:"policy_id"`
	ApplicationID string `dynamodbav:"application_id"`
	CustomerID    string `dynamodbav:"customer_id"`
	CustomerName  string `dynamodbav:"customer_name"`
	Rating        int    `dynamodbav:"rating"`
	Comment       string `dynamodbav:"comment,omitempty"`
	CreatedAt     string `dynamodbav:"created_at"`
}

func (i ReviewItem) ToCore() core.Review {
	return core.Review{
		ID:            i.ID,
		PolicyID:      i.PolicyID,
		ApplicationID: i.ApplicationID,
		CustomerID:    i.CustomerID,
		CustomerName:  i.CustomerName,
		Rating:        i.Rating,
		Comment:       i.Comment,
		CreatedAt:     parseTime(i.CreatedAt),
	}
}

func reviewItemFromCore(r core.Review) ReviewItem {
	return ReviewItem{
		ID:            r.ID,
		PolicyID:      r.PolicyID,
		ApplicationID: r.ApplicationID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     formatTime(r.CreatedAt),
	}
}

type TransactionItem struct {
	ID            string `dynamodbav:"id"`
	ApplicationID string `dynamodbav:"application_id"`
	PolicyID      string `dynamodbav:"policy_id"`
	PolicyTitle   string `dynamodbav:"policy_title"`
	CustomerID    string `dynamodbav:"customer_id"`
	CustomerEmail string `dynamodbav:"customer_email"`
	Amount        int64  `dynamodbav:"amount"`
	PaymentRef    string `dynamodbav:"payment_ref"`
	PaidAt        string `dynamodbav:"paid_at"`
}

func (i TransactionItem) ToCore() core.Transaction {
	return core.Transaction{
		ID:            i.ID,
		ApplicationID: i.ApplicationID,
		PolicyID:      i.PolicyID,
		PolicyTitle:   i.PolicyTitle,
		CustomerID:    i.CustomerID,
		CustomerEmail: i.CustomerEmail,
		Amount:        i.Amount,
		PaymentRef:    i.PaymentRef,
		PaidAt:        parseTime(i.PaidAt),
	}
}

func transactionItemFromCore(t core.Transaction) TransactionItem {
	return TransactionItem{
		ID:            t.ID,
		ApplicationID: t.ApplicationID,
		PolicyID:      t.PolicyID,
		PolicyTitle:   t.PolicyTitle,
		CustomerID:    t.CustomerID,
		CustomerEmail: t.CustomerEmail,
		Amount:        t.Amount,
		PaymentRef:    t.PaymentRef,
		PaidAt:        formatTime(t.PaidAt),
	}
}

// UniqueKeyItem reserves a natural key (one claim per application, one review
// per application, one transaction per payment reference).
type UniqueKeyItem struct {
	Key     string `dynamodbav:"unique_key"`
	OwnerID string `dynamodbav:"owner_id"`
}

func claimKey(applicationID string) string { return "claim#" + applicationID }
func reviewKey(applicationID string) string { return "review#" + applicationID }
func paymentKey(ref string) string { return "payment#" + ref }
