package core

import (
	"context"
	"fmt"
	"strings"
)

type QuoteInput struct {
	PolicyID       string `json:"policy_id"`
	CoverageAmount int64  `json:"coverage_amount"`
	DurationYears  int    `json:"duration_years"`
}

// Quote is a priced coverage request. Applications embed it as a frozen
// snapshot, so later rate changes never touch submitted economics.
type Quote struct {
	PolicyID       string  `json:"policy_id"`
	CoverageAmount int64   `json:"coverage_amount"`
	DurationYears  int     `json:"duration_years"`
	BaseRate       float64 `json:"base_rate"`
	Premium
}

// Pricing is pure domain logic; the only I/O is reading the policy.
type QuoteService interface {
	Quote(ctx context.Context, in QuoteInput) (Quote, error)
}

func (in QuoteInput) Validate() error {
	if strings.TrimSpace(in.PolicyID) == "" {
		return fmt.Errorf("%w: missing policy id", ErrInvalidQuote)
	}
	if in.CoverageAmount <= 0 {
		return fmt.Errorf("%w: coverage must be > 0", ErrInvalidQuote)
	}
	if in.DurationYears <= 0 {
		return fmt.Errorf("%w: duration must be > 0", ErrInvalidQuote)
	}
	return nil
}

// NewQuote prices in against p.
func NewQuote(p Policy, coverageAmount int64, durationYears int) (Quote, error) {
	premium, err := CalculatePremium(p, coverageAmount, durationYears)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		PolicyID:       p.ID,
		CoverageAmount: coverageAmount,
		DurationYears:  durationYears,
		BaseRate:       p.Premium.BaseRate,
		Premium:        premium,
	}, nil
}
