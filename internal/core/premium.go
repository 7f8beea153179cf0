package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Premium holds the yearly, monthly and whole-term cost of a coverage, in
// whole currency units.
type Premium struct {
	Monthly int64 `json:"monthly"`
	Annual  int64 `json:"annual"`
	Total   int64 `json:"total"`
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// CalculatePremium prices coverageAmount over durationYears for policy p.
// The annual figure is rounded half-up first and the other two are derived
// from it, so the triple is always mutually consistent.
func CalculatePremium(p Policy, coverageAmount int64, durationYears int) (Premium, error) {
	if coverageAmount < p.Coverage.MinAmount || coverageAmount > p.Coverage.MaxAmount {
		return Premium{}, fmt.Errorf("%w: coverage must be between %d and %d",
			ErrInvalidQuote, p.Coverage.MinAmount, p.Coverage.MaxAmount)
	}
	if !p.AllowsDuration(durationYears) {
		return Premium{}, fmt.Errorf("%w: duration must be one of %v years",
			ErrInvalidQuote, p.Duration.Options)
	}
	if p.Premium.BaseRate <= 0 {
		return Premium{}, fmt.Errorf("%w: policy %s has no base rate", ErrInvalidQuote, p.ID)
	}

	rate := decimal.NewFromFloat(p.Premium.BaseRate)
	annual := decimal.NewFromInt(coverageAmount).Mul(rate).Div(hundred).Round(0)
	monthly := annual.Div(twelve).Round(0)

	return Premium{
		Monthly: monthly.IntPart(),
		Annual:  annual.IntPart(),
		Total:   annual.IntPart() * int64(durationYears),
	}, nil
}
