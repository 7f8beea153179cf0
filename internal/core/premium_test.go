package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/core"
)

func termLife() core.Policy {
	return core.Policy{
		ID:       "pol-term",
		Title:    "Term Life Secure",
		Category: "life",
		MinAge:   18,
		MaxAge:   65,
		Coverage: core.CoverageRange{MinAmount: 100000, MaxAmount: 5000000},
		Duration: core.DurationOptions{Options: []int{10, 15, 20, 25}},
		Premium:  core.PremiumDetails{BaseRate: 0.5},
	}
}

func TestCalculatePremium(t *testing.T) {
	p := termLife()

	tests := []struct {
		name     string
		coverage int64
		years    int
		want     core.Premium
	}{
		{"reference quote", 500000, 20, core.Premium{Annual: 2500, Monthly: 208, Total: 50000}},
		{"minimum coverage", 100000, 10, core.Premium{Annual: 500, Monthly: 42, Total: 5000}},
		{"maximum coverage", 5000000, 25, core.Premium{Annual: 25000, Monthly: 2083, Total: 625000}},
		{"annual rounds half up", 100100, 10, core.Premium{Annual: 501, Monthly: 42, Total: 5010}},
		{"annual rounds down below half", 100099, 15, core.Premium{Annual: 500, Monthly: 42, Total: 7500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.CalculatePremium(p, tt.coverage, tt.years)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculatePremium_MonthlyHalfUp(t *testing.T) {
	p := termLife()
	p.Premium.BaseRate = 1
	p.Coverage.MinAmount = 1

	// 600/12 = 50 exactly, 606/12 = 50.5 rounds up
	got, err := core.CalculatePremium(p, 60600, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(606), got.Annual)
	assert.Equal(t, int64(51), got.Monthly)
}

func TestCalculatePremium_Rejects(t *testing.T) {
	p := termLife()

	tests := []struct {
		name     string
		policy   core.Policy
		coverage int64
		years    int
	}{
		{"below minimum coverage", p, 99999, 20},
		{"above maximum coverage", p, 5000001, 20},
		{"duration not offered", p, 500000, 12},
		{"zero rate", func() core.Policy { q := termLife(); q.Premium.BaseRate = 0; return q }(), 500000, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.CalculatePremium(tt.policy, tt.coverage, tt.years)
			assert.ErrorIs(t, err, core.ErrInvalidQuote)
		})
	}
}

func TestNewQuote_SnapshotsRate(t *testing.T) {
	q, err := core.NewQuote(termLife(), 500000, 20)
	require.NoError(t, err)
	assert.Equal(t, "pol-term", q.PolicyID)
	assert.Equal(t, 0.5, q.BaseRate)
	assert.Equal(t, int64(208), q.Monthly)
}
