package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type CoverageRange struct {
	MinAmount int64 `json:"min_amount"`
	MaxAmount int64 `json:"max_amount"`
}

type DurationOptions struct {
	Options []int `json:"options"` // years
}

type PremiumDetails struct {
	BaseRate float64 `json:"base_rate"` // annual percent of coverage
}

// Policy is a product in the catalog that customers apply for.
type Policy struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	MinAge        int             `json:"min_age"`
	MaxAge        int             `json:"max_age"`
	Coverage      CoverageRange   `json:"coverage"`
	Duration      DurationOptions `json:"duration"`
	Premium       PremiumDetails  `json:"premium"`
	PurchaseCount int64           `json:"purchase_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PolicyInput is the admin-editable part of a Policy.
type PolicyInput struct {
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	MinAge      int             `json:"min_age"`
	MaxAge      int             `json:"max_age"`
	Coverage    CoverageRange   `json:"coverage"`
	Duration    DurationOptions `json:"duration"`
	Premium     PremiumDetails  `json:"premium"`
}

const (
	PolicySortNewest  = "newest"
	PolicySortPopular = "popular"
)

type PolicyFilter struct {
	Category string
	Search   string
	Sort     string
	Limit    int
}

type PolicyRepo interface {
	Create(ctx context.Context, p Policy) error
	Get(ctx context.Context, id string) (Policy, error)
	Update(ctx context.Context, p Policy) error
	List(ctx context.Context, filter PolicyFilter) ([]Policy, error)
}

func (in PolicyInput) Validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		ve.Add("title", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		ve.Add("category", "is required")
	}
	if in.MinAge < 0 || in.MaxAge < in.MinAge {
		ve.Add("max_age", "must be >= min_age and min_age must be >= 0")
	}
	if in.Coverage.MinAmount <= 0 || in.Coverage.MaxAmount < in.Coverage.MinAmount {
		ve.Add("coverage", "invalid coverage range")
	}
	if len(in.Duration.Options) == 0 {
		ve.Add("duration.options", "at least one option is required")
	}
	for _, y := range in.Duration.Options {
		if y <= 0 {
			ve.Add("duration.options", fmt.Sprintf("option %d must be > 0", y))
			break
		}
	}
	if in.Premium.BaseRate <= 0 {
		ve.Add("premium.base_rate", "must be > 0")
	}
	return ve.Err()
}

// Apply copies the editable fields onto p, leaving identity and counters alone.
func (in PolicyInput) Apply(p Policy) Policy {
	p.Title = strings.TrimSpace(in.Title)
	p.Category = strings.TrimSpace(in.Category)
	p.Description = in.Description
	p.MinAge = in.MinAge
	p.MaxAge = in.MaxAge
	p.Coverage = in.Coverage
	p.Duration = DurationOptions{Options: append([]int(nil), in.Duration.Options...)}
	p.Premium = in.Premium
	return p
}

// AllowsDuration reports whether years is one of the offered terms.
func (p Policy) AllowsDuration(years int) bool {
	for _, y := range p.Duration.Options {
		if y == years {
			return true
		}
	}
	return false
}

var (
	ErrPolicyNotFound = fmt.Errorf("%w: policy not found", ErrNotFound)
	ErrPolicyExists   = fmt.Errorf("%w: policy already exists", ErrConflict)
)
