package core

import (
	"context"
	"errors"
	"fmt"
)

type quoteService struct {
	policies PolicyRepo
}

func NewQuoteService(policies PolicyRepo) QuoteService {
	return &quoteService{policies: policies}
}

func (s *quoteService) Quote(ctx context.Context, in QuoteInput) (Quote, error) {
	// 1) validate inputs
	if err := in.Validate(); err != nil {
		return Quote{}, err
	}

	// 2) load policy
	p, err := s.policies.Get(ctx, in.PolicyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Quote{}, fmt.Errorf("%w: policy %q", ErrNotFound, in.PolicyID)
		}
		return Quote{}, err
	}

	// 3) price against policy bounds
	return NewQuote(p, in.CoverageAmount, in.DurationYears)
}
