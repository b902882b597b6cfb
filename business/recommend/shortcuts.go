package recommend

import (
	"context"
	"fmt"

	"smartCatalog/domain"
)

const (
	MaxShortcutLimit     = 10
	DefaultQuickLimit    = 3
	DefaultTrendingLimit = 5
	DefaultQuickUseCase  = UseCaseBusiness

	tierPicks      = 2
	trendingBudget = 1500.0
	trendingRating = 4.2
)

type budgetTier struct {
	name        string
	maxBudget   float64
	description string
}

var budgetTiers = []budgetTier{
	{"Budget", 800, "Essential features for basic use"},
	{"Mid-Range", 1200, "Balanced performance and features"},
	{"Premium", 1800, "High-end specifications and features"},
	{"Enterprise", 2500, "Top-tier business laptops"},
}

// quickProfile is the automatic requirement set of one quick use case. label is
// what the caller sees; memory and nice are what the scorer gets.
type quickProfile struct {
	label    []string
	memoryGB int
	nice     []string
}

var quickProfiles = map[string]quickProfile{
	"business":    {label: []string{"8gb ram", "ssd", "fingerprint"}, memoryGB: 8, nice: []string{"ssd", "fingerprint"}},
	"programming": {label: []string{"16gb ram", "ssd", "fast processor"}, memoryGB: 16, nice: []string{"ssd"}},
	"gaming":      {label: []string{"16gb ram", "dedicated graphics", "fast processor"}, memoryGB: 16, nice: []string{"dedicated graphics"}},
	"travel":      {label: []string{"lightweight", "battery life", "14 inch"}, nice: []string{"lightweight", "battery life"}},
	"office":      {label: []string{"8gb ram", "ssd"}, memoryGB: 8, nice: []string{"ssd"}},
	"student":     {label: []string{"budget friendly", "basic features"}},
}

var trendingBasis = []string{"good value", "business use", "reliable"}

func validateShortcutLimit(limit int) error {
	if limit < 1 || limit > MaxShortcutLimit {
		return domain.NewConstraintError("limit", "must be in [1,%d], got %d", MaxShortcutLimit, limit)
	}
	return nil
}

// BudgetTiers runs the business preset once per price band and keeps the top two
// of each.
func (s *Service) BudgetTiers(ctx context.Context) ([]domain.BudgetTierRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make([]domain.BudgetTierRecommendation, 0, len(budgetTiers))
	for _, tier := range budgetTiers {
		budget := tier.maxBudget
		resp, err := s.Recommend(ctx, "", domain.RecommendRequest{
			BudgetMax: &budget,
			UseCase:   UseCaseBusiness,
			Limit:     tierPicks,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, domain.BudgetTierRecommendation{
			Tier:        tier.name,
			BudgetRange: fmt.Sprintf("Up to $%.0f", tier.maxBudget),
			MaxBudget:   tier.maxBudget,
			Description: tier.description,
			Results:     resp.Results,
			Relaxed:     resp.Relaxed,
		})
	}
	return out, nil
}

// Quick fills in requirements for a named use case. Use cases without an
// automatic profile run with the preset alone.
func (s *Service) Quick(ctx context.Context, useCase string, budget *float64, limit int) (domain.QuickRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.QuickRecommendation{}, fmt.Errorf("context error: %w", err)
	}
	if err := validateShortcutLimit(limit); err != nil {
		return domain.QuickRecommendation{}, err
	}

	key := domain.NormalizeToken(useCase)
	if key == "" {
		key = DefaultQuickUseCase
	}
	qp := quickProfiles[key]

	req := domain.RecommendRequest{
		BudgetMax: budget,
		UseCase:   key,
		NiceHave:  append([]string(nil), qp.nice...),
		Limit:     limit,
	}
	if qp.memoryGB > 0 {
		m := qp.memoryGB
		req.MinMemoryGB = &m
	}

	resp, err := s.Recommend(ctx, "", req)
	if err != nil {
		return domain.QuickRecommendation{}, err
	}

	return domain.QuickRecommendation{
		UseCase:          key,
		Budget:           copyFloat(budget),
		AutoRequirements: append([]string{}, qp.label...),
		Response:         resp,
	}, nil
}

// Trending ranks the business preset at a popular price point with a raised
// rating floor.
func (s *Service) Trending(ctx context.Context, limit int) (domain.TrendingRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrendingRecommendation{}, fmt.Errorf("context error: %w", err)
	}
	if err := validateShortcutLimit(limit); err != nil {
		return domain.TrendingRecommendation{}, err
	}

	budget, rating := trendingBudget, trendingRating
	resp, err := s.Recommend(ctx, "", domain.RecommendRequest{
		BudgetMax: &budget,
		UseCase:   UseCaseBusiness,
		MinRating: &rating,
		Limit:     limit,
	})
	if err != nil {
		return domain.TrendingRecommendation{}, err
	}

	return domain.TrendingRecommendation{
		Results: resp.Results,
		Basis:   append([]string(nil), trendingBasis...),
		Note:    "Based on popular configurations and price points",
	}, nil
}
