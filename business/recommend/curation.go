package recommend

import (
	"fmt"
	"strings"

	"smartCatalog/business/catalog"
	"smartCatalog/domain"
)

// Smart recommendation categories.
const (
	CategoryBudgetBest      = "budget_best"
	CategoryPerformanceBest = "performance_best"
	CategoryValueBest       = "value_best"
	CategoryAll             = "all"
)

type smartCategory struct {
	name           string
	title          string
	description    string
	rationale      string
	constraints    domain.ConstraintSet
	weights        Weights
	targetAudience []string
	keyBenefits    []string
}

func floatPtr(v float64) *float64 { return &v }

// smartCategories is the fixed curation catalog, in response order.
var smartCategories = []smartCategory{
	{
		name:           CategoryBudgetBest,
		title:          "Best Budget Business Laptops",
		description:    "Top value laptops under $1,200 that don't compromise on essential features",
		rationale:      "Best value for budget",
		constraints:    domain.ConstraintSet{BudgetMax: floatPtr(1200)},
		weights:        Weights{Price: 0.55, Numeric: 0.15, Nice: 0.10, Rating: 0.20},
		targetAudience: []string{"students", "small businesses", "budget-conscious buyers"},
		keyBenefits:    []string{"Affordable pricing", "Essential business features", "Reliable performance"},
	},
	{
		name:           CategoryPerformanceBest,
		title:          "High Performance Business Laptops",
		description:    "Top-tier laptops for demanding workloads and professional applications",
		rationale:      "High performance specs",
		constraints:    domain.ConstraintSet{MinMemoryGB: 16, MinStorageGB: 512},
		weights:        Weights{Price: 0.05, Numeric: 0.50, Nice: 0.10, Rating: 0.35},
		targetAudience: []string{"power users", "developers", "creative professionals"},
		keyBenefits:    []string{"High-end processors", "Ample RAM", "Fast storage"},
	},
	{
		name:           CategoryValueBest,
		title:          "Best Value Business Laptops",
		description:    "Perfect balance of price, performance, and features for most users",
		rationale:      "Best price-performance ratio",
		constraints:    domain.ConstraintSet{BudgetMax: floatPtr(1500), MinRating: 4.0, MinMemoryGB: 8, MinStorageGB: 256},
		weights:        Weights{Price: 0.35, Numeric: 0.35, Nice: 0.10, Rating: 0.20},
		targetAudience: []string{"professionals", "general users", "value seekers"},
		keyBenefits:    []string{"Balanced performance", "Good pricing", "Strong reviews"},
	},
}

// ValidCategory reports whether name is a known category or "all".
func ValidCategory(name string) bool {
	if name == "" || name == CategoryAll {
		return true
	}
	for _, sc := range smartCategories {
		if sc.name == name {
			return true
		}
	}
	return false
}

// curate computes the top pick of each requested category against idx.
// Categories with no eligible candidate are omitted.
func curate(idx *catalog.Index, category string, cfg Config) ([]domain.SmartRecommendation, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}

	out := make([]domain.SmartRecommendation, 0, len(smartCategories))
	for _, sc := range smartCategories {
		if category != "" && category != CategoryAll && category != sc.name {
			continue
		}
		ranked := scoreAll(idx.Candidates(), sc.constraints, nil, sc.weights, cfg)
		if len(ranked) == 0 {
			continue
		}
		pick := ranked[0]
		decorate(&pick, sc.constraints)

		out = append(out, domain.SmartRecommendation{
			Category:       sc.name,
			Title:          sc.title,
			Description:    sc.description,
			Pick:           pick,
			Rationale:      fmt.Sprintf("%s: %s", sc.rationale, pick.Explanation),
			TargetAudience: append([]string(nil), sc.targetAudience...),
			KeyBenefits:    append([]string(nil), sc.keyBenefits...),
		})
	}

	return out, nil
}
