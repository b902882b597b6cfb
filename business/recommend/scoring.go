package recommend

import (
	"math"
	"strings"

	"smartCatalog/domain"
)

// Bias is the per-feature personalization delta view handed to the scorer.
type Bias map[string]float64

// Score evaluates one candidate against one constraint set. It never fails; a
// candidate that violates a hard filter comes back with Eligible=false.
func Score(c domain.ProductCandidate, cs domain.ConstraintSet, bias Bias, w Weights, cfg Config) domain.ScoredCandidate {
	sc := domain.ScoredCandidate{
		Candidate:   c,
		MatchedMust: []string{},
		MissingMust: []string{},
		MatchedNice: []string{},
		MissingNice: []string{},
	}

	for _, t := range cs.MustHave {
		if MatchToken(c, t) {
			sc.MatchedMust = append(sc.MatchedMust, t)
		} else {
			sc.MissingMust = append(sc.MissingMust, t)
		}
	}
	for _, t := range cs.NiceHave {
		if MatchToken(c, t) {
			sc.MatchedNice = append(sc.MatchedNice, t)
		} else {
			sc.MissingNice = append(sc.MissingNice, t)
		}
	}

	price, withinMargin := priceFit(c.Price, cs.BudgetMin, cs.BudgetMax, cfg)

	sc.SubScores = domain.SubScores{
		Nice:    niceScore(len(sc.MatchedNice), len(cs.NiceHave)),
		Numeric: numericFit(c, cs, cfg),
		Price:   price,
		Rating:  ratingScore(c.Rating, c.ReviewCount, cfg),
		Bonus:   preferenceBonus(c, cs, bias, cfg),
	}

	total := w.Price*sc.SubScores.Price +
		w.Numeric*sc.SubScores.Numeric +
		w.Nice*sc.SubScores.Nice +
		w.Rating*sc.SubScores.Rating +
		sc.SubScores.Bonus
	sc.Score = clip(total, 0, 1)
	sc.MatchScore = int(math.Round(sc.Score * 100))

	sc.Eligible = sc.MustGate() && withinMargin && passesHardFilters(c, cs)

	return sc
}

func passesHardFilters(c domain.ProductCandidate, cs domain.ConstraintSet) bool {
	if len(cs.BrandAllowlist) > 0 && !containsFold(cs.BrandAllowlist, c.Brand) {
		return false
	}
	if cs.MinRating > 0 && c.Rating < cs.MinRating {
		return false
	}
	return true
}

func niceScore(matched, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}

// numericFit averages a logistic ramp over every stated minimum: 0 below the
// minimum, 0.5 at it, approaching 1 as the value exceeds it by the margin.
func numericFit(c domain.ProductCandidate, cs domain.ConstraintSet, cfg Config) float64 {
	var sum float64
	n := 0
	if cs.MinMemoryGB > 0 {
		sum += logisticRamp(float64(c.MemoryGB), float64(cs.MinMemoryGB), cfg)
		n++
	}
	if cs.MinStorageGB > 0 {
		sum += logisticRamp(float64(c.StorageGB), float64(cs.MinStorageGB), cfg)
		n++
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

func logisticRamp(x, minimum float64, cfg Config) float64 {
	if x < minimum {
		return 0
	}
	z := cfg.NumericSteepness * (x - minimum) / (cfg.NumericMargin * minimum)
	return 1 / (1 + math.Exp(-z))
}

// priceFit is non-decreasing in budgetMax for a fixed price. The second return is
// false when the price is beyond the over-budget margin.
func priceFit(price float64, budgetMin, budgetMax *float64, cfg Config) (float64, bool) {
	fit := 1.0
	within := true

	if budgetMax != nil {
		b := *budgetMax
		limit := b * (1 + cfg.OverBudgetMargin)
		switch {
		case b <= 0:
			if price > 0 {
				fit, within = 0, false
			}
		case price <= b:
			fit = 1 - cfg.InBudgetSlope*price/b
		case price <= limit:
			fit = (1 - cfg.InBudgetSlope) * (1 - (price-b)/(b*cfg.OverBudgetMargin))
		default:
			fit, within = 0, false
		}
	}

	if budgetMin != nil && *budgetMin > 0 && price < *budgetMin {
		fit *= 1 - clip((*budgetMin-price) / *budgetMin, 0, 1)
	}

	return clip(fit, 0, 1), within
}

func ratingScore(rating float64, reviews int, cfg Config) float64 {
	base := clip(rating, 0, 5) / 5
	evidence := 1.0
	if cfg.MinEvidenceReviews > 0 {
		evidence = math.Min(1, float64(reviews)/float64(cfg.MinEvidenceReviews))
	}
	return base * (cfg.RatingEvidenceFloor + (1-cfg.RatingEvidenceFloor)*evidence)
}

// preferenceBonus is bounded per component and in total so it can never lift a
// candidate past the must-have gate or dominate the weighted sum.
func preferenceBonus(c domain.ProductCandidate, cs domain.ConstraintSet, bias Bias, cfg Config) float64 {
	var brand, processor, personal float64

	if len(cs.PreferredBrands) > 0 && containsFold(cs.PreferredBrands, c.Brand) {
		brand = cfg.BrandBonus
	}
	if cs.ProcessorPreference != "" && processorMatches(c, cs.ProcessorPreference) {
		processor = cfg.ProcessorBonus
	}
	if len(bias) > 0 {
		var sum float64
		for _, t := range c.Tokens() {
			sum += bias[t]
		}
		personal = cfg.PersonalizationScale * sum
	}

	capc := cfg.MaxComponentBonus
	total := clip(brand, -capc, capc) + clip(processor, -capc, capc) + clip(personal, -capc, capc)
	return clip(total, -cfg.MaxBonus, cfg.MaxBonus)
}

func processorMatches(c domain.ProductCandidate, pref string) bool {
	if c.CPUVendor == pref {
		return true
	}
	return c.Processor != "" && strings.Contains(domain.NormalizeToken(c.Processor), pref)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
