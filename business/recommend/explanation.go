package recommend

import (
	"fmt"
	"sort"
	"strings"

	"smartCatalog/domain"
)

// decorate fills the human-readable fields of a scored candidate.
func decorate(sc *domain.ScoredCandidate, cs domain.ConstraintSet) {
	sc.Explanation = explain(*sc, cs)
	sc.Strengths, sc.Considerations = strengthsAndConsiderations(*sc, cs)
	sc.BestFor = bestFor(sc.Candidate, cs)
}

func explain(sc domain.ScoredCandidate, cs domain.ConstraintSet) string {
	var parts []string

	if len(sc.MatchedMust) > 0 {
		parts = append(parts, "Matches required "+strings.Join(sc.MatchedMust, ", "))
	}
	if len(sc.MatchedNice) > 0 {
		parts = append(parts, fmt.Sprintf("has %d of %d preferred features (%s)",
			len(sc.MatchedNice), len(sc.MatchedNice)+len(sc.MissingNice), strings.Join(sc.MatchedNice, ", ")))
	}
	if len(sc.MissingNice) > 0 {
		parts = append(parts, "lacks "+strings.Join(sc.MissingNice, ", "))
	}

	if cs.BudgetMax != nil {
		switch p := sc.Candidate.Price; {
		case p <= *cs.BudgetMax:
			parts = append(parts, fmt.Sprintf("fits the $%.0f budget at $%.2f", *cs.BudgetMax, p))
		default:
			parts = append(parts, fmt.Sprintf("$%.2f is over the $%.0f budget", p, *cs.BudgetMax))
		}
	}

	if cs.MinMemoryGB > 0 || cs.MinStorageGB > 0 {
		parts = append(parts, fmt.Sprintf("%d GB memory and %d GB storage", sc.Candidate.MemoryGB, sc.Candidate.StorageGB))
	}

	if sc.Candidate.Rating > 0 {
		parts = append(parts, fmt.Sprintf("rated %.1f from %d reviews", sc.Candidate.Rating, sc.Candidate.ReviewCount))
	}

	if sc.Relaxed && len(sc.DroppedConstraints) > 0 {
		parts = append(parts, "shown after relaxing "+strings.Join(sc.DroppedConstraints, ", "))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s scores %d/100 overall", displayName(sc.Candidate), sc.MatchScore)
	}

	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func strengthsAndConsiderations(sc domain.ScoredCandidate, cs domain.ConstraintSet) ([]string, []string) {
	var strengths, considerations []string
	c := sc.Candidate

	if cs.BudgetMax != nil {
		if c.Price <= *cs.BudgetMax*0.8 {
			strengths = append(strengths, "Excellent value - well under budget")
		} else if c.Price > *cs.BudgetMax {
			considerations = append(considerations, "Priced above the stated budget")
		}
	}
	if c.MemoryGB >= 16 {
		strengths = append(strengths, "Generous 16GB+ RAM for multitasking")
	}
	if strings.Contains(c.StorageType, "nvme") {
		strengths = append(strengths, "Fast NVMe SSD storage")
	}

	switch {
	case c.Rating >= 4.5:
		strengths = append(strengths, "Exceptionally well-reviewed")
	case c.Rating >= 4.0:
		strengths = append(strengths, "Highly rated by customers")
	case c.Rating > 0:
		considerations = append(considerations, "Mixed customer reviews")
	}
	if c.ReviewCount > 0 && c.ReviewCount < 10 {
		considerations = append(considerations, "Few reviews so far")
	}
	if len(sc.MissingNice) > 0 {
		considerations = append(considerations, "Missing "+strings.Join(sc.MissingNice, ", "))
	}
	if len(sc.DroppedConstraints) > 0 {
		considerations = append(considerations, "Does not satisfy every requirement: "+strings.Join(sc.DroppedConstraints, ", ")+" relaxed")
	}

	return strengths, considerations
}

func bestFor(c domain.ProductCandidate, cs domain.ConstraintSet) []string {
	var out []string
	if cs.UseCase != "" && cs.UseCase != UseCaseGeneric {
		out = append(out, cs.UseCase+" professionals")
	}
	if c.MemoryGB >= 16 {
		out = append(out, "Power users")
	}
	if c.DisplaySize > 0 && c.DisplaySize <= 14 {
		out = append(out, "Mobile professionals")
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// SummarizeConstraints renders the constraint set as one line.
func SummarizeConstraints(cs domain.ConstraintSet) string {
	var parts []string
	if cs.BudgetMin != nil && cs.BudgetMax != nil {
		parts = append(parts, fmt.Sprintf("Budget: $%.0f-$%.0f", *cs.BudgetMin, *cs.BudgetMax))
	} else if cs.BudgetMax != nil {
		parts = append(parts, fmt.Sprintf("Budget: $%.0f", *cs.BudgetMax))
	} else if cs.BudgetMin != nil {
		parts = append(parts, fmt.Sprintf("Budget: from $%.0f", *cs.BudgetMin))
	}
	if len(cs.MustHave) > 0 {
		parts = append(parts, "Required: "+strings.Join(cs.MustHave, ", "))
	}
	if len(cs.NiceHave) > 0 {
		parts = append(parts, "Preferred: "+strings.Join(cs.NiceHave, ", "))
	}
	if cs.MinMemoryGB > 0 || cs.MinStorageGB > 0 {
		parts = append(parts, fmt.Sprintf("Minimum: %d GB memory, %d GB storage", cs.MinMemoryGB, cs.MinStorageGB))
	}
	if cs.UseCase != "" {
		parts = append(parts, "Use: "+cs.UseCase)
	}
	if len(cs.BrandAllowlist) > 0 {
		parts = append(parts, "Brands: "+strings.Join(cs.BrandAllowlist, ", "))
	}
	if len(parts) == 0 {
		return "No specific constraints"
	}
	return strings.Join(parts, "; ")
}

// AnalyzeTradeOffs looks at the whole snapshot, not just the winners, to say what
// would change with a slightly different request.
func AnalyzeTradeOffs(cs domain.ConstraintSet, candidates []domain.ProductCandidate, results []domain.ScoredCandidate) []string {
	out := []string{}

	if cs.BudgetMax != nil {
		cheapestOver := -1.0
		for _, c := range candidates {
			if c.Price > *cs.BudgetMax && (cheapestOver < 0 || c.Price < cheapestOver) {
				cheapestOver = c.Price
			}
		}
		if cheapestOver > 0 {
			out = append(out, fmt.Sprintf("Consider increasing budget by $%.0f for more options", cheapestOver-*cs.BudgetMax))
		}
	}

	if len(cs.MustHave) > 0 {
		top := results
		if len(top) > 5 {
			top = top[:5]
		}
		var scarce []string
		for _, t := range cs.MustHave {
			found := false
			for _, sc := range top {
				if MatchToken(sc.Candidate, t) {
					found = true
					break
				}
			}
			if !found {
				scarce = append(scarce, t)
			}
		}
		if len(scarce) > 0 {
			out = append(out, "Limited options with: "+strings.Join(scarce, ", "))
		}
	}

	return out
}

// MarketInsights summarises price range and brand mix of the given candidates.
func MarketInsights(candidates []domain.ProductCandidate) []string {
	out := []string{}
	if len(candidates) == 0 {
		return out
	}

	minP, maxP, sum := candidates[0].Price, candidates[0].Price, 0.0
	brands := map[string]int{}
	for _, c := range candidates {
		if c.Price < minP {
			minP = c.Price
		}
		if c.Price > maxP {
			maxP = c.Price
		}
		sum += c.Price
		if c.Brand != "" {
			brands[c.Brand]++
		}
	}
	out = append(out, fmt.Sprintf("Price range: $%.0f - $%.0f (avg: $%.0f)", minP, maxP, sum/float64(len(candidates))))

	if len(brands) > 0 {
		names := make([]string, 0, len(brands))
		for b := range brands {
			names = append(names, b)
		}
		sort.Slice(names, func(i, j int) bool {
			if brands[names[i]] != brands[names[j]] {
				return brands[names[i]] > brands[names[j]]
			}
			return names[i] < names[j]
		})
		out = append(out, fmt.Sprintf("%s has most options (%d models)", names[0], brands[names[0]]))
	}

	return out
}

func displayName(c domain.ProductCandidate) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
