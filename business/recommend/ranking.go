package recommend

import (
	"sort"
	"strings"

	"smartCatalog/domain"
)

// lessScored orders by score desc, rating desc, price asc, then id asc.
func lessScored(a, b domain.ScoredCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Candidate.Rating != b.Candidate.Rating {
		return a.Candidate.Rating > b.Candidate.Rating
	}
	if a.Candidate.Price != b.Candidate.Price {
		return a.Candidate.Price < b.Candidate.Price
	}
	return a.Candidate.ID < b.Candidate.ID
}

func sortScored(list []domain.ScoredCandidate) {
	sort.SliceStable(list, func(i, j int) bool { return lessScored(list[i], list[j]) })
}

// scoreAll scores every candidate and returns the eligible ones, ranked.
func scoreAll(candidates []domain.ProductCandidate, cs domain.ConstraintSet, bias Bias, w Weights, cfg Config) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		sc := Score(c, cs, bias, w, cfg)
		if sc.Eligible {
			out = append(out, sc)
		}
	}
	sortScored(out)
	return out
}

func brandCap(limit int, ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	c := int(float64(limit) * ratio)
	if c < 1 {
		c = 1
	}
	return c
}

// selectTop takes up to limit candidates from a ranked list while honouring the
// per-brand cap. Deferred candidates fill remaining slots, breaking the cap only
// when too few other brands remain. The selection is returned in ranked order
// together with the unselected remainder.
func selectTop(ranked []domain.ScoredCandidate, limit int, ratio float64) ([]domain.ScoredCandidate, []domain.ScoredCandidate) {
	if limit <= 0 {
		return nil, ranked
	}
	maxPerBrand := brandCap(limit, ratio)
	if maxPerBrand == 0 {
		if len(ranked) <= limit {
			return append([]domain.ScoredCandidate(nil), ranked...), nil
		}
		return append([]domain.ScoredCandidate(nil), ranked[:limit]...), append([]domain.ScoredCandidate(nil), ranked[limit:]...)
	}

	picked := make([]bool, len(ranked))
	perBrand := map[string]int{}
	selected := make([]domain.ScoredCandidate, 0, limit)

	for i, sc := range ranked {
		if len(selected) == limit {
			break
		}
		brand := strings.ToLower(sc.Candidate.Brand)
		if perBrand[brand] >= maxPerBrand {
			continue
		}
		perBrand[brand]++
		picked[i] = true
		selected = append(selected, sc)
	}

	for i, sc := range ranked {
		if len(selected) == limit {
			break
		}
		if picked[i] {
			continue
		}
		picked[i] = true
		selected = append(selected, sc)
	}

	rest := make([]domain.ScoredCandidate, 0, len(ranked)-len(selected))
	for i, sc := range ranked {
		if !picked[i] {
			rest = append(rest, sc)
		}
	}

	sortScored(selected)
	return selected, rest
}
