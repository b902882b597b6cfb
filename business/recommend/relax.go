package recommend

import (
	"sort"

	"smartCatalog/business/catalog"
	"smartCatalog/domain"
)

type rankOutcome struct {
	ranked      []domain.ScoredCandidate
	constraints domain.ConstraintSet
	dropped     []string
	relaxed     bool
}

// relaxOrder returns must-have tokens in the order the ladder drops them.
// restrictive_first drops the least prevalent token first; ties go by token.
func relaxOrder(idx *catalog.Index, must []string, order string) []string {
	prevalence := make(map[string]int, len(must))
	for _, t := range must {
		prevalence[t] = idx.Prevalence(t)
	}

	out := append([]string(nil), must...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := prevalence[out[i]], prevalence[out[j]]
		if pi != pj {
			if order == RelaxPrevalentFirst {
				return pi > pj
			}
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

func relaxThreshold(limit, minResults int) int {
	if minResults <= 0 || minResults > limit {
		return limit
	}
	return minResults
}

// rankWithRelaxation scores the snapshot and, when too few candidates pass the
// must-have gate, drops must tokens one at a time until enough qualify or none remain.
func rankWithRelaxation(idx *catalog.Index, cs domain.ConstraintSet, bias Bias, w Weights, cfg Config, limit int) rankOutcome {
	candidates := idx.Candidates()
	ranked := scoreAll(candidates, cs, bias, w, cfg)
	threshold := relaxThreshold(limit, cfg.RelaxMinResults)

	out := rankOutcome{ranked: ranked, constraints: cs}
	if len(ranked) >= threshold || len(cs.MustHave) == 0 {
		return out
	}

	dropped := map[string]bool{}
	for _, tok := range relaxOrder(idx, cs.MustHave, cfg.RelaxOrder) {
		dropped[tok] = true
		out.dropped = append(out.dropped, tok)
		RelaxationStepsTotal.Inc()

		relaxed := cs.RelaxMust(dropped)
		out.constraints = relaxed
		out.ranked = scoreAll(candidates, relaxed, bias, w, cfg)
		if len(out.ranked) >= threshold {
			break
		}
	}

	out.relaxed = true
	for i := range out.ranked {
		out.ranked[i].Relaxed = true
		out.ranked[i].DroppedConstraints = append([]string(nil), out.dropped...)
	}

	return out
}
