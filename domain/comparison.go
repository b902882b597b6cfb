package domain

// AspectTie marks an aspect where the best value is shared.
const AspectTie = "tie"

// AspectNoWinner marks a categorical aspect that is reported but not ranked.
const AspectNoWinner = "none"

// Comparison rules.
const (
	RuleHigherIsBetter = "higher_is_better"
	RuleLowerIsBetter  = "lower_is_better"
	RulePresence       = "presence"
	RuleCategorical    = "categorical"
)

type AspectValue struct {
	CandidateID string  `json:"candidate_id"`
	Value       float64 `json:"value"`
	Display     string  `json:"display"`
}

type AspectResult struct {
	Aspect string        `json:"aspect"`
	Rule   string        `json:"rule"`
	Values []AspectValue `json:"values"`
	Winner string        `json:"winner"`
}

type ComparisonResult struct {
	Candidates       []ProductCandidate `json:"candidates"`
	Aspects          []string           `json:"aspects"`
	AspectResults    []AspectResult     `json:"aspect_results"`
	Wins             map[string]int     `json:"wins"`
	NeutralScores    map[string]float64 `json:"neutral_scores"`
	Verdict          string             `json:"verdict"`
	VerdictTieBroken bool               `json:"verdict_tie_broken"`
	Rationale        string             `json:"rationale"`
	UseCaseWinners   map[string]string  `json:"use_case_winners"`
}

// WinnerOf returns the winner recorded for aspect, or "" if the aspect was not compared.
func (r ComparisonResult) WinnerOf(aspect string) string {
	for _, a := range r.AspectResults {
		if a.Aspect == aspect {
			return a.Winner
		}
	}
	return ""
}
