package recommend

import (
	"fmt"
	"sort"
	"strings"

	"smartCatalog/business/catalog"
	"smartCatalog/domain"
)

const (
	MinCompare = 2
	MaxCompare = 5
)

// Spec aspects, in default comparison order.
const (
	AspectPrice       = "price"
	AspectMemory      = "memory"
	AspectStorage     = "storage"
	AspectRating      = "rating"
	AspectDisplay     = "display"
	AspectWeight      = "weight"
	AspectStorageType = "storage-type"
	AspectCPUVendor   = "cpu-vendor"
)

var defaultAspects = []string{
	AspectPrice, AspectMemory, AspectStorage, AspectRating,
	AspectDisplay, AspectWeight, AspectStorageType, AspectCPUVendor,
}

// aspectAliases maps normalised request text, including the candidate field
// names, onto spec aspects.
var aspectAliases = map[string]string{
	"price":        AspectPrice,
	"cost":         AspectPrice,
	"memory":       AspectMemory,
	"memory-gb":    AspectMemory,
	"ram":          AspectMemory,
	"storage":      AspectStorage,
	"storage-gb":   AspectStorage,
	"rating":       AspectRating,
	"display":      AspectDisplay,
	"display-size": AspectDisplay,
	"screen":       AspectDisplay,
	"screen-size":  AspectDisplay,
	"weight":       AspectWeight,
	"weight-class": AspectWeight,
	"storage-type": AspectStorageType,
	"cpu-vendor":   AspectCPUVendor,
	"processor":    AspectCPUVendor,
}

// storage technologies from slowest to fastest
var storageTiers = map[string]int{
	"hdd":      1,
	"emmc":     2,
	"ssd":      3,
	"nvme-ssd": 4,
	"nvme":     4,
}

// ResolveComparison validates ids and looks them up in the snapshot, keeping input order.
func ResolveComparison(idx *catalog.Index, ids []string) ([]domain.ProductCandidate, error) {
	if len(ids) < MinCompare || len(ids) > MaxCompare {
		return nil, fmt.Errorf("%w: got %d", domain.ErrComparisonProductCount, len(ids))
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, domain.NewConstraintError("product_ids", "duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}

	var missing []string
	out := make([]domain.ProductCandidate, 0, len(ids))
	for _, id := range ids {
		c, ok := idx.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, c)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCandidateNotFound, strings.Join(missing, ", "))
	}

	return out, nil
}

// comparisonAspects returns the requested aspects or the default spec aspects
// plus the sorted union of feature tokens. A requested aspect must be a spec
// aspect, a known feature, or a token at least one candidate carries.
func comparisonAspects(cands []domain.ProductCandidate, requested []string) ([]string, error) {
	if len(requested) > 0 {
		out := make([]string, 0, len(requested))
		seen := map[string]struct{}{}
		var unknown []string
		for _, raw := range requested {
			a, ok := resolveAspect(cands, raw)
			if !ok {
				if strings.TrimSpace(raw) != "" {
					unknown = append(unknown, raw)
				}
				continue
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
		if len(unknown) > 0 {
			return nil, domain.NewConstraintError("aspects", "unknown aspect %s", strings.Join(unknown, ", "))
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	features := map[string]struct{}{}
	for _, c := range cands {
		for _, f := range c.Features {
			features[f] = struct{}{}
		}
	}
	tokens := make([]string, 0, len(features))
	for f := range features {
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)

	return append(append([]string(nil), defaultAspects...), tokens...), nil
}

func resolveAspect(cands []domain.ProductCandidate, raw string) (string, bool) {
	n := domain.NormalizeToken(raw)
	if n == "" {
		return "", false
	}
	if a, ok := aspectAliases[n]; ok {
		return a, true
	}
	token := CanonicalToken(n)
	if knownFeature(token) {
		return token, true
	}
	for _, c := range cands {
		if MatchToken(c, token) {
			return token, true
		}
	}
	return "", false
}

func knownFeature(token string) bool {
	for _, canonical := range featureAliases {
		if canonical == token {
			return true
		}
	}
	return false
}

func storageTier(storageType string) int {
	if t, ok := storageTiers[storageType]; ok {
		return t
	}
	switch {
	case strings.Contains(storageType, "nvme"):
		return storageTiers["nvme"]
	case strings.Contains(storageType, "ssd"):
		return storageTiers["ssd"]
	}
	return 0
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func aspectValue(c domain.ProductCandidate, aspect string) (rule string, value float64, display string) {
	switch aspect {
	case AspectPrice:
		return domain.RuleLowerIsBetter, c.Price, fmt.Sprintf("$%.2f", c.Price)
	case AspectMemory:
		return domain.RuleHigherIsBetter, float64(c.MemoryGB), fmt.Sprintf("%d GB", c.MemoryGB)
	case AspectStorage:
		return domain.RuleHigherIsBetter, float64(c.StorageGB), fmt.Sprintf("%d GB", c.StorageGB)
	case AspectRating:
		return domain.RuleHigherIsBetter, c.Rating, fmt.Sprintf("%.1f (%d reviews)", c.Rating, c.ReviewCount)
	case AspectDisplay:
		return domain.RuleHigherIsBetter, c.DisplaySize, fmt.Sprintf("%.1f\"", c.DisplaySize)
	case AspectWeight:
		return domain.RuleLowerIsBetter, float64(c.WeightRank()), orUnknown(c.WeightClass)
	case AspectStorageType:
		return domain.RuleHigherIsBetter, float64(storageTier(c.StorageType)), orUnknown(c.StorageType)
	case AspectCPUVendor:
		return domain.RuleCategorical, 0, orUnknown(c.CPUVendor)
	default:
		if MatchToken(c, aspect) {
			return domain.RulePresence, 1, "yes"
		}
		return domain.RulePresence, 0, "no"
	}
}

// compareCandidates runs on an id-sorted copy so winners and the verdict do not
// depend on input order; values are reported in input order.
func compareCandidates(cands []domain.ProductCandidate, requested []string, w Weights, cfg Config) (domain.ComparisonResult, error) {
	sorted := append([]domain.ProductCandidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	aspects, err := comparisonAspects(sorted, requested)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	res := domain.ComparisonResult{
		Candidates:     append([]domain.ProductCandidate(nil), cands...),
		Aspects:        aspects,
		AspectResults:  make([]domain.AspectResult, 0, len(aspects)),
		Wins:           make(map[string]int, len(cands)),
		NeutralScores:  make(map[string]float64, len(cands)),
		UseCaseWinners: map[string]string{},
	}
	for _, c := range sorted {
		res.Wins[c.ID] = 0
	}

	for _, aspect := range aspects {
		ar := domain.AspectResult{Aspect: aspect, Values: make([]domain.AspectValue, 0, len(cands))}
		for _, c := range cands {
			rule, v, display := aspectValue(c, aspect)
			ar.Rule = rule
			ar.Values = append(ar.Values, domain.AspectValue{CandidateID: c.ID, Value: v, Display: display})
		}
		ar.Winner = aspectWinner(sorted, aspect)
		if ar.Winner != domain.AspectTie && ar.Winner != domain.AspectNoWinner {
			res.Wins[ar.Winner]++
		}
		res.AspectResults = append(res.AspectResults, ar)
	}

	neutral := domain.ConstraintSet{}
	for _, c := range sorted {
		res.NeutralScores[c.ID] = Score(c, neutral, nil, w, cfg).Score
	}

	res.Verdict, res.VerdictTieBroken = verdict(sorted, res.Wins, res.NeutralScores)
	res.UseCaseWinners["business"] = businessWinner(sorted)
	res.UseCaseWinners["budget"] = budgetWinner(sorted)
	res.Rationale = comparisonRationale(res)

	return res, nil
}

func aspectWinner(sorted []domain.ProductCandidate, aspect string) string {
	var best float64
	var bestID string
	count := 0
	for i, c := range sorted {
		rule, v, _ := aspectValue(c, aspect)
		if rule == domain.RuleCategorical {
			return domain.AspectNoWinner
		}
		better := false
		if i == 0 {
			better = true
		} else if rule == domain.RuleLowerIsBetter {
			better = v < best
		} else {
			better = v > best
		}
		switch {
		case better:
			best, bestID, count = v, c.ID, 1
		case v == best:
			count++
		}
	}
	if count != 1 {
		return domain.AspectTie
	}
	return bestID
}

func verdict(sorted []domain.ProductCandidate, wins map[string]int, neutral map[string]float64) (string, bool) {
	maxWins := -1
	var leaders []string
	for _, c := range sorted {
		switch n := wins[c.ID]; {
		case n > maxWins:
			maxWins = n
			leaders = []string{c.ID}
		case n == maxWins:
			leaders = append(leaders, c.ID)
		}
	}
	if len(leaders) == 1 {
		return leaders[0], false
	}

	// leaders are already in id order, so a strict comparison keeps the lowest id on equal scores
	winner := leaders[0]
	for _, id := range leaders[1:] {
		if neutral[id] > neutral[winner] {
			winner = id
		}
	}
	return winner, true
}

// businessFitScore follows the business suitability rules: memory, SSD storage
// and a business model family all count.
func businessFitScore(c domain.ProductCandidate) int {
	score := 70
	if c.MemoryGB >= 16 {
		score += 15
	}
	if strings.Contains(c.StorageType, "ssd") || c.StorageType == "nvme" {
		score += 10
	}
	family := strings.ToLower(c.ModelFamily)
	if strings.Contains(family, "probook") || strings.Contains(family, "thinkpad") || strings.Contains(family, "elitebook") {
		score += 10
	}
	return score
}

func businessWinner(sorted []domain.ProductCandidate) string {
	best, bestID := -1, ""
	for _, c := range sorted {
		if s := businessFitScore(c); s > best {
			best, bestID = s, c.ID
		}
	}
	return bestID
}

func budgetWinner(sorted []domain.ProductCandidate) string {
	bestID := ""
	var best float64
	for i, c := range sorted {
		if i == 0 || c.Price < best {
			best, bestID = c.Price, c.ID
		}
	}
	return bestID
}

func comparisonRationale(res domain.ComparisonResult) string {
	var won []string
	for _, ar := range res.AspectResults {
		if ar.Winner == res.Verdict {
			won = append(won, ar.Aspect)
		}
	}
	name := res.Verdict
	for _, c := range res.Candidates {
		if c.ID == res.Verdict && c.Name != "" {
			name = c.Name
		}
	}

	var b strings.Builder
	if len(won) == 0 {
		fmt.Fprintf(&b, "%s wins no individual aspect", name)
	} else {
		fmt.Fprintf(&b, "%s wins %d of %d aspects (%s)", name, len(won), len(res.AspectResults), strings.Join(won, ", "))
	}
	if res.VerdictTieBroken {
		fmt.Fprintf(&b, "; tied on aspect wins, decided by overall score %.2f", res.NeutralScores[res.Verdict])
	}
	return b.String()
}
