package recommend

import (
	"fmt"
	"sort"
	"strings"

	"smartCatalog/domain"
)

// featureAliases maps normalised free text to canonical feature tokens.
var featureAliases = map[string]string{
	"fingerprint":          "fingerprint-reader",
	"fingerprint-sensor":   "fingerprint-reader",
	"fingerprint-scanner":  "fingerprint-reader",
	"backlit":              "backlit-keyboard",
	"keyboard-backlight":   "backlit-keyboard",
	"backlight-keyboard":   "backlit-keyboard",
	"illuminated-keyboard": "backlit-keyboard",
	"touch":                "touchscreen",
	"touch-screen":         "touchscreen",
	"touch-display":        "touchscreen",
	"solid-state-drive":    "ssd",
	"solid-state":          "ssd",
	"nvme":                 "nvme-ssd",
	"hard-drive":           "hdd",
	"hard-disk":            "hdd",
	"thunderbolt-3":        "thunderbolt",
	"thunderbolt-4":        "thunderbolt",
	"usb-type-c":           "usb-c",
	"type-c":               "usb-c",
	"2-in-1":               "convertible",
	"two-in-one":           "convertible",
	"face-recognition":     "ir-camera",
	"windows-hello":        "ir-camera",
	"lightweight":          "light",
	"portable":             "light",
}

// CanonicalToken normalises raw and resolves it through the alias table.
// Unknown text keeps its normalised form.
func CanonicalToken(raw string) string {
	t := domain.NormalizeToken(raw)
	if alias, ok := featureAliases[t]; ok {
		return alias
	}
	return t
}

// MatchToken reports whether candidate c carries token. Exact declared tokens are
// checked first, then substring containment against the declared feature text.
func MatchToken(c domain.ProductCandidate, token string) bool {
	if c.HasExactToken(token) {
		return true
	}
	return c.Matches(token)
}

// Use cases.
const (
	UseCaseBusiness    = "business"
	UseCaseProgramming = "programming"
	UseCaseGaming      = "gaming"
	UseCaseStudent     = "student"
	UseCaseTravel      = "travel"
	UseCaseGeneric     = "generic"
)

type preset struct {
	must         []string
	nice         []string
	minMemoryGB  int
	minStorageGB int
	processor    string
	brands       []string
	minRating    float64
}

var presets = map[string]preset{
	UseCaseBusiness: {
		must:         []string{"fingerprint-reader", "backlit-keyboard"},
		nice:         []string{"touchscreen"},
		minMemoryGB:  16,
		minStorageGB: 256,
		processor:    "intel",
		brands:       []string{"HP", "Lenovo"},
		minRating:    4.0,
	},
	UseCaseProgramming: {
		must:         []string{"backlit-keyboard"},
		nice:         []string{"touchscreen", "fingerprint-reader"},
		minMemoryGB:  16,
		minStorageGB: 512,
		processor:    "intel",
		brands:       []string{"HP", "Lenovo"},
		minRating:    4.0,
	},
	UseCaseGaming: {
		nice:         []string{"backlit-keyboard"},
		minMemoryGB:  16,
		minStorageGB: 512,
		processor:    "intel",
		brands:       []string{"HP", "Lenovo"},
		minRating:    3.8,
	},
	UseCaseStudent: {
		nice:         []string{"touchscreen", "backlit-keyboard"},
		minMemoryGB:  8,
		minStorageGB: 256,
		brands:       []string{"HP", "Lenovo"},
		minRating:    4.0,
	},
	UseCaseTravel: {
		nice:         []string{"touchscreen", "fingerprint-reader"},
		minMemoryGB:  8,
		minStorageGB: 256,
		brands:       []string{"HP", "Lenovo"},
		minRating:    4.2,
	},
	UseCaseGeneric: {
		nice:         []string{"backlit-keyboard"},
		minMemoryGB:  8,
		minStorageGB: 256,
		brands:       []string{"HP", "Lenovo"},
		minRating:    4.0,
	},
}

// budget tiers applied over preset minima
const (
	baselineTierBudget  = 1000.0
	baselineTierMemory  = 8
	baselineTierStorage = 256
	midTierBudget       = 1500.0
	midTierMemory       = 16
	midTierStorage      = 512
)

// ResolveUseCase maps a free-text use case onto a preset name; unknown text is generic.
func ResolveUseCase(useCase string) string {
	uc := domain.NormalizeToken(useCase)
	if _, ok := presets[uc]; ok {
		return uc
	}
	return UseCaseGeneric
}

// KnownUseCase reports whether useCase names a preset exactly, unlike
// ResolveUseCase which falls back to generic.
func KnownUseCase(useCase string) bool {
	_, ok := presets[domain.NormalizeToken(useCase)]
	return ok
}

// ValidateRequest checks every bound before any scoring happens.
func ValidateRequest(req domain.RecommendRequest) error {
	if req.BudgetMin != nil && *req.BudgetMin < 0 {
		return domain.NewConstraintError("budget_min", "must be >= 0, got %.2f", *req.BudgetMin)
	}
	if req.BudgetMax != nil && *req.BudgetMax < 0 {
		return domain.NewConstraintError("budget_max", "must be >= 0, got %.2f", *req.BudgetMax)
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return domain.NewConstraintError("budget_min", "must be <= budget_max (%.2f > %.2f)", *req.BudgetMin, *req.BudgetMax)
	}
	if req.Limit < MinLimit || req.Limit > MaxLimit {
		return domain.NewConstraintError("limit", "must be in [%d,%d], got %d", MinLimit, MaxLimit, req.Limit)
	}
	if req.MinRating != nil && (*req.MinRating < 0 || *req.MinRating > 5) {
		return domain.NewConstraintError("min_rating", "must be in [0,5], got %.2f", *req.MinRating)
	}
	if req.MinMemoryGB != nil && *req.MinMemoryGB < 0 {
		return domain.NewConstraintError("min_memory_gb", "must be >= 0, got %d", *req.MinMemoryGB)
	}
	if req.MinStorageGB != nil && *req.MinStorageGB < 0 {
		return domain.NewConstraintError("min_storage_gb", "must be >= 0, got %d", *req.MinStorageGB)
	}
	return nil
}

// Parse validates req and builds a fresh ConstraintSet from it.
func Parse(req domain.RecommendRequest) (domain.ConstraintSet, error) {
	if err := ValidateRequest(req); err != nil {
		return domain.ConstraintSet{}, err
	}

	var cs domain.ConstraintSet
	var p preset
	hasPreset := strings.TrimSpace(req.UseCase) != ""
	if hasPreset {
		cs.UseCase = ResolveUseCase(req.UseCase)
		p = presets[cs.UseCase]
		applyPreset(&cs, p, req.BudgetMax)
	}

	cs.MustHave = canonicalSet(append(append([]string(nil), p.must...), req.MustHave...))
	mustSet := make(map[string]bool, len(cs.MustHave))
	for _, t := range cs.MustHave {
		mustSet[t] = true
	}
	nice := canonicalSet(append(append([]string(nil), p.nice...), req.NiceHave...))
	cs.NiceHave = make([]string, 0, len(nice))
	for _, t := range nice {
		if !mustSet[t] {
			cs.NiceHave = append(cs.NiceHave, t)
		}
	}

	if req.MinMemoryGB != nil {
		cs.MinMemoryGB = *req.MinMemoryGB
	}
	if req.MinStorageGB != nil {
		cs.MinStorageGB = *req.MinStorageGB
	}
	if req.MinRating != nil {
		cs.MinRating = *req.MinRating
	}
	if req.ProcessorPreference != "" {
		cs.ProcessorPreference = domain.NormalizeToken(req.ProcessorPreference)
	}

	cs.BudgetMin = copyFloat(req.BudgetMin)
	cs.BudgetMax = copyFloat(req.BudgetMax)
	cs.BrandAllowlist = brandSet(req.BrandAllowlist)

	return cs, nil
}

func applyPreset(cs *domain.ConstraintSet, p preset, budgetMax *float64) {
	cs.MinMemoryGB = p.minMemoryGB
	cs.MinStorageGB = p.minStorageGB
	cs.ProcessorPreference = p.processor
	cs.PreferredBrands = append([]string(nil), p.brands...)
	cs.MinRating = p.minRating

	if budgetMax == nil {
		return
	}
	switch {
	case *budgetMax <= baselineTierBudget:
		cs.MinMemoryGB = baselineTierMemory
		cs.MinStorageGB = baselineTierStorage
	case *budgetMax <= midTierBudget:
		cs.MinMemoryGB = midTierMemory
		cs.MinStorageGB = midTierStorage
	}
}

// SuggestConstraints returns the preset expansion for a use case, with budget tiers applied.
func SuggestConstraints(useCase string, budgetMax *float64) (domain.SuggestedConstraints, error) {
	if budgetMax != nil && *budgetMax < 0 {
		return domain.SuggestedConstraints{}, domain.NewConstraintError("budget_max", "must be >= 0, got %.2f", *budgetMax)
	}

	name := ResolveUseCase(useCase)
	p := presets[name]

	cs := domain.ConstraintSet{
		UseCase:  name,
		MustHave: append([]string{}, p.must...),
		NiceHave: append([]string{}, p.nice...),
	}
	applyPreset(&cs, p, budgetMax)
	cs.BudgetMax = copyFloat(budgetMax)

	label := strings.TrimSpace(useCase)
	if label == "" {
		label = name
	}

	return domain.SuggestedConstraints{
		UseCase:     label,
		Constraints: cs,
		Explanation: fmt.Sprintf("These constraints are optimized for %s use cases based on typical requirements", label),
	}, nil
}

// canonicalSet resolves tokens, drops empties and duplicates, keeping first-seen order.
func canonicalSet(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		t := CanonicalToken(r)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func brandSet(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(raw))
	for _, b := range raw {
		b = strings.TrimSpace(b)
		key := strings.ToLower(b)
		if b == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
