package domain

import "time"

// ConstraintSet is the structured form of one recommendation request.
// The parser returns a fresh value; nothing mutates it afterwards.
type ConstraintSet struct {
	MustHave            []string `json:"must_have"`
	NiceHave            []string `json:"nice_have"`
	MinMemoryGB         int      `json:"min_memory_gb,omitempty"`
	MinStorageGB        int      `json:"min_storage_gb,omitempty"`
	BudgetMin           *float64 `json:"budget_min,omitempty"`
	BudgetMax           *float64 `json:"budget_max,omitempty"`
	ProcessorPreference string   `json:"processor_preference,omitempty"`
	BrandAllowlist      []string `json:"brand_allowlist,omitempty"`
	PreferredBrands     []string `json:"preferred_brands,omitempty"`
	MinRating           float64  `json:"min_rating,omitempty"`
	UseCase             string   `json:"use_case,omitempty"`
}

// RelaxMust returns a copy where the dropped must-have tokens are demoted to
// nice-to-have, so candidates that still carry them keep partial credit.
func (cs ConstraintSet) RelaxMust(dropped map[string]bool) ConstraintSet {
	out := cs
	out.MustHave = make([]string, 0, len(cs.MustHave))
	out.NiceHave = append([]string(nil), cs.NiceHave...)
	for _, t := range cs.MustHave {
		if dropped[t] {
			out.NiceHave = append(out.NiceHave, t)
			continue
		}
		out.MustHave = append(out.MustHave, t)
	}
	return out
}

// RecommendRequest is the caller-facing input of recommend.
type RecommendRequest struct {
	BudgetMin           *float64 `json:"budget_min,omitempty"`
	BudgetMax           *float64 `json:"budget_max,omitempty"`
	MustHave            []string `json:"must_have"`
	NiceHave            []string `json:"nice_have"`
	UseCase             string   `json:"use_case,omitempty"`
	BrandAllowlist      []string `json:"brand_allowlist,omitempty"`
	MinRating           *float64 `json:"min_rating,omitempty"`
	ProcessorPreference string   `json:"processor_preference,omitempty"`
	MinMemoryGB         *int     `json:"min_memory_gb,omitempty"`
	MinStorageGB        *int     `json:"min_storage_gb,omitempty"`
	Limit               int      `json:"limit"`
	IncludeAlternatives bool     `json:"include_alternatives"`
}

// SubScores keeps every scoring dimension for explanation and debugging.
type SubScores struct {
	Nice    float64 `json:"nice"`
	Numeric float64 `json:"numeric"`
	Price   float64 `json:"price"`
	Rating  float64 `json:"rating"`
	Bonus   float64 `json:"bonus"`
}

// ScoredCandidate is one candidate evaluated against one constraint set.
type ScoredCandidate struct {
	Candidate          ProductCandidate `json:"candidate"`
	RecommendationID   string           `json:"recommendation_id,omitempty"`
	Score              float64          `json:"score"`
	MatchScore         int              `json:"match_score"`
	Eligible           bool             `json:"-"`
	MatchedMust        []string         `json:"matched_must"`
	MissingMust        []string         `json:"missing_must"`
	MatchedNice        []string         `json:"matched_nice"`
	MissingNice        []string         `json:"missing_nice"`
	SubScores          SubScores        `json:"sub_scores"`
	Relaxed            bool             `json:"relaxed"`
	DroppedConstraints []string         `json:"dropped_constraints,omitempty"`
	Explanation        string           `json:"explanation"`
	Strengths          []string         `json:"strengths,omitempty"`
	Considerations     []string         `json:"considerations,omitempty"`
	BestFor            []string         `json:"best_for,omitempty"`
}

// MustGate is 1 when every must-have token matched.
func (s ScoredCandidate) MustGate() bool {
	return len(s.MissingMust) == 0
}

// MatchedFeatures is the union of matched must and nice tokens.
func (s ScoredCandidate) MatchedFeatures() []string {
	out := make([]string, 0, len(s.MatchedMust)+len(s.MatchedNice))
	out = append(out, s.MatchedMust...)
	out = append(out, s.MatchedNice...)
	return out
}

type RecommendResponse struct {
	RequestID          string            `json:"request_id"`
	Timestamp          time.Time         `json:"timestamp"`
	ConstraintsSummary string            `json:"constraints_summary"`
	Results            []ScoredCandidate `json:"results"`
	Relaxed            bool              `json:"relaxed"`
	RelaxedConstraints []string          `json:"relaxed_constraints"`
	Alternatives       []ScoredCandidate `json:"alternatives,omitempty"`
	TradeOffs          []string          `json:"trade_offs"`
	Insights           []string          `json:"insights"`
	NoMatchReason      string            `json:"no_match_reason,omitempty"`
}

// IssuedRecommendation records what was shown to a user so feedback can be
// folded back into the features that produced the match.
type IssuedRecommendation struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ProductID       string    `json:"product_id"`
	MatchedFeatures []string  `json:"matched_features"`
	Score           float64   `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// SmartRecommendation is the top pick of one curated category.
type SmartRecommendation struct {
	Category       string          `json:"recommendation_type"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Pick           ScoredCandidate `json:"pick"`
	Rationale      string          `json:"rationale"`
	TargetAudience []string        `json:"target_audience"`
	KeyBenefits    []string        `json:"key_benefits"`
}

// SuggestedConstraints is the preset expansion for one use case.
type SuggestedConstraints struct {
	UseCase     string        `json:"use_case"`
	Constraints ConstraintSet `json:"suggested_constraints"`
	Explanation string        `json:"explanation"`
}

// BudgetTierRecommendation is the top of one fixed price band.
type BudgetTierRecommendation struct {
	Tier        string            `json:"tier"`
	BudgetRange string            `json:"budget_range"`
	MaxBudget   float64           `json:"max_budget"`
	Description string            `json:"description"`
	Results     []ScoredCandidate `json:"recommendations"`
	Relaxed     bool              `json:"relaxed"`
}

// QuickRecommendation answers a use case with requirements filled in automatically.
type QuickRecommendation struct {
	UseCase          string            `json:"use_case"`
	Budget           *float64          `json:"budget,omitempty"`
	AutoRequirements []string          `json:"auto_requirements"`
	Response         RecommendResponse `json:"recommendations"`
}

// TrendingRecommendation ranks the catalog at a popular price point.
type TrendingRecommendation struct {
	Results []ScoredCandidate `json:"trending_recommendations"`
	Basis   []string          `json:"basis"`
	Note    string            `json:"note"`
}
