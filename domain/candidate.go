package domain

import (
	"sort"
	"strings"
)

// Weight classes ordered from lightest to heaviest.
const (
	WeightLight  = "light"
	WeightMedium = "medium"
	WeightHeavy  = "heavy"
)

// ProductCandidate is one purchasable variant as seen by the recommendation engine.
// Values are immutable once they are part of a catalog snapshot.
type ProductCandidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	ModelFamily string   `json:"model_family,omitempty"`
	Processor   string   `json:"processor,omitempty"`
	CPUVendor   string   `json:"cpu_vendor,omitempty"`
	MemoryGB    int      `json:"memory_gb"`
	StorageGB   int      `json:"storage_gb"`
	StorageType string   `json:"storage_type,omitempty"`
	DisplaySize float64  `json:"display_size,omitempty"`
	WeightClass string   `json:"weight_class,omitempty"`
	Features    []string `json:"features"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`

	tokens []string
}

// NewProductCandidate normalises categorical specs and feature tokens and
// precomputes the declared feature text used for matching.
func NewProductCandidate(c ProductCandidate) ProductCandidate {
	c.StorageType = NormalizeToken(c.StorageType)
	c.WeightClass = NormalizeToken(c.WeightClass)
	if c.CPUVendor == "" {
		c.CPUVendor = CPUVendorFromProcessor(c.Processor)
	}
	c.CPUVendor = NormalizeToken(c.CPUVendor)

	features := make([]string, 0, len(c.Features))
	seen := make(map[string]struct{}, len(c.Features))
	for _, f := range c.Features {
		t := NormalizeToken(f)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		features = append(features, t)
	}
	sort.Strings(features)
	c.Features = features

	tokens := append([]string(nil), features...)
	for _, v := range []string{c.StorageType, c.CPUVendor, c.WeightClass} {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		tokens = append(tokens, v)
	}
	sort.Strings(tokens)
	c.tokens = tokens

	return c
}

// Tokens returns the declared feature text: feature tokens plus categorical values.
func (c ProductCandidate) Tokens() []string {
	if c.tokens == nil {
		return NewProductCandidate(c).tokens
	}
	return c.tokens
}

// HasExactToken reports whether the declared feature text contains token verbatim.
func (c ProductCandidate) HasExactToken(token string) bool {
	for _, t := range c.Tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Matches reports whether token appears in the declared feature text, either
// as an exact token or as a substring of one.
func (c ProductCandidate) Matches(token string) bool {
	if token == "" {
		return false
	}
	for _, t := range c.Tokens() {
		if t == token || strings.Contains(t, token) {
			return true
		}
	}
	return false
}

// WeightRank orders weight classes; unknown classes rank as heaviest.
func (c ProductCandidate) WeightRank() int {
	switch c.WeightClass {
	case WeightLight:
		return 0
	case WeightMedium:
		return 1
	case WeightHeavy:
		return 2
	default:
		return 3
	}
}

// NormalizeToken lower-cases, trims and joins words with hyphens.
func NormalizeToken(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "-")
}

// CPUVendorFromProcessor derives the vendor from a free-text processor name.
func CPUVendorFromProcessor(processor string) string {
	p := strings.ToLower(processor)
	switch {
	case p == "":
		return ""
	case strings.Contains(p, "intel") || strings.Contains(p, "core i") || strings.Contains(p, "core ultra"):
		return "intel"
	case strings.Contains(p, "amd") || strings.Contains(p, "ryzen"):
		return "amd"
	case strings.Contains(p, "apple") || strings.HasPrefix(p, "m1") || strings.HasPrefix(p, "m2") || strings.HasPrefix(p, "m3"):
		return "apple"
	case strings.Contains(p, "snapdragon") || strings.Contains(p, "qualcomm"):
		return "qualcomm"
	default:
		return ""
	}
}
