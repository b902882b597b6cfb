package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EngineEnvPrefix prefixes environment overrides, e.g. ENGINE_WEIGHT_PRICE=0.4.
const EngineEnvPrefix = "ENGINE_"

// EngineConfig holds the tunable constants of the recommendation engine.
type EngineConfig struct {
	WeightPrice   float64 `koanf:"weight_price"`
	WeightNumeric float64 `koanf:"weight_numeric"`
	WeightNice    float64 `koanf:"weight_nice"`
	WeightRating  float64 `koanf:"weight_rating"`

	NumericSteepness float64 `koanf:"numeric_steepness"`
	NumericMargin    float64 `koanf:"numeric_margin"`
	InBudgetSlope    float64 `koanf:"in_budget_slope"`
	OverBudgetMargin float64 `koanf:"over_budget_margin"`

	RatingEvidenceFloor float64 `koanf:"rating_evidence_floor"`
	MinEvidenceReviews  int     `koanf:"min_evidence_reviews"`

	BrandBonus           float64 `koanf:"brand_bonus"`
	ProcessorBonus       float64 `koanf:"processor_bonus"`
	PersonalizationScale float64 `koanf:"personalization_scale"`
	MaxComponentBonus    float64 `koanf:"max_component_bonus"`
	MaxBonus             float64 `koanf:"max_bonus"`

	BrandCapRatio     float64       `koanf:"brand_cap_ratio"`
	RelaxMinResults   int           `koanf:"relax_min_results"`
	RelaxOrder        string        `koanf:"relax_order"`
	AlternativesCount int           `koanf:"alternatives_count"`
	IssuedTTL         time.Duration `koanf:"issued_ttl"`

	FeedbackIncrement float64 `koanf:"feedback_increment"`
	MaxDelta          float64 `koanf:"max_delta"`
}

// DefaultEngineConfig mirrors the engine's built-in constants.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WeightPrice:          0.30,
		WeightNumeric:        0.25,
		WeightNice:           0.25,
		WeightRating:         0.20,
		NumericSteepness:     4.0,
		NumericMargin:        1.0,
		InBudgetSlope:        0.2,
		OverBudgetMargin:     0.2,
		RatingEvidenceFloor:  0.5,
		MinEvidenceReviews:   50,
		BrandBonus:           0.03,
		ProcessorBonus:       0.03,
		PersonalizationScale: 0.3,
		MaxComponentBonus:    0.05,
		MaxBonus:             0.10,
		BrandCapRatio:        0.5,
		RelaxMinResults:      1,
		RelaxOrder:           "restrictive_first",
		AlternativesCount:    3,
		IssuedTTL:            7 * 24 * time.Hour,
		FeedbackIncrement:    0.05,
		MaxDelta:             0.15,
	}
}

// LoadEngine layers defaults, an optional YAML file and ENGINE_* variables.
// An empty path skips the file layer.
func LoadEngine(path string) (EngineConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultEngineConfig(), "koanf"), nil); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to load engine defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return EngineConfig{}, fmt.Errorf("engine config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return EngineConfig{}, fmt.Errorf("failed to load engine config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EngineEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EngineEnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to load engine environment: %w", err)
	}

	var cfg EngineConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to unmarshal engine config: %w", err)
	}

	return cfg, nil
}
