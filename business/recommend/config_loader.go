package recommend

import (
	"fmt"

	"smartCatalog/pkg/config"
)

// ConfigFromEngine copies tuned values over the defaults and validates the result.
func ConfigFromEngine(ec config.EngineConfig) (Config, error) {
	// start from defaults so zero values in partial configs stay sane
	cfg := DefaultConfig()

	cfg.Weights = Weights{
		Price:   ec.WeightPrice,
		Numeric: ec.WeightNumeric,
		Nice:    ec.WeightNice,
		Rating:  ec.WeightRating,
	}

	if ec.NumericSteepness > 0 {
		cfg.NumericSteepness = ec.NumericSteepness
	}
	if ec.NumericMargin > 0 {
		cfg.NumericMargin = ec.NumericMargin
	}
	cfg.InBudgetSlope = ec.InBudgetSlope
	if ec.OverBudgetMargin > 0 {
		cfg.OverBudgetMargin = ec.OverBudgetMargin
	}

	cfg.RatingEvidenceFloor = ec.RatingEvidenceFloor
	cfg.MinEvidenceReviews = ec.MinEvidenceReviews

	cfg.BrandBonus = ec.BrandBonus
	cfg.ProcessorBonus = ec.ProcessorBonus
	cfg.PersonalizationScale = ec.PersonalizationScale
	cfg.MaxComponentBonus = ec.MaxComponentBonus
	cfg.MaxBonus = ec.MaxBonus

	cfg.BrandCapRatio = ec.BrandCapRatio
	if ec.RelaxMinResults > 0 {
		cfg.RelaxMinResults = ec.RelaxMinResults
	}
	if ec.RelaxOrder != "" {
		cfg.RelaxOrder = ec.RelaxOrder
	}
	cfg.AlternativesCount = ec.AlternativesCount
	if ec.IssuedTTL > 0 {
		cfg.IssuedTTL = ec.IssuedTTL
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid engine config: %w", err)
	}

	return cfg, nil
}
