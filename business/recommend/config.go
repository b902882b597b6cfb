package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"smartCatalog/business/catalog"
	"smartCatalog/domain"
)

// Weights are the linear weights of the four scored dimensions. They must sum to 1;
// the preference bonus is added on top.
type Weights struct {
	Price   float64
	Numeric float64
	Nice    float64
	Rating  float64
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"price":   w.Price,
		"numeric": w.Numeric,
		"nice":    w.Nice,
		"rating":  w.Rating,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative", name)
		}
	}
	sum := w.Price + w.Numeric + w.Nice + w.Rating
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("weights must sum to 1, got %.4f", sum)
	}
	return nil
}

// Relaxation orders.
const (
	RelaxRestrictiveFirst = "restrictive_first"
	RelaxPrevalentFirst   = "prevalent_first"
)

type Config struct {
	Weights Weights

	// logistic ramp for memory/storage minima
	NumericSteepness float64
	NumericMargin    float64

	// price_fit shape: slope inside the budget and the soft margin above it
	InBudgetSlope    float64
	OverBudgetMargin float64

	RatingEvidenceFloor float64
	MinEvidenceReviews  int

	BrandBonus           float64
	ProcessorBonus       float64
	PersonalizationScale float64
	MaxComponentBonus    float64
	MaxBonus             float64

	// share of limit one brand may take; 0 disables the cap
	BrandCapRatio float64

	RelaxMinResults int
	RelaxOrder      string

	AlternativesCount int
	IssuedTTL         time.Duration
}

const (
	defaultWeightPrice          = 0.30
	defaultWeightNumeric        = 0.25
	defaultWeightNice           = 0.25
	defaultWeightRating         = 0.20
	defaultNumericSteepness     = 4.0
	defaultNumericMargin        = 1.0
	defaultInBudgetSlope        = 0.2
	defaultOverBudgetMargin     = 0.2
	defaultRatingEvidenceFloor  = 0.5
	defaultMinEvidenceReviews   = 50
	defaultBrandBonus           = 0.03
	defaultProcessorBonus       = 0.03
	defaultPersonalizationScale = 0.3
	defaultMaxComponentBonus    = 0.05
	defaultMaxBonus             = 0.10
	defaultBrandCapRatio        = 0.5
	defaultRelaxMinResults      = 1
	defaultAlternativesCount    = 3
	defaultIssuedTTL            = 7 * 24 * time.Hour

	MinLimit = 1
	MaxLimit = 20
)

func DefaultWeights() Weights {
	return Weights{
		Price:   defaultWeightPrice,
		Numeric: defaultWeightNumeric,
		Nice:    defaultWeightNice,
		Rating:  defaultWeightRating,
	}
}

func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),

		NumericSteepness: defaultNumericSteepness,
		NumericMargin:    defaultNumericMargin,

		InBudgetSlope:    defaultInBudgetSlope,
		OverBudgetMargin: defaultOverBudgetMargin,

		RatingEvidenceFloor: defaultRatingEvidenceFloor,
		MinEvidenceReviews:  defaultMinEvidenceReviews,

		BrandBonus:           defaultBrandBonus,
		ProcessorBonus:       defaultProcessorBonus,
		PersonalizationScale: defaultPersonalizationScale,
		MaxComponentBonus:    defaultMaxComponentBonus,
		MaxBonus:             defaultMaxBonus,

		BrandCapRatio: defaultBrandCapRatio,

		RelaxMinResults: defaultRelaxMinResults,
		RelaxOrder:      RelaxRestrictiveFirst,

		AlternativesCount: defaultAlternativesCount,
		IssuedTTL:         defaultIssuedTTL,
	}
}

func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.NumericSteepness <= 0 || c.NumericMargin <= 0 {
		return errors.New("numeric ramp steepness and margin must be positive")
	}
	if c.InBudgetSlope < 0 || c.InBudgetSlope >= 1 {
		return errors.New("in-budget slope must be in [0,1)")
	}
	if c.OverBudgetMargin <= 0 {
		return errors.New("over-budget margin must be positive")
	}
	if c.RatingEvidenceFloor < 0 || c.RatingEvidenceFloor > 1 {
		return errors.New("rating evidence floor must be in [0,1]")
	}
	if c.MinEvidenceReviews < 0 {
		return errors.New("minimum evidence reviews must not be negative")
	}
	if c.MaxComponentBonus < 0 || c.MaxBonus < 0 {
		return errors.New("bonus caps must not be negative")
	}
	if c.BrandCapRatio < 0 || c.BrandCapRatio > 1 {
		return errors.New("brand cap ratio must be in [0,1]")
	}
	if c.RelaxOrder != RelaxRestrictiveFirst && c.RelaxOrder != RelaxPrevalentFirst {
		return fmt.Errorf("unknown relax order %q", c.RelaxOrder)
	}
	if c.AlternativesCount < 0 {
		return errors.New("alternatives count must not be negative")
	}
	return nil
}

// CatalogDataProvider hands out the current immutable catalog snapshot.
type CatalogDataProvider interface {
	CurrentSnapshot(ctx context.Context) (*catalog.Index, error)
}

// PersonalizationDataProvider is the read/write side of the personalization store.
type PersonalizationDataProvider interface {
	WeightsFor(ctx context.Context, userID string) (map[string]float64, error)
	Profile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error)
	RecordFeedback(ctx context.Context, event domain.FeedbackEvent) error
	RecordIssued(ctx context.Context, recs []domain.IssuedRecommendation) error
}
