package personalization

import (
	"fmt"
	"time"

	"smartCatalog/pkg/config"
)

const (
	defaultIncrement           = 0.05
	defaultMaxDelta            = 0.15
	defaultBreakerMaxRequests  = 3
	defaultBreakerInterval     = time.Minute
	defaultBreakerTimeout      = 30 * time.Second
	defaultBreakerMinRequests  = 5
	defaultBreakerFailureRatio = 0.6
)

type Config struct {
	// Increment is added to (click) or subtracted from (dismiss) each matched feature.
	Increment float64
	// MaxDelta bounds every feature delta to [-MaxDelta, +MaxDelta].
	MaxDelta float64

	BreakerMaxRequests  uint32
	BreakerInterval     time.Duration
	BreakerTimeout      time.Duration
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
}

func DefaultConfig() Config {
	return Config{
		Increment:           defaultIncrement,
		MaxDelta:            defaultMaxDelta,
		BreakerMaxRequests:  defaultBreakerMaxRequests,
		BreakerInterval:     defaultBreakerInterval,
		BreakerTimeout:      defaultBreakerTimeout,
		BreakerMinRequests:  defaultBreakerMinRequests,
		BreakerFailureRatio: defaultBreakerFailureRatio,
	}
}

// ConfigFromEngine copies the feedback tuning out of the engine file.
func ConfigFromEngine(ec config.EngineConfig) (Config, error) {
	cfg := DefaultConfig()
	if ec.FeedbackIncrement != 0 {
		cfg.Increment = ec.FeedbackIncrement
	}
	if ec.MaxDelta != 0 {
		cfg.MaxDelta = ec.MaxDelta
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Increment <= 0 {
		return fmt.Errorf("feedback increment must be positive, got %v", c.Increment)
	}
	if c.MaxDelta <= 0 || c.MaxDelta < c.Increment {
		return fmt.Errorf("max delta must be positive and at least the increment, got %v", c.MaxDelta)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("breaker failure ratio must be in (0,1], got %v", c.BreakerFailureRatio)
	}
	return nil
}
