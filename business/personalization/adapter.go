package personalization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartCatalog/business/recommend"
	"smartCatalog/domain"
	"smartCatalog/pkg/logger"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Store persists issued recommendations, the feedback log and per-user profiles.
type Store interface {
	SaveIssued(ctx context.Context, recs []domain.IssuedRecommendation) error
	// GetIssued returns domain.ErrNotFound for unknown ids.
	GetIssued(ctx context.Context, id string) (domain.IssuedRecommendation, error)
	// RecordEvent appends the event and, when it is new and mutate is non-nil,
	// applies mutate to event.UserID's profile in the same unit of work. Nothing
	// is kept if mutate or the profile write fails. Reports false for a replayed
	// (recommendation_id, action) pair.
	RecordEvent(ctx context.Context, event domain.FeedbackEvent, mutate domain.ProfileMutation) (bool, error)
	// LoadProfile returns an empty profile for unknown users.
	LoadProfile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error)
	// UpdateProfile applies mutate to the stored profile while holding it
	// exclusively and returns the saved result.
	UpdateProfile(ctx context.Context, userID string, mutate domain.ProfileMutation) (domain.UserPreferenceProfile, error)
	// PruneIssued removes issued recommendations that expired before cutoff,
	// together with their feedback events.
	PruneIssued(ctx context.Context, cutoff time.Time) (int64, error)
}

const breakerName = "personalization-store"

type Adapter struct {
	store Store
	cfg   Config
	cb    *gobreaker.CircuitBreaker[domain.UserPreferenceProfile]
	now   func() time.Time
}

func NewAdapter(store Store, cfg Config) *Adapter {
	BreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[domain.UserPreferenceProfile](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state", "name", name, "from", from.String(), "to", to.String())
			BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Adapter{store: store, cfg: cfg, cb: cb, now: time.Now}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// BreakerState exposes the breaker state name, mainly for health output.
func (a *Adapter) BreakerState() string {
	return a.cb.State().String()
}

func (a *Adapter) loadProfile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error) {
	p, err := a.cb.Execute(func() (domain.UserPreferenceProfile, error) {
		return a.store.LoadProfile(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			BreakerRejectionsTotal.Inc()
		}
		return domain.NewUserPreferenceProfile(userID), fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	if p.FeatureDeltas == nil {
		p.FeatureDeltas = map[string]float64{}
	}
	return p, nil
}

// WeightsFor returns the user's clamped feature deltas. On failure it returns an
// empty map together with the error so callers can proceed with zero bias.
func (a *Adapter) WeightsFor(ctx context.Context, userID string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return map[string]float64{}, fmt.Errorf("context error: %w", err)
	}
	p, err := a.loadProfile(ctx, userID)
	if err != nil {
		return map[string]float64{}, err
	}
	out := make(map[string]float64, len(p.FeatureDeltas))
	for k, v := range p.FeatureDeltas {
		out[k] = clamp(v, a.cfg.MaxDelta)
	}
	return out, nil
}

func (a *Adapter) Profile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.NewUserPreferenceProfile(userID), fmt.Errorf("context error: %w", err)
	}
	p, err := a.loadProfile(ctx, userID)
	if err != nil {
		return p, err
	}
	return p.Clone(), nil
}

func (a *Adapter) RecordIssued(ctx context.Context, recs []domain.IssuedRecommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(recs) == 0 {
		return nil
	}
	return a.store.SaveIssued(ctx, recs)
}

// RecordFeedback appends the event and, only when it is new, folds it into the
// owner's feature deltas. Replays of the same (recommendation, action) pair are no-ops.
func (a *Adapter) RecordFeedback(ctx context.Context, event domain.FeedbackEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if !domain.ValidFeedbackAction(event.Action) {
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidFeedback, event.Action)
	}

	issued, err := a.store.GetIssued(ctx, event.RecommendationID)
	if err != nil {
		return err
	}
	now := a.now().UTC()
	if !issued.ExpiresAt.IsZero() && now.After(issued.ExpiresAt) {
		return fmt.Errorf("%w: recommendation %s expired", domain.ErrNotFound, event.RecommendationID)
	}
	if event.UserID != "" && issued.UserID != "" && event.UserID != issued.UserID {
		return fmt.Errorf("%w: recommendation %s", domain.ErrNotFound, event.RecommendationID)
	}
	if event.UserID == "" {
		event.UserID = issued.UserID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}

	var mutate domain.ProfileMutation
	if event.Action != domain.ActionShown && issued.UserID != "" {
		mutate = func(p *domain.UserPreferenceProfile) error {
			*p = a.apply(*p, issued, event.Action)
			p.UpdatedAt = now
			return nil
		}
	}

	created, err := a.store.RecordEvent(ctx, event, mutate)
	if err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	if !created {
		logger.Debug("feedback_duplicate", "recommendation_id", event.RecommendationID, "action", event.Action)
	}
	return nil
}

const (
	maxPreferredBrands = 20
	maxPreferenceValue = 64
)

// UpdatePreferences validates patch and merges it into the user's stored
// preferences. Feature deltas and viewed products are left alone.
func (a *Adapter) UpdatePreferences(ctx context.Context, userID string, patch domain.PreferencePatch) (domain.UserPreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(userID) == "" {
		return domain.UserPreferenceProfile{}, domain.NewConstraintError("user_id", "is required")
	}

	var brands []string
	if patch.PreferredBrands != nil {
		seen := map[string]struct{}{}
		for _, b := range *patch.PreferredBrands {
			b = strings.TrimSpace(b)
			if b == "" {
				continue
			}
			key := strings.ToLower(b)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			brands = append(brands, b)
		}
		if len(brands) > maxPreferredBrands {
			return domain.UserPreferenceProfile{}, domain.NewConstraintError("preferred_brands", "at most %d brands, got %d", maxPreferredBrands, len(brands))
		}
	}
	if patch.BudgetMax != nil && *patch.BudgetMax < 0 {
		return domain.UserPreferenceProfile{}, domain.NewConstraintError("budget_max", "must be >= 0, got %v", *patch.BudgetMax)
	}
	var useCase string
	if patch.UseCase != nil {
		useCase = domain.NormalizeToken(*patch.UseCase)
		if useCase != "" && !recommend.KnownUseCase(useCase) {
			return domain.UserPreferenceProfile{}, domain.NewConstraintError("use_case", "unknown use case %q", *patch.UseCase)
		}
	}
	var processor string
	if patch.ProcessorPreference != nil {
		processor = strings.TrimSpace(*patch.ProcessorPreference)
		if len(processor) > maxPreferenceValue {
			return domain.UserPreferenceProfile{}, domain.NewConstraintError("processor_preference", "longer than %d characters", maxPreferenceValue)
		}
	}
	for k, v := range patch.Extensions {
		if strings.TrimSpace(k) == "" || len(k) > maxPreferenceValue || len(v) > maxPreferenceValue {
			return domain.UserPreferenceProfile{}, domain.NewConstraintError("extensions", "keys must be non-empty and entries at most %d characters", maxPreferenceValue)
		}
	}

	now := a.now().UTC()
	profile, err := a.store.UpdateProfile(ctx, userID, func(p *domain.UserPreferenceProfile) error {
		if patch.PreferredBrands != nil {
			p.PreferredBrands = brands
		}
		if patch.ProcessorPreference != nil {
			p.ProcessorPreference = processor
		}
		if patch.BudgetMax != nil {
			if *patch.BudgetMax == 0 {
				p.BudgetMax = nil
			} else {
				b := *patch.BudgetMax
				p.BudgetMax = &b
			}
		}
		if patch.UseCase != nil {
			p.UseCase = useCase
		}
		for k, v := range patch.Extensions {
			if v == "" {
				delete(p.Extensions, k)
			}
		}
		for k, v := range patch.Extensions {
			if v == "" {
				continue
			}
			if err := p.SetExtension(k, v); err != nil {
				return domain.NewConstraintError("extensions", "%v", err)
			}
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.UserPreferenceProfile{}, err
	}

	logger.Debug("preferences_updated", "user_id", userID)
	return profile, nil
}

// PruneExpired drops issued recommendations whose feedback window has closed.
func (a *Adapter) PruneExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	n, err := a.store.PruneIssued(ctx, a.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune issued recommendations: %w", err)
	}
	if n > 0 {
		logger.Info("issued_recommendations_pruned", "count", n)
	}
	return n, nil
}

// RunJanitor calls PruneExpired on every tick until ctx is cancelled.
func (a *Adapter) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.PruneExpired(ctx); err != nil {
				logger.Warn("personalization_janitor_failed", "error", err)
			}
		}
	}
}

// apply folds one new click or dismissal into the profile.
func (a *Adapter) apply(p domain.UserPreferenceProfile, issued domain.IssuedRecommendation, action string) domain.UserPreferenceProfile {
	p = p.Clone()
	if p.UserID == "" {
		p.UserID = issued.UserID
	}

	step := a.cfg.Increment
	if action == domain.ActionDismissed {
		step = -step
	}
	for _, f := range issued.MatchedFeatures {
		p.FeatureDeltas[f] = clamp(p.FeatureDeltas[f]+step, a.cfg.MaxDelta)
	}
	if action == domain.ActionClicked {
		p.AddViewed(issued.ProductID)
	}
	return p
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
