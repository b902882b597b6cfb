package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartCatalog/business/catalog"
	"smartCatalog/domain"
	"smartCatalog/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	catalog         CatalogDataProvider
	personalization PersonalizationDataProvider
	cfg             Config
	now             func() time.Time
	newID           func() string
}

// NewService wires the engine to its collaborators. personalization may be nil,
// in which case every request runs with neutral bias.
func NewService(catalog CatalogDataProvider, personalization PersonalizationDataProvider, cfg Config) *Service {
	return &Service{
		catalog:         catalog,
		personalization: personalization,
		cfg:             cfg,
		now:             time.Now,
		newID:           func() string { return uuid.NewString() },
	}
}

func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) snapshot(ctx context.Context) (*catalog.Index, error) {
	idx, err := s.catalog.CurrentSnapshot(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return idx, nil
}

// bias loads personalization deltas; failures are logged and yield neutral bias.
func (s *Service) bias(ctx context.Context, userID string) Bias {
	if s.personalization == nil || userID == "" {
		return nil
	}
	deltas, err := s.personalization.WeightsFor(ctx, userID)
	if err != nil {
		PersonalizationFallbacksTotal.WithLabelValues("weights").Inc()
		logger.Warn("personalization_unavailable",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
			"error", err,
		)
		return nil
	}
	return Bias(deltas)
}

func (s *Service) Recommend(ctx context.Context, userID string, req domain.RecommendRequest) (domain.RecommendResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendResponse{}, fmt.Errorf("context error: %w", err)
	}

	cs, err := Parse(req)
	if err != nil {
		return domain.RecommendResponse{}, err
	}

	idx, err := s.snapshot(ctx)
	if err != nil {
		return domain.RecommendResponse{}, err
	}

	outcome := rankWithRelaxation(idx, cs, s.bias(ctx, userID), s.cfg.Weights, s.cfg, req.Limit)
	results, rest := selectTop(outcome.ranked, req.Limit, s.cfg.BrandCapRatio)

	for i := range results {
		results[i].RecommendationID = s.newID()
		decorate(&results[i], outcome.constraints)
	}

	resp := domain.RecommendResponse{
		RequestID:          s.requestID(ctx),
		Timestamp:          s.now().UTC(),
		ConstraintsSummary: SummarizeConstraints(cs),
		Results:            results,
		Relaxed:            outcome.relaxed,
		RelaxedConstraints: append([]string{}, outcome.dropped...),
		TradeOffs:          AnalyzeTradeOffs(cs, idx.Candidates(), results),
	}

	if req.IncludeAlternatives && s.cfg.AlternativesCount > 0 {
		n := s.cfg.AlternativesCount
		if n > len(rest) {
			n = len(rest)
		}
		resp.Alternatives = append([]domain.ScoredCandidate{}, rest[:n]...)
		for i := range resp.Alternatives {
			decorate(&resp.Alternatives[i], outcome.constraints)
		}
	}

	pool := make([]domain.ProductCandidate, 0, len(outcome.ranked))
	for _, sc := range outcome.ranked {
		pool = append(pool, sc.Candidate)
	}
	resp.Insights = MarketInsights(pool)

	switch {
	case len(results) == 0:
		resp.NoMatchReason = noMatchReason(cs, outcome)
		RecommendOutcomesTotal.WithLabelValues("empty").Inc()
	case outcome.relaxed:
		RecommendOutcomesTotal.WithLabelValues("relaxed").Inc()
	default:
		RecommendOutcomesTotal.WithLabelValues("matched").Inc()
	}

	s.recordIssued(ctx, userID, results)

	logger.Debug("recommend",
		"trace_id", TraceIDFromContext(ctx),
		"request_id", resp.RequestID,
		"user_id", userID,
		"snapshot", idx.Version(),
		"eligible", len(outcome.ranked),
		"returned", len(results),
		"relaxed", outcome.relaxed,
		"dropped", outcome.dropped,
	)

	return resp, nil
}

func noMatchReason(cs domain.ConstraintSet, outcome rankOutcome) string {
	if outcome.relaxed {
		return fmt.Sprintf("no candidates matched even after relaxing %s", strings.Join(outcome.dropped, ", "))
	}
	return "no candidates satisfy the budget, brand and rating filters: " + SummarizeConstraints(cs)
}

func (s *Service) requestID(ctx context.Context) string {
	if tid := TraceIDFromContext(ctx); tid != "" {
		return tid
	}
	return s.newID()
}

// recordIssued is best effort; the response never depends on it.
func (s *Service) recordIssued(ctx context.Context, userID string, results []domain.ScoredCandidate) {
	if s.personalization == nil || userID == "" || len(results) == 0 {
		return
	}
	now := s.now().UTC()
	recs := make([]domain.IssuedRecommendation, 0, len(results))
	for _, sc := range results {
		recs = append(recs, domain.IssuedRecommendation{
			ID:              sc.RecommendationID,
			UserID:          userID,
			ProductID:       sc.Candidate.ID,
			MatchedFeatures: sc.MatchedFeatures(),
			Score:           sc.Score,
			CreatedAt:       now,
			ExpiresAt:       now.Add(s.cfg.IssuedTTL),
		})
	}
	if err := s.personalization.RecordIssued(ctx, recs); err != nil {
		PersonalizationFallbacksTotal.WithLabelValues("record_issued").Inc()
		logger.Warn("record_issued_failed", "trace_id", TraceIDFromContext(ctx), "user_id", userID, "error", err)
	}
}

func validateCompareIDs(ids []string) error {
	if len(ids) < MinCompare || len(ids) > MaxCompare {
		return fmt.Errorf("%w: got %d", domain.ErrComparisonProductCount, len(ids))
	}
	return nil
}

func (s *Service) Compare(ctx context.Context, ids []string, aspects []string) (domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("context error: %w", err)
	}
	if err := validateCompareIDs(ids); err != nil {
		return domain.ComparisonResult{}, err
	}

	idx, err := s.snapshot(ctx)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	cands, err := ResolveComparison(idx, ids)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	res, err := compareCandidates(cands, aspects, s.cfg.Weights, s.cfg)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	logger.Debug("compare",
		"trace_id", TraceIDFromContext(ctx),
		"ids", ids,
		"verdict", res.Verdict,
		"tie_broken", res.VerdictTieBroken,
	)

	return res, nil
}

func (s *Service) Smart(ctx context.Context, category string) ([]domain.SmartRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if !ValidCategory(strings.ToLower(strings.TrimSpace(category))) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}

	idx, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return curate(idx, category, s.cfg)
}

// Personalized ranks the snapshot against the user's stored preferences and
// feature deltas, skipping products the user already viewed.
func (s *Service) Personalized(ctx context.Context, userID string, limit int) ([]domain.ScoredCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit < MinLimit || limit > MaxLimit {
		return nil, domain.NewConstraintError("limit", "must be in [%d,%d], got %d", MinLimit, MaxLimit, limit)
	}

	profile := domain.NewUserPreferenceProfile(userID)
	if s.personalization != nil && userID != "" {
		p, err := s.personalization.Profile(ctx, userID)
		if err != nil {
			PersonalizationFallbacksTotal.WithLabelValues("profile").Inc()
			logger.Warn("personalization_profile_unavailable", "trace_id", TraceIDFromContext(ctx), "user_id", userID, "error", err)
		} else {
			profile = p
		}
	}

	cs, err := Parse(domain.RecommendRequest{
		BudgetMax:           profile.BudgetMax,
		UseCase:             profile.UseCase,
		ProcessorPreference: profile.ProcessorPreference,
		Limit:               limit,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range profile.PreferredBrands {
		if !containsFold(cs.PreferredBrands, b) {
			cs.PreferredBrands = append(cs.PreferredBrands, b)
		}
	}

	idx, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	outcome := rankWithRelaxation(idx, cs, Bias(profile.FeatureDeltas), s.cfg.Weights, s.cfg, limit)

	viewed := make(map[string]struct{}, len(profile.ViewedProducts))
	for _, id := range profile.ViewedProducts {
		viewed[id] = struct{}{}
	}
	fresh := make([]domain.ScoredCandidate, 0, len(outcome.ranked))
	for _, sc := range outcome.ranked {
		if _, ok := viewed[sc.Candidate.ID]; !ok {
			fresh = append(fresh, sc)
		}
	}

	results, _ := selectTop(fresh, limit, s.cfg.BrandCapRatio)
	for i := range results {
		results[i].RecommendationID = s.newID()
		decorate(&results[i], outcome.constraints)
	}

	s.recordIssued(ctx, userID, results)

	return results, nil
}

func (s *Service) RecordFeedback(ctx context.Context, userID, recommendationID, action string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(recommendationID) == "" {
		return fmt.Errorf("%w: recommendation_id is required", domain.ErrInvalidFeedback)
	}
	if !domain.ValidFeedbackAction(action) {
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidFeedback, action)
	}
	if s.personalization == nil {
		return fmt.Errorf("%w: personalization store not configured", domain.ErrServiceUnavailable)
	}

	event := domain.FeedbackEvent{
		RecommendationID: recommendationID,
		Action:           action,
		UserID:           userID,
		Timestamp:        s.now().UTC(),
	}
	if err := s.personalization.RecordFeedback(ctx, event); err != nil {
		return err
	}

	FeedbackEventsTotal.WithLabelValues(action).Inc()
	logger.Debug("recommend_feedback",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"recommendation_id", recommendationID,
		"action", action,
	)

	return nil
}

func (s *Service) SuggestConstraints(useCase string, budgetMax *float64) (domain.SuggestedConstraints, error) {
	return SuggestConstraints(useCase, budgetMax)
}
