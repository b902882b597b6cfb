package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartCatalog/domain"
)

type eventKey struct {
	recommendationID string
	action           string
}

// PersonalizationStore is the in-process backing store for the personalization adapter.
type PersonalizationStore struct {
	mu       sync.RWMutex
	issued   map[string]domain.IssuedRecommendation
	events   map[eventKey]domain.FeedbackEvent
	profiles map[string]domain.UserPreferenceProfile
}

func NewPersonalizationStore() *PersonalizationStore {
	return &PersonalizationStore{
		issued:   map[string]domain.IssuedRecommendation{},
		events:   map[eventKey]domain.FeedbackEvent{},
		profiles: map[string]domain.UserPreferenceProfile{},
	}
}

func (s *PersonalizationStore) SaveIssued(ctx context.Context, recs []domain.IssuedRecommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		r.MatchedFeatures = append([]string(nil), r.MatchedFeatures...)
		s.issued[r.ID] = r
	}
	return nil
}

func (s *PersonalizationStore) GetIssued(ctx context.Context, id string) (domain.IssuedRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return domain.IssuedRecommendation{}, fmt.Errorf("context error: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.issued[id]
	if !ok {
		return domain.IssuedRecommendation{}, fmt.Errorf("%w: recommendation %s", domain.ErrNotFound, id)
	}
	r.MatchedFeatures = append([]string(nil), r.MatchedFeatures...)
	return r, nil
}

// RecordEvent holds the write lock across the dedup check and the profile
// mutation; both maps change only after mutate succeeds.
func (s *PersonalizationStore) RecordEvent(ctx context.Context, event domain.FeedbackEvent, mutate domain.ProfileMutation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}
	key := eventKey{recommendationID: event.RecommendationID, action: event.Action}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[key]; ok {
		return false, nil
	}
	if mutate != nil {
		p, err := s.mutateLocked(event.UserID, mutate)
		if err != nil {
			return false, err
		}
		s.profiles[p.UserID] = p
	}
	s.events[key] = event
	return true, nil
}

func (s *PersonalizationStore) mutateLocked(userID string, mutate domain.ProfileMutation) (domain.UserPreferenceProfile, error) {
	if userID == "" {
		return domain.UserPreferenceProfile{}, fmt.Errorf("%w: user_id is required", domain.ErrInvalidConstraint)
	}
	p, ok := s.profiles[userID]
	if ok {
		p = p.Clone()
	} else {
		p = domain.NewUserPreferenceProfile(userID)
	}
	if err := mutate(&p); err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	p.UserID = userID
	return p, nil
}

func (s *PersonalizationStore) UpdateProfile(ctx context.Context, userID string, mutate domain.ProfileMutation) (domain.UserPreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.mutateLocked(userID, mutate)
	if err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	s.profiles[userID] = p
	return p.Clone(), nil
}

func (s *PersonalizationStore) PruneIssued(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.issued {
		if r.ExpiresAt.IsZero() || !r.ExpiresAt.Before(cutoff) {
			continue
		}
		delete(s.issued, id)
		n++
	}
	for key := range s.events {
		if _, ok := s.issued[key.recommendationID]; !ok {
			delete(s.events, key)
		}
	}
	return n, nil
}

// IssuedCount is used by tests.
func (s *PersonalizationStore) IssuedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issued)
}

// EventCount is used by tests and health output.
func (s *PersonalizationStore) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *PersonalizationStore) LoadProfile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferenceProfile{}, fmt.Errorf("context error: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.NewUserPreferenceProfile(userID), nil
	}
	return p.Clone(), nil
}
