package recommend

import (
	"context"
	"errors"
	"sync"

	"smartCatalog/business/catalog"
	"smartCatalog/domain"
)

func cand(id, brand string, price float64, memGB, storageGB int, storageType string, rating float64, reviews int, features ...string) domain.ProductCandidate {
	return domain.NewProductCandidate(domain.ProductCandidate{
		ID:          id,
		Name:        "Laptop " + id,
		Brand:       brand,
		MemoryGB:    memGB,
		StorageGB:   storageGB,
		StorageType: storageType,
		Features:    features,
		Price:       price,
		Rating:      rating,
		ReviewCount: reviews,
	})
}

func indexOf(cands ...domain.ProductCandidate) *catalog.Index {
	return catalog.NewIndex("test", cands)
}

// exampleCatalog is the two-laptop catalog used across the engine tests.
func exampleCatalog() *catalog.Index {
	return indexOf(
		cand("A", "HP", 900, 16, 512, "ssd", 4.5, 0),
		cand("B", "Acme", 700, 8, 256, "hdd", 4.0, 0),
	)
}

type staticCatalog struct {
	idx *catalog.Index
	err error
}

func (s staticCatalog) CurrentSnapshot(ctx context.Context) (*catalog.Index, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.idx, nil
}

type fakePersonalization struct {
	mu       sync.Mutex
	deltas   map[string]float64
	profile  domain.UserPreferenceProfile
	err      error
	issued   []domain.IssuedRecommendation
	feedback []domain.FeedbackEvent
}

var errStoreDown = errors.New("store down")

func (f *fakePersonalization) WeightsFor(ctx context.Context, userID string) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deltas, nil
}

func (f *fakePersonalization) Profile(ctx context.Context, userID string) (domain.UserPreferenceProfile, error) {
	if f.err != nil {
		return domain.UserPreferenceProfile{}, f.err
	}
	return f.profile, nil
}

func (f *fakePersonalization) RecordFeedback(ctx context.Context, event domain.FeedbackEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, event)
	return nil
}

func (f *fakePersonalization) RecordIssued(ctx context.Context, recs []domain.IssuedRecommendation) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, recs...)
	return nil
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }
