package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartCatalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexDedupAndOrder(t *testing.T) {
	idx, err := LoadJSONFile("testdata/catalog.json")
	require.NoError(t, err)

	require.Equal(t, 2, idx.Len())
	assert.Equal(t, "a", idx.Candidates()[0].ID)
	assert.Equal(t, "b", idx.Candidates()[1].ID)

	a, ok := idx.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha duplicate", a.Name)
	assert.Equal(t, 950.0, a.Price)

	b, ok := idx.Get("b")
	require.True(t, ok)
	assert.Equal(t, "hdd", b.StorageType)
	assert.Equal(t, []string{"usb-c"}, b.Features)

	_, ok = idx.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "testdata/catalog.json", idx.Version())
}

func TestIndexPrevalence(t *testing.T) {
	idx := NewIndex("v1", []domain.ProductCandidate{
		{ID: "1", StorageType: "nvme ssd", Features: []string{"backlit keyboard"}},
		{ID: "2", StorageType: "ssd"},
		{ID: "3", StorageType: "hdd", Features: []string{"touchscreen"}},
	})

	assert.Equal(t, 2, idx.Prevalence("ssd"))
	assert.Equal(t, 1, idx.Prevalence("backlit-keyboard"))
	assert.Equal(t, 0, idx.Prevalence("thunderbolt"))
}

func TestLoadJSONFileErrors(t *testing.T) {
	_, err := LoadJSONFile("testdata/does-not-exist.json")
	assert.Error(t, err)

	_, err = LoadJSONFile("testdata/bad_price.json")
	assert.ErrorContains(t, err, "negative price")
}

func TestHolderSwap(t *testing.T) {
	h := NewHolder()

	_, err := h.CurrentSnapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	first := NewIndex("v1", []domain.ProductCandidate{{ID: "1"}})
	h.Swap(first)

	got, err := h.CurrentSnapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, got)

	h.Swap(NewIndex("v2", []domain.ProductCandidate{{ID: "1"}, {ID: "2"}}))
	// a reader holding the old pointer keeps a consistent view
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, 2, h.Current().Len())
}

func TestHolderConcurrentReaders(t *testing.T) {
	h := NewHolder()
	h.Swap(NewIndex("v0", []domain.ProductCandidate{{ID: "1"}}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				idx, err := h.CurrentSnapshot(context.Background())
				if err != nil || idx.Len() == 0 {
					t.Errorf("unexpected snapshot: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		h.Swap(NewIndex("v", []domain.ProductCandidate{{ID: "1"}, {ID: "2"}}))
	}
	wg.Wait()
}

type fakeProductRepo struct {
	products []domain.Product
	err      error
}

func (f *fakeProductRepo) FindActive(ctx context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func product(t *testing.T, sku string, price float64, features ...string) domain.Product {
	t.Helper()
	p := domain.Product{SKU: sku, ProductName: sku, Price: price, Active: true}
	require.NoError(t, p.SetFeatureList(features))
	return p
}

func TestSyncerRefresh(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{
		product(t, "sku-1", 500, "USB-C"),
		product(t, "", 300),
		product(t, "sku-2", -10),
		product(t, "sku-3", 800),
	}}
	h := NewHolder()
	s := NewSyncer(repo, h)

	idx, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Same(t, idx, h.Current())

	c, ok := idx.Get("sku-1")
	require.True(t, ok)
	assert.Equal(t, []string{"usb-c"}, c.Features)
}

func TestSyncerKeepsSnapshotOnError(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{product(t, "sku-1", 500)}}
	h := NewHolder()
	s := NewSyncer(repo, h)

	before, err := s.Refresh(context.Background())
	require.NoError(t, err)

	repo.err = errors.New("connection refused")
	_, err = s.Refresh(context.Background())
	assert.Error(t, err)
	assert.Same(t, before, h.Current())
}

func TestSyncerRunStopsOnCancel(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{product(t, "sku-1", 500)}}
	h := NewHolder()
	s := NewSyncer(repo, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.Current() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
