package catalog

import (
	"context"
	"fmt"
	"time"

	"smartCatalog/domain"
	"smartCatalog/pkg/logger"
	"smartCatalog/pkg/metrics"
)

// ProductRepository is the read side the syncer needs from persistent storage.
type ProductRepository interface {
	FindActive(ctx context.Context) ([]domain.Product, error)
}

// Syncer rebuilds the snapshot from storage and swaps it into the holder.
type Syncer struct {
	repo   ProductRepository
	holder *Holder
}

func NewSyncer(repo ProductRepository, holder *Holder) *Syncer {
	return &Syncer{
		repo:   repo,
		holder: holder,
	}
}

// Refresh loads active products once. On failure the previous snapshot stays published.
func (s *Syncer) Refresh(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.repo.FindActive(ctx)
	if err != nil {
		metrics.CatalogRefreshTotal.WithLabelValues("error").Inc()
		logger.Error("catalog_refresh_failed", "error", err)
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	candidates := make([]domain.ProductCandidate, 0, len(products))
	skipped := 0
	for _, p := range products {
		c, err := p.ToCandidate()
		if err != nil {
			skipped++
			logger.Warn("catalog_skip_product", "product_id", p.ID, "sku", p.SKU, "error", err)
			continue
		}
		candidates = append(candidates, c)
	}

	version := time.Now().UTC().Format(time.RFC3339Nano)
	idx := NewIndex(version, candidates)
	s.holder.Swap(idx)

	metrics.CatalogRefreshTotal.WithLabelValues("ok").Inc()
	metrics.CatalogSnapshotSize.Set(float64(idx.Len()))
	logger.Info("catalog_refreshed",
		"version", version,
		"candidates", idx.Len(),
		"skipped", skipped,
	)

	return idx, nil
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	if _, err := s.Refresh(ctx); err != nil {
		logger.Warn("catalog_initial_refresh_failed", "error", err)
	}
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
			_, _ = s.Refresh(ctx)
		}
	}
}
