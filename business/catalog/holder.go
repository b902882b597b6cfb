package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"smartCatalog/domain"
)

// Holder publishes the current snapshot. Readers get whichever index was
// current when they asked; a swap never affects a request already in flight.
type Holder struct {
	current atomic.Pointer[Index]
}

func NewHolder() *Holder {
	return &Holder{}
}

// Swap publishes idx as the current snapshot.
func (h *Holder) Swap(idx *Index) {
	h.current.Store(idx)
}

// Current returns the published snapshot, or nil before the first publish.
func (h *Holder) Current() *Index {
	return h.current.Load()
}

func (h *Holder) CurrentSnapshot(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	idx := h.current.Load()
	if idx == nil {
		return nil, fmt.Errorf("catalog snapshot not loaded: %w", domain.ErrServiceUnavailable)
	}
	return idx, nil
}
