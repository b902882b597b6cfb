package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"smartCatalog/domain"
)

// ProductRepository is an in-process product table, seeded from a JSON catalog
// file when no database is configured.
type ProductRepository struct {
	mu     sync.RWMutex
	nextID uint64
	rows   map[uint64]domain.Product
}

func NewProductRepository(seed []domain.Product) *ProductRepository {
	r := &ProductRepository{rows: map[uint64]domain.Product{}}
	for _, p := range seed {
		p := p
		_ = r.insert(&p)
	}
	return r
}

func (r *ProductRepository) insert(p *domain.Product) error {
	for _, existing := range r.rows {
		if existing.SKU == p.SKU {
			return fmt.Errorf("duplicate sku %q", p.SKU)
		}
	}
	r.nextID++
	p.ID = r.nextID
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.rows[p.ID] = *p
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(product)
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return p, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) FindActive(ctx context.Context) ([]domain.Product, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[product.ID]
	if !ok {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, product.ID)
	}
	for id, other := range r.rows {
		if id != product.ID && other.SKU == product.SKU {
			return fmt.Errorf("duplicate sku %q", product.SKU)
		}
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.rows[product.ID] = *product
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	delete(r.rows, id)
	return nil
}
