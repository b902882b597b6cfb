package product

import (
	"context"
	"errors"
	"testing"

	"smartCatalog/domain"
	"smartCatalog/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func laptop(sku string, price float64) *domain.Product {
	return &domain.Product{
		SKU:         sku,
		ProductName: "Laptop " + sku,
		Brand:       "HP",
		MemoryGB:    16,
		StorageGB:   512,
		StorageType: "ssd",
		Features:    datatypes.JSON(`["backlit keyboard"]`),
		Price:       price,
		Rating:      4.2,
		ReviewCount: 30,
		Active:      true,
	}
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(nil))

	created, err := svc.CreateProduct(ctx, laptop(" hp-1 ", 899))
	require.NoError(t, err)
	assert.Equal(t, "hp-1", created.SKU)
	require.NotZero(t, created.ID)

	got, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 899.0, got.Price)

	upd := laptop("hp-1", 849)
	upd.ID = created.ID
	updated, err := svc.UpdateProduct(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, 849.0, updated.Price)

	all, err := svc.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProductByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, created.ID), domain.ErrNotFound)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewProductService(memory.NewProductRepository(nil))

	tests := []struct {
		name  string
		field string
		edit  func(p *domain.Product)
	}{
		{"missing sku", "sku", func(p *domain.Product) { p.SKU = " " }},
		{"missing name", "product_name", func(p *domain.Product) { p.ProductName = "" }},
		{"zero price", "price", func(p *domain.Product) { p.Price = 0 }},
		{"negative memory", "memory_gb", func(p *domain.Product) { p.MemoryGB = -8 }},
		{"rating above five", "rating", func(p *domain.Product) { p.Rating = 5.5 }},
		{"negative reviews", "review_count", func(p *domain.Product) { p.ReviewCount = -1 }},
		{"features not a list", "features", func(p *domain.Product) { p.Features = datatypes.JSON(`{"a":1}`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := laptop("x-1", 500)
			tt.edit(p)

			_, err := svc.CreateProduct(context.Background(), p)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConstraint)

			var ce *domain.ConstraintError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestProductIDRequired(t *testing.T) {
	svc := NewProductService(memory.NewProductRepository(nil))

	_, err := svc.GetProductByID(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConstraint)
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), 0), domain.ErrInvalidConstraint)

	_, err = svc.UpdateProduct(context.Background(), laptop("x", 100))
	assert.ErrorIs(t, err, domain.ErrInvalidConstraint)
}
