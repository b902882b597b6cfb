package postgres

import (
	"context"
	"errors"
	"fmt"

	"smartCatalog/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Order("id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

// FindActive feeds the catalog syncer.
func (r *ProductRepository) FindActive(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Where("active = ?", true).Order("sku").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"sku":          product.SKU,
		"product_name": product.ProductName,
		"brand":        product.Brand,
		"model_family": product.ModelFamily,
		"processor":    product.Processor,
		"memory_gb":    product.MemoryGB,
		"storage_gb":   product.StorageGB,
		"storage_type": product.StorageType,
		"display_size": product.DisplaySize,
		"weight_class": product.WeightClass,
		"features":     product.Features,
		"price":        product.Price,
		"rating":       product.Rating,
		"review_count": product.ReviewCount,
		"active":       product.Active,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", product.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, product.ID)
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}

	return nil
}
