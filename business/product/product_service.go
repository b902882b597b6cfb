package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartCatalog/domain"
	"smartCatalog/pkg/logger"
)

// ProductRepository contract interface. FindByID returns domain.ErrNotFound for unknown ids.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to find all products", "error", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		return nil, domain.NewConstraintError("id", "is required")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// validateProduct checks the fields the catalog snapshot relies on.
func validateProduct(p *domain.Product) error {
	p.SKU = strings.TrimSpace(p.SKU)
	if p.SKU == "" {
		return domain.NewConstraintError("sku", "is required")
	}
	if strings.TrimSpace(p.ProductName) == "" {
		return domain.NewConstraintError("product_name", "is required")
	}
	if p.Price <= 0 {
		return domain.NewConstraintError("price", "must be greater than 0")
	}
	if p.MemoryGB < 0 || p.StorageGB < 0 {
		return domain.NewConstraintError("memory_gb", "memory and storage cannot be negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return domain.NewConstraintError("rating", "must be in [0,5]")
	}
	if p.ReviewCount < 0 {
		return domain.NewConstraintError("review_count", "cannot be negative")
	}
	if _, err := p.FeatureList(); err != nil {
		return domain.NewConstraintError("features", "must be a list of strings")
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateProduct(product); err != nil {
		logger.Warn("invalid product data", "sku", product.SKU, "error", err)
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", "sku", product.SKU, "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created", "id", product.ID, "sku", product.SKU)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		return nil, domain.NewConstraintError("id", "is required")
	}
	if err := validateProduct(product); err != nil {
		logger.Warn("invalid product data", "id", product.ID, "error", err)
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, product.ID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", "id", product.ID, "error", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	updated, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated", "id", product.ID)

	return &updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.NewConstraintError("id", "is required")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		logger.Error("failed to delete product", "id", id, "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logger.Info("product deleted", "id", id)

	return nil
}
