package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"smartCatalog/domain"
	"smartCatalog/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

// ProductRequest is shared by create and update.
type ProductRequest struct {
	SKU         string   `json:"sku" validate:"required,max=64"`
	ProductName string   `json:"product_name" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	ModelFamily string   `json:"model_family"`
	Processor   string   `json:"processor"`
	MemoryGB    int      `json:"memory_gb" validate:"gte=0"`
	StorageGB   int      `json:"storage_gb" validate:"gte=0"`
	StorageType string   `json:"storage_type"`
	DisplaySize float64  `json:"display_size" validate:"gte=0"`
	WeightClass string   `json:"weight_class" validate:"omitempty,oneof=light medium heavy"`
	Features    []string `json:"features" validate:"omitempty,dive,required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"review_count" validate:"gte=0"`
	Active      *bool    `json:"active"`
}

func (r ProductRequest) toDomain(id uint64) (*domain.Product, error) {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	p := &domain.Product{
		ID:          id,
		SKU:         r.SKU,
		ProductName: r.ProductName,
		Brand:       r.Brand,
		ModelFamily: r.ModelFamily,
		Processor:   r.Processor,
		MemoryGB:    r.MemoryGB,
		StorageGB:   r.StorageGB,
		StorageType: r.StorageType,
		DisplaySize: r.DisplaySize,
		WeightClass: r.WeightClass,
		Price:       r.Price,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		Active:      active,
	}
	if err := p.SetFeatureList(r.Features); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": product,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Debug("product_request_invalid", "error", err)
		return badRequest(c, err)
	}

	product, err := req.toDomain(0)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newProduct, err := h.productService.CreateProduct(ctx, product)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product successfully created",
		"product": newProduct,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, err)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Debug("product_request_invalid", "error", err)
		return badRequest(c, err)
	}

	product, err := req.toDomain(productID)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.productService.UpdateProduct(ctx, product)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update product",
		"product": updated,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "product successfully deleted",
		"product_id": productID,
	})
}
