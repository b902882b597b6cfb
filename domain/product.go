package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     sku           TEXT UNIQUE NOT NULL,
//     product_name  TEXT,
//     brand         TEXT,
//     model_family  TEXT,
//     processor     TEXT,
//     memory_gb     INT,
//     storage_gb    INT,
//     storage_type  TEXT,
//     display_size  NUMERIC,
//     weight_class  TEXT,
//     features      JSONB,
//     price         NUMERIC,
//     rating        NUMERIC,
//     review_count  INT,
//     active        BOOLEAN DEFAULT true,
//     created_at    TIMESTAMPTZ DEFAULT NOW(),
//     updated_at    TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU         string         `gorm:"column:sku;type:text;uniqueIndex" json:"sku"`
	ProductName string         `gorm:"column:product_name;type:text" json:"product_name"`
	Brand       string         `gorm:"column:brand;type:text" json:"brand"`
	ModelFamily string         `gorm:"column:model_family;type:text" json:"model_family"`
	Processor   string         `gorm:"column:processor;type:text" json:"processor"`
	MemoryGB    int            `gorm:"column:memory_gb" json:"memory_gb"`
	StorageGB   int            `gorm:"column:storage_gb" json:"storage_gb"`
	StorageType string         `gorm:"column:storage_type;type:text" json:"storage_type"`
	DisplaySize float64        `gorm:"column:display_size;type:numeric" json:"display_size"`
	WeightClass string         `gorm:"column:weight_class;type:text" json:"weight_class"`
	Features    datatypes.JSON `gorm:"column:features;type:jsonb" json:"features"`
	Price       float64        `gorm:"column:price;type:numeric" json:"price"`
	Rating      float64        `gorm:"column:rating;type:numeric" json:"rating"`
	ReviewCount int            `gorm:"column:review_count" json:"review_count"`
	Active      bool           `gorm:"column:active;default:true" json:"active"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// FeatureList decodes the features column. A null or empty column yields no features.
func (p Product) FeatureList() ([]string, error) {
	if len(p.Features) == 0 || string(p.Features) == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(p.Features, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFeatureList encodes features into the JSON column.
func (p *Product) SetFeatureList(features []string) error {
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.Features = datatypes.JSON(raw)
	return nil
}

// ToCandidate converts the persisted row into the value the engine scores.
func (p Product) ToCandidate() (ProductCandidate, error) {
	if strings.TrimSpace(p.SKU) == "" {
		return ProductCandidate{}, errors.New("product sku is empty")
	}
	if p.Price < 0 {
		return ProductCandidate{}, errors.New("product price is negative")
	}
	features, err := p.FeatureList()
	if err != nil {
		return ProductCandidate{}, err
	}

	return NewProductCandidate(ProductCandidate{
		ID:          p.SKU,
		Name:        p.ProductName,
		Brand:       p.Brand,
		ModelFamily: p.ModelFamily,
		Processor:   p.Processor,
		MemoryGB:    p.MemoryGB,
		StorageGB:   p.StorageGB,
		StorageType: p.StorageType,
		DisplaySize: p.DisplaySize,
		WeightClass: p.WeightClass,
		Features:    features,
		Price:       p.Price,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
	}), nil
}

// ProductFromCandidate builds an active product row from a catalog file entry.
func ProductFromCandidate(c ProductCandidate) (Product, error) {
	p := Product{
		SKU:         c.ID,
		ProductName: c.Name,
		Brand:       c.Brand,
		ModelFamily: c.ModelFamily,
		Processor:   c.Processor,
		MemoryGB:    c.MemoryGB,
		StorageGB:   c.StorageGB,
		StorageType: c.StorageType,
		DisplaySize: c.DisplaySize,
		WeightClass: c.WeightClass,
		Price:       c.Price,
		Rating:      c.Rating,
		ReviewCount: c.ReviewCount,
		Active:      true,
	}
	if err := p.SetFeatureList(c.Features); err != nil {
		return Product{}, err
	}
	return p, nil
}
