package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductStatus enumerates the storefront visibility states.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"
	ProductStatusInactive ProductStatus = "Inactive"
)

// Valid reports whether s is a known status.
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Badges shown on product cards.
const (
	BadgeNew        = "Nuevo"
	BadgeSale       = "Oferta"
	BadgeBestSeller = "Más Vendido"
)

// Product represents a catalog entry.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	SKU         string          `db:"sku" json:"sku,omitempty"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	Subcategory string          `db:"subcategory" json:"subcategory,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Status      ProductStatus   `db:"status" json:"status"`
	Images      pq.StringArray  `db:"images" json:"images"`
	Colors      pq.StringArray  `db:"colors" json:"colors"`
	Sizes       pq.StringArray  `db:"sizes" json:"sizes"`
	Material    string          `db:"material" json:"material,omitempty"`
	Tags        pq.StringArray  `db:"tags" json:"tags"`
	Hashtags    pq.StringArray  `db:"hashtags" json:"hashtags"`
	Badge       string          `db:"badge" json:"badge,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"-"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the product is visible on the storefront.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// ProductInput is the writable part of a product, used for create and update.
type ProductInput struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      ProductStatus   `json:"status"`
	Images      []string        `json:"images"`
	Colors      []string        `json:"colors"`
	Sizes       []string        `json:"sizes"`
	Material    string          `json:"material"`
	Tags        []string        `json:"tags"`
	Hashtags    []string        `json:"hashtags"`
	Badge       string          `json:"badge"`
}

// Apply copies the input onto p, leaving id and timestamps untouched.
func (in *ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.SKU = in.SKU
	p.Description = in.Description
	p.Category = in.Category
	p.Subcategory = in.Subcategory
	p.Price = in.Price
	p.Stock = in.Stock
	p.Status = in.Status
	p.Images = nonNil(in.Images)
	p.Colors = nonNil(in.Colors)
	p.Sizes = nonNil(in.Sizes)
	p.Material = in.Material
	p.Tags = nonNil(in.Tags)
	p.Hashtags = nonNil(in.Hashtags)
	p.Badge = in.Badge
}

func nonNil(xs []string) pq.StringArray {
	if xs == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(xs)
}
