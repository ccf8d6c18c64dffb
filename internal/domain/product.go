package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the product entity
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductInput holds the mutable fields of a product.
// Create and update both take the full set; an empty string means the field is absent.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
}

// NewProduct builds a product from input with both timestamps set to now
func NewProduct(id int64, in ProductInput, now time.Time) Product {
	p := Product{
		ID:        id,
		CreatedAt: now,
	}
	p.Apply(in, now)
	return p
}

// Apply overwrites every mutable field and refreshes UpdatedAt.
// UpdatedAt never moves before CreatedAt.
func (p *Product) Apply(in ProductInput, now time.Time) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.Category = in.Category

	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = now
}
