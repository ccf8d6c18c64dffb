package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewProduct_SetsBothTimestamps(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	p := NewProduct(7, ProductInput{
		Name:          "Widget",
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: 5,
		Category:      "Tools",
	}, now)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Widget", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestApply_OverwritesAllFields(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewProduct(1, ProductInput{
		Name:          "Widget",
		Description:   "small",
		Price:         decimal.NewFromInt(3),
		StockQuantity: 4,
		Category:      "Tools",
	}, created)

	later := created.Add(time.Minute)
	p.Apply(ProductInput{Name: "Widget2"}, later)

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Widget2", p.Name)
	assert.Empty(t, p.Description)
	assert.True(t, p.Price.IsZero())
	assert.Zero(t, p.StockQuantity)
	assert.Empty(t, p.Category)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestApply_ClockBehindCreation(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := NewProduct(1, ProductInput{Name: "Widget"}, created)

	p.Apply(ProductInput{Name: "Widget"}, created.Add(-time.Hour))

	assert.Equal(t, created, p.UpdatedAt)
	assert.False(t, p.UpdatedAt.Before(p.CreatedAt))
}
