package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the contract for product storage.
// Lookups by id report a missing record with ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, in ProductInput) (Product, error)
	FindByID(ctx context.Context, id int64) (Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	SearchByName(ctx context.Context, term string) ([]Product, error)
	FilterByCategory(ctx context.Context, category string) ([]Product, error)
}
