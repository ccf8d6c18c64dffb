package memory

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrops-br/products-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
)

// Option configures a ProductRepository
type Option func(*ProductRepository)

// WithClock replaces the time source used for CreatedAt and UpdatedAt
func WithClock(now func() time.Time) Option {
	return func(r *ProductRepository) {
		r.now = now
	}
}

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Records are held by value; every read hands out copies.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	lastID   atomic.Int64
	now      func() time.Time
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new, empty in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger, opts ...Option) *ProductRepository {
	r := &ProductRepository{
		products: make(map[int64]domain.Product),
		now:      time.Now,
		tracer:   tracer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create reserves the next id and stores a new product
func (r *ProductRepository) Create(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	// Ids come from the counter alone so they are never reused, even after a delete.
	id := r.lastID.Add(1)
	product := domain.NewProduct(id, in, r.now())

	r.mu.Lock()
	r.products[id] = product
	r.mu.Unlock()

	span.SetAttributes(
		attribute.Int64("product.id", id),
		attribute.String("product.name", product.Name),
	)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return product, nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	product, exists := r.products[id]
	r.mu.RUnlock()

	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found",
			slog.Int64("product_id", id),
		)
		return domain.Product{}, domain.ErrProductNotFound
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.Int64("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

// FindAll retrieves all products in no particular order
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	products := r.collect(func(domain.Product) bool { return true })

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Update overwrites the mutable fields of an existing product.
// A missing id leaves the repository untouched.
func (r *ProductRepository) Update(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	product, exists := r.products[id]
	if exists {
		product.Apply(in, r.now())
		r.products[id] = product
	}
	r.mu.Unlock()

	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found for update",
			slog.Int64("product_id", id),
		)
		return domain.Product{}, domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int64("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return product, nil
}

// Delete removes a product and reports whether it existed
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	_, exists := r.products[id]
	delete(r.products, id)
	r.mu.Unlock()

	span.SetAttributes(attribute.Bool("product.deleted", exists))

	if exists {
		r.logger.InfoContext(ctx, "Product deleted from repository",
			slog.Int64("product_id", id),
		)
	}

	span.SetStatus(codes.Ok, "Delete completed")
	return exists, nil
}

// ExistsByID reports whether a product with the id is stored
func (r *ProductRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.ExistsByID")
	defer span.End()

	r.mu.RLock()
	_, exists := r.products[id]
	r.mu.RUnlock()

	span.SetAttributes(
		attribute.Int64("product.id", id),
		attribute.Bool("product.exists", exists),
	)
	return exists, nil
}

// Count returns the number of stored products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.Count")
	defer span.End()

	r.mu.RLock()
	n := len(r.products)
	r.mu.RUnlock()

	span.SetAttributes(attribute.Int("product.count", n))
	return n, nil
}

// SearchByName returns the products whose name contains term, ignoring case.
// Products without a name never match.
func (r *ProductRepository) SearchByName(ctx context.Context, term string) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.SearchByName")
	defer span.End()

	folded := fold(term)
	products := r.collect(func(p domain.Product) bool {
		return p.Name != "" && strings.Contains(fold(p.Name), folded)
	})

	span.SetAttributes(
		attribute.String("search.term", term),
		attribute.Int("product.count", len(products)),
	)

	r.logger.DebugContext(ctx, "Products searched by name",
		slog.String("term", term),
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Search completed")
	return products, nil
}

// FilterByCategory returns the products whose category equals category, ignoring case
func (r *ProductRepository) FilterByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FilterByCategory")
	defer span.End()

	folded := fold(category)
	products := r.collect(func(p domain.Product) bool {
		return p.Category != "" && fold(p.Category) == folded
	})

	span.SetAttributes(
		attribute.String("product.category", category),
		attribute.Int("product.count", len(products)),
	)

	r.logger.DebugContext(ctx, "Products filtered by category",
		slog.String("category", category),
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Filter completed")
	return products, nil
}

// collect snapshots the products accepted by keep
func (r *ProductRepository) collect(keep func(domain.Product) bool) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			products = append(products, p)
		}
	}
	return products
}

// fold applies Unicode case folding. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
