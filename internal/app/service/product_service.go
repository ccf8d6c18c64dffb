package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/products-api/internal/app/dto"
	"github.com/mrops-br/products-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultNotFound = "not_found"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	_, err := meter.Int64ObservableGauge(
		"products.count",
		metric.WithDescription("Number of products currently stored"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			n, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			o.Observe(int64(n))
			return nil
		}),
	)
	if err != nil {
		logger.Warn("Failed to register products.count gauge", slog.String("error", err.Error()))
	}

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.String("product.price", req.Price.String()),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.String("price", req.Price.String()),
	)

	product, err := s.repo.Create(ctx, req.ToProductInput())
	if err != nil {
		s.fail(ctx, span, "create", "Failed to store product", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	s.productCreatedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "create", resultSuccess)

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.fail(ctx, span, "read", "Failed to get product", err)
		return nil, err
	}

	s.recordOperation(ctx, "read", resultSuccess)

	s.logger.DebugContext(ctx, "Product retrieved successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.fail(ctx, span, "list", "Failed to list products", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOperation(ctx, "list", resultSuccess)

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}

// UpdateProduct replaces every mutable field of an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", id),
		attribute.String("product.name", req.Name),
	)

	s.logger.InfoContext(ctx, "Updating product",
		slog.Int64("product_id", id),
		slog.String("name", req.Name),
	)

	product, err := s.repo.Update(ctx, id, req.ToProductInput())
	if err != nil {
		s.fail(ctx, span, "update", "Failed to update product", err)
		return nil, err
	}

	s.recordOperation(ctx, "update", resultSuccess)

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// DeleteProduct removes a product and reports whether it existed
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.fail(ctx, span, "delete", "Failed to delete product", err)
		return false, err
	}

	if !deleted {
		s.recordOperation(ctx, "delete", resultNotFound)
		s.logger.WarnContext(ctx, "Product not found for deletion",
			slog.Int64("product_id", id),
		)
		span.SetStatus(codes.Error, "Product not found")
		return false, nil
	}

	s.recordOperation(ctx, "delete", resultSuccess)

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return true, nil
}

// ProductExists reports whether a product with the id is stored
func (s *ProductService) ProductExists(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ProductExists")
	defer span.End()

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		s.fail(ctx, span, "exists", "Failed to check product", err)
		return false, err
	}

	span.SetAttributes(
		attribute.Int64("product.id", id),
		attribute.Bool("product.exists", exists),
	)
	return exists, nil
}

// CountProducts returns the number of stored products
func (s *ProductService) CountProducts(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CountProducts")
	defer span.End()

	n, err := s.repo.Count(ctx)
	if err != nil {
		s.fail(ctx, span, "count", "Failed to count products", err)
		return 0, err
	}

	span.SetAttributes(attribute.Int("product.count", n))
	return n, nil
}

// SearchProductsByName returns products whose name contains term, ignoring case
func (s *ProductService) SearchProductsByName(ctx context.Context, term string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.SearchProductsByName")
	defer span.End()

	span.SetAttributes(attribute.String("search.term", term))

	products, err := s.repo.SearchByName(ctx, term)
	if err != nil {
		s.fail(ctx, span, "search", "Failed to search products", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOperation(ctx, "search", resultSuccess)

	s.logger.InfoContext(ctx, "Products searched by name",
		slog.String("term", term),
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products searched successfully")
	return dto.ToProductResponseList(products), nil
}

// ListProductsByCategory returns products in category, ignoring case
func (s *ProductService) ListProductsByCategory(ctx context.Context, category string) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProductsByCategory")
	defer span.End()

	span.SetAttributes(attribute.String("product.category", category))

	products, err := s.repo.FilterByCategory(ctx, category)
	if err != nil {
		s.fail(ctx, span, "filter", "Failed to filter products", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOperation(ctx, "filter", resultSuccess)

	s.logger.InfoContext(ctx, "Products filtered by category",
		slog.String("category", category),
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products filtered successfully")
	return dto.ToProductResponseList(products), nil
}

// Health reports the service status together with the product count
func (s *ProductService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	n, err := s.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.HealthResponse{Status: "UP", TotalProducts: n}, nil
}

// fail marks the span, logs and counts a failed operation.
// Not-found is an expected outcome and is logged as a warning.
func (s *ProductService) fail(ctx context.Context, span trace.Span, operation, msg string, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.String("operation", operation),
		)
		s.recordOperation(ctx, operation, resultNotFound)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.ErrorContext(ctx, msg,
		slog.String("error", err.Error()),
	)
	s.recordOperation(ctx, operation, resultFailure)
}

func (s *ProductService) recordOperation(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
