package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/products-api/internal/app/dto"
	"github.com/mrops-br/products-api/internal/app/service"
	"github.com/mrops-br/products-api/internal/domain"
	"github.com/mrops-br/products-api/internal/infrastructure/http/response"
)

var (
	errInvalidID       = errors.New("product id must be an integer")
	errMissingNameTerm = errors.New("query parameter 'name' is required")
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Routes registers the product endpoints on r.
// Static segments win over {id} in chi, so /search, /health and /category are never parsed as ids.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/search", h.SearchProducts)
	r.Get("/health", h.Health)
	r.Get("/category/{category}", h.ListProductsByCategory)
	r.Get("/{id}", h.GetProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		response.Empty(w, http.StatusNotFound)
		return
	}

	response.Empty(w, http.StatusNoContent)
}

// SearchProducts handles GET /api/products/search?name=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	values, present := r.URL.Query()["name"]
	if !present {
		response.Error(w, http.StatusBadRequest, errMissingNameTerm)
		return
	}

	products, err := h.service.SearchProductsByName(r.Context(), values[0])
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// ListProductsByCategory handles GET /api/products/category/{category}
func (h *ProductHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	// chi matches on RawPath when it is set, leaving the parameter escaped
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(category); err == nil {
			category = unescaped
		}
	}

	products, err := h.service.ListProductsByCategory(r.Context(), category)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// Health handles GET /api/products/health
func (h *ProductHandler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.service.Health(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, health)
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid product ID",
			slog.String("product_id", raw),
		)
		response.Error(w, http.StatusBadRequest, fmt.Errorf("%w: %q", errInvalidID, raw))
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*dto.ProductRequest, bool) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return nil, false
	}
	return &req, true
}

// writeLookupError answers a missing product with an empty 404
func (h *ProductHandler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		response.Empty(w, http.StatusNotFound)
		return
	}
	response.Error(w, http.StatusInternalServerError, err)
}
