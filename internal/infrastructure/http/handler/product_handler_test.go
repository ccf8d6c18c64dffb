package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/products-api/internal/app/dto"
	"github.com/mrops-br/products-api/internal/app/service"
	"github.com/mrops-br/products-api/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// newTestRouter wires a seeded store behind the product routes
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("test")

	repo := memory.NewProductRepository(tracer, logger)
	svc := service.NewProductService(repo, tracer, metricnoop.NewMeterProvider().Meter("test"), logger)
	require.NoError(t, svc.SeedDemoData(t.Context()))

	h := NewProductHandler(svc, logger)
	r := chi.NewRouter()
	r.Route("/api/products", h.Routes)
	return r
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	products := decode[[]dto.ProductResponse](t, w)
	assert.Len(t, products, 3)
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/products/1", "")

	require.Equal(t, http.StatusOK, w.Code)
	product := decode[dto.ProductResponse](t, w)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Ordinateur Portable", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("899.99")))
	assert.Equal(t, 10, product.StockQuantity)
}

func TestGetProduct_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/products/999", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGetProduct_InvalidID(t *testing.T) {
	router := newTestRouter(t)

	for _, id := range []string{"abc", "12.5", "1e3"} {
		t.Run(id, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/api/products/"+id, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode[map[string]string](t, w)
			assert.Equal(t, "bad_request", body["error"])
		})
	}
}

func TestCreateProduct(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/products",
		`{"id":42,"name":"Widget","price":9.99,"stockQuantity":5,"category":"Tools"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	product := decode[dto.ProductResponse](t, w)
	assert.Equal(t, int64(4), product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)

	w = do(t, router, http.MethodGet, "/api/products/4", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	for name, body := range map[string]string{
		"truncated":  `{"name":"Widget"`,
		"empty":      "",
		"wrong type": `{"stockQuantity":"many"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/products", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPut, "/api/products/2",
		`{"name":"Souris Pro","price":"39.90","stockQuantity":7,"category":"Accessoires"}`)

	require.Equal(t, http.StatusOK, w.Code)
	product := decode[dto.ProductResponse](t, w)
	assert.Equal(t, int64(2), product.ID)
	assert.Equal(t, "Souris Pro", product.Name)
	assert.Empty(t, product.Description)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("39.9")))
	assert.False(t, product.UpdatedAt.Before(product.CreatedAt))
}

func TestUpdateProduct_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPut, "/api/products/77", `{"name":"Ghost"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/products/health", "")
	assert.Equal(t, 3, decode[dto.HealthResponse](t, w).TotalProducts)
}

func TestDeleteProduct(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodDelete, "/api/products/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, router, http.MethodDelete, "/api/products/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/products/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchProducts(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{"case insensitive", "/api/products/search?name=ORD", http.StatusOK, 1},
		{"shared substring", "/api/products/search?name=i", http.StatusOK, 3},
		{"empty term", "/api/products/search?name=", http.StatusOK, 3},
		{"no match", "/api/products/search?name=tablette", http.StatusOK, 0},
		{"missing term", "/api/products/search", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodGet, tt.target, "")
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			products := decode[[]dto.ProductResponse](t, w)
			assert.Len(t, products, tt.count)
		})
	}
}

func TestListProductsByCategory(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		target string
		count  int
	}{
		{"/api/products/category/accessoires", 2},
		{"/api/products/category/%C3%A9lectronique", 1},
		{"/api/products/category/%C3%89LECTRONIQUE", 1},
		{"/api/products/category/%c3%a9lectronique", 1},
		{"/api/products/category/%C3%89lectro", 0},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := do(t, router, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)
			products := decode[[]dto.ProductResponse](t, w)
			assert.Len(t, products, tt.count)
		})
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/products/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP","totalProducts":3}`, w.Body.String())
}
