package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/products-api/internal/app/dto"
	"github.com/shopspring/decimal"
)

// demoProducts are created in this order, so they receive ids 1, 2 and 3 on a fresh store
var demoProducts = []dto.ProductRequest{
	{
		Name:          "Ordinateur Portable",
		Description:   "PC portable 15 pouces, 16GB RAM, SSD 512GB",
		Price:         decimal.RequireFromString("899.99"),
		StockQuantity: 10,
		Category:      "Électronique",
	},
	{
		Name:          "Souris Sans Fil",
		Description:   "Souris ergonomique Bluetooth avec 6 boutons",
		Price:         decimal.RequireFromString("29.99"),
		StockQuantity: 50,
		Category:      "Accessoires",
	},
	{
		Name:          "Clavier Mécanique",
		Description:   "Clavier gaming RGB avec switches Cherry MX",
		Price:         decimal.RequireFromString("129.99"),
		StockQuantity: 25,
		Category:      "Accessoires",
	},
}

// SeedDemoData stores the demo catalogue through the regular create path
func (s *ProductService) SeedDemoData(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.SeedDemoData")
	defer span.End()

	for i := range demoProducts {
		req := demoProducts[i]
		if _, err := s.CreateProduct(ctx, &req); err != nil {
			return fmt.Errorf("seed product %q: %w", req.Name, err)
		}
	}

	s.logger.InfoContext(ctx, "Demo products seeded",
		slog.Int("count", len(demoProducts)),
	)
	return nil
}
