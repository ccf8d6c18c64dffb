package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/products-api/internal/app/service"
	"github.com/mrops-br/products-api/internal/infrastructure/config"
	"github.com/mrops-br/products-api/internal/infrastructure/http"
	"github.com/mrops-br/products-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/products-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/products-api/internal/infrastructure/telemetry"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize OpenTelemetry
	telem, err := telemetry.New(&cfg.OTLP, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	runErr := run(cfg, telem)
	if runErr != nil {
		telem.Logger.Error("Server error", slog.String("error", runErr.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := telem.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}

	if runErr != nil {
		shutdownCancel()
		os.Exit(1)
	}
}

func run(cfg *config.Config, telem *telemetry.Telemetry) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer := telem.TracerProvider.Tracer("products-api")
	meter := telem.MeterProvider.Meter("products-api")
	logger := telem.Logger

	logger.Info("Starting Products API")

	// The store lives for the whole process and is handed down explicitly
	repo := memory.NewProductRepository(tracer, logger)
	productService := service.NewProductService(repo, tracer, meter, logger)

	if cfg.Store.SeedDemoData {
		if err := productService.SeedDemoData(ctx); err != nil {
			return err
		}
	}

	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(&cfg.Server, productHandler, logger, telem)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}
