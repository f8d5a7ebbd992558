package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"facturas/internal/config"
	"facturas/internal/draft"
	"facturas/internal/handler"
	"facturas/internal/logger"
	"facturas/internal/ocr"
	"facturas/internal/ocr/gemini"
	"facturas/internal/ocr/openai"
	"facturas/internal/port"
	"facturas/internal/repository/postgres"
	redisrepo "facturas/internal/repository/redis"
	"facturas/internal/router"
	"facturas/internal/service"
	s3storage "facturas/internal/storage/s3"
	"facturas/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(logger.FromConfig(cfg.Log)); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	healthChecks := map[string]handler.HealthCheck{"database": db.PingContext}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	supplierRepo := postgres.NewSupplierRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)

	var drafts port.DraftStore
	switch cfg.Drafts.Store {
	case "redis":
		rdb, err := redisrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		drafts = redisrepo.NewDraftStore(rdb, redisrepo.DraftStoreOptions{TTL: cfg.Drafts.TTL})
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		drafts = draft.NewMemoryStore()
	}

	// Initialize storage
	s3Client, err := s3storage.NewClient(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	extractor, err := buildExtractor(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR: %w", err)
	}

	// Initialize services
	engine := validator.NewEngine(validator.NewDefaultRegistry(), logger.WithComponent("validator"))
	worker := service.NewExtractionWorker(service.ExtractionWorkerConfig{
		Concurrency: cfg.Extraction.Concurrency,
		QueueSize:   cfg.Extraction.QueueSize,
		JobTimeout:  time.Duration(cfg.Extraction.TimeoutSecs) * time.Second,
	}, logger.WithComponent("extraction_worker"))

	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	supplierSvc := service.NewSupplierService(supplierRepo, logger.WithComponent("suppliers"))
	invoiceSvc := service.NewInvoiceService(invoiceRepo, supplierRepo, engine, logger.WithComponent("invoices"))
	draftSvc := service.NewDraftService(drafts, invoiceRepo, supplierRepo, engine, logger.WithComponent("drafts"))
	imageSvc := service.NewImageService(s3Client, &cfg.S3, cfg.OCR.MaxImageSizeMB, logger.WithComponent("images"))
	extractionSvc := service.NewExtractionService(
		drafts, supplierRepo, imageSvc, extractor, worker, cfg.OCR, logger.WithComponent("extraction"),
	)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx, extractionSvc)
	}()

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc, extractionSvc),
		Supplier: handler.NewSupplierHandler(supplierSvc),
		Draft:    handler.NewDraftHandler(draftSvc, extractionSvc),
		Health:   handler.NewHealthHandler(healthChecks),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("drafts", cfg.Drafts.Store).Msg("server starting")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	stop()
	<-workerDone
	return nil
}

// buildExtractor wires the configured OCR providers into a fallback chain
// and a selector for requests that name an engine.
func buildExtractor(cfg *config.OCRConfig) (port.InvoiceExtractor, error) {
	ocr.RegisterProvider("openai", openai.Factory)
	ocr.RegisterProvider("gemini", gemini.Factory)

	provCfgs := []*config.OCRProviderConfig{&cfg.Primary}
	if sec := cfg.SecondaryConfig(); sec != nil {
		provCfgs = append(provCfgs, sec)
	}

	extractors := make([]port.InvoiceExtractor, 0, len(provCfgs))
	names := make([]string, 0, len(provCfgs))
	byProvider := make(map[string]port.InvoiceExtractor, len(provCfgs))
	for _, pc := range provCfgs {
		e, err := ocr.NewExtractor(pc)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, e)
		names = append(names, pc.Provider)
		byProvider[pc.Provider] = e
	}

	chain := ocr.NewFallbackExtractor(extractors, names, logger.WithComponent("ocr"))
	return ocr.NewSelector(chain, byProvider), nil
}
