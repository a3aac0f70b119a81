package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkral/adpilot/internal/api"
	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/mkral/adpilot/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "adpilot-api",
		FilePath:    cfg.Log.File,
	})
	logger.SetDefault(appLogger)

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	campaignRepo := repository.NewCampaignRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	runRepo := repository.NewRunRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	actionRepo := repository.NewActionRepository(db)
	creativeRepo := repository.NewCreativeRepository(db)

	// Initialize brand retrieval when enabled
	var brandRepo *repository.BrandRepository
	var embeddingService *service.EmbeddingService
	if cfg.Brand.Enabled {
		brandRepo, err = repository.NewBrandRepository(&repository.BrandConnectionConfig{
			Host:            cfg.Brand.Qdrant.Host,
			Port:            cfg.Brand.Qdrant.Port,
			Collection:      cfg.Brand.Qdrant.Collection,
			APIKey:          cfg.Brand.Qdrant.APIKey,
			UseTLS:          cfg.Brand.Qdrant.UseTLS,
			VectorDimension: cfg.Brand.Embedding.Dimensions,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize brand repository")
		}
		defer brandRepo.Close()

		if err := brandRepo.EnsureCollection(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure brand collection")
		}

		embeddingService = service.NewEmbeddingService(&service.EmbeddingConfig{
			Model:      cfg.Brand.Embedding.Model,
			APIKey:     cfg.Brand.Embedding.APIKey,
			Dimensions: cfg.Brand.Embedding.Dimensions,
		})
	}

	// Initialize services
	ingestService := service.NewIngestService(db, campaignRepo, metricRepo, appLogger)
	analyticsService := service.NewAnalyticsService(metricRepo, insightRepo, cfg.Agent, appLogger)
	strategistService := service.NewStrategistService(actionRepo, appLogger)
	brandService := service.NewBrandService(cfg.Brand, brandRepo, embeddingService, appLogger)

	var generator service.Generator
	if cfg.Creative.Provider == "openai" {
		generator = service.NewOpenAIGenerator(&service.OpenAIGeneratorConfig{
			Model:    cfg.Creative.Model,
			APIKey:   cfg.Creative.APIKey,
			BaseURL:  cfg.Creative.BaseURL,
			Platform: cfg.Creative.Platform,
		})
	} else {
		generator = &service.TemplateGenerator{Platform: cfg.Creative.Platform}
	}

	contentService := service.NewContentService(creativeRepo, generator, brandService, appLogger)
	aggregatorService := service.NewAggregatorService()
	agentService := service.NewAgentService(
		runRepo,
		analyticsService,
		strategistService,
		contentService,
		aggregatorService,
		cfg.Agent,
		appLogger,
	)

	// Setup router
	router := api.SetupRouter(api.RouterDeps{
		IngestService: ingestService,
		AgentService:  agentService,
		CampaignRepo:  campaignRepo,
		MetricRepo:    metricRepo,
		RunRepo:       runRepo,
		Logger:        appLogger,
		CORS:          cfg.Server.CORS,
	}, cfg.Server.Mode)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
