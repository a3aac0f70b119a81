package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/mkral/adpilot/internal/service"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "adpilot-agent",
	})
	logger.SetDefault(appLogger)

	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	snippet := flag.String("index-snippet", "", "Index a brand guidance snippet instead of running the pipeline")
	topic := flag.String("topic", "", "Topic label for the indexed snippet")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger = logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "adpilot-agent",
		FilePath:    cfg.Log.File,
	})
	logger.SetDefault(appLogger)

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	metricRepo := repository.NewMetricRepository(db)
	runRepo := repository.NewRunRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	actionRepo := repository.NewActionRepository(db)
	creativeRepo := repository.NewCreativeRepository(db)

	ctx := context.Background()

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

		if err := brandRepo.EnsureCollection(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure brand collection")
		}

		embeddingService = service.NewEmbeddingService(&service.EmbeddingConfig{
			Model:      cfg.Brand.Embedding.Model,
			APIKey:     cfg.Brand.Embedding.APIKey,
			Dimensions: cfg.Brand.Embedding.Dimensions,
		})
	}

	brandService := service.NewBrandService(cfg.Brand, brandRepo, embeddingService, appLogger)

	// Snippet indexing mode
	if *snippet != "" {
		if !cfg.Brand.Enabled {
			appLogger.Fatal("Brand retrieval is disabled, enable brand.enabled to index snippets")
		}
		err := brandService.IndexSnippet(ctx, &repository.BrandSnippet{
			ID:    uuid.New().String(),
			Text:  *snippet,
			Topic: *topic,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to index snippet")
		}
		appLogger.Info("Snippet indexed")
		return
	}

	// Initialize pipeline services
	analyticsService := service.NewAnalyticsService(metricRepo, insightRepo, cfg.Agent, appLogger)
	strategistService := service.NewStrategistService(actionRepo, appLogger)

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

	// Run the pipeline once
	run, err := agentService.RunWeekly(appLogger.WithContext(ctx))
	if err != nil {
		appLogger.WithError(err).Error("Run failed")
		os.Exit(1)
	}

	appLogger.WithFields(logger.Fields{
		logger.FieldRunID:  run.ID,
		logger.FieldStatus: string(run.Status),
	}).Info("Run finished")
}
