package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mkral/adpilot/internal/api/handler"
	"github.com/mkral/adpilot/internal/api/middleware"
	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
	"github.com/mkral/adpilot/internal/service"
)

// serviceName is reported by the health endpoint.
const serviceName = "adpilot"

// RouterDeps bundles the services and repositories the routes need.
type RouterDeps struct {
	IngestService *service.IngestService
	AgentService  *service.AgentService
	CampaignRepo  *repository.CampaignRepository
	MetricRepo    *repository.MetricRepository
	RunRepo       *repository.RunRepository
	Logger        *logger.Logger
	CORS          config.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps RouterDeps, mode string) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler(serviceName)
	ingestHandler := handler.NewIngestHandler(deps.IngestService)
	campaignHandler := handler.NewCampaignHandler(deps.CampaignRepo, deps.MetricRepo)
	agentHandler := handler.NewAgentHandler(deps.AgentService, deps.RunRepo)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Ingestion
		v1.POST("/ingest/upsert", ingestHandler.Upsert)
		v1.POST("/ingest/upsert-batch", ingestHandler.UpsertBatch)

		// Agent runs
		v1.POST("/agent/run-weekly", agentHandler.RunWeekly)
		v1.GET("/agent/runs", agentHandler.ListRuns)
		v1.GET("/agent/runs/:id", agentHandler.GetRun)

		// Campaigns
		v1.GET("/campaigns", campaignHandler.ListCampaigns)
		v1.GET("/campaigns/:id", campaignHandler.GetCampaign)

		// Metrics
		v1.GET("/metrics/daily", campaignHandler.ListDailyMetrics)
	}

	return r
}
