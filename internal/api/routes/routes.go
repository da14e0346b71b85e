package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"aijobs-utils/internal/api/handlers"
	"aijobs-utils/internal/api/middleware"
	"aijobs-utils/internal/commit"
	"aijobs-utils/internal/config"
	"aijobs-utils/internal/fetcher"
	"aijobs-utils/internal/llm"
	"aijobs-utils/internal/store"
	"aijobs-utils/pkg/utils"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, f *fetcher.Fetcher, llmManager *llm.Manager, s store.Store, pending *utils.PendingStore, coordinator *commit.Coordinator) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	// Extraction calls the model and may legitimately take minutes
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 2*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/ready", handlers.ReadinessHandler(llmManager, s, pending))
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/ingest", handlers.IngestHandler(f, llmManager))
		v1.POST("/submissions", handlers.SubmissionHandler(pending))

		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/payment", handlers.PaymentWebhookHandler(coordinator, pending))
		}
	}
}
