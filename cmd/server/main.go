package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"aijobs-utils/internal/api/routes"
	"aijobs-utils/internal/background"
	"aijobs-utils/internal/commit"
	"aijobs-utils/internal/config"
	"aijobs-utils/internal/fetcher"
	"aijobs-utils/internal/llm"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/notify"
	"aijobs-utils/internal/store"
	"aijobs-utils/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting AI jobs utils service")

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	// Initialize database
	db, err := store.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect database", map[string]interface{}{"error": err.Error()})
	}
	dataStore := store.NewStore(db)
	if err := dataStore.InitialMigration(); err != nil {
		logger.Fatal("Database migration failed", map[string]interface{}{"error": err.Error()})
	}

	// Initialize pending submission store
	pending := utils.NewPendingStore(cfg)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	if err := pending.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable at startup", map[string]interface{}{"error": err.Error()})
	}
	cancelPing()

	// Initialize background task manager
	taskManager := background.NewManager(cfg)

	// Initialize fetcher
	f, err := fetcher.NewDefault(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize fetcher", map[string]interface{}{"error": err.Error()})
	}

	// Commit coordinator with its side-effect collaborators
	notifier := notify.NewClient(cfg)
	coordinator := commit.NewCoordinator(dataStore, commit.DefaultTranslationTables(), notifier, taskManager)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, cfg, f, llmManager, dataStore, pending, coordinator)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
		}

		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
		}

		if err := pending.Close(); err != nil {
			logger.Error("Error closing Redis connection", map[string]interface{}{"error": err.Error()})
		}

		if err := dataStore.Close(); err != nil {
			logger.Error("Error closing database", map[string]interface{}{"error": err.Error()})
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
