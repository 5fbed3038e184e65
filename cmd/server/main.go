package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loxo-bridge/internal/api/routes"
	"loxo-bridge/internal/config"
	"loxo-bridge/internal/logging"
	"loxo-bridge/internal/loxo"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Loxo job board proxy")

	if cfg.Loxo.BearerToken == "" || cfg.Loxo.AgencySlug == "" {
		logger.Warn("Upstream credentials are not configured; proxy requests will fail", map[string]interface{}{
			"agency_slug_set":  cfg.Loxo.AgencySlug != "",
			"bearer_token_set": cfg.Loxo.BearerToken != "",
		})
	}

	// Initialize upstream client
	upstream := loxo.NewClient(cfg)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, upstream)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("address", address).Info("Server starting")

	if err := e.Start(address); err != nil {
		logger.WithField("error", err.Error()).Info("Server stopped")
	}
}
