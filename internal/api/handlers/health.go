package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/config"
	"loxo-bridge/pkg/models"
)

var startTime = time.Now()

const serviceVersion = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler handles readiness probe requests. The service is ready
// once the upstream credentials are configured; upstream reachability is
// checked per-request, not here, to avoid burning API quota on probes.
func ReadinessHandler(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if cfg.Loxo.BearerToken == "" || cfg.Loxo.AgencySlug == "" {
			checks["upstream_credentials"] = "missing"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["upstream_credentials"] = "ok"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// StatusHandler provides detailed service status
func StatusHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "operational",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api":      "operational",
			"upstream": "operational",
		},
	}

	return c.JSON(http.StatusOK, response)
}
