package routes

import (
	"errors"
	"net/http"
	"time"

	"loxo-bridge/internal/api/handlers"
	"loxo-bridge/internal/api/middleware"
	"loxo-bridge/internal/config"
	"loxo-bridge/pkg/models"
	"loxo-bridge/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, upstream handlers.Upstream) {
	e.HTTPErrorHandler = errorEnvelopeHandler
	// Global middleware. CORS comes before everything else so error
	// responses stay readable cross-origin.
	e.Use(middleware.CORSConfig(cfg))
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestValidation())
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg)
		e.Use(rl.Middleware())
		// Stop the limiter's cleanup goroutine when the server drains
		e.Server.RegisterOnShutdown(rl.Stop)
	}
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(cfg))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// Proxy routes. OPTIONS preflights never reach these; the CORS
	// middleware answers them with an empty 200.
	e.GET("/jobs", handlers.ListJobsHandler(upstream))
	e.GET("/job-detail", handlers.JobDetailHandler(upstream))
	e.POST("/apply-job", handlers.ApplyJobHandler(upstream))

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "Loxo Job Board Proxy",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}

// errorEnvelopeHandler folds routing-level failures (unknown paths, rejected
// methods, handler panics surfaced by Recover) into the same error envelope
// the handlers use
func errorEnvelopeHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		switch status {
		case http.StatusNotFound:
			code = "not_found"
			message = "The requested resource does not exist"
		case http.StatusMethodNotAllowed:
			code = "method_not_allowed"
			message = "Method not allowed"
		default:
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		}
	}

	reqID, _ := c.Get("request_id").(string)
	_ = c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: utils.GetStringOrDefault(reqID, utils.GenerateRequestID()),
		Timestamp: time.Now(),
	})
}
