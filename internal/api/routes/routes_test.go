package routes

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/config"
)

func TestShutdownStopsRateLimiter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.CORS.AllowedOrigin = "*"
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerMinute = 60
	cfg.RateLimit.Burst = 1

	before := runtime.NumGoroutine()

	e := echo.New()
	e.HideBanner = true
	SetupRoutes(e, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}

	// The limiter's cleanup goroutine must exit once shutdown runs the
	// registered hooks
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d, want back to %d after shutdown", runtime.NumGoroutine(), before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
