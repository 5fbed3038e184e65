package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/config"
	"loxo-bridge/pkg/models"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestCORSConfigSetsHeaders(t *testing.T) {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigin = "https://jobs.example.com"
	cfg.CORS.MaxAge = 600

	e := echo.New()
	handler := CORSConfig(cfg)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	h := rec.Header()
	if got := h.Get(echo.HeaderAccessControlAllowOrigin); got != "https://jobs.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlAllowHeaders); got != "Content-Type, Authorization, JobId" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlMaxAge); got != "600" {
		t.Errorf("Max-Age = %q", got)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, non-preflight requests must reach the handler", rec.Body.String())
	}
}

func TestCORSAllowMethodsPerEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigin = "*"

	e := echo.New()
	handler := CORSConfig(cfg)(okHandler)

	tests := []struct {
		path string
		want string
	}{
		{"/jobs", "GET, OPTIONS"},
		{"/job-detail", "GET, OPTIONS"},
		{"/apply-job", "POST, OPTIONS"},
		{"/health", "GET, POST, OPTIONS"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != tt.want {
			t.Errorf("%s Allow-Methods = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCORSConfigShortCircuitsPreflight(t *testing.T) {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigin = "*"

	e := echo.New()
	called := false
	handler := CORSConfig(cfg)(func(c echo.Context) error {
		called = true
		return nil
	})

	req := httptest.NewRequest(http.MethodOptions, "/apply-job", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
	if called {
		t.Error("preflight reached the inner handler")
	}
}

func TestRequestValidationSetsRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	handler := RequestValidation()(func(c echo.Context) error {
		seen, _ = c.Get("request_id").(string)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if seen == "" {
		t.Error("request_id not set in context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("X-Request-ID = %q, want %q", rec.Header().Get("X-Request-ID"), seen)
	}
}

func TestRequestValidationRejectsOversizedBody(t *testing.T) {
	e := echo.New()
	handler := RequestValidation()(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/apply-job", strings.NewReader("x"))
	req.ContentLength = maxRequestBody + 1
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "request_too_large" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.RequestsPerMinute = 60
	cfg.RateLimit.Burst = 2

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	e := echo.New()
	handler := rl.Middleware()(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec.Code
	}

	if send("10.0.0.1") != http.StatusOK || send("10.0.0.1") != http.StatusOK {
		t.Fatal("requests within the burst must pass")
	}
	if send("10.0.0.1") != http.StatusTooManyRequests {
		t.Error("request beyond the burst must be limited")
	}

	// Separate clients get their own buckets
	if send("10.0.0.2") != http.StatusOK {
		t.Error("a fresh client must not inherit another client's bucket")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.RequestsPerMinute = 60
	cfg.RateLimit.Burst = 1

	rl := NewRateLimiter(cfg)

	// Runs both as a shutdown hook and from deferred cleanup; a second
	// call must not panic on the closed channel
	rl.Stop()
	rl.Stop()
}
