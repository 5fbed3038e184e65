package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"loxo-bridge/internal/config"
	"loxo-bridge/internal/logging"
	"loxo-bridge/pkg/models"
	"loxo-bridge/pkg/utils"
)

// clientLimiter tracks the token bucket for one client IP
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket to the proxy endpoints.
// Stale buckets are evicted periodically so the map does not grow with every
// visitor the service has ever seen.
type RateLimiter struct {
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	mu       sync.Mutex
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter from configuration
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60.0),
		burst:   cfg.RateLimit.Burst,
		ticker:  time.NewTicker(5 * time.Minute),
		done:    make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Middleware returns the echo middleware enforcing the limit
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(c.RealIP()) {
				requestID, _ := c.Get("request_id").(string)
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests, slow down",
					RequestID: utils.GetStringOrDefault(requestID, utils.GenerateRequestID()),
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.ticker.C:
			rl.cleanup()
		case <-rl.done:
			rl.ticker.Stop()
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	removed := 0
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			removed++
		}
	}

	if removed > 0 {
		logging.GetGlobalLogger().Debug("Cleaned up idle client limiters", map[string]interface{}{
			"removed_count": removed,
		})
	}
}

// Stop stops the cleanup routine. Safe to call more than once; it runs both
// as a server shutdown hook and from deferred cleanup in tests.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}
