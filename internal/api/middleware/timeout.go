package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig bounds total handler time. The error message is the literal
// body echo writes on expiry, so it mirrors the JSON error envelope.
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: `{"error":"request_timeout","message":"The request took too long to process"}`,
	})
}
