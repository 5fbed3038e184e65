package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/config"
)

// CORSConfig returns the CORS middleware. Headers are set before any other
// processing so even validation failures stay readable to browsers, and
// preflight requests short-circuit with an empty 200 — echo's stock CORS
// middleware answers preflights with 204, which the proxy contract does not
// allow.
func CORSConfig(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, cfg.CORS.AllowedOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, allowMethods(c.Request().URL.Path))
			h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type, Authorization, JobId")
			h.Set(echo.HeaderAccessControlMaxAge, strconv.Itoa(cfg.CORS.MaxAge))

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}

// allowMethods lists the methods an endpoint actually serves; the read
// endpoints advertise GET only, the apply endpoint POST only
func allowMethods(path string) string {
	switch path {
	case "/jobs", "/job-detail":
		return "GET, OPTIONS"
	case "/apply-job":
		return "POST, OPTIONS"
	}
	return "GET, POST, OPTIONS"
}
