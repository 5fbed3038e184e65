package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/pkg/models"
	"loxo-bridge/pkg/utils"
)

// Resumes are capped client-side at 5MB; the limit here leaves headroom for
// multipart framing and the text fields.
const maxRequestBody = 8 * 1024 * 1024

// RequestValidation middleware validates incoming requests
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Add request ID to context
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			// Content length validation for POST requests
			if c.Request().Method == http.MethodPost {
				if c.Request().ContentLength > maxRequestBody {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}
