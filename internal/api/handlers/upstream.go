package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/loxo"
	"loxo-bridge/pkg/models"
	"loxo-bridge/pkg/utils"
)

// Upstream is the slice of the Loxo client the proxy handlers depend on
type Upstream interface {
	ListJobs(ctx context.Context) (*models.UpstreamResult, error)
	GetJob(ctx context.Context, jobID string) (*models.UpstreamResult, error)
	SubmitApplication(ctx context.Context, jobID string, sub *models.ApplicationSubmission) (*models.UpstreamResult, error)
}

// requestID returns the request id set by the RequestValidation middleware,
// minting one when the middleware did not run (direct handler tests)
func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

// transportErrorResponse maps transport-level upstream failures: timeouts are
// surfaced distinctly from plain unavailability
func transportErrorResponse(c echo.Context, reqID string, err error) error {
	if errors.Is(err, loxo.ErrUpstreamTimeout) {
		return c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{
			Error:     "upstream_timeout",
			Message:   "The job service did not respond in time",
			RequestID: reqID,
			Timestamp: time.Now(),
		})
	}

	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:     "upstream_unavailable",
		Message:   "The job service is currently unavailable",
		RequestID: reqID,
		Timestamp: time.Now(),
	})
}

// passthroughResponse forwards a non-2xx upstream answer with its original
// status, attaching the upstream body for diagnostics. A body that is not
// valid JSON is re-encoded as a string so the envelope stays marshalable.
func passthroughResponse(c echo.Context, reqID string, result *models.UpstreamResult) error {
	upstreamBody := json.RawMessage(result.Body)
	if !json.Valid(result.Body) {
		upstreamBody, _ = json.Marshal(string(result.Body))
	}

	return c.JSON(result.Status, models.UpstreamErrorResponse{
		Error:     "upstream_error",
		Message:   "Upstream request failed",
		Status:    result.Status,
		Upstream:  upstreamBody,
		RequestID: reqID,
		Timestamp: time.Now(),
	})
}
