package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/logging"
	"loxo-bridge/internal/loxo"
	"loxo-bridge/pkg/models"
)

// ListJobsHandler proxies the upstream jobs collection
func ListJobsHandler(upstream Upstream) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		result, err := upstream.ListJobs(c.Request().Context())
		if err != nil {
			logger.Error("Job list request failed", map[string]interface{}{"error": err.Error()})
			return transportErrorResponse(c, reqID, err)
		}

		if !result.OK {
			logger.Warn("Upstream rejected job list request", map[string]interface{}{
				"status": result.Status,
			})
			return passthroughResponse(c, reqID, result)
		}

		jobs, err := loxo.ParseJobList(result.Body)
		if err != nil {
			logger.Error("Failed to decode upstream job list", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:     "upstream_decode_failed",
				Message:   "The job service returned an unreadable response",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		logger.Debug("Job list request completed", map[string]interface{}{"count": len(jobs)})

		return c.JSON(http.StatusOK, models.JobListResponse{Results: jobs})
	}
}
