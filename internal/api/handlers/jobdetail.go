package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/logging"
	"loxo-bridge/internal/loxo"
	"loxo-bridge/internal/normalize"
	"loxo-bridge/pkg/models"
)

// JobDetailHandler proxies the upstream per-job resource
func JobDetailHandler(upstream Upstream) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.LogWithRequestID(reqID)

		jobID := normalize.ExtractJobID(c.Request())
		if jobID == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "missing_job_id",
				Message:   "Job ID is required",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		result, err := upstream.GetJob(c.Request().Context(), jobID)
		if err != nil {
			logger.Error("Job detail request failed", map[string]interface{}{
				"job_id": jobID,
				"error":  err.Error(),
			})
			return transportErrorResponse(c, reqID, err)
		}

		if !result.OK {
			logger.Warn("Upstream rejected job detail request", map[string]interface{}{
				"job_id": jobID,
				"status": result.Status,
			})
			return passthroughResponse(c, reqID, result)
		}

		job, err := loxo.ParseJobDetail(result.Body)
		if err != nil {
			logger.Error("Failed to decode upstream job", map[string]interface{}{
				"job_id": jobID,
				"error":  err.Error(),
			})
			return c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:     "upstream_decode_failed",
				Message:   "The job service returned an unreadable response",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.JobDetailResponse{Job: *job})
	}
}
