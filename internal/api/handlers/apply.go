package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"loxo-bridge/internal/logging"
	"loxo-bridge/internal/normalize"
	"loxo-bridge/pkg/models"
)

// ApplyJobHandler ingests a multipart application and forwards it upstream.
// Validation failures are terminal: nothing reaches the upstream until the
// submission is complete.
func ApplyJobHandler(upstream Upstream) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
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

		sub := &models.ApplicationSubmission{
			JobID:       jobID,
			Name:        strings.TrimSpace(c.FormValue("name")),
			Email:       strings.TrimSpace(c.FormValue("email")),
			Phone:       strings.TrimSpace(c.FormValue("phone")),
			LinkedinURL: strings.TrimSpace(c.FormValue("linkedin")),
		}

		resume, err := readResume(c)
		if err != nil {
			logger.Error("Failed to read resume part", map[string]interface{}{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Could not read the uploaded resume",
				RequestID: reqID,
				Timestamp: time.Now(),
			})
		}
		sub.Resume = resume

		if err := normalize.ValidateApplication(sub); err != nil {
			return validationErrorResponse(c, reqID, err)
		}

		result, err := upstream.SubmitApplication(c.Request().Context(), jobID, sub)
		if err != nil {
			logger.Error("Application submission failed", map[string]interface{}{
				"job_id": jobID,
				"error":  err.Error(),
			})
			return transportErrorResponse(c, reqID, err)
		}

		if !result.OK {
			logger.Warn("Upstream rejected application", map[string]interface{}{
				"job_id": jobID,
				"status": result.Status,
			})
			return passthroughResponse(c, reqID, result)
		}

		logger.Info("Application submitted", map[string]interface{}{
			"job_id":          jobID,
			"resume_name":     resume.Filename,
			"processing_time": time.Since(startTime).String(),
		})

		return c.JSON(http.StatusOK, models.ApplyResponse{
			Success:   true,
			RequestID: reqID,
		})
	}
}

// readResume extracts the resume file part, tolerating its absence: a missing
// part comes back as (nil, nil) and is reported by field validation instead
func readResume(c echo.Context) (*models.ResumeFile, error) {
	header, err := c.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		// echo wraps "no such file" from the multipart reader
		if strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.ResumeFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func validationErrorResponse(c echo.Context, reqID string, err error) error {
	var missingField *normalize.MissingFieldError
	if errors.As(err, &missingField) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "missing_field",
			Message:   missingField.Error(),
			Field:     missingField.Field,
			RequestID: reqID,
			Timestamp: time.Now(),
		})
	}

	if errors.Is(err, normalize.ErrMissingResume) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:     "missing_resume",
			Message:   "A resume file is required",
			RequestID: reqID,
			Timestamp: time.Now(),
		})
	}

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:     "validation_failed",
		Message:   err.Error(),
		RequestID: reqID,
		Timestamp: time.Now(),
	})
}
