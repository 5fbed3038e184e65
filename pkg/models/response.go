package models

import (
	"encoding/json"
	"time"
)

// JobListResponse is the success envelope for the /jobs endpoint.
type JobListResponse struct {
	Results []JobSummary `json:"results"`
}

// JobDetailResponse is the success envelope for the /job-detail endpoint.
type JobDetailResponse struct {
	Job JobDetail `json:"job"`
}

// ApplyResponse is the success envelope for the /apply-job endpoint.
type ApplyResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Field     string    `json:"field,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UpstreamErrorResponse is returned when the upstream API answered with a
// non-2xx status. The upstream body is attached verbatim for diagnostics.
type UpstreamErrorResponse struct {
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Status    int             `json:"status"`
	Upstream  json.RawMessage `json:"upstream,omitempty"`
	RequestID string          `json:"request_id"`
	Timestamp time.Time       `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}
