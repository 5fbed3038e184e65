// Package client is a Go client for the job board proxy API. It covers the
// read endpoints and the application submission flow, including the bounded
// wait for an asynchronously appearing resume source.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"loxo-bridge/pkg/models"
)

// Client talks to the proxy's public HTTP surface
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a proxy API client for the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from the proxy, decoded from its error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%d): %s [field=%s]", e.Code, e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// ListJobs fetches the published job list
func (c *Client) ListJobs(ctx context.Context) ([]models.JobSummary, error) {
	var response models.JobListResponse
	if err := c.getJSON(ctx, "/jobs", &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// GetJob fetches one job posting by its opaque id
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.JobDetail, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}

	var response models.JobDetailResponse
	path := "/job-detail?id=" + url.QueryEscape(jobID)
	if err := c.getJSON(ctx, path, &response); err != nil {
		return nil, err
	}
	return &response.Job, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apply posts one multipart application to the proxy
func (c *Client) apply(ctx context.Context, fields Fields, resume *models.ResumeFile) (*SubmissionReceipt, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	formFields := map[string]string{
		"name":     fields.Name,
		"email":    fields.Email,
		"phone":    fields.Phone,
		"linkedin": fields.LinkedinURL,
	}
	for name, value := range formFields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, resume.Filename))
	h.Set("Content-Type", resume.ContentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume part: %w", err)
	}
	if _, err := part.Write(resume.Content); err != nil {
		return nil, fmt.Errorf("failed to write resume content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := c.baseURL + "/apply-job?id=" + url.QueryEscape(fields.JobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, respBody)
	}

	var applyResponse models.ApplyResponse
	if err := json.Unmarshal(respBody, &applyResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &SubmissionReceipt{
		Success:   applyResponse.Success,
		RequestID: applyResponse.RequestID,
	}, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Code:    "unknown_error",
		Message: "The server returned an unexpected response",
	}

	var envelope models.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		apiErr.Code = envelope.Error
		apiErr.Message = envelope.Message
		apiErr.Field = envelope.Field
	}

	return apiErr
}
