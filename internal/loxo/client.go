package loxo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"loxo-bridge/internal/config"
	"loxo-bridge/internal/logging"
	"loxo-bridge/internal/logging/types"
	"loxo-bridge/pkg/models"
)

// Sentinel errors for transport-level failures. Non-2xx upstream responses are
// not errors; they come back as UpstreamResult{OK:false} with status and body.
var (
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Client issues authenticated calls against the Loxo agency API. The bearer
// token and agency slug come from configuration and never leave this package.
type Client struct {
	baseURL    string
	agencySlug string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	logger     types.Logger
}

// NewClient creates a new Loxo API client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Loxo.BaseURL, "/"),
		agencySlug: cfg.Loxo.AgencySlug,
		token:      cfg.Loxo.BearerToken,
		timeout:    cfg.Loxo.Timeout,
		httpClient: &http.Client{},
		logger:     logging.GetGlobalLogger(),
	}
}

// ListJobs fetches the agency's published job collection
func (c *Client) ListJobs(ctx context.Context) (*models.UpstreamResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint("jobs"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req)
}

// GetJob fetches a single job posting. The job id is opaque; it is URL-escaped
// and otherwise passed along untouched.
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.UpstreamResult, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint("jobs", jobID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req)
}

// SubmitApplication forwards an application as a single multipart POST to the
// per-job apply endpoint: applicant fields and the resume travel in one body.
// The alternative two-step upload-then-apply flow was rejected because it can
// strand an uploaded resume when the second call fails; see DESIGN.md.
func (c *Client) SubmitApplication(ctx context.Context, jobID string, sub *models.ApplicationSubmission) (*models.UpstreamResult, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	if sub == nil || sub.Resume == nil {
		return nil, fmt.Errorf("application with resume is required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"name":     sub.Name,
		"email":    sub.Email,
		"phone":    sub.Phone,
		"linkedin": sub.LinkedinURL,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	part, err := writer.CreatePart(resumePartHeader(sub.Resume))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume part: %w", err)
	}
	if _, err := part.Write(sub.Resume.Content); err != nil {
		return nil, fmt.Errorf("failed to write resume content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("jobs", jobID, "apply"), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Info("Submitting application upstream", map[string]interface{}{
		"job_id":      jobID,
		"resume_name": sub.Resume.Filename,
		"resume_size": len(sub.Resume.Content),
	})

	return c.do(ctx, req)
}

// endpoint builds {base}/{agency}/{segments...} with escaped path segments
func (c *Client) endpoint(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, url.PathEscape(c.agencySlug))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return c.baseURL + "/" + strings.Join(parts, "/")
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes the request under the configured upstream timeout and folds the
// response into an UpstreamResult. Transport failures are classified into the
// timeout/unavailable sentinels; the raw error is logged, not surfaced.
func (c *Client) do(ctx context.Context, req *http.Request) (*models.UpstreamResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.httpClient.Do(req.WithContext(callCtx))
	if err != nil {
		c.logger.Error("Upstream request failed", map[string]interface{}{
			"method":  req.Method,
			"url":     req.URL.String(),
			"elapsed": time.Since(started).String(),
			"error":   err.Error(),
		})

		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrUpstreamTimeout
		}
		return nil, ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read upstream response", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
			"error":  err.Error(),
		})
		return nil, ErrUpstreamUnavailable
	}

	result := &models.UpstreamResult{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Body:   body,
	}

	c.logger.Debug("Upstream request completed", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).String(),
	})

	return result, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func resumePartHeader(resume *models.ResumeFile) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="resume"; filename=%q`, resume.Filename))
	contentType := resume.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}
