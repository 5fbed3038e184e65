package loxo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"loxo-bridge/pkg/models"
)

// Upstream job shapes. Loxo nests company/category/job_type as objects and is
// inconsistent about which timestamp is set, so the mapping is modeled here
// explicitly instead of passing the JSON through untyped.

type upstreamNamed struct {
	Name string `json:"name"`
}

type upstreamJob struct {
	ID              json.Number    `json:"id"`
	Title           string         `json:"title"`
	City            string         `json:"city"`
	StateCode       string         `json:"state_code"`
	MacroAddress    string         `json:"macro_address"`
	Salary          string         `json:"salary"`
	Description     string         `json:"description"`
	DescriptionText string         `json:"description_text"`
	PublishedAt     *time.Time     `json:"published_at"`
	CreatedAt       *time.Time     `json:"created_at"`
	Company         *upstreamNamed `json:"company"`
	Category        *upstreamNamed `json:"category"`
	JobType         *upstreamNamed `json:"job_type"`
}

type jobListEnvelope struct {
	Results []upstreamJob `json:"results"`
}

// ParseJobList decodes an upstream jobs-collection body into summaries
func ParseJobList(body json.RawMessage) ([]models.JobSummary, error) {
	var envelope jobListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode upstream job list: %w", err)
	}

	summaries := make([]models.JobSummary, 0, len(envelope.Results))
	for _, job := range envelope.Results {
		summaries = append(summaries, job.summary())
	}
	return summaries, nil
}

// ParseJobDetail decodes an upstream per-job body
func ParseJobDetail(body json.RawMessage) (*models.JobDetail, error) {
	var job upstreamJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("failed to decode upstream job: %w", err)
	}

	detail := job.detail()
	return &detail, nil
}

func (j upstreamJob) summary() models.JobSummary {
	location := j.MacroAddress
	if location == "" {
		location = joinLocation(j.City, j.StateCode)
	}

	var publishedAt time.Time
	if j.PublishedAt != nil {
		publishedAt = *j.PublishedAt
	} else if j.CreatedAt != nil {
		publishedAt = *j.CreatedAt
	}

	return models.JobSummary{
		ID:          j.ID.String(),
		Title:       j.Title,
		Location:    location,
		Company:     namedOrEmpty(j.Company),
		PublishedAt: publishedAt,
	}
}

func (j upstreamJob) detail() models.JobDetail {
	return models.JobDetail{
		ID:              j.ID.String(),
		Title:           j.Title,
		City:            j.City,
		StateCode:       j.StateCode,
		Category:        namedOrEmpty(j.Category),
		JobType:         namedOrEmpty(j.JobType),
		Salary:          j.Salary,
		DescriptionHTML: j.Description,
		DescriptionText: j.DescriptionText,
	}
}

func namedOrEmpty(n *upstreamNamed) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func joinLocation(city, stateCode string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if stateCode != "" {
		parts = append(parts, stateCode)
	}
	return strings.Join(parts, ", ")
}
