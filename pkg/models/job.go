package models

import "time"

// JobSummary is the list-view projection of a job posting as served by the
// /jobs endpoint. Fields are mapped from the upstream shape in internal/loxo;
// upstream JSON is never passed through untyped.
type JobSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Company     string    `json:"company"`
	PublishedAt time.Time `json:"published_at"`
}

// JobDetail is the full per-job projection served by /job-detail.
type JobDetail struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	City            string `json:"city"`
	StateCode       string `json:"state_code"`
	Category        string `json:"category"`
	JobType         string `json:"job_type"`
	Salary          string `json:"salary"`
	DescriptionHTML string `json:"description"`
	DescriptionText string `json:"description_text,omitempty"`
}
