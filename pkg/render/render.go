// Package render writes job data into the placeholder slots of a hosting
// page's HTML. The page template owns the markup; the renderer only fills
// elements that already exist and never constructs missing scaffolding.
package render

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"loxo-bridge/internal/logging"
	"loxo-bridge/internal/logging/types"
	"loxo-bridge/pkg/models"
)

const (
	listContainerSelector   = "#jobs-container"
	detailContainerSelector = `[data-element="job-detail-container"]`

	// Format used for the published date in list slots
	publishedDateFormat = "January 2, 2006"

	// Character budget for meta descriptions
	metaDescriptionLimit = 160
)

// Renderer fills placeholder elements in a parsed document
type Renderer struct {
	logger types.Logger
}

// New creates a renderer using the global logger
func New() *Renderer {
	return &Renderer{logger: logging.GetGlobalLogger()}
}

// NewWithLogger creates a renderer with an explicit logger
func NewWithLogger(logger types.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// RenderList fills the positional list slots: each job lands in the
// [data-index] group matching its position, and groups beyond the fetched
// count are hidden.
func (r *Renderer) RenderList(doc *goquery.Document, jobs []models.JobSummary) {
	for i, job := range jobs {
		group := doc.Find(fmt.Sprintf(`[data-index="%d"]`, i))
		if group.Length() == 0 {
			continue
		}

		link := group.Find(`[data-element="ur-link"]`)
		if link.Length() > 0 {
			link.SetText(orDefault(job.Title, "Untitled Job"))
			link.SetAttr("href", "/job-detail?id="+url.QueryEscape(job.ID))
			link.SetAttr("data-job-id", job.ID)
		}

		setSlotText(group, "ur-location", orDefault(job.Location, "Location not specified"))
		setSlotText(group, "ur-company", orDefault(job.Company, "Company not specified"))

		if date := group.Find(`[data-element="ur-date"]`); date.Length() > 0 && !job.PublishedAt.IsZero() {
			date.SetText(job.PublishedAt.Format(publishedDateFormat))
		}
	}

	// Hide surplus groups beyond the fetched count
	doc.Find(`[data-index]`).Each(func(i int, s *goquery.Selection) {
		if i >= len(jobs) {
			s.SetAttr("style", "display: none;")
		}
	})
}

// RenderDetail fills the named detail slots. An absent placeholder is logged
// and skipped; it never fails the render.
func (r *Renderer) RenderDetail(doc *goquery.Document, job *models.JobDetail) {
	r.setText(doc, "job-title", job.Title)
	r.setText(doc, "job-location", location(job))
	r.setText(doc, "job-category", job.Category)
	r.setText(doc, "job-type", job.JobType)
	r.setText(doc, "job-salary", job.Salary)
	r.setHTML(doc, "job-description", orDefault(job.DescriptionHTML, "No description provided."))

	if apply := doc.Find(`[data-element="apply-link"]`); apply.Length() > 0 {
		apply.SetAttr("href", "?id="+url.QueryEscape(job.ID)+"#apply")
	}
}

// RenderNotFound replaces the detail container with a static fallback
func (r *Renderer) RenderNotFound(doc *goquery.Document) {
	container := doc.Find(detailContainerSelector)
	if container.Length() == 0 {
		r.logger.Error("No container found to render not-found fallback")
		return
	}

	container.SetHtml(`<div class="job-fallback"><h2>Job Not Found</h2>` +
		`<p>The job you're looking for doesn't exist or has been removed.</p>` +
		`<a href="/jobs">View All Jobs</a></div>`)
}

// RenderError replaces the list container's content with an error message
func (r *Renderer) RenderError(doc *goquery.Document, message string) {
	container := doc.Find(listContainerSelector)
	if container.Length() == 0 {
		r.logger.Error("No container found to render error fallback")
		return
	}

	container.SetHtml(`<div class="job-error"></div>`)
	container.Find("div").SetText(message)
}

// MetaDescription derives a meta-description string from the job's plain-text
// description, capped for search snippets. The cap counts runes so multi-byte
// text is never cut mid-character.
func MetaDescription(job *models.JobDetail) string {
	text := job.DescriptionText
	count := 0
	for i := range text {
		if count == metaDescriptionLimit {
			return text[:i]
		}
		count++
	}
	return text
}

func (r *Renderer) setText(doc *goquery.Document, slot, value string) {
	el := doc.Find(fmt.Sprintf(`[data-element="%s"]`, slot))
	if el.Length() == 0 {
		r.logger.Warn("Missing placeholder element", map[string]interface{}{"slot": slot})
		return
	}
	if value != "" {
		el.SetText(value)
	}
}

func (r *Renderer) setHTML(doc *goquery.Document, slot, html string) {
	el := doc.Find(fmt.Sprintf(`[data-element="%s"]`, slot))
	if el.Length() == 0 {
		r.logger.Warn("Missing placeholder element", map[string]interface{}{"slot": slot})
		return
	}
	el.SetHtml(html)
}

func setSlotText(group *goquery.Selection, slot, value string) {
	if el := group.Find(fmt.Sprintf(`[data-element="%s"]`, slot)); el.Length() > 0 {
		el.SetText(value)
	}
}

func location(job *models.JobDetail) string {
	if job.City == "" {
		return ""
	}
	if job.StateCode == "" {
		return job.City
	}
	return job.City + ", " + job.StateCode
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
