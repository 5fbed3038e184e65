package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"loxo-bridge/pkg/models"
)

const listTemplate = `
<html><body>
  <div id="jobs-container">
    <div data-index="0">
      <a data-element="ur-link"></a>
      <span data-element="ur-location"></span>
      <span data-element="ur-company"></span>
      <span data-element="ur-date"></span>
    </div>
    <div data-index="1">
      <a data-element="ur-link"></a>
      <span data-element="ur-location"></span>
      <span data-element="ur-company"></span>
      <span data-element="ur-date"></span>
    </div>
    <div data-index="2">
      <a data-element="ur-link"></a>
      <span data-element="ur-location"></span>
      <span data-element="ur-company"></span>
      <span data-element="ur-date"></span>
    </div>
  </div>
</body></html>`

const detailTemplate = `
<html><body>
  <div data-element="job-detail-container">
    <h1 data-element="job-title"></h1>
    <span data-element="job-location"></span>
    <span data-element="job-category"></span>
    <span data-element="job-type"></span>
    <span data-element="job-salary"></span>
    <div data-element="job-description"></div>
    <a data-element="apply-link">Apply</a>
  </div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	return doc
}

func TestRenderList(t *testing.T) {
	doc := parseDoc(t, listTemplate)
	published := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	jobs := []models.JobSummary{
		{ID: "11", Title: "Go Engineer", Location: "Austin, TX", Company: "Acme", PublishedAt: published},
		{ID: "12", Title: "", Location: "", Company: ""},
	}

	New().RenderList(doc, jobs)

	first := doc.Find(`[data-index="0"]`)
	link := first.Find(`[data-element="ur-link"]`)
	if link.Text() != "Go Engineer" {
		t.Errorf("link text = %q", link.Text())
	}
	if href, _ := link.Attr("href"); href != "/job-detail?id=11" {
		t.Errorf("link href = %q", href)
	}
	if id, _ := link.Attr("data-job-id"); id != "11" {
		t.Errorf("data-job-id = %q", id)
	}
	if got := first.Find(`[data-element="ur-date"]`).Text(); got != "March 5, 2024" {
		t.Errorf("date = %q", got)
	}

	// Missing values fall back to visible defaults
	second := doc.Find(`[data-index="1"]`)
	if got := second.Find(`[data-element="ur-link"]`).Text(); got != "Untitled Job" {
		t.Errorf("fallback title = %q", got)
	}
	if got := second.Find(`[data-element="ur-location"]`).Text(); got != "Location not specified" {
		t.Errorf("fallback location = %q", got)
	}
	if got := second.Find(`[data-element="ur-company"]`).Text(); got != "Company not specified" {
		t.Errorf("fallback company = %q", got)
	}
	if got := second.Find(`[data-element="ur-date"]`).Text(); got != "" {
		t.Errorf("zero date should leave the slot empty, got %q", got)
	}

	// The surplus third group is hidden, filled groups are not
	if style, _ := doc.Find(`[data-index="2"]`).Attr("style"); style != "display: none;" {
		t.Errorf("surplus group style = %q, want hidden", style)
	}
	if style, ok := first.Attr("style"); ok {
		t.Errorf("filled group unexpectedly styled: %q", style)
	}
}

func TestRenderListMoreJobsThanSlots(t *testing.T) {
	doc := parseDoc(t, listTemplate)

	jobs := make([]models.JobSummary, 5)
	for i := range jobs {
		jobs[i] = models.JobSummary{ID: "1", Title: "Job", Location: "X", Company: "Y"}
	}

	// Surplus jobs are dropped silently; this must not panic
	New().RenderList(doc, jobs)

	if hidden := doc.Find(`[data-index][style]`).Length(); hidden != 0 {
		t.Errorf("%d groups hidden, want 0 when every slot is filled", hidden)
	}
}

func TestRenderDetail(t *testing.T) {
	doc := parseDoc(t, detailTemplate)

	job := &models.JobDetail{
		ID:              "42",
		Title:           "Staff Engineer",
		City:            "Boston",
		StateCode:       "MA",
		Category:        "Engineering",
		JobType:         "Full-time",
		Salary:          "$180k",
		DescriptionHTML: "<p>Build <strong>things</strong></p>",
	}

	New().RenderDetail(doc, job)

	checks := map[string]string{
		"job-title":    "Staff Engineer",
		"job-location": "Boston, MA",
		"job-category": "Engineering",
		"job-type":     "Full-time",
		"job-salary":   "$180k",
	}
	for slot, want := range checks {
		if got := doc.Find(`[data-element="` + slot + `"]`).Text(); got != want {
			t.Errorf("%s = %q, want %q", slot, got, want)
		}
	}

	desc, _ := doc.Find(`[data-element="job-description"]`).Html()
	if !strings.Contains(desc, "<strong>things</strong>") {
		t.Errorf("description rendered as text, not markup: %q", desc)
	}

	if href, _ := doc.Find(`[data-element="apply-link"]`).Attr("href"); href != "?id=42#apply" {
		t.Errorf("apply href = %q", href)
	}
}

func TestRenderDetailMissingPlaceholders(t *testing.T) {
	// A sparse template keeps whatever slots it declares; absent ones are skipped
	doc := parseDoc(t, `<html><body><h1 data-element="job-title"></h1></body></html>`)

	job := &models.JobDetail{ID: "1", Title: "Recruiter", Salary: "$90k"}
	New().RenderDetail(doc, job)

	if got := doc.Find(`[data-element="job-title"]`).Text(); got != "Recruiter" {
		t.Errorf("title = %q", got)
	}
}

func TestRenderDetailEmptyValuesKeepPlaceholderText(t *testing.T) {
	doc := parseDoc(t, `<html><body><span data-element="job-salary">Salary on request</span></body></html>`)

	New().RenderDetail(doc, &models.JobDetail{ID: "1"})

	if got := doc.Find(`[data-element="job-salary"]`).Text(); got != "Salary on request" {
		t.Errorf("empty value overwrote placeholder text: %q", got)
	}
}

func TestRenderNotFound(t *testing.T) {
	doc := parseDoc(t, detailTemplate)

	New().RenderNotFound(doc)

	container := doc.Find(`[data-element="job-detail-container"]`)
	if container.Find("h2").Text() != "Job Not Found" {
		t.Errorf("fallback heading missing: %s", container.Text())
	}
	if href, _ := container.Find("a").Attr("href"); href != "/jobs" {
		t.Errorf("fallback link = %q", href)
	}
	if container.Find(`[data-element="job-title"]`).Length() != 0 {
		t.Error("original detail slots should be replaced by the fallback")
	}
}

func TestRenderError(t *testing.T) {
	doc := parseDoc(t, listTemplate)

	New().RenderError(doc, `Jobs are <currently> unavailable`)

	errDiv := doc.Find("#jobs-container .job-error")
	if errDiv.Length() == 0 {
		t.Fatal("error fallback not rendered")
	}
	// The message is set as text, so markup-like input stays inert
	if got := errDiv.Text(); got != "Jobs are <currently> unavailable" {
		t.Errorf("message = %q", got)
	}
	html, _ := errDiv.Html()
	if strings.Contains(html, "<currently>") {
		t.Errorf("message was injected as markup: %q", html)
	}
}

func TestRenderFallbacksWithoutContainers(t *testing.T) {
	doc := parseDoc(t, `<html><body></body></html>`)
	r := New()

	// No containers anywhere; both must be no-ops
	r.RenderNotFound(doc)
	r.RenderError(doc, "boom")

	if body, _ := doc.Find("body").Html(); strings.TrimSpace(body) != "" {
		t.Errorf("fallbacks rendered without containers: %q", body)
	}
}

func TestMetaDescription(t *testing.T) {
	short := &models.JobDetail{DescriptionText: "Build distributed systems."}
	if got := MetaDescription(short); got != "Build distributed systems." {
		t.Errorf("short description = %q", got)
	}

	long := &models.JobDetail{DescriptionText: strings.Repeat("a", 200)}
	if got := MetaDescription(long); len(got) != 160 {
		t.Errorf("len = %d, want 160", len(got))
	}

	// Multi-byte text is cut on a rune boundary, never mid-character
	accented := &models.JobDetail{DescriptionText: strings.Repeat("a", 159) + "éé"}
	got := MetaDescription(accented)
	if !utf8.ValidString(got) {
		t.Errorf("result is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 160 {
		t.Errorf("rune count = %d, want 160", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "é") {
		t.Errorf("result = %q, want the 160th rune kept intact", got)
	}

	allWide := &models.JobDetail{DescriptionText: strings.Repeat("日", 200)}
	if n := utf8.RuneCountInString(MetaDescription(allWide)); n != 160 {
		t.Errorf("wide rune count = %d, want 160", n)
	}

	if got := MetaDescription(&models.JobDetail{}); got != "" {
		t.Errorf("empty description = %q", got)
	}
}
