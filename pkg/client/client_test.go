package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestListJobsDecodes(t *testing.T) {
	c := applyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" {
			t.Errorf("path = %q, want /jobs", r.URL.Path)
		}
		w.Write([]byte(`{"results":[{"id":"1","title":"Go Engineer","company":"Acme"}]}`))
	})

	jobs, err := c.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs() = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Go Engineer" || jobs[0].Company != "Acme" {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestGetJobPassesID(t *testing.T) {
	c := applyServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "a b/c" {
			t.Errorf("id = %q, want the raw job id", got)
		}
		w.Write([]byte(`{"job":{"id":"42","title":"Staff Engineer"}}`))
	})

	job, err := c.GetJob(context.Background(), "a b/c")
	if err != nil {
		t.Fatalf("GetJob() = %v", err)
	}
	if job.ID != "42" {
		t.Errorf("job = %+v", job)
	}
}

func TestGetJobNotFound(t *testing.T) {
	c := applyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"upstream_error","message":"Upstream request failed"}`))
	})

	_, err := c.GetJob(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetJob() = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "upstream_error" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAPIErrorUnreadableBody(t *testing.T) {
	c := applyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway</html>"))
	})

	_, err := c.ListJobs(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ListJobs() = %v, want APIError", err)
	}
	if apiErr.Code != "unknown_error" || apiErr.Status != http.StatusBadGateway {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestGetJobRequiresID(t *testing.T) {
	c := New("http://localhost:0")
	if _, err := c.GetJob(context.Background(), ""); err == nil {
		t.Fatal("GetJob(\"\") = nil, want error")
	}
}
