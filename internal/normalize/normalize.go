// Package normalize makes the proxy handlers resilient to the different ways
// callers have historically supplied the job id and applicant fields.
package normalize

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"loxo-bridge/pkg/models"
)

var validate = validator.New()

// Matches /job/<id> and /jobs/<id> path segments
var jobPathPattern = regexp.MustCompile(`(?i)/jobs?/([^/]+)`)

// ErrMissingResume is returned when an application carries no resume file
var ErrMissingResume = errors.New("resume file is required")

// MissingFieldError names the first required applicant field found absent
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ExtractJobID pulls the job id out of a request. Precedence is fixed: query
// parameter "id", then "jobId", then the JobId header, then a /job(s)/<id>
// path segment. Returns the empty string when every source is absent.
func ExtractJobID(r *http.Request) string {
	query := r.URL.Query()

	if id := strings.TrimSpace(query.Get("id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(query.Get("jobId")); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.Header.Get("JobId")); id != "" {
		return id
	}
	if m := jobPathPattern.FindStringSubmatch(r.URL.Path); m != nil {
		return m[1]
	}

	return ""
}

// ValidateApplication checks that an application has the required applicant
// fields and a resume. Field presence only: email and phone formats are a
// client-side concern and deliberately not enforced here.
func ValidateApplication(sub *models.ApplicationSubmission) error {
	if err := validate.StructPartial(sub, "Name", "Email", "Phone"); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			// validator reports in struct declaration order, so the first
			// entry is the first absent field
			return &MissingFieldError{Field: strings.ToLower(fieldErrors[0].Field())}
		}
		return err
	}

	if sub.Resume == nil || len(sub.Resume.Content) == 0 {
		return ErrMissingResume
	}

	return nil
}
