package models

import "encoding/json"

// ResumeFile is the binary resume content attached to an application.
type ResumeFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ApplicationSubmission carries the applicant fields and resume for one
// application. Instances are request-scoped and never persisted.
//
// Only presence of name/email/phone is validated server-side; format checks
// are left to clients as advisory.
type ApplicationSubmission struct {
	JobID       string `validate:"required"`
	Name        string `validate:"required"`
	Email       string `validate:"required"`
	Phone       string `validate:"required"`
	LinkedinURL string
	Resume      *ResumeFile
}

// UpstreamResult is the uninterpreted outcome of one upstream call. Non-2xx
// responses keep their status and body so handlers can pass them through.
type UpstreamResult struct {
	OK     bool
	Status int
	Body   json.RawMessage
}
