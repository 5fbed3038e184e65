package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"loxo-bridge/pkg/models"
)

// State is the submission form's lifecycle state
type State int

const (
	StateIdle State = iota
	StateAwaitingResume
	StateBound
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResume:
		return "awaiting_resume"
	case StateBound:
		return "bound"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MaxResumeSize is the advisory client-side cap on resume uploads. The proxy
// does not enforce it; rejecting locally just saves a doomed round trip.
const MaxResumeSize = 5 * 1024 * 1024

// defaultResumeWaitCap bounds AwaitResumeSource when the caller's context
// carries no deadline of its own
const defaultResumeWaitCap = 2 * time.Minute

var allowedResumeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

var (
	ErrResumeWaitTimeout  = errors.New("timed out waiting for the resume source")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrNotBound           = errors.New("form fields are not bound")
	ErrNoResume           = errors.New("no resume file selected")
	ErrResumeTooLarge     = errors.New("resume exceeds the maximum allowed size")
	ErrResumeType         = errors.New("resume must be a PDF, DOC or DOCX file")
)

// ResumeSource supplies the resume file. It stands in for the third-party
// file widget of the hosting page, which initializes asynchronously: Ready
// reports whether the source exists at all, Resume the currently held file.
type ResumeSource interface {
	Ready() bool
	Resume() (*models.ResumeFile, error)
}

// Fields are the applicant-entered form values
type Fields struct {
	JobID       string
	Name        string
	Email       string
	Phone       string
	LinkedinURL string
}

// SubmissionReceipt reports an accepted application
type SubmissionReceipt struct {
	Success   bool
	RequestID string
}

// SubmissionForm drives one application through the submission lifecycle:
// Idle -> AwaitingResume -> Bound -> Submitting -> Succeeded or Failed, with
// Failed -> Bound on retry. At most one submission is in flight at a time.
type SubmissionForm struct {
	client  *Client
	source  ResumeSource
	waitCap time.Duration

	mu      sync.Mutex
	state   State
	fields  Fields
	lastErr error
}

// NewSubmissionForm creates a form for one application attempt
func (c *Client) NewSubmissionForm(source ResumeSource) *SubmissionForm {
	return &SubmissionForm{
		client:  c,
		source:  source,
		waitCap: defaultResumeWaitCap,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state
func (f *SubmissionForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError returns the error recorded by the most recent failed submission
func (f *SubmissionForm) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Fields returns the currently bound field values. Entered values survive
// failed submissions so the caller can offer an immediate retry.
func (f *SubmissionForm) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// AwaitResumeSource waits for the resume source to become ready, polling at
// the given interval. The wait is always bounded: the caller's context
// deadline when it has one, an internal cap otherwise. When the bound passes
// before the source appears, the form reports ErrResumeWaitTimeout instead
// of polling forever.
func (f *SubmissionForm) AwaitResumeSource(ctx context.Context, interval time.Duration) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.state = StateAwaitingResume
	f.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.waitCap)
		defer cancel()
	}

	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if f.source.Ready() {
			f.mu.Lock()
			f.state = StateIdle
			f.mu.Unlock()
			return nil
		}

		select {
		case <-ctx.Done():
			f.mu.Lock()
			f.state = StateIdle
			f.lastErr = ErrResumeWaitTimeout
			f.mu.Unlock()
			return ErrResumeWaitTimeout
		case <-ticker.C:
		}
	}
}

// Bind stores trimmed field values and readies the form for submission
func (f *SubmissionForm) Bind(fields Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return ErrSubmissionInFlight
	}

	f.fields = Fields{
		JobID:       strings.TrimSpace(fields.JobID),
		Name:        strings.TrimSpace(fields.Name),
		Email:       strings.TrimSpace(fields.Email),
		Phone:       strings.TrimSpace(fields.Phone),
		LinkedinURL: strings.TrimSpace(fields.LinkedinURL),
	}
	f.state = StateBound
	return nil
}

// Submit sends the application. Only one submission may be in flight; a
// second call while submitting fails with ErrSubmissionInFlight rather than
// queueing. On failure the bound fields are preserved and the form may be
// submitted again immediately. Cancelling the context abandons interest in
// the response; the server is not told to stop.
func (f *SubmissionForm) Submit(ctx context.Context) (*SubmissionReceipt, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case StateBound, StateFailed:
		// Failed -> Bound -> Submitting is the retry path
	default:
		f.mu.Unlock()
		return nil, ErrNotBound
	}
	f.state = StateSubmitting
	fields := f.fields
	f.mu.Unlock()

	receipt, err := f.submit(ctx, fields)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		return nil, err
	}

	f.state = StateSucceeded
	f.lastErr = nil
	return receipt, nil
}

// Reset clears the form and the recorded error, returning to Idle. Called
// after a successful submission, mirroring the hosting page clearing its
// form and file widget.
func (f *SubmissionForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return
	}
	f.fields = Fields{}
	f.lastErr = nil
	f.state = StateIdle
}

func (f *SubmissionForm) submit(ctx context.Context, fields Fields) (*SubmissionReceipt, error) {
	resume, err := f.source.Resume()
	if err != nil {
		return nil, err
	}
	if resume == nil || len(resume.Content) == 0 {
		return nil, ErrNoResume
	}
	if err := checkResume(resume); err != nil {
		return nil, err
	}

	return f.client.apply(ctx, fields, resume)
}

// checkResume applies the advisory client-side limits
func checkResume(resume *models.ResumeFile) error {
	if len(resume.Content) > MaxResumeSize {
		return ErrResumeTooLarge
	}
	if _, ok := allowedResumeTypes[resume.ContentType]; !ok {
		return ErrResumeType
	}
	return nil
}
