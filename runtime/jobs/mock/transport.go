// Package mock provides a scripted jobs.Transport for tests and offline runs.
// It never touches the network and records every call it receives.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
)

// Step is one scripted status response.
type Step struct {
	// Status is returned verbatim as the raw status string.
	Status string
	// Detail is the remote error detail for failed steps.
	Detail string
	// Err makes GetStatus fail instead of returning a job.
	Err error
}

// Call records one transport invocation.
type Call struct {
	Method string // Submit, GetStatus, FetchResult
	Kind   jobs.Kind
	JobID  string
	Submit *jobs.SubmitRequest
	Fetch  jobs.FetchOptions
}

// Transport is a scripted transport spy. Configure it through its exported
// fields before use; it is safe for concurrent calls afterwards.
type Transport struct {
	// JobID is assigned to submitted jobs. Default: "mock-job-1".
	JobID string

	// SubmitStatus is the status returned by Submit. Default: "submitted".
	SubmitStatus string
	// SubmitDetail is the error detail returned by Submit when SubmitStatus is failed.
	SubmitDetail string
	// SubmitErr makes Submit fail.
	SubmitErr error
	// SubmitResult is attached to the submitted job when SubmitStatus is complete.
	SubmitResult *jobs.Result

	// Steps are consumed one per GetStatus call; the last one repeats.
	Steps []Step

	// Result is returned by FetchResult.
	Result *jobs.Result
	// FetchErr makes FetchResult fail.
	FetchErr error

	mu    sync.Mutex
	calls []Call
	step  int
}

// NewTransport creates a transport that reports the given status sequence.
func NewTransport(statuses ...string) *Transport {
	t := &Transport{}
	for _, s := range statuses {
		t.Steps = append(t.Steps, Step{Status: s})
	}
	return t
}

// Submit records the call and returns a job in SubmitStatus.
func (t *Transport) Submit(_ context.Context, req *jobs.SubmitRequest) (*jobs.Job, error) {
	t.record(Call{Method: "Submit", Kind: req.Kind, Submit: req})
	if t.SubmitErr != nil {
		return nil, t.SubmitErr
	}

	id := t.JobID
	if id == "" {
		id = "mock-job-1"
	}
	raw := t.SubmitStatus
	if raw == "" {
		raw = string(jobs.StatusSubmitted)
	}
	now := time.Now()
	job := &jobs.Job{
		ID:          id,
		Kind:        req.Kind,
		Status:      jobs.ParseStatus(raw),
		RawStatus:   raw,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	switch job.Status {
	case jobs.StatusComplete:
		job.Result = t.SubmitResult
	case jobs.StatusFailed:
		job.ErrorDetail = t.SubmitDetail
	case jobs.StatusSubmitted, jobs.StatusRunning, jobs.StatusTimedOut:
	}
	return job, nil
}

// GetStatus returns the next scripted step.
func (t *Transport) GetStatus(_ context.Context, kind jobs.Kind, jobID string) (*jobs.Job, error) {
	t.record(Call{Method: "GetStatus", Kind: kind, JobID: jobID})

	t.mu.Lock()
	if len(t.Steps) == 0 {
		t.mu.Unlock()
		return nil, fmt.Errorf("mock transport: no status steps scripted")
	}
	step := t.Steps[min(t.step, len(t.Steps)-1)]
	t.step++
	t.mu.Unlock()

	if step.Err != nil {
		return nil, step.Err
	}
	job := &jobs.Job{
		ID:        jobID,
		Kind:      kind,
		Status:    jobs.ParseStatus(step.Status),
		RawStatus: step.Status,
		UpdatedAt: time.Now(),
	}
	if job.Status == jobs.StatusFailed {
		job.ErrorDetail = step.Detail
	}
	return job, nil
}

// FetchResult returns Result or FetchErr.
func (t *Transport) FetchResult(_ context.Context, kind jobs.Kind, jobID string, opts jobs.FetchOptions) (*jobs.Result, error) {
	t.record(Call{Method: "FetchResult", Kind: kind, JobID: jobID, Fetch: opts})
	if t.FetchErr != nil {
		return nil, t.FetchErr
	}
	if t.Result == nil {
		return &jobs.Result{}, nil
	}
	return t.Result, nil
}

// Calls returns a copy of the recorded calls.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// CallCount returns how many times method was invoked. An empty method counts all calls.
func (t *Transport) CallCount(method string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if method == "" {
		return len(t.calls)
	}
	n := 0
	for _, c := range t.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and rewinds the step script.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
	t.step = 0
}

func (t *Transport) record(c Call) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, c)
}

var _ jobs.Transport = (*Transport)(nil)
