package jobs

import (
	"strings"
	"time"
)

// Kind identifies the remote operation a job performs. The value doubles as
// the endpoint path segment.
type Kind string

const (
	// KindTranscribe is a speech-to-text job.
	KindTranscribe Kind = "stt"
	// KindSynthesize is a text-to-speech job.
	KindSynthesize Kind = "tts"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindTranscribe || k == KindSynthesize
}

// Label returns the upper-case name used in user-facing messages ("STT", "TTS").
func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// Status is the lifecycle state of a job.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusRunning   Status = "running"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
	// StatusTimedOut is set by the Poller only; the remote service never reports it.
	StatusTimedOut Status = "timed_out"
)

// ParseStatus maps a remote status string onto a Status. Matching ignores case
// and surrounding whitespace. Anything unrecognized means the job is still running.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "complete":
		return StatusComplete
	case "failed":
		return StatusFailed
	case "submitted":
		return StatusSubmitted
	default:
		return StatusRunning
	}
}

// Terminal reports whether no further transitions can occur from s.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusTimedOut
}

func (s Status) rank() int {
	switch s {
	case StatusSubmitted:
		return 0
	case StatusRunning:
		return 1
	case StatusComplete, StatusFailed, StatusTimedOut:
		return 2
	default:
		return 1
	}
}

// TranscriptSegment is one unit of a transcription result.
type TranscriptSegment struct {
	Channel int    `json:"channel"`
	Text    string `json:"transcript"`
}

// Result is the payload of a completed job. Transcription jobs fill Segments,
// synthesis jobs fill Audio.
type Result struct {
	Segments []TranscriptSegment
	Audio    Payload
}

// Job is one outstanding remote operation. A Job is created per call and
// owned by the caller; it is never shared.
type Job struct {
	ID     string
	Kind   Kind
	Status Status

	// RawStatus is the last status string the service reported, verbatim.
	RawStatus string

	// Result is set only when Status is StatusComplete and the service
	// returned the payload inline with the status.
	Result *Result

	// ErrorDetail is set only when Status is StatusFailed.
	ErrorDetail string

	SubmittedAt time.Time
	UpdatedAt   time.Time

	// Polls counts status checks issued by the Poller.
	Polls int
}

// Advance applies an observed snapshot of the same job. Status only moves
// forward and a terminal job is never modified. It reports whether the
// status changed.
func (j *Job) Advance(observed *Job, at time.Time) bool {
	if observed == nil || j.Status.Terminal() {
		return false
	}
	j.UpdatedAt = at
	if observed.Status.rank() < j.Status.rank() {
		return false
	}
	if observed.RawStatus != "" {
		j.RawStatus = observed.RawStatus
	}
	if observed.Status == j.Status {
		return false
	}

	j.Status = observed.Status
	switch j.Status {
	case StatusComplete:
		j.Result = observed.Result
	case StatusFailed:
		j.ErrorDetail = observed.ErrorDetail
	case StatusSubmitted, StatusRunning, StatusTimedOut:
	}
	return true
}

// Failure returns a *RemoteJobFailure describing a failed job, or nil if the
// job has not failed.
func (j *Job) Failure() error {
	if j.Status != StatusFailed {
		return nil
	}
	return &RemoteJobFailure{
		Kind:      j.Kind,
		JobID:     j.ID,
		RawStatus: j.RawStatus,
		Detail:    j.ErrorDetail,
	}
}

// Credentials locate and authenticate the remote service.
type Credentials struct {
	BaseURL string
	APIKey  string
}

// Validate returns a *ConfigError when either field is empty.
func (c Credentials) Validate(kind Kind) error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return &ConfigError{Kind: kind, Field: "base_url", Err: ErrMissingCredentials}
	case strings.TrimSpace(c.APIKey) == "":
		return &ConfigError{Kind: kind, Field: "api_key", Err: ErrMissingCredentials}
	default:
		return nil
	}
}
