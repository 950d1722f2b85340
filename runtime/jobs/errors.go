package jobs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors.
var (
	// ErrMissingCredentials is wrapped by ConfigError when the base URL or API key is empty.
	ErrMissingCredentials = errors.New("base URL or API key is not set")

	// ErrEmptyText is returned when a synthesis request has no text.
	ErrEmptyText = errors.New("text is empty")

	// ErrEmptySource is returned when a transcription request has neither data nor URI.
	ErrEmptySource = errors.New("audio source is empty")

	// ErrNoTranscriptData reports a completed transcription with no segments.
	// Its message is shown to users verbatim.
	ErrNoTranscriptData = errors.New("No transcript data found in the result.") //nolint:staticcheck // user-facing text

	// ErrNoAudioData reports a completed synthesis with neither inline data nor a path.
	ErrNoAudioData = errors.New("no audio data found in the result")

	// ErrEmptyJobID is returned when a job is resumed without an ID.
	ErrEmptyJobID = errors.New("job id is empty")

	// ErrUnknownKind is returned for a Kind other than stt or tts.
	ErrUnknownKind = errors.New("unknown job kind")
)

// ConfigError reports a configuration problem detected before any network call.
type ConfigError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s config: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s config: %v", e.Kind, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError reports a failed exchange with the remote service.
type TransportError struct {
	Kind      Kind
	Operation string // submit, status, result

	// StatusCode and Body are set when the service answered with a non-2xx status.
	StatusCode int
	Body       string

	// Retryable marks network failures, 429 and 5xx responses.
	Retryable bool

	Cause error
}

// NewHTTPError builds a TransportError from a non-2xx response.
func NewHTTPError(kind Kind, op string, statusCode int, body string) *TransportError {
	return &TransportError{
		Kind:       kind,
		Operation:  op,
		StatusCode: statusCode,
		Body:       body,
		Retryable:  statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError,
	}
}

// NewNetworkError builds a retryable TransportError from a failed round trip.
func NewNetworkError(kind Kind, op string, cause error) *TransportError {
	return &TransportError{
		Kind:      kind,
		Operation: op,
		Retryable: true,
		Cause:     cause,
	}
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s %s: HTTP %d: %s", e.Kind, e.Operation, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s %s: HTTP %d", e.Kind, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Operation, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// RemoteJobFailure reports a job the service marked as failed.
type RemoteJobFailure struct {
	Kind      Kind
	JobID     string
	RawStatus string
	Detail    string
}

func (e *RemoteJobFailure) Error() string {
	status := e.RawStatus
	if status == "" {
		status = string(StatusFailed)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s job %s failed with status %s: %s", e.Kind, e.JobID, status, e.Detail)
	}
	return fmt.Sprintf("%s job %s failed with status %s", e.Kind, e.JobID, status)
}

// Unwrap returns nil; a remote failure has no local cause.
func (e *RemoteJobFailure) Unwrap() error { return nil }

// UnpackError reports a completed job whose result could not be normalized.
type UnpackError struct {
	Kind   Kind
	JobID  string
	Reason string
	Cause  error
}

func (e *UnpackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s job %s: unpack %s: %v", e.Kind, e.JobID, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s job %s: unpack %s", e.Kind, e.JobID, e.Reason)
}

func (e *UnpackError) Unwrap() error { return e.Cause }

// TimeoutError reports a job that did not reach a terminal state within the
// poller's timeout or attempt budget. It is distinct from a remote failure.
type TimeoutError struct {
	Kind       Kind
	JobID      string
	Attempts   int
	Elapsed    time.Duration
	LastStatus Status
	Cause      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s job %s timed out after %d polls (%s) in status %s",
		e.Kind, e.JobID, e.Attempts, e.Elapsed.Round(time.Millisecond), e.LastStatus)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }
