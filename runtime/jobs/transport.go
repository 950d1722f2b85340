package jobs

import "context"

// Transport performs exactly one exchange with the remote service per call.
// It does not retry and does not poll.
type Transport interface {
	// Submit creates a job. Implementations return a *ConfigError for empty
	// credentials before touching the network and a *TransportError on
	// network or HTTP failure.
	Submit(ctx context.Context, req *SubmitRequest) (*Job, error)

	// GetStatus returns the current state of a job. A running job is a
	// normal response, not an error.
	GetStatus(ctx context.Context, kind Kind, jobID string) (*Job, error)

	// FetchResult returns the payload of a completed job.
	FetchResult(ctx context.Context, kind Kind, jobID string, opts FetchOptions) (*Result, error)
}

// SubmitRequest describes one job submission.
type SubmitRequest struct {
	Kind  Kind
	Label string

	// Source is the transcription input: Inline bytes or a Reference URI.
	Source Payload

	// Text is the synthesis input.
	Text string

	Options SubmitOptions
}

// SubmitOptions carries the service-specific config block. Zero values are omitted
// from the wire except for booleans the service expects explicitly.
type SubmitOptions struct {
	Model string

	// ServerWait asks the service to hold the submission until the job is
	// terminal. The response may then already be Complete or Failed.
	ServerWait bool

	// Transcription flags.
	IncludeFiller         bool
	IncludePartialResults bool
	AutoPunctuation       bool
	SpeakerCount          int

	AudioFormat string
	SampleRate  int

	// Synthesis prosody.
	Pitch float64
	Tempo float64

	// SignedURL asks for a downloadable reference instead of inline audio.
	SignedURL bool
}

// FetchOptions tunes FetchResult.
type FetchOptions struct {
	SignedURL bool
}
