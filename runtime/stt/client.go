package stt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/jobs/httptransport"
	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
)

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = "stt-general"

// Config configures a Client. Build it once at the boundary; the client
// never reads the environment.
type Config struct {
	Credentials jobs.Credentials

	// Model defaults to DefaultModel.
	Model string

	// Wait makes Transcribe poll until the job is terminal and return the
	// transcript. Without it Transcribe returns as soon as the job exists.
	Wait bool

	// ServerWait asks the service to hold the submission until the job is
	// done. It is only sent when Wait is set.
	ServerWait bool

	IncludeFiller         bool
	IncludePartialResults bool
	AutoPunctuation       bool
	SpeakerCount          int
	AudioFormat           string
	SampleRate            int

	// Label tags submissions. Empty generates a random label per job.
	Label string

	Poller jobs.PollerConfig
}

// DefaultConfig returns the configuration the agent tool ships with:
// waiting, with filler words, partial results and punctuation enabled.
func DefaultConfig() Config {
	return Config{
		Model:                 DefaultModel,
		Wait:                  true,
		ServerWait:            true,
		IncludeFiller:         true,
		IncludePartialResults: true,
		AutoPunctuation:       true,
	}
}

// Transcription is the outcome of a transcription call. Pending is set when
// the call returned without waiting for the result; Text is then empty and JobID
// can be passed to Resume.
type Transcription struct {
	JobID    string
	Status   jobs.Status
	Pending  bool
	Text     string
	Segments []jobs.TranscriptSegment
}

// Client transcribes audio through the asynchronous job API.
// It holds only immutable configuration and is safe for concurrent use.
type Client struct {
	cfg    Config
	runner *jobs.Runner
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport jobs.Transport
}

// WithTransport replaces the HTTP transport, typically with a mock.
func WithTransport(t jobs.Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// NewClient creates a Client. Credentials are checked on every call rather
// than here so that a misconfigured client still reports a ConfigError at
// the tool boundary.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = httptransport.New(cfg.Credentials)
	}
	return &Client{cfg: cfg, runner: jobs.NewRunner(o.transport, cfg.Poller)}
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Transcribe submits src, which must be an Inline or Reference payload. In
// wait mode it returns the channel-0 transcript; otherwise a pending
// Transcription carrying the job ID.
func (c *Client) Transcribe(ctx context.Context, src jobs.Payload) (*Transcription, error) {
	if err := c.cfg.Credentials.Validate(jobs.KindTranscribe); err != nil {
		return nil, err
	}
	if src.IsZero() {
		return nil, jobs.ErrEmptySource
	}

	job, err := c.runner.Submit(ctx, c.submitRequest(src, c.cfg.Model))
	if err != nil {
		return nil, err
	}
	if !c.cfg.Wait {
		prometheus.RecordJobOutcome(string(jobs.KindTranscribe), prometheus.StatusPending)
		return &Transcription{JobID: job.ID, Status: job.Status, Pending: true}, nil
	}
	return c.finish(ctx, job)
}

// Resume waits for a job submitted earlier and returns its transcript.
func (c *Client) Resume(ctx context.Context, jobID string) (*Transcription, error) {
	if err := c.cfg.Credentials.Validate(jobs.KindTranscribe); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, &jobs.ConfigError{Kind: jobs.KindTranscribe, Field: "job_id", Err: jobs.ErrEmptyJobID}
	}
	return c.finish(ctx, c.runner.Resume(jobs.KindTranscribe, jobID))
}

func (c *Client) finish(ctx context.Context, job *jobs.Job) (*Transcription, error) {
	res, err := c.runner.Await(ctx, job, jobs.FetchOptions{})
	if err != nil {
		return nil, err
	}
	text, err := jobs.JoinTranscript(res.Segments)
	if err != nil {
		logger.WarnContext(ctx, "Transcription result has no primary-channel text",
			"job_id", job.ID, "segments", len(res.Segments))
		return nil, &jobs.UnpackError{Kind: jobs.KindTranscribe, JobID: job.ID, Reason: "transcript", Cause: err}
	}
	return &Transcription{
		JobID:    job.ID,
		Status:   jobs.StatusComplete,
		Text:     text,
		Segments: res.Segments,
	}, nil
}

func (c *Client) submitRequest(src jobs.Payload, model string) *jobs.SubmitRequest {
	label := c.cfg.Label
	if label == "" {
		label = "stt-" + uuid.NewString()
	}
	return &jobs.SubmitRequest{
		Kind:   jobs.KindTranscribe,
		Label:  label,
		Source: src,
		Options: jobs.SubmitOptions{
			Model:                 model,
			ServerWait:            c.cfg.Wait && c.cfg.ServerWait,
			IncludeFiller:         c.cfg.IncludeFiller,
			IncludePartialResults: c.cfg.IncludePartialResults,
			AutoPunctuation:       c.cfg.AutoPunctuation,
			SpeakerCount:          c.cfg.SpeakerCount,
			AudioFormat:           c.cfg.AudioFormat,
			SampleRate:            c.cfg.SampleRate,
		},
	}
}

// AsService adapts c to the synchronous Service interface. The adapter
// always waits for the job regardless of Config.Wait.
func (c *Client) AsService() Service {
	return &service{client: c}
}

type service struct {
	client *Client
}

func (s *service) Name() string { return "speechkit-stt" }

func (s *service) SupportedFormats() []string {
	return []string{FormatPCM, FormatWAV, FormatMP3}
}

func (s *service) Transcribe(ctx context.Context, audio []byte, cfg TranscriptionConfig) (string, error) {
	c := s.client
	if err := c.cfg.Credentials.Validate(jobs.KindTranscribe); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	format := strings.ToLower(cfg.Format)
	switch format {
	case FormatPCM:
		audio = WrapPCMAsWAV(audio, orDefault(cfg.SampleRate, DefaultSampleRate),
			orDefault(cfg.Channels, DefaultChannels), orDefault(cfg.BitDepth, DefaultBitDepth))
		format = FormatWAV
	case FormatWAV, FormatMP3, "":
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, cfg.Format)
	}

	model := c.cfg.Model
	if cfg.Model != "" {
		model = cfg.Model
	}
	req := c.submitRequest(jobs.Inline(audio), model)
	req.Options.ServerWait = c.cfg.ServerWait
	if format != "" {
		req.Options.AudioFormat = format
	}

	job, err := c.runner.Submit(ctx, req)
	if err != nil {
		return "", err
	}
	t, err := c.finish(ctx, job)
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
