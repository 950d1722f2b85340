package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AltairaLabs/speechkit/runtime/artifacts"
	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/jobs/httptransport"
	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
)

// DefaultScratchDir holds decoded audio while it is copied to the artifact store.
const DefaultScratchDir = "/tmp/tts_output"

const scratchPrefix = "output_audio_"

// Config configures a Client. Build it once at the boundary; the client
// never reads the environment.
type Config struct {
	Credentials jobs.Credentials

	// Voice is the default voice model. Default: DefaultVoice.
	Voice string

	// Wait makes Synthesize poll until the job is terminal and deliver the
	// audio. Without it Synthesize returns as soon as the job exists.
	Wait bool

	// ServerWait asks the service to hold the submission until the job is
	// done. It is only sent when Wait is set.
	ServerWait bool

	// AudioFormat names the output format. Default: "mp3".
	AudioFormat string
	SampleRate  int
	Pitch       float64
	Tempo       float64

	// SignedURL asks the service for a hosted download URL instead of inline audio.
	SignedURL bool

	// ScratchDir receives decoded audio before it is stored. Default: DefaultScratchDir.
	ScratchDir string

	// Label tags submissions. Empty generates a random label per job.
	Label string

	Poller jobs.PollerConfig
}

// DefaultConfig returns the configuration the agent tool ships with.
func DefaultConfig() Config {
	return Config{
		Voice:       DefaultVoice,
		Wait:        true,
		ServerWait:  true,
		AudioFormat: FormatMP3.Name,
		ScratchDir:  DefaultScratchDir,
	}
}

// VoiceRequest is one synthesis input.
type VoiceRequest struct {
	Text string

	// Voice overrides Config.Voice when set.
	Voice string
}

// Synthesis is the outcome of a synthesis call. Pending is set when the call
// returned without waiting for the result; JobID can then be passed to Resume.
type Synthesis struct {
	JobID   string
	Status  jobs.Status
	Pending bool
	Voice   string

	// Reference locates the audio: the service's hosted URL, or the
	// artifact reference when inline audio was stored.
	Reference string

	// Artifact is set when inline audio was written to the artifact store.
	Artifact *artifacts.Artifact
}

// Message is the human-readable summary reported to the agent.
func (s *Synthesis) Message() string {
	switch {
	case s.Pending:
		return fmt.Sprintf("Audio generation submitted as job %s", s.JobID)
	case s.Voice == "":
		return "Audio generated successfully"
	default:
		return "Audio generated successfully using " + s.Voice
	}
}

// Client synthesizes speech through the asynchronous job API.
// It holds only immutable configuration and is safe for concurrent use.
type Client struct {
	cfg    Config
	format AudioFormat
	runner *jobs.Runner
	store  artifacts.Store
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport jobs.Transport
	store     artifacts.Store
}

// WithTransport replaces the HTTP transport, typically with a mock.
func WithTransport(t jobs.Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithArtifactStore sets where inline audio is written. Without a store only
// hosted (signed URL) results can be delivered.
func WithArtifactStore(s artifacts.Store) Option {
	return func(o *clientOptions) { o.store = s }
}

// NewClient creates a Client. Credentials and format are checked on every
// call so that a misconfigured client reports a ConfigError at the tool
// boundary rather than at startup.
func NewClient(cfg Config, opts ...Option) *Client {
	if strings.TrimSpace(cfg.Voice) == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.AudioFormat == "" {
		cfg.AudioFormat = FormatMP3.Name
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = DefaultScratchDir
	}
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = httptransport.New(cfg.Credentials)
	}
	format, _ := ParseFormat(cfg.AudioFormat)
	return &Client{
		cfg:    cfg,
		format: format,
		runner: jobs.NewRunner(o.transport, cfg.Poller),
		store:  o.store,
	}
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Synthesize submits req. In wait mode it returns a reference to the audio;
// otherwise a pending Synthesis carrying the job ID.
func (c *Client) Synthesize(ctx context.Context, req VoiceRequest) (*Synthesis, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, jobs.ErrEmptyText
	}
	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = c.cfg.Voice
	}
	if v, ok := LookupVoice(voice); ok {
		voice = v.ID
	} else {
		logger.WarnContext(ctx, "Voice is not a well-known model, sending as given", "voice", voice)
	}

	job, err := c.runner.Submit(ctx, c.submitRequest(req.Text, voice))
	if err != nil {
		return nil, err
	}
	if !c.cfg.Wait {
		prometheus.RecordJobOutcome(string(jobs.KindSynthesize), prometheus.StatusPending)
		return &Synthesis{JobID: job.ID, Status: job.Status, Pending: true, Voice: voice}, nil
	}
	return c.finish(ctx, job, voice)
}

// Resume waits for a job submitted earlier and delivers its audio.
func (c *Client) Resume(ctx context.Context, jobID string) (*Synthesis, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, &jobs.ConfigError{Kind: jobs.KindSynthesize, Field: "job_id", Err: jobs.ErrEmptyJobID}
	}
	return c.finish(ctx, c.runner.Resume(jobs.KindSynthesize, jobID), "")
}

func (c *Client) validate() error {
	if err := c.cfg.Credentials.Validate(jobs.KindSynthesize); err != nil {
		return err
	}
	if c.format.Name == "" {
		return &jobs.ConfigError{
			Kind:  jobs.KindSynthesize,
			Field: "audio_format",
			Err:   fmt.Errorf("%w: %s", ErrInvalidFormat, c.cfg.AudioFormat),
		}
	}
	return nil
}

func (c *Client) submitRequest(text, voice string) *jobs.SubmitRequest {
	label := c.cfg.Label
	if label == "" {
		label = "tts-" + uuid.NewString()
	}
	return &jobs.SubmitRequest{
		Kind:  jobs.KindSynthesize,
		Label: label,
		Text:  text,
		Options: jobs.SubmitOptions{
			Model:       voice,
			ServerWait:  c.cfg.Wait && c.cfg.ServerWait,
			AudioFormat: c.format.Name,
			SampleRate:  c.cfg.SampleRate,
			Pitch:       c.cfg.Pitch,
			Tempo:       c.cfg.Tempo,
			SignedURL:   c.cfg.SignedURL,
		},
	}
}

func (c *Client) finish(ctx context.Context, job *jobs.Job, voice string) (*Synthesis, error) {
	res, err := c.runner.Await(ctx, job, jobs.FetchOptions{SignedURL: c.cfg.SignedURL})
	if err != nil {
		return nil, err
	}

	out := &Synthesis{JobID: job.ID, Status: jobs.StatusComplete, Voice: voice}
	switch res.Audio.Kind() {
	case jobs.PayloadReference:
		out.Reference = res.Audio.URI()
	case jobs.PayloadInline, jobs.PayloadEncoded:
		art, err := c.spool(ctx, job.ID, res.Audio)
		if err != nil {
			return nil, err
		}
		out.Artifact = art
		out.Reference = art.Reference
	case jobs.PayloadNone:
		return nil, &jobs.UnpackError{Kind: jobs.KindSynthesize, JobID: job.ID, Reason: "audio", Cause: jobs.ErrNoAudioData}
	}

	logger.InfoContext(ctx, "Synthesized audio delivered",
		"job_id", job.ID, "voice", voice, "reference", out.Reference, "stored", out.Artifact != nil)
	return out, nil
}

// spool decodes inline audio into a scratch file and streams it into the
// artifact store. The scratch file is removed on every path.
func (c *Client) spool(ctx context.Context, jobID string, audio jobs.Payload) (*artifacts.Artifact, error) {
	unpackErr := func(reason string, err error) error {
		return &jobs.UnpackError{Kind: jobs.KindSynthesize, JobID: jobID, Reason: reason, Cause: err}
	}
	if c.store == nil {
		return nil, unpackErr("audio", ErrNoArtifactStore)
	}
	data, err := jobs.DecodeAudio(audio)
	if err != nil {
		return nil, unpackErr("audio", err)
	}

	if err := os.MkdirAll(c.cfg.ScratchDir, 0o750); err != nil {
		return nil, unpackErr("scratch", err)
	}
	name := scratchPrefix + uuid.NewString() + c.format.Extension
	path := filepath.Join(c.cfg.ScratchDir, name)

	err = os.WriteFile(path, data, 0o600)
	defer os.Remove(path) //nolint:errcheck // best-effort cleanup
	if err != nil {
		return nil, unpackErr("scratch", err)
	}

	f, err := os.Open(path) //nolint:gosec // path is built from the scratch dir and a generated name
	if err != nil {
		return nil, unpackErr("scratch", err)
	}
	defer f.Close()

	art, err := c.store.Put(ctx, f, int64(len(data)), name, "Generated file: "+name,
		artifacts.WithContentType(c.format.MIMEType))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to store synthesized audio", "job_id", jobID, "file", name, "error", err)
		return nil, unpackErr("artifact", err)
	}
	return art, nil
}
