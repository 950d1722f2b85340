package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/stt"
	"github.com/AltairaLabs/speechkit/runtime/tts"
)

// sttConfig is the agent-facing config of the transcription tool.
type sttConfig struct {
	BaseURL string `json:"stt_base_url"`
	APIKey  string `json:"stt_api_key"`
	Model   string `json:"model"`
	Wait    bool   `json:"wait"`
}

// TranscribeTool converts speech at a URI to text.
type TranscribeTool struct {
	base stt.Config
	opts []stt.Option
}

// NewTranscribeTool creates the transcription tool. base supplies the
// defaults that per-call config overrides replace.
func NewTranscribeTool(base stt.Config, opts ...stt.Option) *TranscribeTool {
	return &TranscribeTool{base: base, opts: opts}
}

// Descriptor implements Executor.
func (t *TranscribeTool) Descriptor() *ToolDescriptor {
	return &ToolDescriptor{
		Name:         NameTranscribe,
		Description:  "Converts speech to text.",
		InputSchema:  sttInputSchema,
		ConfigSchema: sttConfigSchema,
	}
}

func (t *TranscribeTool) client(override json.RawMessage) (*stt.Client, error) {
	cfg, err := mergeConfig(sttConfig{
		BaseURL: t.base.Credentials.BaseURL,
		APIKey:  t.base.Credentials.APIKey,
		Model:   t.base.Model,
		Wait:    t.base.Wait,
	}, override)
	if err != nil {
		return nil, err
	}
	c := t.base
	c.Credentials = jobs.Credentials{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey}
	c.Model = cfg.Model
	c.Wait = cfg.Wait
	return stt.NewClient(c, t.opts...), nil
}

// Execute implements Executor.
func (t *TranscribeTool) Execute(ctx context.Context, args, config json.RawMessage) (*Output, error) {
	in, err := decodeArgs[struct {
		URI string `json:"uri"`
	}](args)
	if err != nil {
		return nil, err
	}
	client, err := t.client(config)
	if err != nil {
		return nil, err
	}
	res, err := client.Transcribe(ctx, jobs.Reference(strings.TrimSpace(in.URI)))
	if err != nil {
		return nil, err
	}
	return transcriptionOutput(res), nil
}

// FormatError implements ErrorFormatter.
func (t *TranscribeTool) FormatError(err error) string {
	return formatSpeechError(jobs.KindTranscribe, err)
}

func transcriptionOutput(res *stt.Transcription) *Output {
	if res.Pending {
		return &Output{Text: "Transcription submitted as job " + res.JobID, JobID: res.JobID, Pending: true}
	}
	return &Output{Text: res.Text, JobID: res.JobID}
}

// ttsConfig is the agent-facing config of the synthesis tool.
type ttsConfig struct {
	BaseURL string `json:"tts_base_url"`
	APIKey  string `json:"tts_api_key"`
	Model   string `json:"model"`
	Wait    bool   `json:"wait"`
}

// SynthesizeTool converts text to speech.
type SynthesizeTool struct {
	base tts.Config
	opts []tts.Option
}

// NewSynthesizeTool creates the synthesis tool. Pass tts.WithArtifactStore
// so inline audio can be delivered.
func NewSynthesizeTool(base tts.Config, opts ...tts.Option) *SynthesizeTool {
	return &SynthesizeTool{base: base, opts: opts}
}

// Descriptor implements Executor.
func (t *SynthesizeTool) Descriptor() *ToolDescriptor {
	return &ToolDescriptor{
		Name: NameSynthesize,
		Description: "Converts text to speech. Supports both male voice (" + tts.VoiceDimasFormal +
			") and female voice (" + tts.VoiceOchaGentle + "). " +
			"You can specify the model parameter to choose the voice type.",
		InputSchema:  ttsInputSchema,
		ConfigSchema: ttsConfigSchema,
	}
}

func (t *SynthesizeTool) client(override json.RawMessage) (*tts.Client, error) {
	cfg, err := mergeConfig(ttsConfig{
		BaseURL: t.base.Credentials.BaseURL,
		APIKey:  t.base.Credentials.APIKey,
		Model:   t.base.Voice,
		Wait:    t.base.Wait,
	}, override)
	if err != nil {
		return nil, err
	}
	c := t.base
	c.Credentials = jobs.Credentials{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey}
	c.Voice = cfg.Model
	c.Wait = cfg.Wait
	return tts.NewClient(c, t.opts...), nil
}

// Execute implements Executor.
func (t *SynthesizeTool) Execute(ctx context.Context, args, config json.RawMessage) (*Output, error) {
	in, err := decodeArgs[struct {
		Text  string  `json:"text"`
		Model *string `json:"model"`
	}](args)
	if err != nil {
		return nil, err
	}
	client, err := t.client(config)
	if err != nil {
		return nil, err
	}
	req := tts.VoiceRequest{Text: in.Text}
	if in.Model != nil {
		req.Voice = *in.Model
	}
	res, err := client.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	return synthesisOutput(res), nil
}

// FormatError implements ErrorFormatter.
func (t *SynthesizeTool) FormatError(err error) string {
	return formatSpeechError(jobs.KindSynthesize, err)
}

// synthesisOutput reports stored audio as a summary plus artifact, and
// hosted audio as its URL.
func synthesisOutput(res *tts.Synthesis) *Output {
	out := &Output{JobID: res.JobID, Pending: res.Pending, Artifact: res.Artifact}
	switch {
	case res.Pending, res.Artifact != nil:
		out.Text = res.Message()
	default:
		out.Text = res.Reference
	}
	return out
}

// JobResultTool collects the result of a job submitted without waiting.
type JobResultTool struct {
	transcribe *TranscribeTool
	synthesize *SynthesizeTool
}

// NewJobResultTool creates the deferred result tool. It uses the
// credentials and delivery settings of the given tools.
func NewJobResultTool(transcribe *TranscribeTool, synthesize *SynthesizeTool) *JobResultTool {
	return &JobResultTool{transcribe: transcribe, synthesize: synthesize}
}

// Descriptor implements Executor.
func (t *JobResultTool) Descriptor() *ToolDescriptor {
	return &ToolDescriptor{
		Name: NameJobResult,
		Description: "Waits for a speech job submitted earlier and returns its result: " +
			"the transcript for stt jobs, the generated audio for tts jobs.",
		InputSchema: jobResultInputSchema,
	}
}

// Execute implements Executor.
func (t *JobResultTool) Execute(ctx context.Context, args, _ json.RawMessage) (*Output, error) {
	in, err := decodeArgs[struct {
		Kind  jobs.Kind `json:"kind"`
		JobID string    `json:"job_id"`
	}](args)
	if err != nil {
		return nil, err
	}

	switch in.Kind {
	case jobs.KindTranscribe:
		client, err := t.transcribe.client(nil)
		if err != nil {
			return nil, err
		}
		res, err := client.Resume(ctx, in.JobID)
		if err != nil {
			return nil, err
		}
		return transcriptionOutput(res), nil
	case jobs.KindSynthesize:
		client, err := t.synthesize.client(nil)
		if err != nil {
			return nil, err
		}
		res, err := client.Resume(ctx, in.JobID)
		if err != nil {
			return nil, err
		}
		return synthesisOutput(res), nil
	default:
		return nil, fmt.Errorf("%w: %q", jobs.ErrUnknownKind, in.Kind)
	}
}

// FormatError implements ErrorFormatter.
func (t *JobResultTool) FormatError(err error) string {
	return formatSpeechError(kindOf(err), err)
}

// formatSpeechError renders the messages the agent sees for speech failures.
func formatSpeechError(kind jobs.Kind, err error) string {
	label := kind.Label()
	var rjf *jobs.RemoteJobFailure
	switch {
	case errors.Is(err, jobs.ErrMissingCredentials):
		return fmt.Sprintf("Error: %s base URL or API key is not set", label)
	case errors.Is(err, jobs.ErrNoTranscriptData):
		return jobs.ErrNoTranscriptData.Error()
	case errors.As(err, &rjf):
		status := rjf.RawStatus
		if status == "" {
			status = string(jobs.StatusFailed)
		}
		return fmt.Sprintf("Error: %s job failed with status: %s", label, status)
	default:
		return "Error processing audio: " + err.Error()
	}
}

func kindOf(err error) jobs.Kind {
	var (
		ce  *jobs.ConfigError
		te  *jobs.TransportError
		rjf *jobs.RemoteJobFailure
		ue  *jobs.UnpackError
		to  *jobs.TimeoutError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Kind
	case errors.As(err, &te):
		return te.Kind
	case errors.As(err, &rjf):
		return rjf.Kind
	case errors.As(err, &ue):
		return ue.Kind
	case errors.As(err, &to):
		return to.Kind
	default:
		return ""
	}
}
