package tools_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/speechkit/runtime/artifacts"
	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/jobs/mock"
	"github.com/AltairaLabs/speechkit/runtime/readers"
	"github.com/AltairaLabs/speechkit/runtime/stt"
	"github.com/AltairaLabs/speechkit/runtime/tools"
	"github.com/AltairaLabs/speechkit/runtime/tts"
)

var creds = jobs.Credentials{BaseURL: "http://speech.test", APIKey: "k"}

type memStore struct{ names []string }

func (s *memStore) Put(_ context.Context, r io.Reader, size int64, name, description string, _ ...artifacts.PutOption) (*artifacts.Artifact, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	s.names = append(s.names, name)
	return &artifacts.Artifact{Reference: "mem://" + name, Name: name, Description: description, Size: size}, nil
}

type fixture struct {
	registry *tools.Registry
	sttMock  *mock.Transport
	ttsMock  *mock.Transport
	store    *memStore
}

func newFixture(t *testing.T, sttCreds, ttsCreds jobs.Credentials) *fixture {
	t.Helper()
	f := &fixture{
		registry: tools.NewRegistry(),
		sttMock:  mock.NewTransport("running", "complete"),
		ttsMock:  mock.NewTransport("running", "complete"),
		store:    &memStore{},
	}
	f.sttMock.Result = &jobs.Result{Segments: []jobs.TranscriptSegment{
		{Channel: 0, Text: "hello"}, {Channel: 1, Text: "echo"}, {Channel: 0, Text: "world"},
	}}
	f.ttsMock.Result = &jobs.Result{Audio: jobs.Encoded(base64.StdEncoding.EncodeToString([]byte("ID3")))}

	poll := jobs.PollerConfig{Interval: time.Millisecond}

	sttCfg := stt.DefaultConfig()
	sttCfg.Credentials = sttCreds
	sttCfg.Poller = poll

	ttsCfg := tts.DefaultConfig()
	ttsCfg.Credentials = ttsCreds
	ttsCfg.ScratchDir = t.TempDir()
	ttsCfg.Poller = poll

	err := tools.RegisterBuiltins(f.registry,
		tools.NewTranscribeTool(sttCfg, stt.WithTransport(f.sttMock)),
		tools.NewSynthesizeTool(ttsCfg, tts.WithTransport(f.ttsMock), tts.WithArtifactStore(f.store)),
		tools.NewReadTextTool(readers.TextReader{}),
	)
	require.NoError(t, err)
	return f
}

func (f *fixture) call(t *testing.T, name, args, config string) *tools.ToolResult {
	t.Helper()
	call := tools.ToolCall{Name: name, ID: "call-1", Args: json.RawMessage(args)}
	if config != "" {
		call.Config = json.RawMessage(config)
	}
	res, err := f.registry.Execute(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, name, res.Name)
	assert.Equal(t, "call-1", res.ID)
	return res
}

func TestRegistry_Builtins(t *testing.T) {
	f := newFixture(t, creds, creds)

	assert.Equal(t, []string{
		tools.NameJobResult, tools.NameTranscribe, tools.NameReadText, tools.NameSynthesize,
	}, f.registry.List())

	d := f.registry.Get(tools.NameSynthesize)
	require.NotNil(t, d)
	assert.Contains(t, d.Description, tts.VoiceOchaGentle)
	assert.NotEmpty(t, d.ConfigSchema)
	assert.Len(t, f.registry.Descriptors(), 4)
	assert.Nil(t, f.registry.Get("missing"))
}

type stubExecutor struct{ d *tools.ToolDescriptor }

func (s stubExecutor) Descriptor() *tools.ToolDescriptor { return s.d }

func (s stubExecutor) Execute(context.Context, json.RawMessage, json.RawMessage) (*tools.Output, error) {
	return nil, errors.New("boom")
}

func TestRegistry_RegisterValidation(t *testing.T) {
	r := tools.NewRegistry()
	schema := json.RawMessage(`{"type": "object"}`)

	assert.ErrorIs(t, r.Register(stubExecutor{&tools.ToolDescriptor{Description: "d", InputSchema: schema}}),
		tools.ErrToolNameRequired)
	assert.ErrorIs(t, r.Register(stubExecutor{&tools.ToolDescriptor{Name: "x", InputSchema: schema}}),
		tools.ErrToolDescriptionRequired)
	assert.ErrorIs(t, r.Register(stubExecutor{&tools.ToolDescriptor{Name: "x", Description: "d"}}),
		tools.ErrInputSchemaRequired)
	assert.Error(t, r.Register(stubExecutor{&tools.ToolDescriptor{Name: "x", Description: "d", InputSchema: json.RawMessage(`{`)}}))

	ok := stubExecutor{&tools.ToolDescriptor{Name: "x", Description: "d", InputSchema: schema}}
	require.NoError(t, r.Register(ok))
	assert.ErrorIs(t, r.Register(ok), tools.ErrToolAlreadyRegistered)
}

func TestRegistry_DefaultErrorFormat(t *testing.T) {
	r := tools.NewRegistry()
	require.NoError(t, r.Register(stubExecutor{&tools.ToolDescriptor{
		Name: "stub", Description: "d", InputSchema: json.RawMessage(`{"type": "object"}`),
	}}))

	res, err := r.Execute(context.Background(), tools.ToolCall{Name: "stub"})
	require.NoError(t, err)
	assert.Equal(t, tools.ToolStatusFailed, res.Status)
	assert.Equal(t, "Error: boom", res.Content)
	assert.Equal(t, "boom", res.Error)
}

func TestRegistry_CallErrors(t *testing.T) {
	f := newFixture(t, creds, creds)

	_, err := f.registry.Execute(context.Background(), tools.ToolCall{Name: "nope"})
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
	assert.True(t, tools.IsCallError(err))

	_, err = f.registry.Execute(context.Background(), tools.ToolCall{Name: tools.NameTranscribe, Args: json.RawMessage(`{}`)})
	var ve *tools.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "args_invalid", ve.Type)
	assert.True(t, tools.IsCallError(err))

	_, err = f.registry.Execute(context.Background(), tools.ToolCall{
		Name:   tools.NameTranscribe,
		Args:   json.RawMessage(`{"uri": "https://a.test/x.wav"}`),
		Config: json.RawMessage(`{"stt_api_key": 42}`),
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "config_invalid", ve.Type)

	assert.False(t, tools.IsCallError(errors.New("other")))
	assert.Zero(t, f.sttMock.CallCount(""))
}

func TestTranscribeTool_HelloWorld(t *testing.T) {
	f := newFixture(t, creds, creds)

	res := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, "")
	assert.Equal(t, tools.ToolStatusComplete, res.Status)
	assert.Equal(t, "hello world", res.Content)
	assert.Equal(t, "mock-job-1", res.JobID)
	assert.Empty(t, res.Error)

	req := f.sttMock.Calls()[0].Submit
	assert.Equal(t, "https://audio.test/a.wav", req.Source.URI())
	assert.Equal(t, "stt-general", req.Options.Model)
}

func TestTranscribeTool_MissingCredentials(t *testing.T) {
	f := newFixture(t, jobs.Credentials{}, jobs.Credentials{})

	res := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, "")
	assert.Equal(t, tools.ToolStatusFailed, res.Status)
	assert.Equal(t, "Error: STT base URL or API key is not set", res.Content)
	assert.Zero(t, f.sttMock.CallCount(""))

	res = f.call(t, tools.NameSynthesize, `{"text": "hi"}`, "")
	assert.Equal(t, "Error: TTS base URL or API key is not set", res.Content)
	assert.Zero(t, f.ttsMock.CallCount(""))
}

func TestTranscribeTool_ConfigOverrideSuppliesCredentials(t *testing.T) {
	f := newFixture(t, jobs.Credentials{}, jobs.Credentials{})

	res := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`,
		`{"stt_base_url": "http://speech.test", "stt_api_key": "k", "model": "stt-fast"}`)
	assert.Equal(t, "hello world", res.Content)
	assert.Equal(t, "stt-fast", f.sttMock.Calls()[0].Submit.Options.Model)
}

func TestTranscribeTool_Failures(t *testing.T) {
	t.Run("remote failure", func(t *testing.T) {
		f := newFixture(t, creds, creds)
		f.sttMock.Steps = []mock.Step{{Status: "running"}, {Status: "failed", Detail: "bad audio"}}

		res := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, "")
		assert.Equal(t, "Error: STT job failed with status: failed", res.Content)
		assert.Contains(t, res.Error, "bad audio")
	})
	t.Run("empty transcript", func(t *testing.T) {
		f := newFixture(t, creds, creds)
		f.sttMock.Result = &jobs.Result{}

		res := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, "")
		assert.Equal(t, "No transcript data found in the result.", res.Content)
	})
	t.Run("transport error", func(t *testing.T) {
		f := newFixture(t, creds, creds)
		f.sttMock.SubmitErr = jobs.NewHTTPError(jobs.KindTranscribe, "submit", 401, "invalid key")

		res := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, "")
		assert.Equal(t, "Error processing audio: stt submit: HTTP 401: invalid key", res.Content)
	})
}

func TestSynthesizeTool_DefaultVoice(t *testing.T) {
	f := newFixture(t, creds, creds)

	res := f.call(t, tools.NameSynthesize, `{"text": "Selamat pagi", "model": null}`, "")
	assert.Equal(t, tools.ToolStatusComplete, res.Status)
	assert.Equal(t, "Audio generated successfully using tts-dimas-formal", res.Content)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, "Generated file: "+res.Artifact.Name, res.Artifact.Description)
	assert.Len(t, f.store.names, 1)
	assert.Equal(t, tts.VoiceDimasFormal, f.ttsMock.Calls()[0].Submit.Options.Model)
}

func TestSynthesizeTool_VoiceArgument(t *testing.T) {
	f := newFixture(t, creds, creds)

	res := f.call(t, tools.NameSynthesize, `{"text": "hi", "model": "tts-ocha-gentle"}`, "")
	assert.Equal(t, "Audio generated successfully using tts-ocha-gentle", res.Content)
}

func TestSynthesizeTool_RemoteFailure(t *testing.T) {
	f := newFixture(t, creds, creds)
	f.ttsMock.Steps = []mock.Step{{Status: "Failed"}}

	res := f.call(t, tools.NameSynthesize, `{"text": "hi"}`, "")
	assert.Equal(t, tools.ToolStatusFailed, res.Status)
	assert.Equal(t, "Error: TTS job failed with status: Failed", res.Content)
	assert.Empty(t, f.store.names)
}

func TestSynthesizeTool_HostedURL(t *testing.T) {
	f := newFixture(t, creds, creds)
	f.ttsMock.Result = &jobs.Result{Audio: jobs.Reference("https://cdn.test/a.mp3")}

	res := f.call(t, tools.NameSynthesize, `{"text": "hi"}`, "")
	assert.Equal(t, "https://cdn.test/a.mp3", res.Content)
	assert.Nil(t, res.Artifact)
}

func TestJobResultTool_DeferredTranscription(t *testing.T) {
	f := newFixture(t, creds, creds)

	submitted := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, `{"wait": false}`)
	assert.Equal(t, tools.ToolStatusPending, submitted.Status)
	assert.Equal(t, "Transcription submitted as job mock-job-1", submitted.Content)
	assert.Equal(t, 1, f.sttMock.CallCount(""))

	res := f.call(t, tools.NameJobResult, `{"kind": "stt", "job_id": "mock-job-1"}`, "")
	assert.Equal(t, tools.ToolStatusComplete, res.Status)
	assert.Equal(t, "hello world", res.Content)
}

func TestSpeechTools_NoWaitConfigReachesService(t *testing.T) {
	f := newFixture(t, creds, creds)
	f.sttMock.SubmitStatus = "complete"
	f.sttMock.SubmitResult = &jobs.Result{Segments: []jobs.TranscriptSegment{{Text: "done"}}}
	f.ttsMock.SubmitStatus = "complete"

	sttRes := f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/a.wav"}`, `{"wait": false}`)
	assert.Equal(t, tools.ToolStatusPending, sttRes.Status)
	assert.Equal(t, "mock-job-1", sttRes.JobID)

	ttsRes := f.call(t, tools.NameSynthesize, `{"text": "hi"}`, `{"wait": false}`)
	assert.Equal(t, tools.ToolStatusPending, ttsRes.Status)
	assert.Empty(t, f.store.names)

	for _, m := range []*mock.Transport{f.sttMock, f.ttsMock} {
		calls := m.Calls()
		require.Len(t, calls, 1)
		assert.False(t, calls[0].Submit.Options.ServerWait)
	}

	f.call(t, tools.NameTranscribe, `{"uri": "https://audio.test/b.wav"}`, `{"wait": true}`)
	assert.True(t, f.sttMock.Calls()[1].Submit.Options.ServerWait)
}

func TestJobResultTool_DeferredSynthesis(t *testing.T) {
	f := newFixture(t, creds, creds)

	submitted := f.call(t, tools.NameSynthesize, `{"text": "hi"}`, `{"wait": false}`)
	assert.Equal(t, tools.ToolStatusPending, submitted.Status)

	res := f.call(t, tools.NameJobResult, `{"kind": "tts", "job_id": "`+submitted.JobID+`"}`, "")
	assert.Equal(t, tools.ToolStatusComplete, res.Status)
	assert.Equal(t, "Audio generated successfully", res.Content)
	require.NotNil(t, res.Artifact)
}

func TestJobResultTool_RejectsUnknownKind(t *testing.T) {
	f := newFixture(t, creds, creds)

	_, err := f.registry.Execute(context.Background(), tools.ToolCall{
		Name: tools.NameJobResult,
		Args: json.RawMessage(`{"kind": "ocr", "job_id": "j"}`),
	})
	var ve *tools.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestReadTextTool(t *testing.T) {
	f := newFixture(t, creds, creds)
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("Apa kabar?"), 0o600))

	res := f.call(t, tools.NameReadText, `{"file_path": "`+path+`"}`, "")
	assert.Equal(t, tools.ToolStatusComplete, res.Status)
	assert.Equal(t, "Apa kabar?", res.Content)

	res = f.call(t, tools.NameReadText, `{"file_path": "`+path+`.missing"}`, "")
	assert.Equal(t, tools.ToolStatusFailed, res.Status)
	assert.Contains(t, res.Content, "Error reading file: ")
}
