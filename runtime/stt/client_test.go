package stt_test

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/jobs/mock"
	"github.com/AltairaLabs/speechkit/runtime/stt"
)

var testCreds = jobs.Credentials{BaseURL: "http://speech.test", APIKey: "k"}

func newClient(tr jobs.Transport, mutate func(*stt.Config)) *stt.Client {
	cfg := stt.DefaultConfig()
	cfg.Credentials = testCreds
	cfg.Poller = jobs.PollerConfig{Interval: time.Millisecond}
	if mutate != nil {
		mutate(&cfg)
	}
	return stt.NewClient(cfg, stt.WithTransport(tr))
}

func TestClient_HelloWorld(t *testing.T) {
	tr := mock.NewTransport("running", "complete")
	tr.Result = &jobs.Result{Segments: []jobs.TranscriptSegment{
		{Channel: 0, Text: "hello"},
		{Channel: 1, Text: "ignored"},
		{Channel: 0, Text: "world"},
	}}
	client := newClient(tr, nil)

	got, err := client.Transcribe(context.Background(), jobs.Reference("https://audio.test/a.wav"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", got.Text)
	assert.Equal(t, "mock-job-1", got.JobID)
	assert.Equal(t, jobs.StatusComplete, got.Status)
	assert.False(t, got.Pending)
	assert.Len(t, got.Segments, 3)
}

func TestClient_SubmitCarriesDefaults(t *testing.T) {
	tr := &mock.Transport{
		SubmitStatus: "complete",
		SubmitResult: &jobs.Result{Segments: []jobs.TranscriptSegment{{Text: "ok"}}},
	}
	client := newClient(tr, nil)

	_, err := client.Transcribe(context.Background(), jobs.Reference("https://audio.test/a.wav"))
	require.NoError(t, err)

	calls := tr.Calls()
	require.Len(t, calls, 1)
	req := calls[0].Submit
	assert.Equal(t, jobs.KindTranscribe, req.Kind)
	assert.Equal(t, "https://audio.test/a.wav", req.Source.URI())
	assert.Equal(t, stt.DefaultModel, req.Options.Model)
	assert.True(t, req.Options.ServerWait)
	assert.True(t, req.Options.IncludeFiller)
	assert.True(t, req.Options.IncludePartialResults)
	assert.True(t, req.Options.AutoPunctuation)
	assert.NotEmpty(t, req.Label)
}

func TestClient_MissingCredentialsNeverReachTransport(t *testing.T) {
	cases := map[string]jobs.Credentials{
		"no base url": {APIKey: "k"},
		"no api key":  {BaseURL: "http://speech.test"},
		"both empty":  {},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			tr := mock.NewTransport("complete")
			client := newClient(tr, func(c *stt.Config) { c.Credentials = creds })

			_, err := client.Transcribe(context.Background(), jobs.Reference("https://audio.test/a.wav"))
			var ce *jobs.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.ErrorIs(t, err, jobs.ErrMissingCredentials)

			_, err = client.Resume(context.Background(), "job-1")
			require.True(t, errors.As(err, &ce))

			_, err = client.AsService().Transcribe(context.Background(), []byte{1, 2}, stt.DefaultTranscriptionConfig())
			require.True(t, errors.As(err, &ce))

			assert.Zero(t, tr.CallCount(""))
		})
	}
}

func TestClient_NoWaitReturnsPendingJob(t *testing.T) {
	tr := mock.NewTransport("complete")
	client := newClient(tr, func(c *stt.Config) {
		c.Wait = false
		c.ServerWait = false
	})

	got, err := client.Transcribe(context.Background(), jobs.Inline([]byte("RIFF")))
	require.NoError(t, err)

	assert.True(t, got.Pending)
	assert.Equal(t, "mock-job-1", got.JobID)
	assert.Equal(t, jobs.StatusSubmitted, got.Status)
	assert.Empty(t, got.Text)
	assert.Equal(t, 1, tr.CallCount(""))
}

func TestClient_NoWaitNeverAsksServiceToHold(t *testing.T) {
	tr := &mock.Transport{
		SubmitStatus: "Complete",
		SubmitResult: &jobs.Result{Segments: []jobs.TranscriptSegment{{Text: "fast"}}},
	}
	client := newClient(tr, func(c *stt.Config) { c.Wait = false })
	require.True(t, client.Config().ServerWait)

	got, err := client.Transcribe(context.Background(), jobs.Inline([]byte("x")))
	require.NoError(t, err)

	assert.True(t, got.Pending)
	assert.Equal(t, "mock-job-1", got.JobID)
	assert.Empty(t, got.Text)
	assert.Zero(t, tr.CallCount("GetStatus"))
	assert.Zero(t, tr.CallCount("FetchResult"))

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Submit.Options.ServerWait)
}

func TestClient_Resume(t *testing.T) {
	tr := mock.NewTransport("running", "complete")
	tr.Result = &jobs.Result{Segments: []jobs.TranscriptSegment{{Text: "later"}}}
	client := newClient(tr, func(c *stt.Config) { c.Wait = false })

	got, err := client.Resume(context.Background(), "job-42")
	require.NoError(t, err)
	assert.Equal(t, "later", got.Text)
	assert.Equal(t, "job-42", got.JobID)
	assert.Zero(t, tr.CallCount("Submit"))

	_, err = client.Resume(context.Background(), " ")
	assert.ErrorIs(t, err, jobs.ErrEmptyJobID)
}

func TestClient_RemoteFailure(t *testing.T) {
	tr := &mock.Transport{Steps: []mock.Step{
		{Status: "running"},
		{Status: "running"},
		{Status: "failed", Detail: "audio could not be decoded"},
	}}
	client := newClient(tr, nil)

	_, err := client.Transcribe(context.Background(), jobs.Reference("https://audio.test/a.wav"))

	var rjf *jobs.RemoteJobFailure
	require.True(t, errors.As(err, &rjf))
	assert.Equal(t, "audio could not be decoded", rjf.Detail)
	assert.Zero(t, tr.CallCount("FetchResult"))
}

func TestClient_EmptyResultIsSentinel(t *testing.T) {
	for name, segments := range map[string][]jobs.TranscriptSegment{
		"empty":        nil,
		"no channel 0": {{Channel: 1, Text: "side"}},
	} {
		t.Run(name, func(t *testing.T) {
			tr := mock.NewTransport("complete")
			tr.Result = &jobs.Result{Segments: segments}
			client := newClient(tr, nil)

			_, err := client.Transcribe(context.Background(), jobs.Reference("https://audio.test/a.wav"))

			var ue *jobs.UnpackError
			require.True(t, errors.As(err, &ue))
			assert.ErrorIs(t, err, jobs.ErrNoTranscriptData)
		})
	}
}

func TestClient_EmptySource(t *testing.T) {
	tr := mock.NewTransport("complete")
	client := newClient(tr, nil)

	_, err := client.Transcribe(context.Background(), jobs.Payload{})
	assert.ErrorIs(t, err, jobs.ErrEmptySource)
	assert.Zero(t, tr.CallCount(""))
}

func TestService_WrapsPCM(t *testing.T) {
	tr := &mock.Transport{
		SubmitStatus: "complete",
		SubmitResult: &jobs.Result{Segments: []jobs.TranscriptSegment{{Text: "pcm works"}}},
	}
	svc := newClient(tr, nil).AsService()

	text, err := svc.Transcribe(context.Background(), make([]byte, 320), stt.DefaultTranscriptionConfig())
	require.NoError(t, err)
	assert.Equal(t, "pcm works", text)

	req := tr.Calls()[0].Submit
	assert.Equal(t, stt.FormatWAV, req.Options.AudioFormat)
	data := req.Source.Bytes()
	require.Len(t, data, 44+320)
	assert.Equal(t, "RIFF", string(data[0:4]))
}

func TestService_ModelOverrideAndFormats(t *testing.T) {
	tr := &mock.Transport{
		SubmitStatus: "complete",
		SubmitResult: &jobs.Result{Segments: []jobs.TranscriptSegment{{Text: "x"}}},
	}
	svc := newClient(tr, nil).AsService()
	assert.Equal(t, "speechkit-stt", svc.Name())
	assert.Contains(t, svc.SupportedFormats(), stt.FormatMP3)

	_, err := svc.Transcribe(context.Background(), []byte("ID3"), stt.TranscriptionConfig{Format: "MP3", Model: "stt-fast"})
	require.NoError(t, err)
	assert.Equal(t, "stt-fast", tr.Calls()[0].Submit.Options.Model)

	_, err = svc.Transcribe(context.Background(), []byte("x"), stt.TranscriptionConfig{Format: "flac"})
	assert.ErrorIs(t, err, stt.ErrInvalidFormat)

	_, err = svc.Transcribe(context.Background(), nil, stt.TranscriptionConfig{})
	assert.ErrorIs(t, err, stt.ErrEmptyAudio)
}

func TestWrapPCMAsWAV_Header(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := stt.WrapPCMAsWAV(pcm, 16000, 1, 16)

	require.Len(t, wav, 48)
	le := binary.LittleEndian
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(40), le.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), le.Uint16(wav[22:24]))
	assert.Equal(t, uint32(16000), le.Uint32(wav[24:28]))
	assert.Equal(t, uint32(32000), le.Uint32(wav[28:32]))
	assert.Equal(t, uint16(2), le.Uint16(wav[32:34]))
	assert.Equal(t, uint32(4), le.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}
