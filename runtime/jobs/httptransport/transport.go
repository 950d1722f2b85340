// Package httptransport implements jobs.Transport over the speech service's
// JSON/HTTP API.
//
// Endpoints:
//
//	POST {base}/{kind}                                submit
//	GET  {base}/{kind}/jobs/{id}[?as_signed_url=true] status and result
//
// The API key travels in the x-api-key header.
package httptransport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AltairaLabs/speechkit/pkg/httputil"
	"github.com/AltairaLabs/speechkit/runtime/credentials"
	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
)

// Operation names used in errors, logs and metrics.
const (
	OpSubmit = "submit"
	OpStatus = "status"
	OpResult = "result"
)

// maxErrorBody caps how much of a failed response is kept in a TransportError.
const maxErrorBody = 64 << 10

// Transport talks to one speech service deployment.
type Transport struct {
	creds      jobs.Credentials
	credential credentials.Credential
	client     *http.Client
	now        func() time.Time
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		t.client = client
	}
}

// WithCredential replaces the default x-api-key credential.
func WithCredential(c credentials.Credential) Option {
	return func(t *Transport) {
		t.credential = c
	}
}

// New creates a Transport. Credentials are validated on each Submit, not here,
// so a misconfigured transport can still be constructed and reported on.
func New(creds jobs.Credentials, opts ...Option) *Transport {
	t := &Transport{
		creds:      creds,
		credential: credentials.NewAPIKeyCredential(creds.APIKey),
		client:     httputil.NewHTTPClient(httputil.DefaultRequestTimeout),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type wireConfig struct {
	Model                 string  `json:"model,omitempty"`
	Wait                  bool    `json:"wait"`
	IncludeFiller         bool    `json:"include_filler,omitempty"`
	IncludePartialResults bool    `json:"include_partial_results,omitempty"`
	AutoPunctuation       bool    `json:"auto_punctuation,omitempty"`
	SpeakerCount          int     `json:"speaker_count,omitempty"`
	AudioFormat           string  `json:"audio_format,omitempty"`
	SampleRate            int     `json:"sample_rate,omitempty"`
	Pitch                 float64 `json:"pitch,omitempty"`
	Tempo                 float64 `json:"tempo,omitempty"`
	AsSignedURL           bool    `json:"as_signed_url,omitempty"`
}

type wireRequest struct {
	Label string `json:"label,omitempty"`
	Data  string `json:"data,omitempty"`
	URI   string `json:"uri,omitempty"`
	Text  string `json:"text,omitempty"`
}

type submitBody struct {
	Config  wireConfig  `json:"config"`
	Request wireRequest `json:"request"`
}

type jobResponse struct {
	JobID  string          `json:"job_id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

type sttResult struct {
	Data []jobs.TranscriptSegment `json:"data"`
}

type ttsResult struct {
	Data string `json:"data"`
	Path string `json:"path"`
}

// Submit creates a job.
func (t *Transport) Submit(ctx context.Context, req *jobs.SubmitRequest) (*jobs.Job, error) {
	if err := t.creds.Validate(req.Kind); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, &jobs.ConfigError{Kind: req.Kind, Field: "kind", Err: jobs.ErrUnknownKind}
	}

	body, err := buildSubmitBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.do(ctx, req.Kind, OpSubmit, http.MethodPost, t.endpoint(req.Kind, ""), body)
	if err != nil {
		return nil, err
	}
	if resp.JobID == "" {
		return nil, &jobs.TransportError{
			Kind: req.Kind, Operation: OpSubmit,
			Cause: fmt.Errorf("response has no job_id"),
		}
	}

	job, err := t.toJob(req.Kind, resp)
	if err != nil {
		return nil, err
	}
	job.SubmittedAt = job.UpdatedAt
	return job, nil
}

// GetStatus fetches the current state of a job.
func (t *Transport) GetStatus(ctx context.Context, kind jobs.Kind, jobID string) (*jobs.Job, error) {
	if err := t.creds.Validate(kind); err != nil {
		return nil, err
	}
	resp, err := t.do(ctx, kind, OpStatus, http.MethodGet, t.endpoint(kind, jobID), nil)
	if err != nil {
		return nil, err
	}
	return t.toJob(kind, resp)
}

// FetchResult fetches the payload of a completed job. A job the service
// reports as failed yields a *jobs.RemoteJobFailure.
func (t *Transport) FetchResult(
	ctx context.Context, kind jobs.Kind, jobID string, opts jobs.FetchOptions,
) (*jobs.Result, error) {
	if err := t.creds.Validate(kind); err != nil {
		return nil, err
	}
	endpoint := t.endpoint(kind, jobID)
	if opts.SignedURL {
		endpoint += "?as_signed_url=true"
	}

	resp, err := t.do(ctx, kind, OpResult, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	job, err := t.toJob(kind, resp)
	if err != nil {
		return nil, err
	}
	if job.Status == jobs.StatusFailed {
		return nil, job.Failure()
	}
	if job.Result == nil {
		return &jobs.Result{}, nil
	}
	return job.Result, nil
}

func (t *Transport) endpoint(kind jobs.Kind, jobID string) string {
	base := strings.TrimRight(t.creds.BaseURL, "/") + "/" + string(kind)
	if jobID == "" {
		return base
	}
	return base + "/jobs/" + url.PathEscape(jobID)
}

func buildSubmitBody(req *jobs.SubmitRequest) (*submitBody, error) {
	o := req.Options
	body := &submitBody{
		Config: wireConfig{
			Model:                 o.Model,
			Wait:                  o.ServerWait,
			IncludeFiller:         o.IncludeFiller,
			IncludePartialResults: o.IncludePartialResults,
			AutoPunctuation:       o.AutoPunctuation,
			SpeakerCount:          o.SpeakerCount,
			AudioFormat:           o.AudioFormat,
			SampleRate:            o.SampleRate,
			Pitch:                 o.Pitch,
			Tempo:                 o.Tempo,
			AsSignedURL:           o.SignedURL,
		},
		Request: wireRequest{Label: req.Label},
	}

	switch req.Kind {
	case jobs.KindSynthesize:
		if strings.TrimSpace(req.Text) == "" {
			return nil, jobs.ErrEmptyText
		}
		body.Request.Text = req.Text
	case jobs.KindTranscribe:
		switch req.Source.Kind() {
		case jobs.PayloadInline:
			body.Request.Data = base64.StdEncoding.EncodeToString(req.Source.Bytes())
		case jobs.PayloadEncoded:
			body.Request.Data = req.Source.Encoded()
		case jobs.PayloadReference:
			body.Request.URI = req.Source.URI()
		case jobs.PayloadNone:
		}
		if req.Source.IsZero() {
			return nil, jobs.ErrEmptySource
		}
	}
	return body, nil
}

// do performs one exchange and decodes the job envelope.
func (t *Transport) do(
	ctx context.Context, kind jobs.Kind, op, method, endpoint string, body any,
) (*jobResponse, error) {
	start := t.now()
	resp, err := t.roundTrip(ctx, kind, op, method, endpoint, body)
	prometheus.RecordTransportRequest(string(kind), op, prometheus.StatusOf(err), t.now().Sub(start).Seconds())
	return resp, err
}

func (t *Transport) roundTrip(
	ctx context.Context, kind jobs.Kind, op, method, endpoint string, body any,
) (*jobResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &jobs.TransportError{Kind: kind, Operation: op, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := t.credential.Apply(ctx, req); err != nil {
		return nil, &jobs.TransportError{Kind: kind, Operation: op, Cause: err}
	}

	service := "speech-" + string(kind)
	logger.APIRequest(ctx, service, method, endpoint, headerMap(req.Header), body)

	resp, err := t.client.Do(req)
	if err != nil {
		logger.APIResponse(ctx, service, 0, "", err)
		return nil, jobs.NewNetworkError(kind, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody*16))
	if err != nil {
		return nil, jobs.NewNetworkError(kind, op, fmt.Errorf("failed to read response: %w", err))
	}
	logger.APIResponse(ctx, service, resp.StatusCode, string(raw), nil)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return nil, jobs.NewHTTPError(kind, op, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out jobResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &jobs.TransportError{Kind: kind, Operation: op, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &out, nil
}

func (t *Transport) toJob(kind jobs.Kind, resp *jobResponse) (*jobs.Job, error) {
	job := &jobs.Job{
		ID:        resp.JobID,
		Kind:      kind,
		Status:    jobs.ParseStatus(resp.Status),
		RawStatus: resp.Status,
		UpdatedAt: t.now(),
	}

	switch job.Status {
	case jobs.StatusComplete:
		result, err := decodeResult(kind, resp.Result)
		if err != nil {
			return nil, &jobs.UnpackError{Kind: kind, JobID: job.ID, Reason: "result", Cause: err}
		}
		job.Result = result
	case jobs.StatusFailed:
		job.ErrorDetail = errorDetail(resp.Error)
	case jobs.StatusSubmitted, jobs.StatusRunning, jobs.StatusTimedOut:
	}
	return job, nil
}

func decodeResult(kind jobs.Kind, raw json.RawMessage) (*jobs.Result, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch kind {
	case jobs.KindTranscribe:
		var r sttResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		return &jobs.Result{Segments: r.Data}, nil
	case jobs.KindSynthesize:
		var r ttsResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		switch {
		case r.Path != "":
			return &jobs.Result{Audio: jobs.Reference(r.Path)}, nil
		case r.Data != "":
			return &jobs.Result{Audio: jobs.Encoded(r.Data)}, nil
		default:
			return &jobs.Result{}, nil
		}
	default:
		return nil, jobs.ErrUnknownKind
	}
}

// errorDetail accepts either a JSON string or any other JSON value.
func errorDetail(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func headerMap(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

var _ jobs.Transport = (*Transport)(nil)
