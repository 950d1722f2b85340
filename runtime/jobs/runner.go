package jobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
	"github.com/AltairaLabs/speechkit/runtime/telemetry"
)

// Runner carries one job through submit, poll and fetch. The kind-specific
// clients in runtime/stt and runtime/tts build on it and only differ in how
// they unpack the result.
type Runner struct {
	transport Transport
	poller    *Poller
}

// NewRunner creates a Runner that polls with cfg.
func NewRunner(t Transport, cfg PollerConfig) *Runner {
	return &Runner{transport: t, poller: NewPoller(t, cfg)}
}

// Transport returns the underlying transport.
func (r *Runner) Transport() Transport { return r.transport }

// Poller returns the underlying poller.
func (r *Runner) Poller() *Poller { return r.poller }

// Submit sends req and returns the created job.
func (r *Runner) Submit(ctx context.Context, req *SubmitRequest) (*Job, error) {
	kind := string(req.Kind)
	ctx, span := telemetry.StartJobSpan(ctx, r.poller.cfg.TracerProvider, "submit", kind, "",
		attribute.String("speechkit.model", req.Options.Model))

	start := time.Now()
	job, err := r.transport.Submit(ctx, req)
	if err != nil {
		prometheus.RecordJobOutcome(kind, prometheus.StatusError)
		logger.ErrorContext(ctx, "Job submission failed", "kind", kind, "error", err, "duration", time.Since(start))
		telemetry.EndSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String(telemetry.AttrJobID, job.ID),
		attribute.String(telemetry.AttrJobStatus, string(job.Status)),
	)
	telemetry.EndSpan(span, nil)
	logger.JobSubmitted(logger.WithJobID(ctx, job.ID), kind, job.ID, req.Options.Model, req.Options.ServerWait,
		"status", job.RawStatus)
	return job, nil
}

// Resume rebuilds a handle for a job submitted earlier, typically in no-wait
// mode, so it can be awaited.
func (r *Runner) Resume(kind Kind, jobID string) *Job {
	now := time.Now()
	return &Job{
		ID:          jobID,
		Kind:        kind,
		Status:      StatusSubmitted,
		RawStatus:   string(StatusSubmitted),
		SubmittedAt: now,
		UpdatedAt:   now,
	}
}

// Await drives job to a terminal state and returns its result. A failed job
// yields a *RemoteJobFailure. The result is fetched separately unless the
// status exchange already carried it; a signed-URL fetch always goes to the
// service.
func (r *Runner) Await(ctx context.Context, job *Job, opts FetchOptions) (*Result, error) {
	job, err := r.poller.Drive(ctx, job)
	if err != nil {
		return nil, err
	}
	if failure := job.Failure(); failure != nil {
		return nil, failure
	}
	if job.Result != nil && !opts.SignedURL {
		return job.Result, nil
	}

	kind := string(job.Kind)
	ctx, span := telemetry.StartJobSpan(ctx, r.poller.cfg.TracerProvider, "fetch", kind, job.ID)
	res, err := r.transport.FetchResult(ctx, job.Kind, job.ID, opts)
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}
