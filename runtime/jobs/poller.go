package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
	"github.com/AltairaLabs/speechkit/runtime/telemetry"
)

// DefaultPollInterval is the delay between status checks.
const DefaultPollInterval = 5 * time.Second

// PollerConfig bounds and paces the polling loop.
type PollerConfig struct {
	// Interval between status checks. Default: 5s.
	Interval time.Duration

	// Timeout bounds the whole loop. Zero means no poller deadline; the
	// caller's context still applies. The deadline is rounded down to whole
	// intervals: no check is started when the next one would land after it,
	// so a 12s Timeout with a 5s Interval gives up after the check at 10s.
	Timeout time.Duration

	// MaxAttempts bounds the number of status checks. Zero means unlimited.
	MaxAttempts int

	// Retry governs retries of a single failed status check.
	Retry RetryPolicy

	// TracerProvider receives poll spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Poller drives submitted jobs to a terminal state. It holds no per-job state
// and is safe for concurrent use.
type Poller struct {
	transport Transport
	cfg       PollerConfig
	now       func() time.Time
}

// NewPoller creates a Poller over the given transport.
func NewPoller(t Transport, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	return &Poller{transport: t, cfg: cfg, now: time.Now}
}

// Config returns the effective configuration.
func (p *Poller) Config() PollerConfig {
	return p.cfg
}

// Drive polls job until it is Complete or Failed and returns it. A job that
// is already terminal is returned without any status check. A Failed job is
// returned without error; use Job.Failure to surface it.
//
// When the poller's own Timeout or MaxAttempts is exhausted the job is marked
// StatusTimedOut and returned together with a *TimeoutError. Cancellation of
// ctx returns ctx's error.
func (p *Poller) Drive(ctx context.Context, job *Job) (*Job, error) {
	if job.Status.Terminal() {
		return job, nil
	}

	kind := string(job.Kind)
	start := p.now()
	ctx = logger.WithJobKind(logger.WithJobID(ctx, job.ID), kind)
	ctx, span := telemetry.StartJobSpan(ctx, p.cfg.TracerProvider, "drive", kind, job.ID)

	prometheus.RecordJobStart(kind)
	job, err := p.loop(ctx, job, start)
	elapsed := p.now().Sub(start)
	prometheus.RecordJobEnd(kind, outcome(job, err), elapsed.Seconds())
	logger.JobFinished(ctx, kind, job.ID, outcome(job, err), elapsed, "polls", job.Polls)

	span.SetAttributes(
		attribute.String(telemetry.AttrJobStatus, string(job.Status)),
		attribute.Int(telemetry.AttrAttempt, job.Polls),
	)
	telemetry.EndSpan(span, err)
	return job, err
}

func (p *Poller) loop(ctx context.Context, job *Job, start time.Time) (*Job, error) {
	pollCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	// The first check waits a full interval after submission.
	limiter := rate.NewLimiter(rate.Every(p.cfg.Interval), 1)
	limiter.Allow()

	for {
		if p.cfg.MaxAttempts > 0 && job.Polls >= p.cfg.MaxAttempts {
			return p.timedOut(job, start, nil)
		}

		if err := limiter.Wait(pollCtx); err != nil {
			return p.interrupted(ctx, job, start, err)
		}

		observed, err := p.check(pollCtx, job)
		job.Polls++
		if err != nil {
			if p.ownDeadlineHit(ctx, err) {
				return p.timedOut(job, start, err)
			}
			return job, err
		}

		job.Advance(observed, p.now())
		logger.JobPolled(ctx, string(job.Kind), job.ID, job.RawStatus, job.Polls)
		if job.Status.Terminal() {
			return job, nil
		}
	}
}

func (p *Poller) check(ctx context.Context, job *Job) (*Job, error) {
	ctx, span := telemetry.StartJobSpan(ctx, p.cfg.TracerProvider, "poll", string(job.Kind), job.ID,
		attribute.Int(telemetry.AttrAttempt, job.Polls+1))
	prometheus.RecordPoll(string(job.Kind))

	observed, err := p.cfg.Retry.do(ctx, job.Kind, job.ID, func() (*Job, error) {
		return p.transport.GetStatus(ctx, job.Kind, job.ID)
	})
	if observed != nil {
		span.SetAttributes(attribute.String(telemetry.AttrJobStatus, string(observed.Status)))
	}
	telemetry.EndSpan(span, err)
	return observed, err
}

// interrupted classifies a failed interval wait.
func (p *Poller) interrupted(ctx context.Context, job *Job, start time.Time, err error) (*Job, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return job, ctxErr
	}
	// rate.Limiter fails early when the next tick would land past the deadline.
	if p.cfg.Timeout > 0 && p.ownDeadlineFirst(ctx, start) {
		return p.timedOut(job, start, err)
	}
	return job, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
}

// ownDeadlineHit reports whether err came from the poller's Timeout rather
// than the caller's context.
func (p *Poller) ownDeadlineHit(ctx context.Context, err error) bool {
	return p.cfg.Timeout > 0 && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded)
}

func (p *Poller) ownDeadlineFirst(ctx context.Context, start time.Time) bool {
	parent, ok := ctx.Deadline()
	return !ok || !parent.Before(start.Add(p.cfg.Timeout))
}

func (p *Poller) timedOut(job *Job, start time.Time, cause error) (*Job, error) {
	last := job.Status
	job.Status = StatusTimedOut
	job.UpdatedAt = p.now()
	return job, &TimeoutError{
		Kind:       job.Kind,
		JobID:      job.ID,
		Attempts:   job.Polls,
		Elapsed:    p.now().Sub(start),
		LastStatus: last,
		Cause:      cause,
	}
}

func outcome(job *Job, err error) string {
	switch {
	case job.Status == StatusComplete:
		return prometheus.StatusComplete
	case job.Status == StatusFailed:
		return prometheus.StatusFailed
	case job.Status == StatusTimedOut:
		return prometheus.StatusTimedOut
	case err != nil:
		return prometheus.StatusError
	default:
		return prometheus.StatusPending
	}
}
