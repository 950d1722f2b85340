package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
)

// Retry defaults applied when MaxRetries > 0 and an interval is unset.
const (
	DefaultRetryInitialInterval = 500 * time.Millisecond
	DefaultRetryMaxInterval     = 10 * time.Second
)

// RetryPolicy controls retries of individual status checks. Only retryable
// TransportErrors are retried. The zero value disables retry.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Enabled reports whether any retry will be attempted.
func (r RetryPolicy) Enabled() bool {
	return r.MaxRetries > 0
}

func (r RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = DefaultRetryInitialInterval
	if r.InitialInterval > 0 {
		b.InitialInterval = r.InitialInterval
	}
	b.MaxInterval = DefaultRetryMaxInterval
	if r.MaxInterval > 0 {
		b.MaxInterval = r.MaxInterval
	}
	return b
}

// IsRetryable reports whether err is a TransportError marked retryable.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Retryable
}

// do runs op once, or under the policy's exponential backoff when enabled.
func (r RetryPolicy) do(ctx context.Context, kind Kind, jobID string, op func() (*Job, error)) (*Job, error) {
	if !r.Enabled() {
		return op()
	}

	wrapped := func() (*Job, error) {
		job, err := op()
		if err != nil && !IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return job, err
	}

	job, err := backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(r.backOff()),
		backoff.WithMaxTries(uint(r.MaxRetries)+1),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			prometheus.RecordRetry(string(kind))
			logger.WarnContext(ctx, "Retrying status check",
				"kind", kind, "job_id", jobID, "error", err, "backoff", next)
		}),
	)

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return job, err
}
