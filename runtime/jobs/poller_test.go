package jobs_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/jobs/mock"
)

const testInterval = time.Millisecond

func submittedJob(kind jobs.Kind) *jobs.Job {
	return &jobs.Job{ID: "job-1", Kind: kind, Status: jobs.StatusSubmitted, RawStatus: "submitted"}
}

func TestPoller_DefaultInterval(t *testing.T) {
	p := jobs.NewPoller(mock.NewTransport(), jobs.PollerConfig{})
	assert.Equal(t, jobs.DefaultPollInterval, p.Config().Interval)
	assert.Equal(t, 5*time.Second, jobs.DefaultPollInterval)
}

func TestPoller_TerminalJobIsNeverPolled(t *testing.T) {
	for _, status := range []jobs.Status{jobs.StatusComplete, jobs.StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			tr := mock.NewTransport("running")
			p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: testInterval})
			job := &jobs.Job{ID: "j", Kind: jobs.KindTranscribe, Status: status}

			got, err := p.Drive(context.Background(), job)
			require.NoError(t, err)
			assert.Same(t, job, got)
			assert.Zero(t, tr.CallCount("GetStatus"))
		})
	}
}

func TestPoller_StopsAtComplete(t *testing.T) {
	tr := mock.NewTransport("running", "Running", "COMPLETE", "failed")
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: testInterval})

	job, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))
	require.NoError(t, err)

	assert.Equal(t, jobs.StatusComplete, job.Status)
	assert.Equal(t, 3, job.Polls)
	assert.Equal(t, 3, tr.CallCount("GetStatus"))
}

func TestPoller_UnknownStatusKeepsPolling(t *testing.T) {
	tr := mock.NewTransport("queued", "transcoding", "complete")
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: testInterval})

	job, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusComplete, job.Status)
	assert.Equal(t, 3, tr.CallCount("GetStatus"))
}

func TestPoller_FailedSequenceReturnsJobWithDetail(t *testing.T) {
	tr := &mock.Transport{Steps: []mock.Step{
		{Status: "running"},
		{Status: "running"},
		{Status: "Failed", Detail: "unsupported codec"},
	}}
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: testInterval})

	job, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))
	require.NoError(t, err)
	require.Equal(t, jobs.StatusFailed, job.Status)

	var rjf *jobs.RemoteJobFailure
	require.True(t, errors.As(job.Failure(), &rjf))
	assert.Equal(t, "unsupported codec", rjf.Detail)
	assert.Equal(t, "Failed", rjf.RawStatus)
}

func TestPoller_MaxAttempts(t *testing.T) {
	tr := mock.NewTransport("running")
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: testInterval, MaxAttempts: 3})

	job, err := p.Drive(context.Background(), submittedJob(jobs.KindSynthesize))

	var te *jobs.TimeoutError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.Attempts)
	assert.Equal(t, jobs.StatusRunning, te.LastStatus)
	assert.Equal(t, jobs.StatusTimedOut, job.Status)
	assert.Equal(t, 3, tr.CallCount("GetStatus"))

	var rjf *jobs.RemoteJobFailure
	assert.False(t, errors.As(err, &rjf))
}

func TestPoller_Timeout(t *testing.T) {
	tr := mock.NewTransport("running")
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: 10 * time.Millisecond, Timeout: 35 * time.Millisecond})

	job, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))

	var te *jobs.TimeoutError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, jobs.StatusTimedOut, job.Status)
	assert.LessOrEqual(t, tr.CallCount("GetStatus"), 4)
}

func TestPoller_TimeoutRoundsDownToWholeIntervals(t *testing.T) {
	tr := mock.NewTransport("running")
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: 40 * time.Millisecond, Timeout: 100 * time.Millisecond})

	_, err := p.Drive(context.Background(), submittedJob(jobs.KindSynthesize))

	var te *jobs.TimeoutError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, 2, te.Attempts)
	assert.Equal(t, 2, tr.CallCount("GetStatus"))
}

func TestPoller_CallerCancellationIsNotTimeout(t *testing.T) {
	tr := mock.NewTransport("running")
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: time.Hour, Timeout: 2 * time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := p.Drive(ctx, submittedJob(jobs.KindTranscribe))

	assert.ErrorIs(t, err, context.Canceled)
	var te *jobs.TimeoutError
	assert.False(t, errors.As(err, &te))
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, tr.CallCount("GetStatus"))
}

func TestPoller_TransportErrorWithoutRetry(t *testing.T) {
	httpErr := jobs.NewHTTPError(jobs.KindTranscribe, "status", http.StatusBadGateway, "upstream")
	tr := &mock.Transport{Steps: []mock.Step{{Err: httpErr}, {Status: "complete"}}}
	p := jobs.NewPoller(tr, jobs.PollerConfig{Interval: testInterval})

	_, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))

	var te *jobs.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, 1, tr.CallCount("GetStatus"))
}

func TestPoller_RetriesRetryableErrors(t *testing.T) {
	httpErr := jobs.NewHTTPError(jobs.KindTranscribe, "status", http.StatusServiceUnavailable, "")
	tr := &mock.Transport{Steps: []mock.Step{{Err: httpErr}, {Err: httpErr}, {Status: "complete"}}}
	p := jobs.NewPoller(tr, jobs.PollerConfig{
		Interval: testInterval,
		Retry:    jobs.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
	})

	job, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusComplete, job.Status)
	assert.Equal(t, 1, job.Polls)
	assert.Equal(t, 3, tr.CallCount("GetStatus"))
}

func TestPoller_DoesNotRetryPermanentErrors(t *testing.T) {
	httpErr := jobs.NewHTTPError(jobs.KindTranscribe, "status", http.StatusNotFound, "no such job")
	tr := &mock.Transport{Steps: []mock.Step{{Err: httpErr}, {Status: "complete"}}}
	p := jobs.NewPoller(tr, jobs.PollerConfig{
		Interval: testInterval,
		Retry:    jobs.RetryPolicy{MaxRetries: 5, InitialInterval: time.Millisecond},
	})

	_, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))

	var te *jobs.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, 1, tr.CallCount("GetStatus"))
}

func TestPoller_RetryBudgetExhausted(t *testing.T) {
	netErr := jobs.NewNetworkError(jobs.KindTranscribe, "status", errors.New("connection reset"))
	tr := &mock.Transport{Steps: []mock.Step{{Err: netErr}}}
	p := jobs.NewPoller(tr, jobs.PollerConfig{
		Interval: testInterval,
		Retry:    jobs.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond},
	})

	_, err := p.Drive(context.Background(), submittedJob(jobs.KindTranscribe))

	assert.True(t, jobs.IsRetryable(err))
	assert.Equal(t, 3, tr.CallCount("GetStatus"))
}

func TestRetryPolicy_Enabled(t *testing.T) {
	assert.False(t, jobs.RetryPolicy{}.Enabled())
	assert.True(t, jobs.RetryPolicy{MaxRetries: 1}.Enabled())
}
