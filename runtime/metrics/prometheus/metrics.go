// Package prometheus provides Prometheus metrics for speechkit jobs, transports and tools.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "speechkit"

// Status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusComplete = "complete"
	StatusFailed   = "failed"
	StatusTimedOut = "timed_out"
	StatusPending  = "pending"
)

var (
	// jobsActive is a gauge of jobs currently being driven to a terminal state.
	jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Number of jobs currently being polled",
		},
		[]string{"kind"},
	)

	// jobDuration is a histogram of end-to-end job duration (submit to terminal).
	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Histogram of job duration from submission to terminal state in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind", "status"},
	)

	// jobsTotal counts finished jobs by outcome.
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of jobs by outcome",
		},
		[]string{"kind", "status"}, // status: complete, failed, timed_out, error, pending
	)

	// pollsTotal counts status checks issued by the poller.
	pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_polls_total",
			Help:      "Total number of job status checks",
		},
		[]string{"kind"},
	)

	// retriesTotal counts retried status checks.
	retriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_poll_retries_total",
			Help:      "Total number of retried job status checks",
		},
		[]string{"kind"},
	)

	// transportRequestDuration is a histogram of speech API call duration.
	transportRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transport_request_duration_seconds",
			Help:      "Duration of speech API calls in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind", "operation"},
	)

	// transportRequestsTotal is a counter of speech API calls.
	transportRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_requests_total",
			Help:      "Total number of speech API calls",
		},
		[]string{"kind", "operation", "status"}, // status: success, error
	)

	// toolCallDuration is a histogram of tool call duration.
	toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Duration of tool calls in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"tool"},
	)

	// toolCallsTotal is a counter of tool calls.
	toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool calls",
		},
		[]string{"tool", "status"}, // status: success, error
	)

	allMetrics = []prometheus.Collector{
		jobsActive,
		jobDuration,
		jobsTotal,
		pollsTotal,
		retriesTotal,
		transportRequestDuration,
		transportRequestsTotal,
		toolCallDuration,
		toolCallsTotal,
	}
)

// Collectors returns every speechkit collector, for registration on a custom registry.
func Collectors() []prometheus.Collector {
	out := make([]prometheus.Collector, len(allMetrics))
	copy(out, allMetrics)
	return out
}

// RecordJobStart marks a job as being polled.
func RecordJobStart(kind string) {
	jobsActive.WithLabelValues(kind).Inc()
}

// RecordJobEnd records the outcome of a polled job.
func RecordJobEnd(kind, status string, durationSeconds float64) {
	jobsActive.WithLabelValues(kind).Dec()
	jobDuration.WithLabelValues(kind, status).Observe(durationSeconds)
	jobsTotal.WithLabelValues(kind, status).Inc()
}

// RecordJobOutcome counts a job outcome that did not go through the poller,
// such as a no-wait submission or a submit failure.
func RecordJobOutcome(kind, status string) {
	jobsTotal.WithLabelValues(kind, status).Inc()
}

// RecordPoll records one status check.
func RecordPoll(kind string) {
	pollsTotal.WithLabelValues(kind).Inc()
}

// RecordRetry records one retried status check.
func RecordRetry(kind string) {
	retriesTotal.WithLabelValues(kind).Inc()
}

// RecordTransportRequest records one speech API call.
func RecordTransportRequest(kind, operation, status string, durationSeconds float64) {
	transportRequestDuration.WithLabelValues(kind, operation).Observe(durationSeconds)
	transportRequestsTotal.WithLabelValues(kind, operation, status).Inc()
}

// RecordToolCall records a tool call.
func RecordToolCall(toolName, status string, durationSeconds float64) {
	toolCallDuration.WithLabelValues(toolName).Observe(durationSeconds)
	toolCallsTotal.WithLabelValues(toolName, status).Inc()
}

// StatusOf maps an error to the success/error label.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
