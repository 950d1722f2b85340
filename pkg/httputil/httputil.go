// Package httputil provides shared HTTP client and server construction for
// speechkit. It centralizes timeout defaults and OpenTelemetry instrumentation
// so every outbound request and inbound handler is traced the same way.
package httputil

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Standard timeout defaults used across the project.
const (
	// DefaultRequestTimeout bounds a single exchange with the speech service
	// (submit, status check or result fetch). Waiting for a job to finish is
	// the poller's job and is bounded separately.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultUploadTimeout bounds artifact uploads, which may carry several
	// megabytes of audio.
	DefaultUploadTimeout = 2 * time.Minute

	// DefaultReadHeaderTimeout is the header read timeout for the tool server.
	DefaultReadHeaderTimeout = 10 * time.Second
)

// NewHTTPClient returns an *http.Client configured with the given timeout.
// The transport is wrapped with otelhttp so outbound calls produce client spans
// and propagate trace context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// InstrumentHandler wraps h with an otelhttp server handler named operation.
func InstrumentHandler(h http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(h, operation)
}
