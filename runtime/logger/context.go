package logger

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// Context keys for common logging fields. Values stored under these keys are
// added to every record logged with a *Context function.
const (
	// ContextKeyJobID identifies the remote job being driven.
	ContextKeyJobID contextKey = "job_id"

	// ContextKeyJobKind identifies the job kind ("stt" or "tts").
	ContextKeyJobKind contextKey = "job_kind"

	// ContextKeyTool identifies the tool being executed.
	ContextKeyTool contextKey = "tool"

	// ContextKeyRequestID identifies the inbound request.
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyCorrelationID is used for distributed tracing.
	ContextKeyCorrelationID contextKey = "correlation_id"
)

var allContextKeys = []contextKey{
	ContextKeyJobID,
	ContextKeyJobKind,
	ContextKeyTool,
	ContextKeyRequestID,
	ContextKeyCorrelationID,
}

// WithJobID returns a new context with the job ID set.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, ContextKeyJobID, jobID)
}

// WithJobKind returns a new context with the job kind set.
func WithJobKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, ContextKeyJobKind, kind)
}

// WithTool returns a new context with the tool name set.
func WithTool(ctx context.Context, tool string) context.Context {
	return context.WithValue(ctx, ContextKeyTool, tool)
}

// WithRequestID returns a new context with the request ID set.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// WithCorrelationID returns a new context with the correlation ID set.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationID, correlationID)
}

// LoggingFields holds all standard logging context fields.
type LoggingFields struct {
	JobID         string
	JobKind       string
	Tool          string
	RequestID     string
	CorrelationID string
}

// ExtractLoggingFields extracts all logging fields from a context.
func ExtractLoggingFields(ctx context.Context) LoggingFields {
	get := func(k contextKey) string {
		s, _ := ctx.Value(k).(string)
		return s
	}
	return LoggingFields{
		JobID:         get(ContextKeyJobID),
		JobKind:       get(ContextKeyJobKind),
		Tool:          get(ContextKeyTool),
		RequestID:     get(ContextKeyRequestID),
		CorrelationID: get(ContextKeyCorrelationID),
	}
}
