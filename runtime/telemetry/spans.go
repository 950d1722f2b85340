package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for job operations.
const (
	AttrJobKind   = "speechkit.job.kind"
	AttrJobID     = "speechkit.job.id"
	AttrJobStatus = "speechkit.job.status"
	AttrAttempt   = "speechkit.poll.attempt"
	AttrTool      = "speechkit.tool"
)

// StartJobSpan starts a span for one job operation (submit, poll, fetch, drive).
func StartJobSpan(
	ctx context.Context, tp trace.TracerProvider, op, kind, jobID string, attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+2)
	all = append(all, attribute.String(AttrJobKind, kind))
	if jobID != "" {
		all = append(all, attribute.String(AttrJobID, jobID))
	}
	all = append(all, attrs...)
	return Tracer(tp).Start(ctx, "speechkit."+kind+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(all...),
	)
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
