package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/version"
)

const instrumentationName = "github.com/kbukum/seqkit/pipeline"

// Common attribute keys.
const (
	AttrOperation    = "seqkit.operation"
	AttrStatus       = "seqkit.status"
	AttrErrorCode    = "seqkit.error.code"
	AttrErrorData    = "seqkit.error.data_dependent"
	AttrItemsPulled  = "seqkit.items.pulled"
	AttrErrorMessage = "error.message"
)

// Status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name, trace.WithInstrumentationVersion(version.String()))
}

// StartSpan starts a new span with the library tracer.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(instrumentationName).Start(ctx, spanName, opts...)
}

// SpanFromContext returns the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanError records an error on the span and marks it failed.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}
