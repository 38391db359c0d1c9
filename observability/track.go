package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/errors"
)

// Tracker follows one materialising operation from start to finish.
type Tracker struct {
	ctx     context.Context
	span    trace.Span
	op      string
	pulled  int64
	metrics *Metrics
}

// Track starts a span named "pipeline.<op>" and returns its tracker.
func Track(op string) *Tracker {
	ctx, span := StartSpan(context.Background(), "pipeline."+op,
		trace.WithAttributes(attribute.String(AttrOperation, op)),
	)
	return &Tracker{ctx: ctx, span: span, op: op, metrics: DefaultMetrics()}
}

// Pulled adds n to the number of items the operation pulled.
func (t *Tracker) Pulled(n int) {
	t.pulled += int64(n)
}

// End closes the span and records metrics. Error codes of AppErrors are
// recorded as attributes, flagged when the failure came from the data
// rather than from how the chain was built.
func (t *Tracker) End(err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
		ec := errors.CodeOf(err)
		code := string(ec)
		if code == "" {
			code = "UNKNOWN"
		}
		t.span.SetAttributes(
			attribute.String(AttrErrorCode, code),
			attribute.Bool(AttrErrorData, errors.IsDataDependentCode(ec)),
		)
		SetSpanError(t.span, err)
		if t.metrics != nil {
			t.metrics.RecordError(t.ctx, code, t.op)
		}
	}
	t.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrItemsPulled, t.pulled),
	)
	t.span.End()

	if t.metrics != nil {
		t.metrics.RecordMaterialize(t.ctx, t.op, status)
		t.metrics.RecordPulled(t.ctx, t.op, t.pulled)
	}
}
