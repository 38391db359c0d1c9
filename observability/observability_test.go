package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	seqerrors "github.com/kbukum/seqkit/errors"
)

func setupTest(t *testing.T) (*sdkmetric.ManualReader, *tracetest.SpanRecorder) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	SetMetrics(m)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		SetMetrics(nil)
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return reader, recorder
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string][]metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := make(map[string][]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = append(out[m.Name], sum.DataPoints...)
			}
		}
	}
	return out
}

func attrValue(set attribute.Set, key string) string {
	v, ok := set.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return v.AsString()
}

func TestNewMetricsNoop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	m.RecordMaterialize(ctx, "count", StatusOK)
	m.RecordPulled(ctx, "count", 3)
	m.RecordError(ctx, "EMPTY_RESULT", "first")
}

func TestTrackSuccess(t *testing.T) {
	reader, recorder := setupTest(t)

	tr := Track("collect_to_list")
	tr.Pulled(3)
	tr.Pulled(2)
	tr.End(nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "pipeline.collect_to_list" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("expected non-error status")
	}

	sums := collectSums(t, reader)
	pulled := sums[MetricItemsPulled]
	if len(pulled) != 1 || pulled[0].Value != 5 {
		t.Errorf("expected 5 pulled items, got %+v", pulled)
	}
	total := sums[MetricMaterializeTotal]
	if len(total) != 1 || attrValue(total[0].Attributes, AttrStatus) != StatusOK {
		t.Errorf("expected one ok materialisation, got %+v", total)
	}
	if len(sums[MetricErrorTotal]) != 0 {
		t.Errorf("expected no errors, got %+v", sums[MetricErrorTotal])
	}
}

func TestTrackError(t *testing.T) {
	reader, recorder := setupTest(t)

	tr := Track("first")
	tr.End(seqerrors.EmptyResult("first"))

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Fatalf("expected one failed span, got %d", len(spans))
	}
	var code string
	dataDependent := false
	for _, kv := range spans[0].Attributes() {
		switch string(kv.Key) {
		case AttrErrorCode:
			code = kv.Value.AsString()
		case AttrErrorData:
			dataDependent = kv.Value.AsBool()
		}
	}
	if code != string(seqerrors.ErrCodeEmptyResult) {
		t.Errorf("expected span code EMPTY_RESULT, got %q", code)
	}
	if !dataDependent {
		t.Errorf("expected EMPTY_RESULT to be flagged data dependent")
	}

	sums := collectSums(t, reader)
	errs := sums[MetricErrorTotal]
	if len(errs) != 1 {
		t.Fatalf("expected one error point, got %+v", errs)
	}
	if got := attrValue(errs[0].Attributes, AttrErrorCode); got != "EMPTY_RESULT" {
		t.Errorf("expected EMPTY_RESULT, got %q", got)
	}
	if got := attrValue(errs[0].Attributes, AttrOperation); got != "first" {
		t.Errorf("expected op first, got %q", got)
	}
}

func TestTrackPlainError(t *testing.T) {
	reader, recorder := setupTest(t)

	Track("fold").End(errors.New("boom"))

	for _, kv := range recorder.Ended()[0].Attributes() {
		if string(kv.Key) == AttrErrorData && kv.Value.AsBool() {
			t.Errorf("plain errors should not be flagged data dependent")
		}
	}

	errs := collectSums(t, reader)[MetricErrorTotal]
	if len(errs) != 1 || attrValue(errs[0].Attributes, AttrErrorCode) != "UNKNOWN" {
		t.Errorf("expected UNKNOWN code, got %+v", errs)
	}
}

func TestDefaultMetricsLazy(t *testing.T) {
	SetMetrics(nil)
	t.Cleanup(func() { SetMetrics(nil) })

	m := DefaultMetrics()
	if m == nil {
		t.Fatal("expected metrics on the global meter")
	}
	if DefaultMetrics() != m {
		t.Error("expected the same instance on second call")
	}
}

func TestSetSpanErrorNil(t *testing.T) {
	_, recorder := setupTest(t)
	_, span := StartSpan(context.Background(), "noop")
	SetSpanError(span, nil)
	span.End()
	if recorder.Ended()[0].Status().Code == codes.Error {
		t.Error("nil error must not mark the span failed")
	}
}
