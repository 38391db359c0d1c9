package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/version"
)

// Metric names.
const (
	MetricMaterializeTotal = "pipeline.materialize.total"
	MetricItemsPulled      = "pipeline.items.pulled"
	MetricErrorTotal       = "pipeline.error.total"
)

// Meter returns the named meter from the global provider, tagged with the library version.
func Meter(name string) metric.Meter {
	return otel.Meter(name, metric.WithInstrumentationVersion(version.String()))
}

// Metrics holds the instruments recorded by pipeline terminals.
type Metrics struct {
	materializeTotal metric.Int64Counter
	itemsPulled      metric.Int64Counter
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	materializeTotal, err := meter.Int64Counter(MetricMaterializeTotal,
		metric.WithDescription("Total number of materialising operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMaterializeTotal, err)
	}

	itemsPulled, err := meter.Int64Counter(MetricItemsPulled,
		metric.WithDescription("Items pulled from upstream by materialising operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsPulled, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Total errors by code and operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		materializeTotal: materializeTotal,
		itemsPulled:      itemsPulled,
		errorTotal:       errorTotal,
	}, nil
}

// RecordMaterialize records a finished materialising operation.
func (m *Metrics) RecordMaterialize(ctx context.Context, op, status string) {
	m.materializeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, op),
		attribute.String(AttrStatus, status),
	))
}

// RecordPulled records the number of items an operation pulled.
func (m *Metrics) RecordPulled(ctx context.Context, op string, n int64) {
	if n <= 0 {
		return
	}
	m.itemsPulled.Add(ctx, n, metric.WithAttributes(attribute.String(AttrOperation, op)))
}

// RecordError records an error by code and operation.
func (m *Metrics) RecordError(ctx context.Context, code, op string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrErrorCode, code),
		attribute.String(AttrOperation, op),
	))
}

var (
	metricsMu sync.RWMutex
	defaultM  *Metrics
)

// SetMetrics replaces the instruments used by Track. Passing nil restores
// lazily created instruments on the global meter.
func SetMetrics(m *Metrics) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	defaultM = m
}

// DefaultMetrics returns the instruments used by Track, creating them on the
// global meter on first use.
func DefaultMetrics() *Metrics {
	metricsMu.RLock()
	m := defaultM
	metricsMu.RUnlock()
	if m != nil {
		return m
	}

	metricsMu.Lock()
	defer metricsMu.Unlock()
	if defaultM != nil {
		return defaultM
	}
	created, err := NewMetrics(Meter(instrumentationName))
	if err != nil {
		logger.Get("observability").Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		return nil
	}
	defaultM = created
	return defaultM
}
