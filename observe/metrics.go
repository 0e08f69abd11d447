package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one cache lookup with its outcome
	// (hit, join, miss).
	RecordLookup(ctx context.Context, meta CacheMeta, outcome string)

	// RecordRemoval records one entry removal with its reason
	// (evict, invalidate, clear).
	RecordRemoval(ctx context.Context, meta CacheMeta, reason string)

	// RecordProducer records one producer invocation with its duration
	// and error status.
	RecordProducer(ctx context.Context, meta CacheMeta, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	lookupCount   metric.Int64Counter
	removalCount  metric.Int64Counter
	producerCount metric.Int64Counter
	producerErrs  metric.Int64Counter
	durationHist  metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	lookupCount, err := meter.Int64Counter(
		"cache.lookup.total",
		metric.WithDescription("Total number of cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	removalCount, err := meter.Int64Counter(
		"cache.removal.total",
		metric.WithDescription("Total number of cache entry removals by reason"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	producerCount, err := meter.Int64Counter(
		"cache.producer.total",
		metric.WithDescription("Total number of producer invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	producerErrs, err := meter.Int64Counter(
		"cache.producer.errors",
		metric.WithDescription("Total number of failed producer invocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.producer.duration_ms",
		metric.WithDescription("Producer invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		lookupCount:   lookupCount,
		removalCount:  removalCount,
		producerCount: producerCount,
		producerErrs:  producerErrs,
		durationHist:  durationHist,
	}, nil
}

// NewMetrics creates a Metrics instance recording through the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta CacheMeta, outcome string) {
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.name", meta.Name),
		attribute.String("cache.outcome", outcome),
	))
}

func (m *metricsImpl) RecordRemoval(ctx context.Context, meta CacheMeta, reason string) {
	m.removalCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.name", meta.Name),
		attribute.String("cache.reason", reason),
	))
}

func (m *metricsImpl) RecordProducer(ctx context.Context, meta CacheMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("cache.name", meta.Name))

	// Always increment total counter
	m.producerCount.Add(ctx, 1, opt)

	// Increment error counter on failure
	if err != nil {
		m.producerErrs.Add(ctx, 1, opt)
	}

	// Record duration in milliseconds
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (*noopMetrics) RecordLookup(context.Context, CacheMeta, string)                 {}
func (*noopMetrics) RecordRemoval(context.Context, CacheMeta, string)                {}
func (*noopMetrics) RecordProducer(context.Context, CacheMeta, time.Duration, error) {}

// NewNoopMetrics returns a Metrics implementation that does nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
