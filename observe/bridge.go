package observe

import (
	"context"
	"time"

	"github.com/Bratislawa-Youghurt/ilmomasiina/memo"
)

// CacheObserver feeds memo cache events into Metrics and Logger. It
// implements memo.Observer; attach one per cache via
// memo.Options.Observer.
type CacheObserver struct {
	metrics Metrics
	logger  Logger
}

// NewCacheObserver creates a CacheObserver. A nil metrics or logger is
// replaced with a no-op implementation.
func NewCacheObserver(metrics Metrics, logger Logger) *CacheObserver {
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &CacheObserver{metrics: metrics, logger: logger}
}

// On records one cache event.
func (o *CacheObserver) On(data memo.EventData) {
	ctx := context.Background()
	meta := CacheMeta{Name: data.Cache, Digest: data.Digest}

	switch data.Event {
	case memo.EventHit, memo.EventJoin, memo.EventMiss:
		o.metrics.RecordLookup(ctx, meta, string(data.Event))
	case memo.EventEvict, memo.EventInvalidate, memo.EventClear:
		o.metrics.RecordRemoval(ctx, meta, string(data.Event))
	}

	o.logger.WithCache(meta).Debug(ctx, "cache "+string(data.Event))
}

// InstrumentProducer wraps a producer so every invocation runs inside a
// span and records duration and error metrics. Wrap the producer before
// handing it to memo.New; lookups served from the cache never reach the
// wrapper.
func InstrumentProducer[A, R any](tracer Tracer, metrics Metrics, meta CacheMeta, producer memo.Producer[A, R]) memo.Producer[A, R] {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}

	return func(ctx context.Context, arg A) (R, error) {
		ctx, span := tracer.StartSpan(ctx, meta)
		start := time.Now()

		value, err := producer(ctx, arg)

		metrics.RecordProducer(ctx, meta, time.Since(start), err)
		tracer.EndSpan(span, err)
		return value, err
	}
}

// Ensure CacheObserver implements memo.Observer
var _ memo.Observer = (*CacheObserver)(nil)
