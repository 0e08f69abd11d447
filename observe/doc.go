// Package observe provides telemetry for the memoization caches:
// structured logging, OpenTelemetry metrics and tracing behind small
// interfaces, and a bridge feeding cache events into them.
//
// Construct an Observer once per process from Config, then attach the
// cache bridge to each memo instance and instrument producers:
//
//	obs, _ := observe.New(ctx, cfg)
//	meta := observe.CacheMeta{Name: "events.list"}
//	cached, _ := memo.New(
//		observe.InstrumentProducer(obs.Tracer(), obs.Metrics(), meta, listEvents),
//		memo.Options{
//			Name:     meta.Name,
//			MaxAge:   time.Minute,
//			Observer: observe.NewCacheObserver(obs.Metrics(), obs.Logger()),
//		},
//	)
package observe
