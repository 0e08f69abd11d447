package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			"missing service name",
			Config{},
			ErrMissingServiceName,
		},
		{
			"minimal valid",
			Config{ServiceName: "ilmo-cache"},
			nil,
		},
		{
			"unknown tracing exporter",
			Config{ServiceName: "ilmo-cache", Tracing: TracingConfig{Enabled: true, Exporter: "graphite"}},
			ErrInvalidTracingExporter,
		},
		{
			"sample pct too high",
			Config{ServiceName: "ilmo-cache", Tracing: TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5}},
			ErrInvalidSamplePct,
		},
		{
			"sample pct negative",
			Config{ServiceName: "ilmo-cache", Tracing: TracingConfig{Enabled: true, Exporter: "none", SamplePct: -0.1}},
			ErrInvalidSamplePct,
		},
		{
			"unknown metrics exporter",
			Config{ServiceName: "ilmo-cache", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			ErrInvalidMetricsExporter,
		},
		{
			"unknown log level",
			Config{ServiceName: "ilmo-cache", Logging: LoggingConfig{Enabled: true, Level: "trace"}},
			ErrInvalidLogLevel,
		},
		{
			"disabled subsystems ignore exporter names",
			Config{ServiceName: "ilmo-cache", Tracing: TracingConfig{Exporter: "graphite"}},
			nil,
		},
		{
			"all enabled with valid settings",
			Config{
				ServiceName: "ilmo-cache",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_AllDisabled(t *testing.T) {
	obs, err := New(context.Background(), Config{ServiceName: "ilmo-cache"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer should never be nil")
	}
	if obs.Metrics() == nil {
		t.Error("Metrics should never be nil")
	}
	if obs.Logger() == nil {
		t.Error("Logger should never be nil")
	}

	// Noop components must be usable
	ctx, span := obs.Tracer().StartSpan(context.Background(), CacheMeta{Name: "x"})
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	obs.Tracer().EndSpan(span, nil)
	obs.Metrics().RecordLookup(context.Background(), CacheMeta{Name: "x"}, "hit")
	obs.Logger().Info(context.Background(), "ignored")

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNew_EnabledWithNoneExporters(t *testing.T) {
	cfg := Config{
		ServiceName: "ilmo-cache",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	}

	obs, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, span := obs.Tracer().StartSpan(context.Background(), CacheMeta{Name: "events.list"})
	obs.Tracer().EndSpan(span, nil)
	obs.Metrics().RecordLookup(context.Background(), CacheMeta{Name: "events.list"}, "miss")

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	// Shutdown is idempotent
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("New error = %v, want %v", err, ErrMissingServiceName)
	}
}
