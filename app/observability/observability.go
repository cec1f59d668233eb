// Package observability bundles the logger, Prometheus registry, metrics and
// tracer handed to every module.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Black-And-White-Club/printboard/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability carries the shared telemetry components.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *Metrics
	Tracer   trace.Tracer

	shutdown func(context.Context) error
}

// Init builds the observability stack for serviceName from cfg. Logs are
// written as JSON to w.
func Init(ctx context.Context, cfg config.ObservabilityConfig, serviceName string, w io.Writer) (*Observability, error) {
	logger := NewLogger(w, cfg.LogLevel, true).With(
		slog.String("service", serviceName),
		slog.String("environment", cfg.Environment),
	)

	provider, shutdown, err := setupTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.TraceSampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	reg := NewRegistry()

	return &Observability{
		Logger:   logger,
		Registry: reg,
		Metrics:  NewMetrics(reg),
		Tracer:   provider.Tracer(serviceName),
		shutdown: shutdown,
	}, nil
}

// NewNoop returns observability suitable for tests: a discarding logger, a
// fresh registry and a noop tracer.
func NewNoop() *Observability {
	reg := prometheus.NewRegistry()
	return &Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: reg,
		Metrics:  NewMetrics(reg),
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		shutdown: func(context.Context) error { return nil },
	}
}

// Shutdown flushes pending spans.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}
	return o.shutdown(ctx)
}
