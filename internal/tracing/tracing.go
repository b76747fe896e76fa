// Package tracing installs the OpenTelemetry tracer provider used by the
// render and print spans.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"lumen/config"
	"lumen/internal/buildinfo"
)

// Shutdown flushes pending spans and stops the provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup exports spans to cfg.Endpoint over OTLP/HTTP and registers the
// provider globally. When tracing is not active it returns a no-op
// Shutdown and leaves the global provider alone.
func Setup(ctx context.Context, cfg config.Tracing) (Shutdown, error) {
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}
	tp, err := NewProvider(ctx, cfg.Service, sdktrace.WithBatcher(exporter))
	if err != nil {
		return noop, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// NewProvider builds a sampled provider tagged with the service name and
// build version.
func NewProvider(ctx context.Context, service string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(service),
		semconv.ServiceVersion(buildinfo.Short()),
	))
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}, opts...)
	return sdktrace.NewTracerProvider(opts...), nil
}
