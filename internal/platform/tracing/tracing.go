// Package tracing installs the global OpenTelemetry tracer and meter providers.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Exporter is "none", "stdout" or "otlp".
	Exporter string
}

// Providers holds the shutdown hook that flushes pending telemetry.
type Providers struct {
	Shutdown func(ctx context.Context) error
}

// Setup registers tracer and meter providers globally. With exporter "none"
// (or empty) the otel no-op globals stay in place and Shutdown does nothing.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	if cfg.Exporter == "" || cfg.Exporter == "none" {
		return &Providers{Shutdown: func(context.Context) error { return nil }}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel resource: %w", err)
	}

	insecure := cfg.Environment == "development"

	tp, err := newTracerProvider(ctx, cfg.Exporter, insecure, res)
	if err != nil {
		return nil, fmt.Errorf("creating tracer provider: %w", err)
	}
	mp, err := newMeterProvider(ctx, cfg.Exporter, insecure, res)
	if err != nil {
		return nil, fmt.Errorf("creating meter provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		if len(errs) > 0 {
			return fmt.Errorf("otel shutdown: %v", errs)
		}
		return nil
	}
	return &Providers{Shutdown: shutdown}, nil
}

func newTracerProvider(ctx context.Context, exporterName string, insecure bool, res *resource.Resource) (*trace.TracerProvider, error) {
	var exporter trace.SpanExporter
	var err error

	switch exporterName {
	case "otlp":
		var opts []otlptracehttp.Option
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported exporter: %q (use \"none\", \"stdout\" or \"otlp\")", exporterName)
	}
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
	), nil
}

func newMeterProvider(ctx context.Context, exporterName string, insecure bool, res *resource.Resource) (*metric.MeterProvider, error) {
	var exporter metric.Exporter
	var err error

	switch exporterName {
	case "otlp":
		var opts []otlpmetrichttp.Option
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err = otlpmetrichttp.New(ctx, opts...)
	case "stdout":
		exporter, err = stdoutmetric.New()
	default:
		return nil, fmt.Errorf("unsupported exporter: %q (use \"none\", \"stdout\" or \"otlp\")", exporterName)
	}
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter)),
	), nil
}
