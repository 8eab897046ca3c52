// Package tracing wires the OpenTelemetry SDK. Export is opt-in: without an
// OTLP endpoint configured every span is a no-op, so local development and
// tests carry no collector dependency.
package tracing

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Init configures an OTLP HTTP exporter when OTEL_EXPORTER_OTLP_ENDPOINT is
// set and returns a shutdown func that flushes pending spans.
func Init(ctx context.Context, logger *slog.Logger, serviceName, environment string) (func(context.Context) error, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		if logger != nil {
			logger.Info("tracing disabled: OTEL_EXPORTER_OTLP_ENDPOINT not set")
		}
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	if logger != nil {
		logger.Info("tracing initialized",
			slog.String("service", serviceName),
			slog.String("endpoint", endpoint),
		)
	}
	return tp.Shutdown, nil
}
