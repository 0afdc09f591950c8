// Package otel wires the OpenTelemetry SDK for service processes.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	enabledEnv  = "ARBOR_SPACE_OTEL_ENABLED"
	endpointEnv = "ARBOR_SPACE_OTEL_ENDPOINT"
)

func noopShutdown(context.Context) error { return nil }

// Setup registers a global tracer provider exporting OTLP over HTTP.
//
// Tracing stays off unless ARBOR_SPACE_OTEL_ENDPOINT is set, and can be
// forced off with ARBOR_SPACE_OTEL_ENABLED=false. When disabled the
// returned shutdown function is a no-op.
//
// Callers defer the shutdown function so pending spans flush on exit.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	if strings.EqualFold(os.Getenv(enabledEnv), "false") {
		return noopShutdown, nil
	}
	endpoint := os.Getenv(endpointEnv)
	if endpoint == "" {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
