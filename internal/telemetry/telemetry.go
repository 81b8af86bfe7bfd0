// Package telemetry configures the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const serviceName = "shoplist"

type Config struct {
	// Endpoint is an OTLP/HTTP collector address such as "localhost:4318".
	Endpoint string
	// Stdout writes spans to Writer when no endpoint is set.
	Stdout bool
	Writer io.Writer
	// Version is reported as service.version.
	Version string
}

func newResource(version string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	)
}

func newOTLPExporter(ctx context.Context, endpoint string) (trace.SpanExporter, error) {
	insecure := !strings.HasPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.New(ctx, opts...)
}

// Setup installs a tracer provider and returns its shutdown func. With
// neither an endpoint nor stdout enabled, tracing stays a no-op and the
// returned func does nothing.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (func(context.Context) error, error) {
	var (
		exp trace.SpanExporter
		err error
	)
	switch {
	case cfg.Endpoint != "":
		exp, err = newOTLPExporter(ctx, cfg.Endpoint)
		logger.Info("tracing to OTLP collector", "endpoint", cfg.Endpoint)
	case cfg.Stdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		logger.Info("tracing to stdout")
	default:
		return func(context.Context) error { return nil }, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create span exporter: %w", err)
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(newResource(version)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
