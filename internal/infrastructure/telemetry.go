package infrastructure

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/architeacher/docrepo/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
)

const (
	exporterTypeGRPC   = "grpc"
	exporterTypeStdOut = "stdout"
)

type (
	ShutdownFunc func(ctx context.Context) error

	// spanProcessorFactory builds the processor feeding one exporter type.
	spanProcessorFactory func(ctx context.Context, cfg config.Telemetry, w io.Writer) (sdktrace.SpanProcessor, error)
)

var spanProcessors = map[string]spanProcessorFactory{
	exporterTypeGRPC:   otlpProcessor,
	exporterTypeStdOut: stdoutProcessor,
}

// NewTracerProvider builds the tracer provider for one invocation. Spans for
// the stdout exporter go to w, stderr when nil, and are written as each span
// ends. OTLP spans are batched and flushed by the returned ShutdownFunc.
func NewTracerProvider(appConfig config.App, telemetryConfig config.Telemetry, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	ctx := context.Background()

	factory, ok := spanProcessors[strings.ToLower(telemetryConfig.ExporterType)]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported exporter type %q", telemetryConfig.ExporterType)
	}

	processor, err := factory(ctx, telemetryConfig, w)
	if err != nil {
		return nil, nil, err
	}

	res, err := serviceResource(ctx, appConfig)
	if err != nil {
		return nil, nil, err
	}

	ratio := min(max(telemetryConfig.Traces.SamplerRatio, 0), 1)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)

	// otelhttp injects traceparent into repository requests through the global propagator.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

func NewNoopTracerProvider() trace.TracerProvider {
	return noop.NewTracerProvider()
}

// serviceResource describes this process to both traces and metrics.
func serviceResource(ctx context.Context, appConfig config.App) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(appConfig.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		attribute.String("env", appConfig.Env.Name),
	}

	if config.CommitSHA != "" {
		attrs = append(attrs, attribute.String("commit_sha", config.CommitSHA))
	}

	if host, err := os.Hostname(); err == nil {
		attrs = append(attrs, semconv.HostName(host))
	}

	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry resource: %w", err)
	}

	return res, nil
}

func otlpProcessor(ctx context.Context, cfg config.Telemetry, _ io.Writer) (sdktrace.SpanProcessor, error) {
	exporter, err := newOTLPExporter(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewBatchSpanProcessor(exporter), nil
}

func newOTLPExporter(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required for the %s exporter", exporterTypeGRPC)
	}

	// The connection is established lazily, so an unreachable collector only
	// surfaces when spans are flushed.
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent("docrepo/"+config.ServiceVersion)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	return exporter, nil
}

func stdoutProcessor(_ context.Context, _ config.Telemetry, w io.Writer) (sdktrace.SpanProcessor, error) {
	if w == nil {
		w = os.Stderr
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
	}

	return sdktrace.NewSimpleSpanProcessor(exporter), nil
}
