package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerProviderOption configures NewTracerProvider
type TracerProviderOption func(*tracerProviderConfig)

type tracerProviderConfig struct {
	tracingConfig *TracingConfig
	resource      *resource.Resource
	endpoint      string
	insecure      bool

	// exporter replaces the OTLP exporter when set
	exporter sdktrace.SpanExporter
}

// WithTracingConfig sets the tracing configuration
func WithTracingConfig(tc *TracingConfig) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.tracingConfig = tc
	}
}

// WithTracerResource sets the resource spans are reported under
func WithTracerResource(res *resource.Resource) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.resource = res
	}
}

// WithTracerEndpoint sets the OTLP collector endpoint
func WithTracerEndpoint(endpoint string) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.endpoint = endpoint
	}
}

// WithTracerInsecure sends spans over plain HTTP
func WithTracerInsecure(insecure bool) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.insecure = insecure
	}
}

// WithSpanExporter sends spans to exp instead of an OTLP collector. Spans are
// exported as soon as they end.
func WithSpanExporter(exp sdktrace.SpanExporter) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.exporter = exp
	}
}

// NewTracerProvider returns the provider behind coordinator spans. It is a
// no-op provider unless tracing is enabled. The caller shuts down the
// returned provider.
func NewTracerProvider(ctx context.Context, opts ...TracerProviderOption) (trace.TracerProvider, error) {
	cfg := &tracerProviderConfig{endpoint: DefaultEndpoint}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.tracingConfig == nil || !cfg.tracingConfig.Enabled {
		slog.Debug("Tracing disabled, coordinator spans are dropped")
		return noop.NewTracerProvider(), nil
	}

	res := cfg.resource
	if res == nil {
		var err error
		if res, err = NewResource(ctx, DefaultServiceName, "unknown", nil); err != nil {
			return nil, err
		}
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(cfg.tracingConfig.GetSampling()),
		)),
	}

	exporterName := "otlp"
	if cfg.exporter != nil {
		exporterName = "custom"
		providerOpts = append(providerOpts, sdktrace.WithSyncer(cfg.exporter))
	} else {
		exporter, err := newOTLPSpanExporter(ctx, cfg.endpoint, cfg.insecure)
		if err != nil {
			return nil, err
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
		if cfg.insecure {
			slog.Warn("Spans are sent to the collector over plain HTTP", "endpoint", cfg.endpoint)
		}
	}

	tp := sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(tp)

	slog.Info("Tracing initialized",
		"exporter", exporterName,
		"endpoint", cfg.endpoint,
		"sampling_ratio", cfg.tracingConfig.GetSampling(),
	)
	return tp, nil
}

func newOTLPSpanExporter(ctx context.Context, endpoint string, insecure bool) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}
