package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
)

// InitTracer installs an OTLP HTTP tracer provider when tracing is enabled.
// The returned function flushes and stops it; it is a no-op otherwise.
func InitTracer(cfg config.TracingConfig, log *zap.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }

	if !cfg.Enabled {
		log.Info("OpenTelemetry tracing is disabled (set OTEL_ENABLED=true to enable)")
		return noop
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Warn("failed to create OTLP exporter, tracing disabled", zap.Error(err))
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
		)),
	)

	otel.SetTracerProvider(tp)
	log.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.Endpoint))

	return tp.Shutdown
}
