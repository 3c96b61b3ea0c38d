package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/qsimlabs/qsim"
)

// OTelSink exports telemetry events through OpenTelemetry.
// Counters and histograms go out via the metrics pipeline; StartSpan
// rides the same resource and exporter configuration for traces.
type OTelSink struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	instruments    *MetricInstruments
}

// NewOTelSink creates a sink for the configured exporter.
func NewOTelSink(cfg Config) (*OTelSink, error) {
	// The instance id groups one session's events on the backend.
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(qsim.Version),
		semconv.ServiceInstanceIDKey.String(uuid.NewString()),
	)

	ctx := context.Background()
	var err error
	var metricExporter sdkmetric.Exporter
	var traceExporter sdktrace.SpanExporter

	switch cfg.Exporter {
	case ExporterStdout:
		metricExporter, err = stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		traceExporter, err = stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
	default:
		metricExporter, err = otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(cfg.Endpoint),
			otlpmetrichttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		traceExporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	sampler := sdktrace.AlwaysSample()
	if cfg.SamplingRate > 0 && cfg.SamplingRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &OTelSink{
		meterProvider:  mp,
		tracerProvider: tp,
		tracer:         tp.Tracer("qsim-telemetry"),
		instruments:    NewMetricInstruments(mp.Meter("qsim-telemetry")),
	}, nil
}

// LogTelemetry records one event on the matching instrument kind.
func (o *OTelSink) LogTelemetry(ctx context.Context, ev Event) error {
	attrs := metric.WithAttributes(propsToAttributes(ev.Properties)...)
	switch ev.Kind {
	case KindHistogram:
		return o.instruments.RecordHistogram(ctx, ev.Name, ev.Value, attrs)
	default:
		return o.instruments.RecordCounter(ctx, ev.Name, ev.Value, attrs)
	}
}

// StartSpan starts a span on the sink's tracer.
func (o *OTelSink) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name)
}

// Shutdown flushes and stops both providers.
func (o *OTelSink) Shutdown(ctx context.Context) error {
	return errors.Join(
		o.meterProvider.Shutdown(ctx),
		o.tracerProvider.Shutdown(ctx),
	)
}

// StartSpan starts a span around an SDK operation, e.g. one compilation.
// Before Initialize it falls back to the global (no-op) tracer.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if r, ok := globalRegistry.Load().(*Registry); ok && r != nil {
		if sink, ok := r.sink.(*OTelSink); ok {
			return sink.StartSpan(ctx, name)
		}
	}
	return otel.Tracer("qsim-telemetry").Start(ctx, name)
}

// propsToAttributes converts an event's property map to OTel attributes.
func propsToAttributes(props map[string]any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
	return attrs
}
