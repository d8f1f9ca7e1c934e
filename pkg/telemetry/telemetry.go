// Package telemetry holds the OpenTelemetry instruments shared by the MCP-UI
// servers: tool call and chain stage spans, counters and histograms.
//
// Instruments are created against the global meter provider at init time and
// follow whatever provider Setup installs later.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/docker/mcp-ui-servers"

var (
	// ToolCallCounter counts tools/call invocations.
	ToolCallCounter metric.Int64Counter
	// ToolCallDuration records tool call latency in milliseconds.
	ToolCallDuration metric.Float64Histogram
	// ToolErrorCounter counts tool calls that returned an error or an error result.
	ToolErrorCounter metric.Int64Counter
	// StageDuration records model chain stage latency in milliseconds.
	StageDuration metric.Float64Histogram
	// StageErrorCounter counts failed model chain stages.
	StageErrorCounter metric.Int64Counter
	// SessionGauge tracks live streamable HTTP sessions.
	SessionGauge metric.Int64UpDownCounter
)

func init() {
	meter := otel.Meter(instrumentationName)

	// Instrument creation on the global meter never fails, errors are only
	// reported for invalid names.
	ToolCallCounter, _ = meter.Int64Counter("mcpui.tool.calls",
		metric.WithDescription("Number of tool calls"))
	ToolCallDuration, _ = meter.Float64Histogram("mcpui.tool.duration",
		metric.WithDescription("Tool call duration"), metric.WithUnit("ms"))
	ToolErrorCounter, _ = meter.Int64Counter("mcpui.tool.errors",
		metric.WithDescription("Number of failed tool calls"))
	StageDuration, _ = meter.Float64Histogram("mcpui.chain.stage.duration",
		metric.WithDescription("Model chain stage duration"), metric.WithUnit("ms"))
	StageErrorCounter, _ = meter.Int64Counter("mcpui.chain.stage.errors",
		metric.WithDescription("Number of failed model chain stages"))
	SessionGauge, _ = meter.Int64UpDownCounter("mcpui.sessions.active",
		metric.WithDescription("Live MCP sessions"))
}

// Options configures Setup.
type Options struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint is the OTLP gRPC collector address. Empty disables export.
	Endpoint string
	Insecure bool
}

// OptionsFromEnv reads the standard OTEL_EXPORTER_OTLP_ENDPOINT variable.
func OptionsFromEnv(serviceName, version string) Options {
	return Options{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:       os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}
}

// Setup installs SDK tracer and meter providers as the global providers.
// The returned function flushes and shuts both down.
func Setup(ctx context.Context, opts Options) (func(context.Context) error, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("service.version", opts.ServiceVersion),
	)

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if opts.Endpoint != "" {
		clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewManualReader()),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)

	return func(ctx context.Context) error {
		traceErr := tracerProvider.Shutdown(ctx)
		meterErr := meterProvider.Shutdown(ctx)
		if traceErr != nil {
			return traceErr
		}
		return meterErr
	}, nil
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentationName)
}

// StartToolCallSpan starts a span for a tools/call request.
func StartToolCallSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("mcp.tool.name", toolName))
	return tracer().Start(ctx, "tools/call "+toolName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...))
}

// RecordToolCall counts a tool call and records its duration.
func RecordToolCall(ctx context.Context, toolName, variant string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("mcp.tool.name", toolName),
		attribute.String("mcpui.variant", variant),
	)
	ToolCallCounter.Add(ctx, 1, attrs)
	ToolCallDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}

// RecordToolError marks span as failed and counts the error.
func RecordToolError(ctx context.Context, span trace.Span, toolName string, err error) {
	ToolErrorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("mcp.tool.name", toolName)))
	if err != nil {
		span.RecordError(err)
	}
	span.SetStatus(codes.Error, "Tool execution failed")
}

// StartStageSpan starts a span for one model chain stage.
func StartStageSpan(ctx context.Context, chainName, stageID, provider, model string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "chain.stage "+stageID,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("mcpui.chain.name", chainName),
			attribute.String("mcpui.stage.id", stageID),
			attribute.String("mcpui.stage.provider", provider),
			attribute.String("mcpui.stage.model", model),
		))
}

// EndStageSpan records the stage outcome and ends span.
func EndStageSpan(ctx context.Context, span trace.Span, chainName, stageID string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("mcpui.chain.name", chainName),
		attribute.String("mcpui.stage.id", stageID),
	)
	StageDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
	if err != nil {
		StageErrorCounter.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stage failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordSessionOpened increments the live session gauge.
func RecordSessionOpened(ctx context.Context, variant string) {
	SessionGauge.Add(ctx, 1, metric.WithAttributes(attribute.String("mcpui.variant", variant)))
}

// RecordSessionClosed decrements the live session gauge.
func RecordSessionClosed(ctx context.Context, variant string) {
	SessionGauge.Add(ctx, -1, metric.WithAttributes(attribute.String("mcpui.variant", variant)))
}
