package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/chorus/internal/providers"
)

const instrumentationName = "github.com/dshills/chorus"

// InvokeObservation describes one finished tool invocation.
type InvokeObservation struct {
	Tool         string
	InvocationID string
	Kind         string
	Start        time.Time
	Duration     time.Duration
}

// Observer records tool invocations and provider calls as OpenTelemetry
// metrics and spans. A nil Observer records nothing.
type Observer struct {
	tracer trace.Tracer

	invocations     metric.Int64Counter
	toolLatency     metric.Float64Histogram
	providerCalls   metric.Int64Counter
	providerLatency metric.Float64Histogram
}

// NewObserver creates an observer bound to the provided meter and tracer.
func NewObserver(meter metric.Meter, tracer trace.Tracer) (*Observer, error) {
	invocations, err := meter.Int64Counter(
		"chorus.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	toolLatency, err := meter.Float64Histogram(
		"chorus.tool.latency",
		metric.WithDescription("Tool invocation latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	providerCalls, err := meter.Int64Counter(
		"chorus.provider.calls",
		metric.WithDescription("Number of outbound provider calls"),
	)
	if err != nil {
		return nil, err
	}
	providerLatency, err := meter.Float64Histogram(
		"chorus.provider.latency",
		metric.WithDescription("Provider call latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Observer{
		tracer:          tracer,
		invocations:     invocations,
		toolLatency:     toolLatency,
		providerCalls:   providerCalls,
		providerLatency: providerLatency,
	}, nil
}

// NewGlobal creates an observer from the global OpenTelemetry providers.
// Until Setup installs an exporter these are no-ops.
func NewGlobal() (*Observer, error) {
	return NewObserver(otel.Meter(instrumentationName), otel.Tracer(instrumentationName))
}

// ObserveInvoke records one tool invocation.
func (o *Observer) ObserveInvoke(ctx context.Context, obs InvokeObservation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_name", obs.Tool),
		attribute.Bool("success", obs.Kind == ""),
	}
	if obs.Kind != "" {
		attrs = append(attrs, attribute.String("error_kind", obs.Kind))
	}

	options := metric.WithAttributes(attrs...)
	o.invocations.Add(ctx, 1, options)
	o.toolLatency.Record(ctx, obs.Duration.Seconds(), options)

	if o.tracer == nil {
		return
	}
	spanAttrs := append(attrs, attribute.String("invocation_id", obs.InvocationID))
	_, span := o.tracer.Start(ctx, "tool.invoke",
		trace.WithTimestamp(obs.Start),
		trace.WithAttributes(spanAttrs...),
	)
	endSpan(span, obs.Kind, obs.Start.Add(obs.Duration))
}

// ObserveProviderCall records one settled provider call.
func (o *Observer) ObserveProviderCall(ctx context.Context, res providers.Result) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider", res.Provider),
		attribute.Bool("success", res.OK()),
	}
	if !res.OK() {
		attrs = append(attrs, attribute.String("error_kind", string(res.Kind)))
	}

	options := metric.WithAttributes(attrs...)
	o.providerCalls.Add(ctx, 1, options)
	o.providerLatency.Record(ctx, res.Elapsed.Seconds(), options)

	if o.tracer == nil {
		return
	}
	end := time.Now()
	_, span := o.tracer.Start(ctx, "provider.call",
		trace.WithTimestamp(end.Add(-res.Elapsed)),
		trace.WithAttributes(append(attrs, attribute.Int("tokens_used", res.TokensUsed))...),
	)
	endSpan(span, string(res.Kind), end)
}

func endSpan(span trace.Span, kind string, end time.Time) {
	if kind != "" {
		span.SetStatus(codes.Error, kind)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}
