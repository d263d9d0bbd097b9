// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package getjsonotel provides OpenTelemetry instrumentation for getjson
// servers. It implements the [getjson.DispatchHook] interface to add
// distributed tracing and metrics to request dispatch.
//
// Usage:
//
//	server := getjson.NewServer(getjson.ServerOptions{})
//	// ... register controllers ...
//	getjsonotel.InstrumentServer(server, getjsonotel.DefaultConfig())
package getjsonotel

import (
	"context"
	"time"

	"github.com/Query-farm/getjson/getjson"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "getjson"

// OtelConfig configures OpenTelemetry instrumentation for a getjson server.
type OtelConfig struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// Propagator extracts trace context from request headers.
	// Defaults to otel.GetTextMapPropagator().
	Propagator propagation.TextMapPropagator
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordExceptions calls RecordError on the span for failed dispatches.
	// Default true.
	RecordExceptions bool
	// ServiceName is the service.name span attribute. Defaults to "getjson".
	ServiceName string
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns an OtelConfig with tracing, metrics and exception
// recording enabled. Providers and the propagator are resolved from the
// global OTel SDK when the hook is created.
func DefaultConfig() OtelConfig {
	return OtelConfig{
		EnableTracing:    true,
		EnableMetrics:    true,
		RecordExceptions: true,
	}
}

// InstrumentServer attaches OpenTelemetry instrumentation to a server via
// [getjson.Server.SetDispatchHook].
func InstrumentServer(server *getjson.Server, cfg OtelConfig) {
	server.SetDispatchHook(NewHook(cfg))
}

// NewHook returns the instrumentation as a hook, for combining with others
// in a [getjson.MultiHook].
func NewHook(cfg OtelConfig) getjson.DispatchHook {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "getjson"
	}

	hook := &otelHook{
		cfg:    cfg,
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}

	if cfg.EnableMetrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		hook.requestCounter, _ = meter.Int64Counter("http.server.requests",
			metric.WithUnit("{request}"),
			metric.WithDescription("Number of dispatched requests"),
		)
		hook.durationHistogram, _ = meter.Float64Histogram("http.server.request.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of dispatched requests"),
		)
	}
	return hook
}

// otelHook implements getjson.DispatchHook with OpenTelemetry tracing and
// metrics.
type otelHook struct {
	cfg               OtelConfig
	tracer            trace.Tracer
	requestCounter    metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// spanToken is the HookToken returned by OnDispatchStart.
type spanToken struct {
	span      trace.Span
	startTime time.Time
}

// OnDispatchStart extracts parent trace context and starts a server span.
func (h *otelHook) OnDispatchStart(ctx context.Context, info getjson.DispatchInfo) (context.Context, getjson.HookToken) {
	// traceparent/tracestate arrive as request headers
	if h.cfg.Propagator != nil && info.TransportMetadata != nil {
		ctx = h.cfg.Propagator.Extract(ctx, propagation.MapCarrier(info.TransportMetadata))
	}

	if !h.cfg.EnableTracing {
		return ctx, &spanToken{startTime: time.Now()}
	}

	attrs := []attribute.KeyValue{
		attribute.String("service.name", h.cfg.ServiceName),
		attribute.String("http.request.method", getjson.MethodGet),
		attribute.String("url.path", info.Path),
		attribute.String("getjson.request_id", info.RequestID),
	}
	attrs = append(attrs, h.cfg.CustomAttributes...)
	if v := info.TransportMetadata[getjson.MetaRemoteAddr]; v != "" {
		attrs = append(attrs, attribute.String("client.address", v))
	}
	if v := info.TransportMetadata[getjson.MetaUserAgent]; v != "" {
		attrs = append(attrs, attribute.String("user_agent.original", v))
	}

	// The route is unknown until matching, so the span is renamed at the end.
	ctx, span := h.tracer.Start(ctx, getjson.MethodGet,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	return ctx, &spanToken{span: span, startTime: time.Now()}
}

// OnDispatchEnd records span attributes, metrics, and ends the span.
func (h *otelHook) OnDispatchEnd(ctx context.Context, token getjson.HookToken, info getjson.DispatchInfo, stats *getjson.CallStatistics, err error) {
	st, ok := token.(*spanToken)
	if !ok {
		return
	}

	duration := time.Since(st.startTime)

	route := info.Pattern
	if route == "" {
		route = "unmatched"
	}
	outcome := ""
	status := 0
	if stats != nil {
		outcome = stats.Outcome.String()
		status = stats.Status
	}

	if h.cfg.EnableMetrics {
		metricAttrs := metric.WithAttributes(
			attribute.String("service.name", h.cfg.ServiceName),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
			attribute.String("getjson.outcome", outcome),
		)
		if h.requestCounter != nil {
			h.requestCounter.Add(ctx, 1, metricAttrs)
		}
		if h.durationHistogram != nil {
			h.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
		}
	}

	if st.span == nil || !st.span.IsRecording() {
		return
	}
	if info.Pattern != "" {
		st.span.SetName(getjson.MethodGet + " " + info.Pattern)
		st.span.SetAttributes(attribute.String("http.route", info.Pattern))
	}
	st.span.SetAttributes(
		attribute.Int("http.response.status_code", status),
		attribute.String("getjson.outcome", outcome),
	)
	if stats != nil {
		st.span.SetAttributes(
			attribute.Int("getjson.params", stats.Params),
			attribute.Int64("http.response.body.size", stats.OutputBytes),
		)
	}

	if err != nil {
		st.span.SetStatus(codes.Error, err.Error())
		if h.cfg.RecordExceptions {
			st.span.RecordError(err)
		}
		st.span.SetAttributes(attribute.String("error.type", getjson.ErrorType(err)))
	} else {
		st.span.SetStatus(codes.Ok, "")
	}
	st.span.End()
}
