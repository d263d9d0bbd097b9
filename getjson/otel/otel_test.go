// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjsonotel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Query-farm/getjson/getjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type fixture struct {
	server *getjson.Server
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newFixture(t *testing.T, cfg OtelConfig) *fixture {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	cfg.MeterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	cfg.Propagator = propagation.TraceContext{}

	s := getjson.NewServer(getjson.ServerOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	s.Register(getjson.EndpointSet{
		getjson.Get("/items/{id}", func(_ context.Context, _ *getjson.CallContext, p struct {
			ID int64 `getjson:"id,path"`
		}) (int64, error) {
			return p.ID * 2, nil
		}),
		getjson.Handle("/broken", nil, func(context.Context, *getjson.CallContext, []any) (any, error) {
			return nil, errors.New("broken")
		}),
	})
	InstrumentServer(s, cfg)
	return &fixture{server: s, spans: spans, reader: reader}
}

func (f *fixture) dispatch(path string, header map[string]string) getjson.Result {
	return f.server.Dispatcher().Dispatch(context.Background(), &getjson.Request{
		Method: getjson.MethodGet,
		Target: path,
		Path:   path,
		Header: header,
	})
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestSpanForMatchedRoute(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	res := f.dispatch("/items/21", nil)
	require.Equal(t, `42`, string(res.Body))

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "GET /items/{id}", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := spanAttrs(span)
	assert.Equal(t, "/items/{id}", attrs["http.route"].AsString())
	assert.Equal(t, int64(200), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, "serialized", attrs["getjson.outcome"].AsString())
	assert.Equal(t, int64(1), attrs["getjson.params"].AsInt64())
	assert.Equal(t, int64(2), attrs["http.response.body.size"].AsInt64())
	assert.Equal(t, "/items/21", attrs["url.path"].AsString())
}

func TestSpanForFailures(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.dispatch("/broken", nil)
	f.dispatch("/missing", nil)

	ended := f.spans.Ended()
	require.Len(t, ended, 2)

	broken := ended[0]
	assert.Equal(t, codes.Error, broken.Status().Code)
	assert.Equal(t, "broken", broken.Status().Description)
	assert.Equal(t, "*errors.errorString", spanAttrs(broken)["error.type"].AsString())
	require.Len(t, broken.Events(), 1)
	assert.Equal(t, "exception", broken.Events()[0].Name)

	missing := ended[1]
	assert.Equal(t, "GET", missing.Name())
	assert.Equal(t, int64(404), spanAttrs(missing)["http.response.status_code"].AsInt64())
	assert.Equal(t, codes.Ok, missing.Status().Code)
}

func TestTraceContextPropagation(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	f.dispatch("/items/1", map[string]string{
		"traceparent": "00-" + traceID + "-00f067aa0ba902b7-01",
	})

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, traceID, ended[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", ended[0].Parent().SpanID().String())
	assert.True(t, ended[0].Parent().IsRemote())
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.dispatch("/items/1", nil)
	f.dispatch("/items/2", nil)
	f.dispatch("/nope", nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	requests, ok := byName["http.server.requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := make(map[string]int64)
	for _, dp := range requests.DataPoints {
		route, _ := dp.Attributes.Value("http.route")
		counts[route.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"/items/{id}": 2, "unmatched": 1}, counts)

	duration, ok := byName["http.server.request.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range duration.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)
}

func TestTracingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableTracing = false
	f := newFixture(t, cfg)
	res := f.dispatch("/items/3", nil)
	assert.Equal(t, 200, res.Status)
	assert.Empty(t, f.spans.Ended())

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))
	assert.NotEmpty(t, rm.ScopeMetrics)
}
