// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Query-farm/getjson/getjson"
	getjsonotel "github.com/Query-farm/getjson/getjson/otel"
	"github.com/Query-farm/getjson/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "getjson"

// metricInterval is how often the stdout metric exporter writes.
var metricInterval = 30 * time.Second

// telemetry owns the OpenTelemetry providers created for a serve run.
type telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// setupTelemetry creates stdout exporters for the enabled signals, writing
// to w.
func setupTelemetry(cfg config.TelemetryConfig, w io.Writer, logger *slog.Logger) (*telemetry, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)
	t := &telemetry{}

	if cfg.Tracing {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
	}

	if cfg.Metrics {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create metric exporter: %w", err), t.shutdown(context.Background()))
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricInterval))),
			sdkmetric.WithResource(res),
		)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.Bool("metrics_enabled", cfg.Metrics))
	return t, nil
}

// hook returns the dispatch hook recording into t's providers.
func (t *telemetry) hook() getjson.DispatchHook {
	cfg := getjsonotel.DefaultConfig()
	cfg.ServiceName = serviceName
	cfg.EnableTracing = t.tracerProvider != nil
	cfg.EnableMetrics = t.meterProvider != nil
	if t.tracerProvider != nil {
		cfg.TracerProvider = t.tracerProvider
	}
	if t.meterProvider != nil {
		cfg.MeterProvider = t.meterProvider
	}
	return getjsonotel.NewHook(cfg)
}

// shutdown flushes and stops both providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
