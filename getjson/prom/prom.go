// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package getjsonprom records getjson dispatches as Prometheus metrics.
//
// Metrics collected (with the default namespace):
//   - getjson_requests_total: counter by route and status code
//   - getjson_request_duration_seconds: histogram by route
//   - getjson_request_errors_total: counter by route and error type
//   - getjson_response_bytes: histogram of response body sizes
package getjsonprom

import (
	"context"
	"strconv"
	"time"

	"github.com/Query-farm/getjson/getjson"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus hook.
type Config struct {
	// Namespace is the metrics namespace (default: "getjson").
	Namespace string
	// Subsystem is the metrics subsystem (default: "").
	Subsystem string
	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels
	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64
	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus hook.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "getjson",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Hook is a getjson.DispatchHook backed by Prometheus collectors.
type Hook struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	responseBytes   prometheus.Histogram
}

// New registers the collectors and returns the hook. It panics if the
// collectors are already registered with the registry.
func New(opts ...Option) *Hook {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Hook{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of dispatched requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Request dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of failed dispatches",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		responseBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "response_bytes",
			Help:        "Response body size in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(16, 4, 8), // 16B to 256KB
		}),
	}
}

type startToken time.Time

// OnDispatchStart records the start time.
func (h *Hook) OnDispatchStart(ctx context.Context, _ getjson.DispatchInfo) (context.Context, getjson.HookToken) {
	return ctx, startToken(time.Now())
}

// OnDispatchEnd records the request under its matched pattern, or
// "unmatched".
func (h *Hook) OnDispatchEnd(_ context.Context, token getjson.HookToken, info getjson.DispatchInfo, stats *getjson.CallStatistics, err error) {
	start, ok := token.(startToken)
	if !ok {
		return
	}
	route := info.Pattern
	if route == "" {
		route = "unmatched"
	}
	code := 0
	if stats != nil {
		code = stats.Status
		h.responseBytes.Observe(float64(stats.OutputBytes))
	}

	h.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(route).Observe(time.Since(time.Time(start)).Seconds())
	if err != nil {
		h.requestErrors.WithLabelValues(route, getjson.ErrorType(err)).Inc()
	}
}

var _ getjson.DispatchHook = (*Hook)(nil)
