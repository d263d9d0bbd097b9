// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package getjson implements a minimal JSON-over-HTTP dispatch layer on raw
// TCP sockets.
//
// A [Server] accepts connections, reads one request line per connection,
// matches the request path against registered route patterns, binds path
// variables and query parameters to typed arguments, invokes the endpoint
// and writes the endpoint's result back as compact JSON built with the
// jsonvalue package. Every connection carries exactly one request.
//
// # Registration
//
// Endpoints are supplied by a [Controller]. An [Endpoint] pairs a route
// pattern such as "/items/{id}" with an ordered list of [ParamSpec] values
// and an invoke function. Endpoints are usually derived from a parameter
// struct with [Get]:
//
//	type itemParams struct {
//		ID      int64   `getjson:"id,path"`
//		Verbose *bool   `getjson:"verbose,query,optional"`
//		Limit   int32   // implicit required query parameter "limit"
//	}
//
//	getjson.Get("/items/{id}", func(ctx context.Context, call *getjson.CallContext, p itemParams) (Item, error) {
//		...
//	})
//
// The tag format is:
//
//	`getjson:"name[,source[,option...]]"`
//
// where source is "path" or "query" (the default) and the only option is
// "optional". Optional parameters must be pointer fields and are nil when
// absent. Exported fields without a tag are required query parameters named
// after the field with its first letter lowered. Use "-" to skip a field.
//
// Supported parameter types are string, int32, int64 (and int), float32,
// float64 and bool. Other field types register fine but fail to bind with
// a [BindingError] whenever a value is supplied.
//
// # Routing
//
// Patterns are split on "/" with empty segments dropped, so "/a//b/" and
// "a/b" are the same pattern. A segment written as "{name}" is a variable.
// Registering a pattern with the same text twice replaces the earlier
// endpoint in place. Requests are matched against patterns in registration
// order and the first match wins.
//
// # Responses
//
// A matched endpoint whose result serializes cleanly produces
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//
//	<body>
//
// An unmatched path produces a bare 404, and any failure after matching
// (binding, the endpoint itself, building or serializing the result)
// produces a bare 500. Error detail is logged, never written to the client.
// Requests with a method other than GET are closed without a response.
//
// # Observability
//
// [Server.SetDispatchHook] installs a [DispatchHook] called around every
// dispatch. The getjson/otel and getjson/prom packages provide hooks for
// OpenTelemetry and Prometheus.
package getjson
