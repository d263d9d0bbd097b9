// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"context"
	"log/slog"
)

// CallContext provides request-scoped information and logging to endpoints.
type CallContext struct {
	// Ctx is the request-scoped context, derived from the context passed to
	// Server.Serve or from the HTTP request.
	Ctx context.Context
	// RequestID is a server-generated identifier for this request, also
	// passed to dispatch hooks and attached to every log line.
	RequestID string
	// Pattern is the text of the route pattern that matched.
	Pattern string
	// Path is the request path without the query string.
	Path string
	// RemoteAddr is the client address, or empty when unknown.
	RemoteAddr string
	// Logger carries the request ID and pattern as attributes.
	Logger *slog.Logger
}
