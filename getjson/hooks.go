// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import "context"

// DispatchHook provides observability callpoints around request dispatch.
// Implementations must be safe for concurrent use; every connection is
// served on its own goroutine.
type DispatchHook interface {
	OnDispatchStart(ctx context.Context, info DispatchInfo) (context.Context, HookToken)
	OnDispatchEnd(ctx context.Context, token HookToken, info DispatchInfo, stats *CallStatistics, err error)
}

// HookToken is an opaque value returned by OnDispatchStart and passed back to
// OnDispatchEnd. Only meaningful to the DispatchHook that created it.
type HookToken interface{}

// DispatchInfo carries request metadata passed to hooks.
type DispatchInfo struct {
	Path              string            // request path without query
	Pattern           string            // matched pattern; empty at start and when unmatched
	RequestID         string            // server-generated request identifier
	TransportMetadata map[string]string // request headers (lowercased names) plus remote_addr
}

// CallStatistics describes how a dispatch ended.
type CallStatistics struct {
	Outcome     Outcome
	Status      int
	Params      int   // number of bound arguments
	OutputBytes int64 // response body size
}

// MultiHook fans out to several hooks. Start callbacks run in order and end
// callbacks in reverse order; each hook sees the context its own start
// returned.
type MultiHook []DispatchHook

type multiToken struct {
	ctxs   []context.Context
	tokens []HookToken
}

func (m MultiHook) OnDispatchStart(ctx context.Context, info DispatchInfo) (context.Context, HookToken) {
	mt := &multiToken{
		ctxs:   make([]context.Context, len(m)),
		tokens: make([]HookToken, len(m)),
	}
	for i, h := range m {
		hctx, tok := h.OnDispatchStart(ctx, info)
		if hctx != nil {
			ctx = hctx
		}
		mt.ctxs[i] = ctx
		mt.tokens[i] = tok
	}
	return ctx, mt
}

func (m MultiHook) OnDispatchEnd(ctx context.Context, token HookToken, info DispatchInfo, stats *CallStatistics, err error) {
	mt, ok := token.(*multiToken)
	if !ok {
		return
	}
	for i := len(m) - 1; i >= 0; i-- {
		m[i].OnDispatchEnd(mt.ctxs[i], mt.tokens[i], info, stats, err)
	}
}
