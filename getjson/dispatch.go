// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"

	"github.com/Query-farm/getjson/jsonvalue"
	"github.com/google/uuid"
)

// Outcome is the final state of one dispatch.
type Outcome int

const (
	// OutcomeUnmatched means no route matched the path.
	OutcomeUnmatched Outcome = iota
	// OutcomeBindingFailed means a route matched but its parameters could
	// not be bound.
	OutcomeBindingFailed
	// OutcomeInvocationFailed means the endpoint returned an error or
	// panicked, or its result could not be built or serialized.
	OutcomeInvocationFailed
	// OutcomeSerialized means the result was serialized to a response body.
	OutcomeSerialized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeBindingFailed:
		return "binding_failed"
	case OutcomeInvocationFailed:
		return "invocation_failed"
	case OutcomeSerialized:
		return "serialized"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is what a dispatch produced. Status and Body are final.
type Result struct {
	Outcome Outcome
	Status  int
	Body    []byte
	Pattern string
	Err     error
}

// Dispatcher runs match, bind, invoke, build and serialize for one request.
// It holds no per-request state and is safe for concurrent use once
// configured.
type Dispatcher struct {
	routes       *RouteTable
	logger       *slog.Logger
	hook         DispatchHook
	debugErrors  bool
	describePath string
}

// NewDispatcher returns a dispatcher over routes. A nil logger means
// slog.Default().
func NewDispatcher(routes *RouteTable, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{routes: routes, logger: logger}
}

// Dispatch serves req. The returned Result is always complete; Dispatch
// never panics because of an endpoint.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) Result {
	info := DispatchInfo{
		Path:              req.Path,
		RequestID:         uuid.NewString(),
		TransportMetadata: transportMetadata(req),
	}

	var (
		hookToken  HookToken
		hookActive bool
	)
	if d.hook != nil {
		func() {
			defer func() {
				if rv := recover(); rv != nil {
					d.logger.Error("dispatch hook start panic", "err", rv)
				}
			}()
			hookCtx, token := d.hook.OnDispatchStart(ctx, info)
			if hookCtx != nil {
				ctx = hookCtx
			}
			hookToken = token
			hookActive = true
		}()
	}

	res, params := d.dispatch(ctx, req, info.RequestID)
	info.Pattern = res.Pattern

	logger := d.logger.With("request_id", info.RequestID, "path", req.Path)
	switch res.Outcome {
	case OutcomeUnmatched:
		logger.Debug("no route matched")
	case OutcomeSerialized:
		logger.Debug("dispatched", "pattern", res.Pattern, "bytes", len(res.Body))
	default:
		logger.Error("dispatch failed",
			append([]any{"pattern", res.Pattern, "outcome", res.Outcome.String()},
				errorAttrs(res.Err, d.debugErrors)...)...)
	}

	if hookActive {
		func() {
			defer func() {
				if rv := recover(); rv != nil {
					d.logger.Error("dispatch hook end panic", "err", rv)
				}
			}()
			stats := &CallStatistics{
				Outcome:     res.Outcome,
				Status:      res.Status,
				Params:      params,
				OutputBytes: int64(len(res.Body)),
			}
			d.hook.OnDispatchEnd(ctx, hookToken, info, stats, res.Err)
		}()
	}
	return res
}

// dispatch returns the result and the number of bound arguments.
func (d *Dispatcher) dispatch(ctx context.Context, req *Request, requestID string) (Result, int) {
	if d.describePath != "" && slices.Equal(splitPath(req.Path), splitPath(d.describePath)) {
		v, err := DescribeRoutes(d.routes)
		if err != nil {
			return Result{Outcome: OutcomeInvocationFailed, Status: 500, Pattern: d.describePath, Err: err}, 0
		}
		return d.serialize(d.describePath, v), 0
	}

	route, vars, ok := d.routes.Lookup(req.Path)
	if !ok {
		return Result{Outcome: OutcomeUnmatched, Status: 404}, 0
	}
	pattern := route.Pattern.String()

	args, err := bindArgs(route.Endpoint.Params, vars, req.Query)
	if err != nil {
		return Result{Outcome: OutcomeBindingFailed, Status: 500, Pattern: pattern, Err: err}, 0
	}

	call := &CallContext{
		Ctx:        ctx,
		RequestID:  requestID,
		Pattern:    pattern,
		Path:       req.Path,
		RemoteAddr: req.RemoteAddr,
		Logger:     d.logger.With("request_id", requestID, "pattern", pattern),
	}
	out, err := invoke(ctx, route.Endpoint.Invoke, call, args)
	if err != nil {
		return Result{Outcome: OutcomeInvocationFailed, Status: 500, Pattern: pattern, Err: err}, len(args)
	}

	v, err := jsonvalue.Build(out)
	if err != nil {
		return Result{Outcome: OutcomeInvocationFailed, Status: 500, Pattern: pattern,
			Err: fmt.Errorf("building result: %w", err)}, len(args)
	}
	return d.serialize(pattern, v), len(args)
}

func (d *Dispatcher) serialize(pattern string, v jsonvalue.Value) Result {
	body, err := jsonvalue.AppendJSON(nil, v)
	if err != nil {
		return Result{Outcome: OutcomeInvocationFailed, Status: 500, Pattern: pattern,
			Err: fmt.Errorf("serializing result: %w", err)}
	}
	return Result{Outcome: OutcomeSerialized, Status: 200, Body: body, Pattern: pattern}
}

// invoke calls fn, converting a panic into a *PanicError.
func invoke(ctx context.Context, fn InvokeFunc, call *CallContext, args []any) (out any, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			out, err = nil, &PanicError{Value: rv, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, call, args)
}

func transportMetadata(req *Request) map[string]string {
	md := make(map[string]string, len(req.Header)+2)
	for k, v := range req.Header {
		md[k] = v
	}
	if ua, ok := req.Header["user-agent"]; ok {
		md[MetaUserAgent] = ua
	}
	if req.RemoteAddr != "" {
		md[MetaRemoteAddr] = req.RemoteAddr
	}
	return md
}
