// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"context"
	"fmt"
	"reflect"
)

// InvokeFunc runs an endpoint with arguments bound in ParamSpec order. The
// result is converted with jsonvalue.Build.
type InvokeFunc func(ctx context.Context, call *CallContext, args []any) (any, error)

// Endpoint pairs a route pattern with its parameters and the function that
// serves it.
type Endpoint struct {
	Pattern string
	Params  []ParamSpec
	Invoke  InvokeFunc
}

// Controller supplies a group of endpoints to a server.
type Controller interface {
	Endpoints() []Endpoint
}

// EndpointSet is a Controller over a fixed slice of endpoints.
type EndpointSet []Endpoint

func (s EndpointSet) Endpoints() []Endpoint { return s }

// Handle builds an endpoint from explicit parameter specs.
func Handle(pattern string, params []ParamSpec, invoke InvokeFunc) Endpoint {
	return Endpoint{Pattern: pattern, Params: params, Invoke: invoke}
}

// Get builds an endpoint whose parameters are the fields of P, declared
// with `getjson` struct tags. R is the handler's result type.
//
// Get panics if P is not a struct or its tags are invalid.
func Get[P any, R any](pattern string, handler func(context.Context, *CallContext, P) (R, error)) Endpoint {
	var p P
	paramsType := reflect.TypeOf(p)
	if paramsType == nil {
		panic(fmt.Sprintf("getjson: registering %q: params type must be a struct", pattern))
	}
	specs, fields, err := structParams(paramsType)
	if err != nil {
		panic(fmt.Sprintf("getjson: registering %q: invalid params type %T: %v", pattern, p, err))
	}
	invoke := func(ctx context.Context, call *CallContext, args []any) (any, error) {
		params := reflect.New(paramsType).Elem()
		for i, arg := range args {
			setField(params.Field(fields[i]), arg)
		}
		return handler(ctx, call, params.Interface().(P))
	}
	return Endpoint{Pattern: pattern, Params: specs, Invoke: invoke}
}

// Static builds an endpoint with no parameters that always returns v.
func Static[R any](pattern string, v R) Endpoint {
	return Endpoint{
		Pattern: pattern,
		Invoke: func(context.Context, *CallContext, []any) (any, error) {
			return v, nil
		},
	}
}
