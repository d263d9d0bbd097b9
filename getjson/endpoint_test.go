// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupParams struct {
	Key   string `getjson:"key,path"`
	Limit *int32 `getjson:"limit,optional"`
}

func TestGetDerivesParams(t *testing.T) {
	ep := Get("/items/{key}", func(_ context.Context, _ *CallContext, p lookupParams) ([]string, error) {
		out := []string{p.Key}
		if p.Limit != nil {
			out = append(out, "limited")
		}
		return out, nil
	})
	assert.Equal(t, "/items/{key}", ep.Pattern)
	assert.Equal(t, []ParamSpec{
		PathParam("key", TypeString),
		OptionalQueryParam("limit", TypeInt32),
	}, ep.Params)

	out, err := ep.Invoke(context.Background(), &CallContext{}, []any{"k", nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, out)

	out, err = ep.Invoke(context.Background(), &CallContext{}, []any{"k", int32(3)})
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "limited"}, out)
}

func TestGetPanicsOnInvalidParams(t *testing.T) {
	assert.PanicsWithValue(t,
		`getjson: registering "/x": params type must be a struct`,
		func() {
			Get("/x", func(context.Context, *CallContext, any) (int, error) { return 0, nil })
		})

	assert.Panics(t, func() {
		Get("/x", func(context.Context, *CallContext, int) (int, error) { return 0, nil })
	})

	assert.Panics(t, func() {
		Get("/x", func(context.Context, *CallContext, struct {
			N int `getjson:"n,optional"`
		}) (int, error) {
			return 0, nil
		})
	})
}

func TestStatic(t *testing.T) {
	ep := Static("/version", map[string]string{"version": "1.0"})
	assert.Empty(t, ep.Params)
	out, err := ep.Invoke(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"version": "1.0"}, out)
}

func TestHandleAndEndpointSet(t *testing.T) {
	specs := []ParamSpec{QueryParam("q", TypeString)}
	ep := Handle("/search", specs, func(_ context.Context, _ *CallContext, args []any) (any, error) {
		return args[0], nil
	})
	set := EndpointSet{ep}
	require.Len(t, set.Endpoints(), 1)
	assert.Equal(t, specs, set.Endpoints()[0].Params)

	out, err := ep.Invoke(context.Background(), nil, []any{"needle"})
	require.NoError(t, err)
	assert.Equal(t, "needle", out)
}
