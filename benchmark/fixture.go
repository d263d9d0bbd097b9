// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package benchmark registers the endpoints used to measure dispatch cost.
package benchmark

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Query-farm/getjson/getjson"
)

// Parameter structs

type AddParams struct {
	A float64 `getjson:"a"`
	B float64 `getjson:"b"`
}

type GreetParams struct {
	Name string `getjson:"name,path"`
}

type RoundtripTypesParams struct {
	Color string `getjson:"color"`
	Tags  string `getjson:"tags"`
	Limit *int64 `getjson:"limit,optional"`
}

type GenerateParams struct {
	Count int64 `getjson:"count"`
}

// Row is one element of a generate result.
type Row struct {
	I     int64   `json:"i"`
	Value int64   `json:"value"`
	Label string  `json:"label"`
	Ratio float64 `json:"ratio"`
}

// maxGenerate bounds the rows a single request may ask for.
const maxGenerate = 100_000

// Controller is the benchmark fixture.
type Controller struct{}

// Register adds the benchmark endpoints to server.
func Register(server *getjson.Server) {
	server.Register(Controller{})
}

// Endpoints implements getjson.Controller.
func (Controller) Endpoints() []getjson.Endpoint {
	return []getjson.Endpoint{
		getjson.Static("/noop", true),
		getjson.Get("/add", add),
		getjson.Get("/greet/{name}", greet),
		getjson.Get("/roundtrip_types", roundtripTypes),
		getjson.Get("/generate", generate),
	}
}

// Handler implementations

func add(_ context.Context, _ *getjson.CallContext, p AddParams) (float64, error) {
	return p.A + p.B, nil
}

func greet(_ context.Context, _ *getjson.CallContext, p GreetParams) (string, error) {
	return "Hello, " + p.Name + "!", nil
}

// roundtripTypes sorts a comma-separated tag list, optionally truncated.
func roundtripTypes(_ context.Context, _ *getjson.CallContext, p RoundtripTypesParams) (map[string]any, error) {
	tags := strings.Split(p.Tags, ",")
	sort.Strings(tags)
	if p.Limit != nil && int(*p.Limit) < len(tags) {
		tags = tags[:max(*p.Limit, 0)]
	}
	return map[string]any{
		"color": strings.ToUpper(p.Color),
		"tags":  tags,
		"count": len(tags),
	}, nil
}

func generate(_ context.Context, _ *getjson.CallContext, p GenerateParams) ([]Row, error) {
	if p.Count < 0 || p.Count > maxGenerate {
		return nil, fmt.Errorf("count must be in [0, %d], got %d", maxGenerate, p.Count)
	}
	rows := make([]Row, p.Count)
	for i := range rows {
		n := int64(i)
		rows[i] = Row{I: n, Value: n * n, Label: fmt.Sprintf("row-%d", n), Ratio: float64(n) / 3}
	}
	return rows, nil
}
