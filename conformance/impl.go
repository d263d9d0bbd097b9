// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Query-farm/getjson/getjson"
	"github.com/Query-farm/getjson/jsonvalue"
)

// --- Parameter structs for each endpoint ---

type EchoStringParams struct {
	Value string `getjson:"value"`
}
type EchoIntParams struct {
	Value int64 `getjson:"value"`
}
type EchoInt32Params struct {
	Value int32 `getjson:"value"`
}
type EchoFloatParams struct {
	Value float64 `getjson:"value"`
}
type EchoFloat32Params struct {
	Value float32 `getjson:"value"`
}
type EchoBoolParams struct {
	Value bool `getjson:"value"`
}
type EchoOptionalStringParams struct {
	Value *string `getjson:"value,optional"`
}
type EchoOptionalIntParams struct {
	Value *int64 `getjson:"value,optional"`
}
type EchoPathParams struct {
	Value string `getjson:"value,path"`
}
type EchoEnumParams struct {
	Status string `getjson:"status,path"`
}
type PostParams struct {
	User string `getjson:"user,path"`
	Post int64  `getjson:"post,path"`
}
type RepeatParams struct {
	Value string `getjson:"value"`
	Times int32  `getjson:"times"`
}
type PointParams struct {
	X float64 `getjson:"x"`
	Y float64 `getjson:"y"`
}
type AddFloatsParams struct {
	A float64 `getjson:"a"`
	B float64 `getjson:"b"`
}
type ConcatenateParams struct {
	Prefix    string  `getjson:"prefix"`
	Suffix    string  `getjson:"suffix"`
	Separator *string `getjson:"separator,optional"`
}
type WithDefaultsParams struct {
	Required    int64   `getjson:"required"`
	OptionalStr *string `getjson:"optional_str,optional"`
	OptionalInt *int64  `getjson:"optional_int,optional"`
}
type RaiseErrorParams struct {
	Message string `getjson:"message"`
}
type EchoWithLogParams struct {
	Value string `getjson:"value"`
}
type ColumnsParams struct {
	Count int64 `getjson:"count"`
}

// Controller is the conformance fixture controller.
type Controller struct{}

// Register adds the conformance endpoints to server.
func Register(server *getjson.Server) {
	server.Register(Controller{})
}

// Endpoints implements getjson.Controller.
func (Controller) Endpoints() []getjson.Endpoint {
	return []getjson.Endpoint{
		// Scalar echo
		getjson.Get("/echo/string", echoString),
		getjson.Get("/echo/int", echoInt),
		getjson.Get("/echo/int32", echoInt32),
		getjson.Get("/echo/float", echoFloat),
		getjson.Get("/echo/float32", echoFloat32),
		getjson.Get("/echo/bool", echoBool),

		// Optional/nullable
		getjson.Get("/echo/optional_string", echoOptionalString),
		getjson.Get("/echo/optional_int", echoOptionalInt),

		// Path variables
		getjson.Get("/echo/path/{value}", echoPath),
		getjson.Get("/echo/enum/{status}", echoEnum),
		getjson.Get("/users/{user}/posts/{post}", userPost),

		// Collections and structs
		getjson.Get("/repeat", repeat),
		getjson.Static("/dict", map[string]int64{"b": 2, "a": 1, "c": 3}),
		getjson.Static("/nested_list", [][]int64{{1, 2}, {}, {3}}),
		getjson.Get("/point", point),
		getjson.Static("/bounding_box", BoundingBox{
			TopLeft:     Point{X: 0, Y: 10},
			BottomRight: Point{X: 10, Y: 0},
			Label:       "box",
		}),
		getjson.Static("/all_types", SampleAllTypes()),
		getjson.Get("/columns", columns),
		getjson.Handle("/value", nil, rawValue),

		// Multi-param & optional defaults
		getjson.Get("/add_floats", addFloats),
		getjson.Get("/concatenate", concatenate),
		getjson.Get("/with_defaults", withDefaults),

		// Logging through the call context
		getjson.Get("/echo/with_log", echoWithLog),

		// Failures
		getjson.Get("/raise_error", raiseError),
		getjson.Handle("/panic", nil, panicking),
		getjson.Handle("/not_a_number", nil, notANumber),
		getjson.Handle("/unsupported_result", nil, unsupportedResult),
	}
}

// SampleAllTypes returns the value served at /all_types.
func SampleAllTypes() AllTypes {
	present := "present"
	return AllTypes{
		StrField:         "hello",
		IntField:         42,
		FloatField:       3.5,
		BoolField:        true,
		ListOfInt:        []int64{1, 2, 3},
		ListOfStr:        []string{"a", "b"},
		DictField:        map[string]int64{"b": 2, "a": 1},
		EnumField:        StatusActive,
		NestedPoint:      Point{X: 1, Y: 2},
		OptionalStr:      &present,
		ListOfNested:     []Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
		AnnotatedInt32:   -7,
		AnnotatedFloat32: 0.25,
		NestedList:       [][]int64{{1}, {2, 3}},
		DictStrStr:       map[string]string{"k": "v"},
		Internal:         "never serialized",
	}
}

// --- Scalar echo ---

func echoString(_ context.Context, _ *getjson.CallContext, p EchoStringParams) (string, error) {
	return p.Value, nil
}
func echoInt(_ context.Context, _ *getjson.CallContext, p EchoIntParams) (int64, error) {
	return p.Value, nil
}
func echoInt32(_ context.Context, _ *getjson.CallContext, p EchoInt32Params) (int32, error) {
	return p.Value, nil
}
func echoFloat(_ context.Context, _ *getjson.CallContext, p EchoFloatParams) (float64, error) {
	return p.Value, nil
}
func echoFloat32(_ context.Context, _ *getjson.CallContext, p EchoFloat32Params) (float32, error) {
	return p.Value, nil
}
func echoBool(_ context.Context, _ *getjson.CallContext, p EchoBoolParams) (bool, error) {
	return p.Value, nil
}

// --- Optional/nullable ---

func echoOptionalString(_ context.Context, _ *getjson.CallContext, p EchoOptionalStringParams) (*string, error) {
	return p.Value, nil
}
func echoOptionalInt(_ context.Context, _ *getjson.CallContext, p EchoOptionalIntParams) (*int64, error) {
	return p.Value, nil
}

// --- Path variables ---

func echoPath(_ context.Context, _ *getjson.CallContext, p EchoPathParams) (string, error) {
	return p.Value, nil
}
func echoEnum(_ context.Context, _ *getjson.CallContext, p EchoEnumParams) (Status, error) {
	return ParseStatus(p.Status)
}
func userPost(_ context.Context, call *getjson.CallContext, p PostParams) (map[string]any, error) {
	return map[string]any{"user": p.User, "post": p.Post, "pattern": call.Pattern}, nil
}

// --- Collections and structs ---

func repeat(_ context.Context, _ *getjson.CallContext, p RepeatParams) ([]string, error) {
	if p.Times < 0 {
		return nil, fmt.Errorf("times must be non-negative, got %d", p.Times)
	}
	out := make([]string, p.Times)
	for i := range out {
		out[i] = p.Value
	}
	return out, nil
}
func point(_ context.Context, _ *getjson.CallContext, p PointParams) (Point, error) {
	return Point{X: p.X, Y: p.Y}, nil
}
func columns(_ context.Context, _ *getjson.CallContext, p ColumnsParams) (Counter, error) {
	return Counter{Count: p.Count}, nil
}

// rawValue returns a hand-built value whose arrays mix kinds.
func rawValue(context.Context, *getjson.CallContext, []any) (any, error) {
	return jsonvalue.NewObject(
		jsonvalue.Prop("mixed", jsonvalue.NewArray(jsonvalue.Int(1), jsonvalue.String("two"), jsonvalue.Null{})),
		jsonvalue.Prop("quote", jsonvalue.String(`say "hi"`)),
	), nil
}

// --- Multi-param & optional defaults ---

func addFloats(_ context.Context, _ *getjson.CallContext, p AddFloatsParams) (float64, error) {
	return p.A + p.B, nil
}
func concatenate(_ context.Context, _ *getjson.CallContext, p ConcatenateParams) (string, error) {
	sep := "-"
	if p.Separator != nil {
		sep = *p.Separator
	}
	return p.Prefix + sep + p.Suffix, nil
}
func withDefaults(_ context.Context, _ *getjson.CallContext, p WithDefaultsParams) (string, error) {
	optStr := "default"
	if p.OptionalStr != nil {
		optStr = *p.OptionalStr
	}
	optInt := int64(42)
	if p.OptionalInt != nil {
		optInt = *p.OptionalInt
	}
	return fmt.Sprintf("required=%d, optional_str=%s, optional_int=%d", p.Required, optStr, optInt), nil
}

// --- Logging ---

func echoWithLog(_ context.Context, call *getjson.CallContext, p EchoWithLogParams) (string, error) {
	call.Logger.Info("echo with log", "value", p.Value)
	return p.Value, nil
}

// --- Failures ---

func raiseError(_ context.Context, _ *getjson.CallContext, p RaiseErrorParams) (string, error) {
	return "", errors.New(p.Message)
}
func panicking(context.Context, *getjson.CallContext, []any) (any, error) {
	panic("conformance panic")
}
func notANumber(context.Context, *getjson.CallContext, []any) (any, error) {
	return math.Inf(1), nil
}
func unsupportedResult(context.Context, *getjson.CallContext, []any) (any, error) {
	return func() {}, nil
}
