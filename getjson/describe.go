// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"github.com/Query-farm/getjson/jsonvalue"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// describeParamType is the element type of the params column.
var describeParamType = arrow.StructOf(
	arrow.Field{Name: "name", Type: arrow.BinaryTypes.String},
	arrow.Field{Name: "source", Type: arrow.BinaryTypes.String},
	arrow.Field{Name: "type", Type: arrow.BinaryTypes.String},
	arrow.Field{Name: "required", Type: arrow.FixedWidthTypes.Boolean},
)

// describeSchema has one row per route, in registration order.
var describeSchema = arrow.NewSchema([]arrow.Field{
	{Name: "pattern", Type: arrow.BinaryTypes.String},
	{Name: "controller", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "params", Type: arrow.ListOf(describeParamType)},
}, nil)

// buildDescribeRecord builds the route listing as a record batch. The caller
// releases it.
func buildDescribeRecord(t *RouteTable) arrow.Record {
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, describeSchema)
	defer b.Release()

	patternBuilder := b.Field(0).(*array.StringBuilder)
	controllerBuilder := b.Field(1).(*array.StringBuilder)
	paramsBuilder := b.Field(2).(*array.ListBuilder)
	paramBuilder := paramsBuilder.ValueBuilder().(*array.StructBuilder)
	nameBuilder := paramBuilder.FieldBuilder(0).(*array.StringBuilder)
	sourceBuilder := paramBuilder.FieldBuilder(1).(*array.StringBuilder)
	typeBuilder := paramBuilder.FieldBuilder(2).(*array.StringBuilder)
	requiredBuilder := paramBuilder.FieldBuilder(3).(*array.BooleanBuilder)

	for _, r := range t.routes {
		patternBuilder.Append(r.Pattern.String())
		if r.Controller == "" {
			controllerBuilder.AppendNull()
		} else {
			controllerBuilder.Append(r.Controller)
		}

		paramsBuilder.Append(true)
		for _, p := range r.Endpoint.Params {
			paramBuilder.Append(true)
			nameBuilder.Append(p.Name)
			sourceBuilder.Append(p.Source.String())
			typeBuilder.Append(p.Type.String())
			requiredBuilder.Append(p.Required)
		}
	}
	return b.NewRecord()
}

// DescribeRoutes lists the routes of t as an Array of Objects with
// "pattern", "controller" and "params" keys.
func DescribeRoutes(t *RouteTable) (jsonvalue.Value, error) {
	rec := buildDescribeRecord(t)
	defer rec.Release()
	return jsonvalue.RecordValue(rec)
}
