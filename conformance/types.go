// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"fmt"

	"github.com/Query-farm/getjson/jsonvalue"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Status is an int-backed enum serialized by name.
type Status int

const (
	StatusPending Status = iota
	StatusActive
	StatusClosed
)

var statusNames = [...]string{"PENDING", "ACTIVE", "CLOSED"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus returns the Status named s.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Point is a simple 2D point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox contains two nested Points and a label.
type BoundingBox struct {
	TopLeft     Point  `json:"top_left"`
	BottomRight Point  `json:"bottom_right"`
	Label       string `json:"label"`
}

// AllTypes demonstrates comprehensive result type coverage.
type AllTypes struct {
	StrField         string            `json:"str_field"`
	IntField         int64             `json:"int_field"`
	FloatField       float64           `json:"float_field"`
	BoolField        bool              `json:"bool_field"`
	ListOfInt        []int64           `json:"list_of_int"`
	ListOfStr        []string          `json:"list_of_str"`
	DictField        map[string]int64  `json:"dict_field"`
	EnumField        Status            `json:"enum_field"`
	NestedPoint      Point             `json:"nested_point"`
	OptionalStr      *string           `json:"optional_str"`
	OptionalInt      *int64            `json:"optional_int"`
	OptionalNested   *Point            `json:"optional_nested"`
	ListOfNested     []Point           `json:"list_of_nested"`
	AnnotatedInt32   int32             `json:"annotated_int32"`
	AnnotatedFloat32 float32           `json:"annotated_float32"`
	NestedList       [][]int64         `json:"nested_list"`
	DictStrStr       map[string]string `json:"dict_str_str"`
	Internal         string            `json:"-"`
}

// CounterSchema is the schema of the record built by Counter.
var CounterSchema = arrow.NewSchema([]arrow.Field{
	{Name: "index", Type: arrow.PrimitiveTypes.Int64},
	{Name: "value", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// Counter converts to a record of Count rows {index, value}, one object per
// row.
type Counter struct {
	Count int64
}

// ToValue implements jsonvalue.Valuer.
func (c Counter) ToValue() (jsonvalue.Value, error) {
	if c.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", c.Count)
	}
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, CounterSchema)
	defer b.Release()

	indexBuilder := b.Field(0).(*array.Int64Builder)
	valueBuilder := b.Field(1).(*array.Int64Builder)
	for i := range c.Count {
		indexBuilder.Append(i)
		valueBuilder.Append(i * 10)
	}
	rec := b.NewRecord()
	defer rec.Release()
	return jsonvalue.RecordValue(rec)
}
