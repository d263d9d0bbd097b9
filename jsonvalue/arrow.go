// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// RecordValue converts a record batch into an Array with one Object per row.
// Object keys are the schema field names in schema order.
func RecordValue(rec arrow.Record) (Value, error) {
	schema := rec.Schema()
	rows := make([]Value, rec.NumRows())
	for r := range int(rec.NumRows()) {
		props := make([]Property, 0, rec.NumCols())
		for c := range int(rec.NumCols()) {
			v, err := arrowElem(rec.Column(c), r)
			if err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", schema.Field(c).Name, r, err)
			}
			props = append(props, Property{Key: schema.Field(c).Name, Value: v})
		}
		rows[r] = NewObject(props...)
	}
	return Array{elems: rows}, nil
}

// ArrayValue converts an Arrow array into an Array of its elements.
func ArrayValue(arr arrow.Array) (Value, error) {
	return arrowSlice(arr, 0, arr.Len())
}

func arrowSlice(arr arrow.Array, start, end int) (Value, error) {
	elems := make([]Value, 0, end-start)
	for i := start; i < end; i++ {
		v, err := arrowElem(arr, i)
		if err != nil {
			return nil, fmt.Errorf("element [%d]: %w", i-start, err)
		}
		elems = append(elems, v)
	}
	return Array{elems: elems}, nil
}

// arrowElem converts the element at idx of col.
func arrowElem(col arrow.Array, idx int) (Value, error) {
	if col.IsNull(idx) {
		return Null{}, nil
	}
	switch c := col.(type) {
	case *array.Null:
		return Null{}, nil
	case *array.Boolean:
		return Bool(c.Value(idx)), nil
	case *array.Int8:
		return Int(int64(c.Value(idx))), nil
	case *array.Int16:
		return Int(int64(c.Value(idx))), nil
	case *array.Int32:
		return Int(int64(c.Value(idx))), nil
	case *array.Int64:
		return Int(c.Value(idx)), nil
	case *array.Uint8:
		return Uint(uint64(c.Value(idx))), nil
	case *array.Uint16:
		return Uint(uint64(c.Value(idx))), nil
	case *array.Uint32:
		return Uint(uint64(c.Value(idx))), nil
	case *array.Uint64:
		return Uint(c.Value(idx)), nil
	case *array.Float32:
		return Float32(c.Value(idx)), nil
	case *array.Float64:
		return Float(c.Value(idx)), nil
	case *array.String:
		return String(c.Value(idx)), nil
	case *array.LargeString:
		return String(c.Value(idx)), nil
	case *array.List:
		start, end := c.ValueOffsets(idx)
		return arrowSlice(c.ListValues(), int(start), int(end))
	case *array.Map:
		return arrowMap(c, idx)
	case *array.Struct:
		st := c.DataType().(*arrow.StructType)
		props := make([]Property, 0, st.NumFields())
		for i := range st.NumFields() {
			v, err := arrowElem(c.Field(i), idx)
			if err != nil {
				return nil, fmt.Errorf("struct field %s: %w", st.Field(i).Name, err)
			}
			props = append(props, Property{Key: st.Field(i).Name, Value: v})
		}
		return NewObject(props...), nil
	case *array.Dictionary:
		return arrowElem(c.Dictionary(), c.GetValueIndex(idx))
	default:
		return nil, &TypeError{Type: col.DataType().String(), Message: "unsupported Arrow type"}
	}
}

// arrowMap converts one map entry list into an Object. Keys must be strings.
func arrowMap(m *array.Map, idx int) (Value, error) {
	keys, ok := m.Keys().(*array.String)
	if !ok {
		return nil, &TypeError{Type: m.DataType().String(), Message: "map keys must be strings"}
	}
	start, end := m.ValueOffsets(idx)
	props := make([]Property, 0, end-start)
	for j := int(start); j < int(end); j++ {
		v, err := arrowElem(m.Items(), j)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", keys.Value(j), err)
		}
		props = append(props, Property{Key: keys.Value(j), Value: v})
	}
	return NewObject(props...), nil
}
