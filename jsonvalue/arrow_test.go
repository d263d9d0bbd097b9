// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(t *testing.T) arrow.Record {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.Cleanup(func() { mem.AssertSize(t, 0) })

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float32},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"alpha", ""}, []bool{true, false})
	b.Field(2).(*array.Float32Builder).AppendValues([]float32{0.5, 1.25}, nil)

	lb := b.Field(3).(*array.ListBuilder)
	vb := lb.ValueBuilder().(*array.StringBuilder)
	lb.Append(true)
	vb.AppendValues([]string{"x", "y"}, nil)
	lb.Append(true)

	rec := b.NewRecord()
	t.Cleanup(rec.Release)
	return rec
}

func TestRecordValue(t *testing.T) {
	rec := newTestRecord(t)

	v, err := RecordValue(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"id":1,"name":"alpha","score":0.5,"tags":["x","y"]},{"id":2,"name":null,"score":1.25,"tags":[]}]`,
		mustSerialize(t, v))
	assert.True(t, HasHomogeneousArrays(v))
}

func TestBuildRecord(t *testing.T) {
	rec := newTestRecord(t)

	v, err := Build(rec)
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind())
	assert.Equal(t, 2, v.(Array).Len())
}

func TestArrayValue(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues([]int32{3, 0, 9}, []bool{true, false, true})
	arr := b.NewArray()
	defer arr.Release()

	v, err := Build(arr)
	require.NoError(t, err)
	assert.Equal(t, "[3,null,9]", mustSerialize(t, v))
}

func TestArrowUnsupportedType(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Append([]byte{0xff})
	arr := b.NewArray()
	defer arr.Release()

	_, err := ArrayValue(arr)
	assert.ErrorIs(t, err, ErrType)
}
