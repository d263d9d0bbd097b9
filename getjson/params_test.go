// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		typ  ParamType
		text string
		want any
	}{
		{TypeString, "hello world", "hello world"},
		{TypeString, "", ""},
		{TypeInt32, "-12", int32(-12)},
		{TypeInt64, "9000000000", int64(9000000000)},
		{TypeFloat32, "0.5", float32(0.5)},
		{TypeFloat64, "1e3", float64(1000)},
		{TypeBool, "true", true},
		{TypeBool, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.text, func(t *testing.T) {
			got, err := tt.typ.Coerce(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceMalformed(t *testing.T) {
	for _, tc := range []struct {
		typ  ParamType
		text string
	}{
		{TypeInt32, "3000000000"},
		{TypeInt64, "1.5"},
		{TypeInt64, ""},
		{TypeFloat64, "abc"},
		{TypeBool, "yes"},
	} {
		_, err := tc.typ.Coerce(tc.text)
		assert.Error(t, err, "%s %q", tc.typ, tc.text)
	}

	_, err := UnsupportedType("[]string").Coerce("x")
	assert.Error(t, err)
}

func TestBindArgs(t *testing.T) {
	specs := []ParamSpec{
		PathParam("id", TypeInt64),
		QueryParam("name", TypeString),
		OptionalQueryParam("limit", TypeInt32),
		OptionalQueryParam("verbose", TypeBool),
	}
	args, err := bindArgs(specs,
		map[string]string{"id": "42"},
		map[string]string{"name": "widget", "verbose": "true"})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(42), "widget", nil, true}, args)
}

func TestBindArgsFailures(t *testing.T) {
	tests := []struct {
		name   string
		specs  []ParamSpec
		vars   map[string]string
		query  map[string]string
		reason BindingReason
		param  string
	}{
		{
			name:   "path variable not in pattern",
			specs:  []ParamSpec{PathParam("key", TypeString)},
			vars:   map[string]string{"id": "1"},
			reason: ReasonMissingPathVariable,
			param:  "key",
		},
		{
			name:   "missing required query",
			specs:  []ParamSpec{QueryParam("q", TypeString)},
			query:  map[string]string{"other": "x"},
			reason: ReasonMissingParameter,
			param:  "q",
		},
		{
			name:   "unsupported type",
			specs:  []ParamSpec{QueryParam("tags", UnsupportedType("[]string"))},
			query:  map[string]string{"tags": "a,b"},
			reason: ReasonUnsupportedType,
			param:  "tags",
		},
		{
			name:   "malformed value",
			specs:  []ParamSpec{QueryParam("n", TypeInt64)},
			query:  map[string]string{"n": "ten"},
			reason: ReasonMalformedValue,
			param:  "n",
		},
		{
			name:   "malformed path value",
			specs:  []ParamSpec{PathParam("id", TypeInt32)},
			vars:   map[string]string{"id": "abc"},
			reason: ReasonMalformedValue,
			param:  "id",
		},
		{
			name: "first failure wins",
			specs: []ParamSpec{
				QueryParam("a", TypeInt64),
				QueryParam("b", TypeInt64),
			},
			query:  map[string]string{"a": "x"},
			reason: ReasonMalformedValue,
			param:  "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bindArgs(tt.specs, tt.vars, tt.query)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBinding))

			var bindErr *BindingError
			require.ErrorAs(t, err, &bindErr)
			assert.Equal(t, tt.reason, bindErr.Reason)
			assert.Equal(t, tt.param, bindErr.Param)
		})
	}
}

func TestBindArgsUnsupportedOptionalAbsent(t *testing.T) {
	args, err := bindArgs(
		[]ParamSpec{OptionalQueryParam("tags", UnsupportedType("[]string"))},
		nil, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, args)
}

func TestMalformedValueWrapsParseError(t *testing.T) {
	_, err := bindArgs([]ParamSpec{QueryParam("n", TypeInt64)}, nil, map[string]string{"n": "x"})
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.EqualError(t, err, `BindingError: malformed parameter value: n: strconv.ParseInt: parsing "x": invalid syntax`)
}

type tagged struct {
	ID       int64    `getjson:"id,path"`
	Query    string   `getjson:"q"`
	Limit    *int32   `getjson:"limit,query,optional"`
	Ratio    *float32 `getjson:",optional"`
	PageSize int
	Skipped  string `getjson:"-"`
	Tags     []string
	internal string
}

func TestStructParams(t *testing.T) {
	specs, fields, err := structParams(reflect.TypeOf(tagged{}))
	require.NoError(t, err)
	assert.Equal(t, []ParamSpec{
		{Name: "id", Source: FromPath, Required: true, Type: TypeInt64},
		{Name: "q", Source: FromQuery, Required: true, Type: TypeString},
		{Name: "limit", Source: FromQuery, Required: false, Type: TypeInt32},
		{Name: "ratio", Source: FromQuery, Required: false, Type: TypeFloat32},
		{Name: "pageSize", Source: FromQuery, Required: true, Type: TypeInt64},
		{Name: "tags", Source: FromQuery, Required: true, Type: UnsupportedType("[]string")},
	}, specs)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 6}, fields)
}

func TestStructParamsErrors(t *testing.T) {
	_, _, err := structParams(reflect.TypeOf(struct {
		N int `getjson:"n,optional"`
	}{}))
	assert.ErrorContains(t, err, "must be pointers")

	_, _, err = structParams(reflect.TypeOf(struct {
		N *int `getjson:"n,path,optional"`
	}{}))
	assert.ErrorContains(t, err, "cannot be optional")

	_, _, err = structParams(reflect.TypeOf(struct {
		N int `getjson:"n,header"`
	}{}))
	assert.ErrorContains(t, err, "unknown tag option")

	_, _, err = structParams(reflect.TypeOf(0))
	assert.ErrorContains(t, err, "expected struct")
}

type level int

func TestSetField(t *testing.T) {
	var dst struct {
		N   int
		L   level
		P   *int32
		Nil *string
	}
	rv := reflect.ValueOf(&dst).Elem()
	setField(rv.Field(0), int64(7))
	setField(rv.Field(1), int64(2))
	setField(rv.Field(2), int32(5))
	setField(rv.Field(3), nil)

	assert.Equal(t, 7, dst.N)
	assert.Equal(t, level(2), dst.L)
	require.NotNil(t, dst.P)
	assert.Equal(t, int32(5), *dst.P)
	assert.Nil(t, dst.Nil)
}

func TestDefaultParamName(t *testing.T) {
	assert.Equal(t, "pageSize", defaultParamName("PageSize"))
	assert.Equal(t, "id", defaultParamName("Id"))
	assert.Equal(t, "éclair", defaultParamName("Éclair"))
}
