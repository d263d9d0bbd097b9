// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Valuer is implemented by types that convert themselves to a Value. Build
// prefers it over reflection.
type Valuer interface {
	ToValue() (Value, error)
}

var (
	valueType         = reflect.TypeOf((*Value)(nil)).Elem()
	valuerType        = reflect.TypeOf((*Valuer)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	arrowRecordType   = reflect.TypeOf((*arrow.Record)(nil)).Elem()
	arrowArrayType    = reflect.TypeOf((*arrow.Array)(nil)).Elem()
)

// Build converts arbitrary Go data into a Value.
//
// Conversion rules, tried in order:
//   - nil and nil pointers, maps, slices and interfaces become Null
//   - a Value is returned unchanged; a Valuer converts itself
//   - an encoding.TextMarshaler becomes a String of its text
//   - an arrow.Record becomes an Array of row Objects, an arrow.Array an Array
//   - a named integer or string type implementing fmt.Stringer is treated as
//     an enumerated constant and becomes a String of its name
//   - integers and floats become Number, bool becomes Bool, string String
//   - slices and arrays become Array
//   - maps with string keys become Object with keys in sorted order; any
//     other key type fails with a *TypeError
//   - structs become Object of their exported fields in declaration order,
//     honoring a json tag name or "-"
//   - pointers and interfaces are followed
//
// Anything else fails with a *TypeError naming the Go type. Build does not
// guard against cycles.
func Build(x any) (Value, error) {
	if x == nil {
		return Null{}, nil
	}
	return build(reflect.ValueOf(x))
}

// MustBuild is like Build but panics on error. It is intended for literals in
// tests and fixtures.
func MustBuild(x any) Value {
	v, err := Build(x)
	if err != nil {
		panic(err)
	}
	return v
}

func build(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
	}

	t := rv.Type()
	if rv.CanInterface() {
		switch {
		case t.Implements(valueType):
			return rv.Interface().(Value), nil
		case t.Implements(valuerType):
			v, err := rv.Interface().(Valuer).ToValue()
			if err != nil {
				return nil, err
			}
			return orNull(v), nil
		case t.Implements(textMarshalerType):
			text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return nil, fmt.Errorf("marshaling %v as text: %w", t, err)
			}
			return String(text), nil
		case t.Implements(arrowRecordType):
			return RecordValue(rv.Interface().(arrow.Record))
		case t.Implements(arrowArrayType):
			return ArrayValue(rv.Interface().(arrow.Array))
		case isEnum(t):
			return String(rv.Interface().(fmt.Stringer).String()), nil
		}
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		return buildArray(rv)
	case reflect.Map:
		return buildObjectFromMap(rv)
	case reflect.Struct:
		return buildObjectFromStruct(rv)
	case reflect.Pointer, reflect.Interface:
		return build(rv.Elem())
	default:
		return nil, &TypeError{Type: t.String(), Message: "unsupported type"}
	}
}

// isEnum reports whether t looks like an enumerated constant: a named
// integer or string type with a String method.
func isEnum(t reflect.Type) bool {
	if t.Name() == "" || !t.Implements(stringerType) {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return true
	}
	return false
}

func buildArray(rv reflect.Value) (Value, error) {
	elems := make([]Value, rv.Len())
	for i := range rv.Len() {
		v, err := build(rv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("element [%d]: %w", i, err)
		}
		elems[i] = v
	}
	return Array{elems: elems}, nil
}

func buildObjectFromMap(rv reflect.Value) (Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, &TypeError{Type: rv.Type().String(), Message: "map keys must be strings"}
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	props := make([]Property, 0, len(keys))
	for _, k := range keys {
		v, err := build(rv.MapIndex(k))
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k.String(), err)
		}
		props = append(props, Property{Key: k.String(), Value: v})
	}
	return NewObject(props...), nil
}

func buildObjectFromStruct(rv reflect.Value) (Value, error) {
	t := rv.Type()
	props := make([]Property, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		v, err := build(rv.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		props = append(props, Property{Key: name, Value: v})
	}
	return NewObject(props...), nil
}
