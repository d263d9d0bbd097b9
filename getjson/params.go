// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParamSource says where a parameter's text comes from.
type ParamSource int

const (
	// FromQuery reads a query-string value.
	FromQuery ParamSource = iota
	// FromPath reads a bound path variable.
	FromPath
)

func (s ParamSource) String() string {
	if s == FromPath {
		return "path"
	}
	return "query"
}

// ParamType is the declared type a parameter's text is coerced to.
type ParamType struct {
	kind paramKind
	name string
}

type paramKind int

const (
	kindUnsupported paramKind = iota
	kindString
	kindInt32
	kindInt64
	kindFloat32
	kindFloat64
	kindBool
)

// Supported parameter types.
var (
	TypeString  = ParamType{kind: kindString, name: "string"}
	TypeInt32   = ParamType{kind: kindInt32, name: "int32"}
	TypeInt64   = ParamType{kind: kindInt64, name: "int64"}
	TypeFloat32 = ParamType{kind: kindFloat32, name: "float32"}
	TypeFloat64 = ParamType{kind: kindFloat64, name: "float64"}
	TypeBool    = ParamType{kind: kindBool, name: "bool"}
)

// UnsupportedType returns a ParamType that fails to bind any supplied value.
// name is reported in describe output.
func UnsupportedType(name string) ParamType {
	return ParamType{kind: kindUnsupported, name: name}
}

func (t ParamType) String() string { return t.name }

// Supported reports whether values can be coerced to t.
func (t ParamType) Supported() bool { return t.kind != kindUnsupported }

// Coerce converts request text to the type's Go value: string, int32,
// int64, float32, float64 or bool.
func (t ParamType) Coerce(text string) (any, error) {
	switch t.kind {
	case kindString:
		return text, nil
	case kindInt32:
		v, err := strconv.ParseInt(text, 10, 32)
		return int32(v), err
	case kindInt64:
		return strconv.ParseInt(text, 10, 64)
	case kindFloat32:
		v, err := strconv.ParseFloat(text, 32)
		return float32(v), err
	case kindFloat64:
		return strconv.ParseFloat(text, 64)
	case kindBool:
		return strconv.ParseBool(text)
	default:
		return nil, fmt.Errorf("no coercion to %s", t.name)
	}
}

// ParamSpec describes one endpoint parameter.
type ParamSpec struct {
	Name     string
	Source   ParamSource
	Required bool // always true for path parameters
	Type     ParamType
}

// PathParam declares a parameter bound from the path variable name.
func PathParam(name string, t ParamType) ParamSpec {
	return ParamSpec{Name: name, Source: FromPath, Required: true, Type: t}
}

// QueryParam declares a required query parameter.
func QueryParam(name string, t ParamType) ParamSpec {
	return ParamSpec{Name: name, Source: FromQuery, Required: true, Type: t}
}

// OptionalQueryParam declares a query parameter that binds to nil when
// absent.
func OptionalQueryParam(name string, t ParamType) ParamSpec {
	return ParamSpec{Name: name, Source: FromQuery, Type: t}
}

// bindArgs produces one argument per spec, in declaration order. Absent
// optional parameters bind to nil. The first failure is returned.
func bindArgs(specs []ParamSpec, vars, query map[string]string) ([]any, error) {
	args := make([]any, len(specs))
	for i, spec := range specs {
		var (
			text string
			ok   bool
		)
		if spec.Source == FromPath {
			text, ok = vars[spec.Name]
			if !ok {
				return nil, &BindingError{Reason: ReasonMissingPathVariable, Param: spec.Name}
			}
		} else {
			text, ok = query[spec.Name]
			if !ok {
				if spec.Required {
					return nil, &BindingError{Reason: ReasonMissingParameter, Param: spec.Name}
				}
				continue
			}
		}
		if !spec.Type.Supported() {
			return nil, &BindingError{Reason: ReasonUnsupportedType, Param: spec.Name,
				Err: fmt.Errorf("declared type %s", spec.Type)}
		}
		v, err := spec.Type.Coerce(text)
		if err != nil {
			return nil, &BindingError{Reason: ReasonMalformedValue, Param: spec.Name, Err: err}
		}
		args[i] = v
	}
	return args, nil
}

// tagInfo holds parsed information from a `getjson` struct tag.
type tagInfo struct {
	Name     string
	Source   ParamSource
	Optional bool
	Skip     bool
}

// parseTag parses a getjson struct tag like "id,path" or "q,query,optional".
func parseTag(tag string) (tagInfo, error) {
	if tag == "-" {
		return tagInfo{Skip: true}, nil
	}
	parts := strings.Split(tag, ",")
	info := tagInfo{Name: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		switch strings.TrimSpace(part) {
		case "path":
			info.Source = FromPath
		case "query":
			info.Source = FromQuery
		case "optional":
			info.Optional = true
		case "":
		default:
			return tagInfo{}, fmt.Errorf("unknown tag option %q", part)
		}
	}
	return info, nil
}

// defaultParamName lowers the first rune of a Go field name.
func defaultParamName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	return string(unicode.ToLower(r)) + field[size:]
}

// goTypeToParamType maps a field type to the parameter type it coerces to.
// Pointers are dereferenced.
func goTypeToParamType(t reflect.Type) ParamType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Int32:
		return TypeInt32
	case reflect.Int64, reflect.Int:
		return TypeInt64
	case reflect.Float32:
		return TypeFloat32
	case reflect.Float64:
		return TypeFloat64
	case reflect.Bool:
		return TypeBool
	default:
		return UnsupportedType(t.String())
	}
}

// structParams derives parameter specs from a struct type using getjson
// tags. fields holds the struct field index for each returned spec.
func structParams(t reflect.Type) (specs []ParamSpec, fields []int, err error) {
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("expected struct type, got %v", t)
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		info, err := parseTag(f.Tag.Get("getjson"))
		if err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if info.Skip {
			continue
		}
		if info.Name == "" {
			info.Name = defaultParamName(f.Name)
		}
		if info.Optional {
			if info.Source == FromPath {
				return nil, nil, fmt.Errorf("field %s: path parameters cannot be optional", f.Name)
			}
			if f.Type.Kind() != reflect.Pointer {
				return nil, nil, fmt.Errorf("field %s: optional parameters must be pointers, got %v", f.Name, f.Type)
			}
		}
		specs = append(specs, ParamSpec{
			Name:     info.Name,
			Source:   info.Source,
			Required: !info.Optional,
			Type:     goTypeToParamType(f.Type),
		})
		fields = append(fields, i)
	}
	return specs, fields, nil
}

// setField stores a bound argument into a struct field, converting to the
// field's named type and allocating for pointer fields. nil leaves the
// field at its zero value.
func setField(field reflect.Value, arg any) {
	if arg == nil {
		return
	}
	v := reflect.ValueOf(arg)
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(v.Convert(field.Type().Elem()))
		field.Set(ptr)
		return
	}
	field.Set(v.Convert(field.Type()))
}
