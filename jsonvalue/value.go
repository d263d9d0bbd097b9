// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value is.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable JSON document node. The set of implementations is
// closed: Null, Bool, Number, String, Array and Object.
type Value interface {
	// Kind reports the variant.
	Kind() Kind
	// Serialize renders the value as compact JSON text.
	Serialize() (string, error)
	// Accept calls the visitor method matching the variant, exactly once.
	Accept(v Visitor)

	appendJSON(dst []byte) ([]byte, error)
}

// Serialize renders v as compact JSON text. A nil v renders as null.
func Serialize(v Value) (string, error) {
	if v == nil {
		return "null", nil
	}
	return v.Serialize()
}

// AppendJSON appends the compact JSON text of v to dst.
func AppendJSON(dst []byte, v Value) ([]byte, error) {
	if v == nil {
		return append(dst, "null"...), nil
	}
	return v.appendJSON(dst)
}

func serialize(v Value) (string, error) {
	b, err := v.appendJSON(nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// orNull maps a nil interface to Null so that trees never hold nil nodes.
func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

// --- Null ---

// Null is the JSON null literal. All Null values are equal.
type Null struct{}

func (Null) Kind() Kind                   { return KindNull }
func (n Null) Serialize() (string, error) { return "null", nil }
func (n Null) Accept(v Visitor)           { v.VisitNull(n) }

func (Null) appendJSON(dst []byte) ([]byte, error) {
	return append(dst, "null"...), nil
}

// --- Bool ---

// Bool is a JSON boolean.
type Bool bool

func (Bool) Kind() Kind                   { return KindBool }
func (b Bool) Serialize() (string, error) { return serialize(b) }
func (b Bool) Accept(v Visitor)           { v.VisitBool(b) }

func (b Bool) appendJSON(dst []byte) ([]byte, error) {
	return strconv.AppendBool(dst, bool(b)), nil
}

// --- String ---

// String is JSON text. Serialization escapes embedded double quotes only.
type String string

func (String) Kind() Kind                   { return KindString }
func (s String) Serialize() (string, error) { return serialize(s) }
func (s String) Accept(v Visitor)           { v.VisitString(s) }

func (s String) appendJSON(dst []byte) ([]byte, error) {
	return appendQuoted(dst, string(s)), nil
}

func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for {
		i := strings.IndexByte(s, '"')
		if i < 0 {
			break
		}
		dst = append(dst, s[:i]...)
		dst = append(dst, '\\', '"')
		s = s[i+1:]
	}
	dst = append(dst, s...)
	return append(dst, '"')
}

// --- Number ---

type numberForm uint8

const (
	formInt numberForm = iota
	formUint
	formFloat
)

// Number is a JSON number. It holds a signed integer, an unsigned integer
// or a floating-point value. Non-finite floats are accepted at construction
// and rejected by Serialize.
type Number struct {
	form numberForm
	bits int // 32 or 64, floats only
	i    int64
	u    uint64
	f    float64
}

// Int returns a Number holding a signed integer.
func Int(n int64) Number { return Number{form: formInt, i: n} }

// Uint returns a Number holding an unsigned integer.
func Uint(n uint64) Number { return Number{form: formUint, u: n} }

// Float returns a Number holding a double-precision float.
func Float(f float64) Number { return Number{form: formFloat, bits: 64, f: f} }

// Float32 returns a Number holding a single-precision float. It renders with
// the shortest text that round-trips at 32 bits.
func Float32(f float32) Number { return Number{form: formFloat, bits: 32, f: float64(f)} }

func (Number) Kind() Kind                   { return KindNumber }
func (n Number) Serialize() (string, error) { return serialize(n) }
func (n Number) Accept(v Visitor)           { v.VisitNumber(n) }

// IsInteger reports whether the number was constructed from an integer.
func (n Number) IsInteger() bool { return n.form != formFloat }

// Float64 returns the value converted to float64.
func (n Number) Float64() float64 {
	switch n.form {
	case formInt:
		return float64(n.i)
	case formUint:
		return float64(n.u)
	default:
		return n.f
	}
}

// Int64 returns the integer payload. ok is false for floats and for
// unsigned values that overflow int64.
func (n Number) Int64() (v int64, ok bool) {
	switch n.form {
	case formInt:
		return n.i, true
	case formUint:
		if n.u > math.MaxInt64 {
			return 0, false
		}
		return int64(n.u), true
	default:
		return 0, false
	}
}

func (n Number) appendJSON(dst []byte) ([]byte, error) {
	switch n.form {
	case formInt:
		return strconv.AppendInt(dst, n.i, 10), nil
	case formUint:
		return strconv.AppendUint(dst, n.u, 10), nil
	}
	f := n.f
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dst, &NumberError{Value: f}
	}
	// Same cut-over as encoding/json: plain decimal in [1e-6, 1e21),
	// exponent form outside it.
	format := byte('f')
	if abs := math.Abs(f); abs != 0 {
		if n.bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			n.bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, n.bits)
	if format == 'e' {
		// clean up e-09 to e-9
		k := len(dst)
		if k >= 4 && dst[k-4] == 'e' && dst[k-3] == '-' && dst[k-2] == '0' {
			dst[k-2] = dst[k-1]
			dst = dst[:k-1]
		}
	}
	return dst, nil
}

// --- Array ---

// Array is an ordered sequence of values.
type Array struct {
	elems []Value
}

// NewArray returns an Array holding a copy of elems. nil elements become Null.
func NewArray(elems ...Value) Array {
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = orNull(e)
	}
	return Array{elems: out}
}

func (Array) Kind() Kind                   { return KindArray }
func (a Array) Serialize() (string, error) { return serialize(a) }
func (a Array) Accept(v Visitor)           { v.VisitArray(a) }

// Len returns the number of elements.
func (a Array) Len() int { return len(a.elems) }

// At returns the i'th element.
func (a Array) At(i int) Value { return a.elems[i] }

// Elements returns a copy of the elements.
func (a Array) Elements() []Value {
	out := make([]Value, len(a.elems))
	copy(out, a.elems)
	return out
}

// All iterates over index/element pairs in order.
func (a Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, e := range a.elems {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Filter returns a new Array with the elements for which keep returns true.
func (a Array) Filter(keep func(Value) bool) Array {
	out := make([]Value, 0, len(a.elems))
	for _, e := range a.elems {
		if keep(e) {
			out = append(out, e)
		}
	}
	return Array{elems: out}
}

// Map returns a new Array with fn applied to every element.
func (a Array) Map(fn func(Value) Value) Array {
	out := make([]Value, len(a.elems))
	for i, e := range a.elems {
		out[i] = orNull(fn(e))
	}
	return Array{elems: out}
}

func (a Array) appendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '[')
	for i, e := range a.elems {
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		if dst, err = e.appendJSON(dst); err != nil {
			return dst, err
		}
	}
	return append(dst, ']'), nil
}

// --- Object ---

// Property is one key/value pair of an Object.
type Property struct {
	Key   string
	Value Value
}

// Prop is shorthand for Property{Key: key, Value: v}.
func Prop(key string, v Value) Property {
	return Property{Key: key, Value: v}
}

// Object maps unique string keys to values. Insertion order is kept for
// serialization but does not take part in equality.
type Object struct {
	props []Property
	index map[string]int
}

// NewObject returns an Object holding props. When a key repeats, the later
// value replaces the earlier one and keeps the earlier position. nil values
// become Null.
func NewObject(props ...Property) Object {
	o := Object{
		props: make([]Property, 0, len(props)),
		index: make(map[string]int, len(props)),
	}
	for _, p := range props {
		p.Value = orNull(p.Value)
		if i, ok := o.index[p.Key]; ok {
			o.props[i].Value = p.Value
			continue
		}
		o.index[p.Key] = len(o.props)
		o.props = append(o.props, p)
	}
	return o
}

func (Object) Kind() Kind                   { return KindObject }
func (o Object) Serialize() (string, error) { return serialize(o) }
func (o Object) Accept(v Visitor)           { v.VisitObject(o) }

// Len returns the number of properties.
func (o Object) Len() int { return len(o.props) }

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.props[i].Value, true
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o.props))
	for i, p := range o.props {
		keys[i] = p.Key
	}
	return keys
}

// Properties returns a copy of the properties in insertion order.
func (o Object) Properties() []Property {
	out := make([]Property, len(o.props))
	copy(out, o.props)
	return out
}

// All iterates over key/value pairs in insertion order.
func (o Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, p := range o.props {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Filter returns a new Object with the properties for which keep returns true.
func (o Object) Filter(keep func(key string, v Value) bool) Object {
	kept := make([]Property, 0, len(o.props))
	for _, p := range o.props {
		if keep(p.Key, p.Value) {
			kept = append(kept, p)
		}
	}
	return NewObject(kept...)
}

func (o Object) appendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	for i, p := range o.props {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendQuoted(dst, p.Key)
		dst = append(dst, ':')
		var err error
		if dst, err = p.Value.appendJSON(dst); err != nil {
			return dst, err
		}
	}
	return append(dst, '}'), nil
}

// --- Equality ---

// Equal reports whether a and b are structurally equal: same variant and
// recursively equal payloads. Object property order is ignored. A nil Value
// equals Null.
func Equal(a, b Value) bool {
	a, b = orNull(a), orNull(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case String:
		return x == b.(String)
	case Number:
		return x == b.(Number)
	case Array:
		y := b.(Array)
		if len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case Object:
		y := b.(Object)
		if len(x.props) != len(y.props) {
			return false
		}
		for _, p := range x.props {
			other, ok := y.Get(p.Key)
			if !ok || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
