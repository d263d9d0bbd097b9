// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import "strings"

// Visitor has one method per Value variant. Value.Accept calls exactly one of
// them; the visitor decides whether to descend into children by calling
// Accept on them in turn.
type Visitor interface {
	VisitNull(Null)
	VisitBool(Bool)
	VisitNumber(Number)
	VisitString(String)
	VisitArray(Array)
	VisitObject(Object)
}

// KeyValidator reports whether every object key in a tree is non-blank and
// unique across the whole tree. Keys are remembered for the lifetime of the
// validator: reusing one across independent trees without calling Reset
// mixes their keys.
//
// A blank or repeated key marks the tree invalid and the validator does not
// descend into that property's value. Sibling properties are still checked.
type KeyValidator struct {
	valid bool
	seen  map[string]struct{}
}

// NewKeyValidator returns a validator with an empty key set.
func NewKeyValidator() *KeyValidator {
	return &KeyValidator{valid: true, seen: make(map[string]struct{})}
}

// Valid reports whether no violation has been seen so far.
func (kv *KeyValidator) Valid() bool { return kv.valid }

// Reset clears the key set and the result.
func (kv *KeyValidator) Reset() {
	kv.valid = true
	clear(kv.seen)
}

func (kv *KeyValidator) VisitObject(o Object) {
	for key, v := range o.All() {
		if _, dup := kv.seen[key]; dup || strings.TrimSpace(key) == "" {
			kv.valid = false
			continue
		}
		kv.seen[key] = struct{}{}
		v.Accept(kv)
	}
}

func (kv *KeyValidator) VisitArray(a Array) {
	for _, e := range a.All() {
		e.Accept(kv)
	}
}

func (kv *KeyValidator) VisitNull(Null)     {}
func (kv *KeyValidator) VisitBool(Bool)     {}
func (kv *KeyValidator) VisitNumber(Number) {}
func (kv *KeyValidator) VisitString(String) {}

// ArrayHomogeneityValidator reports whether every array in a tree holds
// elements of a single kind, ignoring nulls.
//
// The check is shallow: an array's own elements are compared by kind only,
// and the validator does not look inside them. Arrays nested directly in
// arrays are therefore not checked, while arrays reached through object
// properties are.
type ArrayHomogeneityValidator struct {
	valid bool
}

// NewArrayHomogeneityValidator returns a validator in the valid state.
func NewArrayHomogeneityValidator() *ArrayHomogeneityValidator {
	return &ArrayHomogeneityValidator{valid: true}
}

// Valid reports whether no mixed array has been seen so far.
func (av *ArrayHomogeneityValidator) Valid() bool { return av.valid }

func (av *ArrayHomogeneityValidator) VisitArray(a Array) {
	first := KindNull
	for _, e := range a.All() {
		k := e.Kind()
		if k == KindNull {
			continue
		}
		if first == KindNull {
			first = k
		} else if k != first {
			av.valid = false
			return
		}
	}
}

func (av *ArrayHomogeneityValidator) VisitObject(o Object) {
	for _, v := range o.All() {
		v.Accept(av)
	}
}

func (av *ArrayHomogeneityValidator) VisitNull(Null)     {}
func (av *ArrayHomogeneityValidator) VisitBool(Bool)     {}
func (av *ArrayHomogeneityValidator) VisitNumber(Number) {}
func (av *ArrayHomogeneityValidator) VisitString(String) {}

// HasUniqueKeys runs a fresh KeyValidator over v.
func HasUniqueKeys(v Value) bool {
	kv := NewKeyValidator()
	orNull(v).Accept(kv)
	return kv.Valid()
}

// HasHomogeneousArrays runs a fresh ArrayHomogeneityValidator over v.
func HasHomogeneousArrays(v Value) bool {
	av := NewArrayHomogeneityValidator()
	orNull(v).Accept(av)
	return av.Valid()
}

var (
	_ Visitor = (*KeyValidator)(nil)
	_ Visitor = (*ArrayHomogeneityValidator)(nil)
)
