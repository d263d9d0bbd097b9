// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package jsonvalue implements a small immutable JSON document model.
//
// # Variants
//
// A [Value] is exactly one of six variants: [Null], [Bool], [Number],
// [String], [Array] and [Object]. The set is closed: the [Value] interface
// carries an unexported method, so no other package can add variants, and
// every algorithm over a tree handles all six.
//
// Values are never mutated after construction. [Array.Filter],
// [Array.Map] and [Object.Filter] return new values, which makes trees safe
// to share between goroutines without locking.
//
// # Serialization
//
// [Value.Serialize] renders compact JSON text with no whitespace. Strings
// escape embedded double quotes and nothing else; control characters are
// passed through verbatim. A [Number] holding NaN or an infinity fails to
// serialize with a [*NumberError].
//
// # Visitors
//
// [Visitor] has one method per variant and [Value.Accept] dispatches to
// exactly one of them. Visitors decide whether and how to descend into
// children, so different algorithms can walk the same tree differently.
// [KeyValidator] and [ArrayHomogeneityValidator] are the two built-in
// visitors.
//
// # Building
//
// [Build] converts arbitrary Go data (primitives, enum-like named types,
// slices, string-keyed maps, structs, Arrow records) into a [Value]. Types
// can take over their own conversion by implementing [Valuer].
package jsonvalue
