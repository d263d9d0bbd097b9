// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package conformance provides the route fixture used by the getjson
// conformance suite. It registers endpoints that exercise every part of the
// dispatch path: path variables, required and optional query parameters of
// each supported type, struct and map results, enums, Arrow record results,
// and each failure outcome.
//
// The only entry point intended for external use is [Register], which adds
// the fixture controller to a [getjson.Server]. The result types [Status],
// [Point], [BoundingBox], [AllTypes] and [Counter] are exported because they
// serve as examples of values the builder converts.
package conformance
