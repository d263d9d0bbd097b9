// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package getjson

import (
	"fmt"
	"strings"
)

// Segment is one path component of a route pattern.
type Segment struct {
	// Text is the segment as written, braces included for variables.
	Text string
	// Name is the variable name, empty for literal segments.
	Name string
}

// IsVariable reports whether the segment binds a path variable.
func (s Segment) IsVariable() bool { return s.Name != "" }

// Pattern is a parsed route pattern.
type Pattern struct {
	segments []Segment
}

// ParsePattern splits text on "/" dropping empty segments. A segment of the
// form "{name}" is a variable; "{}" and names repeated within one pattern
// are rejected.
func ParsePattern(text string) (Pattern, error) {
	parts := splitPath(text)
	segs := make([]Segment, len(parts))
	seen := make(map[string]bool)
	for i, p := range parts {
		segs[i] = Segment{Text: p}
		if !strings.HasPrefix(p, "{") || !strings.HasSuffix(p, "}") || len(p) < 2 {
			continue
		}
		name := p[1 : len(p)-1]
		if name == "" {
			return Pattern{}, fmt.Errorf("empty variable name in segment %d of %q", i, text)
		}
		if seen[name] {
			return Pattern{}, fmt.Errorf("variable %q appears twice in %q", name, text)
		}
		seen[name] = true
		segs[i].Name = name
	}
	return Pattern{segments: segs}, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(text string) Pattern {
	p, err := ParsePattern(text)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the normalized pattern, always with a leading "/".
func (p Pattern) String() string {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(s.Text)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Segments returns a copy of the pattern's segments.
func (p Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// HasVariable reports whether the pattern declares a variable called name.
func (p Pattern) HasVariable(name string) bool {
	for _, s := range p.segments {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Match binds path against the pattern. Segment counts must be equal and
// literal segments must match exactly; variables capture the raw text of
// their segment.
func (p Pattern) Match(path []string) (map[string]string, bool) {
	if len(path) != len(p.segments) {
		return nil, false
	}
	var vars map[string]string
	for i, s := range p.segments {
		if !s.IsVariable() {
			if s.Text != path[i] {
				return nil, false
			}
			continue
		}
		if vars == nil {
			vars = make(map[string]string)
		}
		vars[s.Name] = path[i]
	}
	return vars, true
}

// splitPath splits on "/" dropping empty segments.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Route is one registered pattern with its endpoint.
type Route struct {
	Pattern    Pattern
	Endpoint   Endpoint
	Controller string // type name of the owning controller
}

// RouteTable is an ordered set of routes. It is filled before serving
// starts and read concurrently without locking afterwards.
type RouteTable struct {
	routes []Route
	index  map[string]int
}

// NewRouteTable returns an empty table.
func NewRouteTable() *RouteTable {
	return &RouteTable{index: make(map[string]int)}
}

// Add registers a route. A route whose pattern text equals an existing one
// replaces it and keeps the existing position.
func (t *RouteTable) Add(r Route) {
	key := r.Pattern.String()
	if i, ok := t.index[key]; ok {
		t.routes[i] = r
		return
	}
	t.index[key] = len(t.routes)
	t.routes = append(t.routes, r)
}

// Lookup returns the first route in registration order whose pattern
// matches path, with the bound path variables.
func (t *RouteTable) Lookup(path string) (*Route, map[string]string, bool) {
	segs := splitPath(path)
	for i := range t.routes {
		if vars, ok := t.routes[i].Pattern.Match(segs); ok {
			return &t.routes[i], vars, true
		}
	}
	return nil, nil, false
}

// Len returns the number of routes.
func (t *RouteTable) Len() int { return len(t.routes) }

// Routes returns a copy of the routes in registration order.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
