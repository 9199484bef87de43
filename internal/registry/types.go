// Package registry implements the Registry Resolver: it takes one or more
// parsed semantic-convention registries and flattens `extends` chains and
// inline `ref:` attribute references into a fully materialized set of
// groups, keyed by a single global gid space.
//
// Grounded on the retrieval pack's schema/internal/complete package, which performs
// the analogous job (cross-schema inheritance flattening) for its own type
// system; the three-state DFS cycle detector here is adapted from its
// cross_cycle.go.
package registry

import (
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/location"
)

// Event is a materialized event nested in a span group.
type Event struct {
	Name       string
	Attributes []semconv.AttributeDecl
	Span       location.Span
}

// Group is a semantic-convention group with its extends chain flattened and
// its attribute list fully materialized: every entry is a complete
// definition (ref stubs resolved, inline ids prefixed), in declaration
// order with parent attributes first.
type Group struct {
	ID         string
	Kind       semconv.GroupKind
	MetricName string
	Instrument semconv.Instrument
	Unit       string
	Name       string
	Attributes []semconv.AttributeDecl
	Events     []Event
	Brief      string
	Note       string

	RegistryURL string
	Span        location.Span
}

// Resolved is the output of resolving a set of registries: every group,
// addressable by gid, plus the order gids were first encountered in so
// callers can iterate deterministically.
type Resolved struct {
	groups map[string]*Group
	order  []string
}

// Group looks up a materialized group by gid.
func (r *Resolved) Group(gid string) (*Group, bool) {
	g, ok := r.groups[gid]
	return g, ok
}

// Groups returns all materialized groups in first-encountered order.
func (r *Resolved) Groups() []*Group {
	out := make([]*Group, 0, len(r.order))
	for _, gid := range r.order {
		out = append(out, r.groups[gid])
	}
	return out
}

// GroupsByKind returns the materialized groups of the given kind, in
// first-encountered order.
func (r *Resolved) GroupsByKind(kind semconv.GroupKind) []*Group {
	var out []*Group
	for _, gid := range r.order {
		g := r.groups[gid]
		if g.Kind == kind {
			out = append(out, g)
		}
	}
	return out
}
