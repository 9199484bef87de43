package registry

import (
	"fmt"
	"strings"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/location"
)

// rawGroup is one loaded group plus which registry it came from, keyed by
// gid in a global map spanning every loaded registry.
type rawGroup struct {
	group       semconv.Group
	registryURL string
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// Resolve flattens extends chains and materializes attribute lists across
// every group in registries, returning the merged, fully resolved group
// set. It never returns a nil Resolved. Every group is kept in the output,
// including one whose extends parent or refs could not be resolved: its
// attribute list then holds only what did resolve, and each failure is
// reported through collector.
func Resolve(registries []*semconv.Registry, collector *diag.Collector) *Resolved {
	raw := make(map[string]*rawGroup)
	order := make([]string, 0)

	for _, reg := range registries {
		seenThisRegistry := make(map[string]bool)
		for _, g := range reg.Groups {
			if g.ID == "" {
				continue
			}
			if seenThisRegistry[g.ID] {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_DUPLICATE_GROUP_ID,
					fmt.Sprintf("duplicate group id %q within registry %s", g.ID, reg.URL)).
					WithSpan(g.Span).
					WithDetails(diag.GidDetail(g.ID)...).
					Build())
				continue
			}
			seenThisRegistry[g.ID] = true

			if prior, existed := raw[g.ID]; !existed {
				order = append(order, g.ID)
			} else {
				collector.Collect(diag.NewIssue(diag.Warning, diag.E_DUPLICATE_GROUP_ID,
					fmt.Sprintf("group id %q redefined by registry %s, later load wins", g.ID, reg.URL)).
					WithSpan(g.Span).
					WithDetails(diag.GidDetail(g.ID)...).
					WithRelated(location.RelatedInfo{Span: prior.group.Span, Message: location.MsgPreviousDefinition}).
					Build())
			}
			raw[g.ID] = &rawGroup{group: g, registryURL: reg.URL}
		}
	}

	r := &resolver{
		raw:   raw,
		state: make(map[string]visitState),
		memo:  make(map[string][]semconv.AttributeDecl),
		stack: make([]string, 0, 16),
		coll:  collector,
	}

	out := &Resolved{groups: make(map[string]*Group, len(order)), order: order}
	for _, gid := range order {
		out.groups[gid] = r.materialize(gid)
	}
	return out
}

type resolver struct {
	raw   map[string]*rawGroup
	state map[string]visitState
	memo  map[string][]semconv.AttributeDecl
	stack []string
	coll  *diag.Collector
}

// materialize builds the fully resolved Group for gid, including nested
// events for span groups. It is safe to call multiple times; the
// attribute-list computation is memoized via effectiveAttributes.
func (r *resolver) materialize(gid string) *Group {
	rg := r.raw[gid]
	g := rg.group

	out := &Group{
		ID:          g.ID,
		Kind:        g.Kind,
		MetricName:  g.MetricName,
		Instrument:  g.Instrument,
		Unit:        g.Unit,
		Name:        g.Name,
		Brief:       g.Brief,
		Note:        g.Note,
		RegistryURL: rg.registryURL,
		Span:        g.Span,
	}
	out.Attributes = r.effectiveAttributes(gid)
	for _, ev := range g.Events {
		out.Events = append(out.Events, Event{
			Name:       ev.Name,
			Attributes: r.resolveAttributeList(ev.Attributes, rg.registryURL, ""),
			Span:       ev.Span,
		})
	}
	return out
}

// effectiveAttributes returns gid's fully materialized attribute list:
// the parent's effective list (if extends is set) concatenated with the
// group's own resolved declarations, with same-id entries in the child
// replacing the parent's entry in place.
func (r *resolver) effectiveAttributes(gid string) []semconv.AttributeDecl {
	if cached, ok := r.memo[gid]; ok {
		return cached
	}

	rg, ok := r.raw[gid]
	if !ok {
		return nil
	}

	if r.state[gid] == visiting {
		collectExtendsCycle(r.coll, r.stack, gid, r.raw)
		return nil
	}
	if r.state[gid] == visited {
		return r.memo[gid]
	}

	r.state[gid] = visiting
	r.stack = append(r.stack, gid)
	defer func() {
		r.state[gid] = visited
		r.stack = r.stack[:len(r.stack)-1]
	}()

	own := r.resolveAttributeList(rg.group.Attributes, rg.registryURL, rg.group.Prefix)

	var combined []semconv.AttributeDecl
	if rg.group.Extends != "" {
		if _, exists := r.raw[rg.group.Extends]; !exists {
			r.coll.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_EXTENDS,
				fmt.Sprintf("group %q extends unknown group %q", gid, rg.group.Extends)).
				WithSpan(rg.group.Span).
				WithDetails(diag.GidDetail(gid)...).
				Build())
		} else {
			parentAttrs := r.effectiveAttributes(rg.group.Extends)
			combined = append(combined, parentAttrs...)
		}
	}

	combined = mergeChildOverParent(combined, own)

	r.memo[gid] = combined
	return combined
}

// mergeChildOverParent appends child attributes to parent, replacing any
// parent entry that shares an id with a child entry, preserving the
// parent's position for replaced entries and appending new ones at the end.
func mergeChildOverParent(parent, child []semconv.AttributeDecl) []semconv.AttributeDecl {
	if len(parent) == 0 {
		return append([]semconv.AttributeDecl(nil), child...)
	}
	index := make(map[string]int, len(parent))
	out := append([]semconv.AttributeDecl(nil), parent...)
	for i, a := range out {
		if a.ID != "" {
			index[a.ID] = i
		}
	}
	for _, c := range child {
		if c.ID != "" {
			if i, exists := index[c.ID]; exists {
				out[i] = c
				continue
			}
		}
		out = append(out, c)
		if c.ID != "" {
			index[c.ID] = len(out) - 1
		}
	}
	return out
}

// resolveAttributeList resolves every ref in list to its full definition
// and applies prefix to inline declarations whose id is not already
// prefixed. ownerRegistryURL is used to break ties when a ref matches
// attribute definitions in more than one attribute_group.
func (r *resolver) resolveAttributeList(list []semconv.AttributeDecl, ownerRegistryURL, prefix string) []semconv.AttributeDecl {
	out := make([]semconv.AttributeDecl, 0, len(list))
	for _, a := range list {
		if a.Ref != "" {
			resolved, ok := r.resolveRef(a.Ref, ownerRegistryURL)
			if !ok {
				r.coll.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_ATTRIBUTE_REF,
					fmt.Sprintf("unresolved attribute reference %q", a.Ref)).
					WithSpan(a.Span).
					WithDetail(diag.DetailKeyAttributeID, a.Ref).
					Build())
				continue
			}
			out = append(out, applyOverrides(resolved, a))
			continue
		}

		inline := a
		if prefix != "" && inline.ID != "" && !strings.HasPrefix(inline.ID, prefix+".") {
			inline.ID = prefix + "." + inline.ID
		}
		out = append(out, inline)
	}
	return out
}

// resolveRef searches every attribute_group group's effective attribute
// list for id, preferring a match owned by ownerRegistryURL when more than
// one group defines it. Groups whose own resolution is still in progress
// (on the current DFS stack) are skipped, so a ref never reads as an
// extends cycle.
func (r *resolver) resolveRef(id, ownerRegistryURL string) (semconv.AttributeDecl, bool) {
	var fallback *semconv.AttributeDecl
	for _, gid := range sortedKeys(r.raw) {
		rg := r.raw[gid]
		if rg.group.Kind != semconv.KindAttributeGroup {
			continue
		}
		if r.state[gid] == visiting {
			continue
		}
		attrs := r.effectiveAttributes(gid)
		for _, a := range attrs {
			if a.ID != id {
				continue
			}
			found := a
			if rg.registryURL == ownerRegistryURL {
				return found, true
			}
			if fallback == nil {
				fallback = &found
			}
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return semconv.AttributeDecl{}, false
}

// applyOverrides copies def and applies use's per-use override fields on
// top, field by field, leaving unlisted fields untouched.
func applyOverrides(def, use semconv.AttributeDecl) semconv.AttributeDecl {
	out := def
	out.Span = use.Span
	if use.OverriddenBrief {
		out.Brief = use.Brief
		out.OverriddenBrief = true
	}
	if use.OverriddenNote {
		out.Note = use.Note
		out.OverriddenNote = true
	}
	if use.OverriddenExamples {
		out.Examples = use.Examples
		out.OverriddenExamples = true
	}
	if use.OverriddenRequirementLevel {
		out.RequirementLevel = use.RequirementLevel
		out.OverriddenRequirementLevel = true
	}
	if use.OverriddenTag {
		out.Tag = use.Tag
		out.OverriddenTag = true
	}
	if use.OverriddenTags {
		out.Tags = use.Tags
		out.OverriddenTags = true
	}
	if use.OverriddenValue {
		out.Value = use.Value
		out.HasValue = true
		out.OverriddenValue = true
	}
	return out
}

// collectExtendsCycle reports an extends cycle starting at the point where
// gid reappears in the current DFS stack.
func collectExtendsCycle(collector *diag.Collector, stack []string, gid string, raw map[string]*rawGroup) {
	idx := -1
	for i, s := range stack {
		if s == gid {
			idx = i
			break
		}
	}
	var path []string
	if idx >= 0 {
		path = append(path, stack[idx:]...)
	} else {
		path = append(path, stack...)
	}
	path = append(path, gid)

	var span location.Span
	if rg, ok := raw[gid]; ok {
		span = rg.group.Span
	}

	issue := diag.NewIssue(diag.Fatal, diag.E_EXTENDS_CYCLE,
		fmt.Sprintf("extends cycle detected: %s", strings.Join(path, " -> "))).
		WithSpan(span).
		WithDetail(diag.DetailKeyChain, strings.Join(path, ","))

	// Point at each intermediate link in the cycle so the chain can be
	// navigated from the diagnostic, not just read off its message string.
	for _, link := range path[:len(path)-1] {
		if rg, ok := raw[link]; ok {
			issue = issue.WithRelated(location.RelatedInfo{Span: rg.group.Span, Message: location.MsgExtendsFrom})
		}
	}

	collector.Collect(issue.Build())
}

func sortedKeys(m map[string]*rawGroup) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Stable, deterministic ordering independent of map iteration order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
