package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/registry"
	"github.com/f5/otel-weaver/internal/semconv"
)

// candidate is one attribute definition found while resolving a ref, paired
// with a human-readable source label for ambiguity reporting.
type candidate struct {
	attr   semconv.AttributeDecl
	source string
}

// refPool is the set of places a use-site `ref:`/`*_ref:` entry can be
// resolved against: this schema level's own loaded registries, and (for
// plain attribute refs only) the parent schema's already-materialized
// attribute pool.
type refPool struct {
	registries *registry.Resolved
	byID       map[string][]candidate
	parentByID map[string][]candidate
}

func newRefPool(resolved *registry.Resolved, parent *Materialized) *refPool {
	p := &refPool{
		registries: resolved,
		byID:       make(map[string][]candidate),
		parentByID: make(map[string][]candidate),
	}
	if resolved != nil {
		for _, g := range resolved.Groups() {
			for _, a := range g.Attributes {
				if a.ID == "" {
					continue
				}
				p.byID[a.ID] = append(p.byID[a.ID], candidate{attr: a, source: g.RegistryURL + "#" + g.ID})
			}
			for _, ev := range g.Events {
				for _, a := range ev.Attributes {
					if a.ID == "" {
						continue
					}
					p.byID[a.ID] = append(p.byID[a.ID], candidate{attr: a, source: g.RegistryURL + "#" + g.ID + "." + ev.Name})
				}
			}
		}
	}
	if parent != nil {
		addParent := func(source string, attrs []semconv.AttributeDecl) {
			for _, a := range attrs {
				if a.ID == "" {
					continue
				}
				if _, exists := p.parentByID[a.ID]; exists {
					continue
				}
				p.parentByID[a.ID] = []candidate{{attr: a, source: source}}
			}
		}
		addParent("parent:resource", parent.Resource)
		for _, m := range parent.Metrics {
			addParent("parent:metric:"+m.Name, m.Attributes)
		}
		for _, ev := range parent.Events {
			addParent("parent:event:"+ev.Name, ev.Attributes)
		}
		for _, s := range parent.Spans {
			addParent("parent:span:"+s.Name, s.Attributes)
		}
	}
	return p
}

// resolveRef finds the definition for a plain `ref: <id>` attribute,
// searching this level's loaded registries first and the parent schema's
// materialized attribute pool as a fallback when no local match exists.
func (p *refPool) resolveRef(id string) (semconv.AttributeDecl, []string, bool) {
	if cands, ok := p.byID[id]; ok && len(cands) > 0 {
		return cands[0].attr, candidateSources(cands), len(cands) > 1
	}
	if cands, ok := p.parentByID[id]; ok && len(cands) > 0 {
		return cands[0].attr, candidateSources(cands), len(cands) > 1
	}
	return semconv.AttributeDecl{}, nil, false
}

func candidateSources(cands []candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.source)
	}
	sort.Strings(out)
	return out
}

// resolveGroupRef finds the group named gid with the expected kind, used by
// attribute_group_ref/resource_ref/span_ref/event_ref.
func (p *refPool) resolveGroupRef(gid string, expected semconv.GroupKind) (*registry.Group, bool, bool) {
	if p.registries == nil {
		return nil, false, false
	}
	g, ok := p.registries.Group(gid)
	if !ok {
		return nil, false, false
	}
	return g, true, g.Kind == expected
}

// resolveAttributeList expands every ref/attribute_group_ref/resource_ref/
// span_ref/event_ref/inline entry in list against pool, then deduplicates
// by id: later duplicates are dropped, with their explicitly overridden
// fields merged onto the first occurrence.
func resolveAttributeList(list []semconv.AttributeDecl, pool *refPool, path string, collector *diag.Collector) []semconv.AttributeDecl {
	var out []semconv.AttributeDecl
	for _, a := range list {
		switch {
		case a.Ref != "":
			def, candidates, ambiguous := pool.resolveRef(a.Ref)
			if len(candidates) == 0 {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_ATTRIBUTE,
					fmt.Sprintf("unknown attribute reference %q", a.Ref)).
					WithSpan(a.Span).
					WithDetail(diag.DetailKeyAttributeID, a.Ref).
					Build())
				continue
			}
			if ambiguous {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_AMBIGUOUS_ATTRIBUTE,
					fmt.Sprintf("ambiguous attribute reference %q: %s", a.Ref, strings.Join(candidates, ", "))).
					WithSpan(a.Span).
					WithDetail(diag.DetailKeyAttributeID, a.Ref).
					WithDetail(diag.DetailKeyCandidates, strings.Join(candidates, ",")).
					Build())
			}
			out = append(out, applyOverrides(def, a))

		case a.AttributeGroupRef != "":
			out = append(out, spliceGroupRef(a, pool, semconv.KindAttributeGroup, a.AttributeGroupRef, path, collector)...)

		case a.ResourceRef != "":
			out = append(out, spliceGroupRef(a, pool, semconv.KindResource, a.ResourceRef, path, collector)...)

		case a.SpanRef != "":
			out = append(out, spliceGroupRef(a, pool, semconv.KindSpan, a.SpanRef, path, collector)...)

		case a.EventRef != "":
			out = append(out, spliceGroupRef(a, pool, semconv.KindEvent, a.EventRef, path, collector)...)

		default:
			out = append(out, a)
		}
	}
	return dedupeByID(out)
}

func spliceGroupRef(use semconv.AttributeDecl, pool *refPool, kind semconv.GroupKind, gid, path string, collector *diag.Collector) []semconv.AttributeDecl {
	g, found, kindMatches := pool.resolveGroupRef(gid, kind)
	if !found {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_GROUP_REF,
			fmt.Sprintf("unknown group reference %q", gid)).
			WithSpan(use.Span).
			WithDetails(diag.GidDetail(gid)...).
			Build())
		return nil
	}
	if !kindMatches {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_WRONG_GROUP_KIND,
			fmt.Sprintf("group %q is not a %s", gid, kind)).
			WithSpan(use.Span).
			WithDetails(diag.GroupKindMismatch(string(kind), string(g.Kind))...).
			Build())
		return nil
	}
	return append([]semconv.AttributeDecl(nil), g.Attributes...)
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

// dedupeByID drops second and later occurrences of an attribute id within
// list, merging the dropped occurrence's explicitly overridden fields onto
// the kept (first) occurrence — a later, more specific mention wins on
// field conflict.
func dedupeByID(list []semconv.AttributeDecl) []semconv.AttributeDecl {
	if len(list) == 0 {
		return list
	}
	index := make(map[string]int, len(list))
	out := make([]semconv.AttributeDecl, 0, len(list))
	for _, a := range list {
		if a.ID == "" {
			out = append(out, a)
			continue
		}
		if i, exists := index[a.ID]; exists {
			out[i] = applyOverrides(out[i], a)
			continue
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}

// firstWinsDedupe drops second and later occurrences of an attribute id
// entirely, keeping the first occurrence unmodified. Used for metric and
// metric-group attribute union materialization (§4.E.3), where use-site
// entries are listed first and take precedence wholesale over the
// registry-declared attributes appended after them.
func firstWinsDedupe(list []semconv.AttributeDecl) []semconv.AttributeDecl {
	if len(list) == 0 {
		return list
	}
	seen := make(map[string]bool, len(list))
	out := make([]semconv.AttributeDecl, 0, len(list))
	for _, a := range list {
		if a.ID != "" {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
		}
		out = append(out, a)
	}
	return out
}
