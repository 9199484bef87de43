package catalog

import (
	"sort"

	"github.com/f5/otel-weaver/internal/registry"
	"github.com/f5/otel-weaver/internal/resolve"
	"github.com/f5/otel-weaver/internal/telschema"
	"github.com/f5/otel-weaver/resolved"
)

// Assemble translates a fully resolved application schema into the
// catalog-addressed Resolved Schema output model, threading every attribute
// and metric use site through b so identical definitions collapse to a
// single catalog entry.
func Assemble(fileFormat string, mat *resolve.Materialized, b *Builder) resolved.Schema {
	s := resolved.Schema{
		FileFormat: fileFormat,
		SchemaURL:  mat.SchemaURL,
	}

	s.Registries = assembleRegistries(mat.Registries, b)

	s.Resource = resolved.Resource{Attributes: b.Refs(mat.Resource)}
	s.InstrumentationLibrary = resolved.InstrumentationLibrary{
		Name:    mat.InstrumentationLibrary.Name,
		Version: mat.InstrumentationLibrary.Version,
	}

	for _, m := range mat.Metrics {
		s.ResourceMetrics.Metrics = append(s.ResourceMetrics.Metrics, b.InsertMetric(m))
	}
	for _, e := range mat.Events {
		s.ResourceEvents.Events = append(s.ResourceEvents.Events, assembleEvent(e, b))
	}
	for _, sp := range mat.Spans {
		s.ResourceSpans.Spans = append(s.ResourceSpans.Spans, assembleSpan(sp, b))
	}

	s.Versions = assembleVersions(mat.Versions)

	s.Catalog = resolved.Catalog{Attributes: b.Attributes(), Metrics: b.Metrics()}
	return s
}

func assembleRegistries(resolvedRegs *registry.Resolved, b *Builder) []resolved.Registry {
	if resolvedRegs == nil {
		return nil
	}
	byURL := make(map[string]*resolved.Registry)
	var order []string
	for _, g := range resolvedRegs.Groups() {
		reg, ok := byURL[g.RegistryURL]
		if !ok {
			reg = &resolved.Registry{URL: g.RegistryURL}
			byURL[g.RegistryURL] = reg
			order = append(order, g.RegistryURL)
		}
		idxs := make([]int, 0, len(g.Attributes))
		for _, a := range g.Attributes {
			idxs = append(idxs, b.InsertAttribute(a))
		}
		reg.Groups = append(reg.Groups, resolved.Group{
			ID:         g.ID,
			Kind:       string(g.Kind),
			Attributes: idxs,
		})
	}
	sort.Strings(order)
	out := make([]resolved.Registry, 0, len(order))
	for _, url := range order {
		out = append(out, *byURL[url])
	}
	return out
}

func assembleEvent(e resolve.Event, b *Builder) resolved.Event {
	return resolved.Event{Name: e.Name, Attributes: b.Refs(e.Attributes)}
}

func assembleSpan(s resolve.Span, b *Builder) resolved.Span {
	out := resolved.Span{Name: s.Name, Attributes: b.Refs(s.Attributes)}
	for _, ev := range s.Events {
		out.Events = append(out.Events, assembleEvent(ev, b))
	}
	for _, l := range s.Links {
		out.Links = append(out.Links, resolved.SpanLink{Attributes: b.Refs(l.Attributes)})
	}
	return out
}

func assembleVersions(versions []telschema.VersionEntry) []resolved.VersionEntry {
	out := make([]resolved.VersionEntry, 0, len(versions))
	for _, ve := range versions {
		rv := resolved.VersionEntry{Version: ve.Version}
		for _, cd := range ve.Changes {
			rv.Changes = append(rv.Changes, assembleChange(cd))
		}
		out = append(out, rv)
	}
	return out
}

func assembleChange(cd telschema.ChangeDescriptor) resolved.VersionChange {
	var vc resolved.VersionChange
	if cd.AttributeMap != nil {
		vc.RenameAttributes = &resolved.RenameAttributes{
			ApplyToMetrics: cd.ApplyToMetrics,
			AttributeMap:   cd.AttributeMap,
		}
	}
	if cd.MetricMap != nil {
		vc.RenameMetrics = &resolved.RenameMetrics{MetricMap: cd.MetricMap}
	}
	return vc
}
