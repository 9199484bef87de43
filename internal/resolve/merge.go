package resolve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/internal/telschema"
)

func mergeResourceSection(sec telschema.ResourceSection, parent *Materialized, pool *refPool, collector *diag.Collector) []semconv.AttributeDecl {
	if sec.Set {
		return resolveAttributeList(sec.Attributes, pool, "resource.attributes", collector)
	}
	if parent != nil {
		return parent.Resource
	}
	return nil
}

func mergeInstrumentationLibrary(sec telschema.InstrumentationLibrarySection, parent *Materialized) telschema.InstrumentationLibrarySection {
	if sec.Set {
		return sec
	}
	if parent != nil {
		return parent.InstrumentationLibrary
	}
	return telschema.InstrumentationLibrarySection{}
}

func mergeMetrics(sec telschema.ResourceMetricsSection, parent *Materialized, pool *refPool, collector *diag.Collector) []Metric {
	if !sec.Set {
		if parent != nil {
			return parent.Metrics
		}
		return nil
	}

	var base []Metric
	if parent != nil {
		base = append([]Metric(nil), parent.Metrics...)
	}
	index := make(map[string]int, len(base))
	for i, m := range base {
		index[m.Name] = i
	}

	own := materializeMetrics(sec, pool, collector)
	for _, m := range own {
		if i, exists := index[m.Name]; exists {
			base[i] = m
		} else {
			base = append(base, m)
			index[m.Name] = len(base) - 1
		}
	}
	return base
}

// materializeMetrics expands resource_metrics.metrics and .metric_groups
// into fully materialized Metric values (§4.E.3): a metric's effective
// attribute list is the union of its use-site attributes and its
// registry-declared attributes, use-site first; a metric group additionally
// augments each contained metric's list with the group's own attributes,
// appended after the metric's own.
func materializeMetrics(sec telschema.ResourceMetricsSection, pool *refPool, collector *diag.Collector) []Metric {
	var out []Metric

	sharedAttrs := resolveAttributeList(sec.Attributes, pool, "resource_metrics.attributes", collector)

	for _, use := range sec.Metrics {
		out = append(out, materializeOneMetric(use, sharedAttrs, nil, pool, collector))
	}

	for _, group := range sec.MetricGroups {
		groupAttrs := resolveAttributeList(group.Attributes, pool, "metric_groups["+group.Ref+"].attributes", collector)
		groupDef, found, kindMatches := pool.resolveGroupRef(group.Ref, semconv.KindMetricGroup)
		if !found {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_GROUP_REF,
				fmt.Sprintf("unknown metric group reference %q", group.Ref)).
				WithSpan(group.Span).
				WithDetails(diag.GidDetail(group.Ref)...).
				Build())
		} else if !kindMatches {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_WRONG_GROUP_KIND,
				fmt.Sprintf("group %q is not a metric_group", group.Ref)).
				WithSpan(group.Span).
				WithDetails(diag.GroupKindMismatch(string(semconv.KindMetricGroup), string(groupDef.Kind))...).
				Build())
		}

		for _, m := range group.Metrics {
			out = append(out, materializeOneMetric(m, sharedAttrs, groupAttrs, pool, collector))
		}
	}

	return out
}

// materializeOneMetric builds one Metric from its use site. The effective
// attribute order is: use-site attributes first, then the metric's own
// registry-declared attributes, then the enclosing resource_metrics'
// shared attributes, then (for metrics inside a metric_group) the group's
// own attributes — each later source filling in ids the earlier sources
// did not already claim.
func materializeOneMetric(use telschema.MetricUse, sharedAttrs, groupAttrs []semconv.AttributeDecl, pool *refPool, collector *diag.Collector) Metric {
	g, found, kindMatches := pool.resolveGroupRef(use.Ref, semconv.KindMetric)
	m := Metric{Name: use.Ref}
	var defAttrs []semconv.AttributeDecl
	if !found {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_UNKNOWN_GROUP_REF,
			fmt.Sprintf("unknown metric reference %q", use.Ref)).
			WithSpan(use.Span).
			WithDetails(diag.GidDetail(use.Ref)...).
			Build())
	} else if !kindMatches {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_WRONG_GROUP_KIND,
			fmt.Sprintf("group %q is not a metric", use.Ref)).
			WithSpan(use.Span).
			WithDetails(diag.GroupKindMismatch(string(semconv.KindMetric), string(g.Kind))...).
			Build())
	} else {
		m.Brief = g.Brief
		m.Note = g.Note
		m.Instrument = g.Instrument
		m.Unit = g.Unit
		defAttrs = g.Attributes
	}

	useAttrs := resolveAttributeList(use.Attributes, pool, "metrics["+use.Ref+"].attributes", collector)
	union := append([]semconv.AttributeDecl(nil), useAttrs...)
	union = append(union, defAttrs...)
	union = append(union, sharedAttrs...)
	union = append(union, groupAttrs...)
	m.Attributes = firstWinsDedupe(union)
	return m
}

func mergeEvents(sec telschema.ResourceEventsSection, parent *Materialized, pool *refPool, collector *diag.Collector) []Event {
	if !sec.Set {
		if parent != nil {
			return parent.Events
		}
		return nil
	}
	var base []Event
	if parent != nil {
		base = append([]Event(nil), parent.Events...)
	}
	index := make(map[string]int, len(base))
	for i, e := range base {
		index[e.Name] = i
	}
	for _, use := range sec.Events {
		e := Event{Name: use.Name, Attributes: resolveAttributeList(use.Attributes, pool, "events["+use.Name+"].attributes", collector)}
		if i, exists := index[e.Name]; exists {
			base[i] = e
		} else {
			base = append(base, e)
			index[e.Name] = len(base) - 1
		}
	}
	return base
}

func mergeSpans(sec telschema.ResourceSpansSection, parent *Materialized, pool *refPool, collector *diag.Collector) []Span {
	if !sec.Set {
		if parent != nil {
			return parent.Spans
		}
		return nil
	}
	var base []Span
	if parent != nil {
		base = append([]Span(nil), parent.Spans...)
	}
	index := make(map[string]int, len(base))
	for i, s := range base {
		index[s.Name] = i
	}
	for _, use := range sec.Spans {
		s := materializeSpan(use, pool, collector)
		if i, exists := index[s.Name]; exists {
			base[i] = s
		} else {
			base = append(base, s)
			index[s.Name] = len(base) - 1
		}
	}
	return base
}

func materializeSpan(use telschema.SpanUse, pool *refPool, collector *diag.Collector) Span {
	s := Span{
		Name:       use.Name,
		Attributes: resolveAttributeList(use.Attributes, pool, "spans["+use.Name+"].attributes", collector),
	}
	for _, ev := range use.Events {
		s.Events = append(s.Events, Event{
			Name:       ev.Name,
			Attributes: resolveAttributeList(ev.Attributes, pool, "spans["+use.Name+"].events["+ev.Name+"].attributes", collector),
		})
	}
	for _, link := range use.Links {
		s.Links = append(s.Links, SpanLink{
			Attributes: resolveAttributeList(link.Attributes, pool, "spans["+use.Name+"].links.attributes", collector),
		})
	}
	return s
}

// mergeVersions replaces the parent's versions entirely when this schema
// declares any of its own (§4.E.1), sorting the result in ascending
// semantic-version order (§4.E.5) and reporting structural issues per
// entry.
func mergeVersions(own []telschema.VersionEntry, parent *Materialized, collector *diag.Collector) []telschema.VersionEntry {
	var versions []telschema.VersionEntry
	if len(own) > 0 {
		versions = own
	} else if parent != nil {
		versions = parent.Versions
	} else {
		return nil
	}

	for _, ve := range versions {
		validateVersionEntry(ve, collector)
	}

	sorted := append([]telschema.VersionEntry(nil), versions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareSemver(sorted[i].Version, sorted[j].Version) < 0
	})
	return sorted
}

func validateVersionEntry(ve telschema.VersionEntry, collector *diag.Collector) {
	for _, cd := range ve.Changes {
		if cd.AttributeMap == nil && cd.MetricMap == nil {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_VERSION_FORMAT,
				fmt.Sprintf("version %s has a change entry with no rename map", ve.Version)).
				WithSpan(cd.Span).
				Build())
		}
		for _, name := range cd.ApplyToMetrics {
			if strings.TrimSpace(name) == "" {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_VERSION_FORMAT,
					fmt.Sprintf("version %s has an empty apply_to_metrics entry", ve.Version)).
					WithSpan(cd.Span).
					Build())
			}
		}
	}
}

// compareSemver compares two dot-separated numeric version strings
// component-wise; malformed components compare as 0.
func compareSemver(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var na, nb int
		if i < len(pa) {
			na, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			nb, _ = strconv.Atoi(pb[i])
		}
		if na != nb {
			return na - nb
		}
	}
	return 0
}
