package telschema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/location"
)

// Parse deserializes an application schema YAML document into a Schema.
//
// Parse returns (nil, true) when the document fails to parse at all
// (E_PARSE, fatal); otherwise it returns a best-effort Schema and false,
// with field-level issues collected into collector.
func Parse(content []byte, sourceID location.SourceID, strictUnknownFields bool, collector *diag.Collector) (*Schema, bool) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_PARSE, fmt.Sprintf("malformed YAML: %v", err)).
			WithPath(sourceID.String(), "").
			Build())
		return nil, true
	}

	s := &Schema{SourceID: sourceID}
	if len(root.Content) == 0 {
		return s, false
	}

	doc := root.Content[0]
	s.FileFormat = scalarString(mapValue(doc, "file_format"))
	s.ParentSchemaURL = scalarString(mapValue(doc, "parent_schema_url"))
	s.SchemaURL = scalarString(mapValue(doc, "schema_url"))

	if scNode := mapValue(doc, "semantic_conventions"); scNode != nil && scNode.Kind == yaml.SequenceNode {
		for _, n := range scNode.Content {
			s.SemanticConventions = append(s.SemanticConventions, SemanticConventionImport{
				URL:  n.Value,
				Span: spanAt(sourceID, n),
			})
		}
	}

	schemaNode := mapValue(doc, "schema")
	if schemaNode == nil {
		return s, false
	}

	if resNode := mapValue(schemaNode, "resource"); resNode != nil {
		s.Resource = parseResourceSection(resNode, sourceID, strictUnknownFields, collector)
	}
	if ilNode := mapValue(schemaNode, "instrumentation_library"); ilNode != nil {
		s.InstrumentationLibrary = InstrumentationLibrarySection{
			Name:    scalarString(mapValue(ilNode, "name")),
			Version: scalarString(mapValue(ilNode, "version")),
			Set:     true,
		}
	}
	if rmNode := mapValue(schemaNode, "resource_metrics"); rmNode != nil {
		s.ResourceMetrics = parseResourceMetricsSection(rmNode, sourceID, strictUnknownFields, collector)
	}
	if reNode := mapValue(schemaNode, "resource_events"); reNode != nil {
		s.ResourceEvents = parseResourceEventsSection(reNode, sourceID, strictUnknownFields, collector)
	}
	if rsNode := mapValue(schemaNode, "resource_spans"); rsNode != nil {
		s.ResourceSpans = parseResourceSpansSection(rsNode, sourceID, strictUnknownFields, collector)
	}

	if versionsNode := mapValue(doc, "versions"); versionsNode != nil && versionsNode.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(versionsNode.Content); i += 2 {
			key := versionsNode.Content[i]
			val := versionsNode.Content[i+1]
			s.Versions = append(s.Versions, parseVersionEntry(key.Value, val, sourceID, collector))
		}
	}

	return s, false
}

func parseResourceSection(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) ResourceSection {
	sec := ResourceSection{Set: true}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			sec.Attributes = append(sec.Attributes, semconv.ParseAttribute(an, sourceID, "resource.attributes", strict, collector))
		}
	}
	return sec
}

func parseResourceMetricsSection(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) ResourceMetricsSection {
	sec := ResourceMetricsSection{Set: true}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			sec.Attributes = append(sec.Attributes, semconv.ParseAttribute(an, sourceID, "resource_metrics.attributes", strict, collector))
		}
	}
	if metricsNode := mapValue(n, "metrics"); metricsNode != nil && metricsNode.Kind == yaml.SequenceNode {
		for _, mn := range metricsNode.Content {
			sec.Metrics = append(sec.Metrics, parseMetricUse(mn, sourceID, strict, collector))
		}
	}
	// metric_groups/metrics_group are both historical spellings for the same
	// field; accept whichever is present, but warn on the non-canonical one
	// so a document author notices and fixes it rather than the spelling
	// variant silently becoming the de facto standard.
	groupsNode := mapValue(n, "metric_groups")
	if groupsNode == nil {
		if variant := mapValue(n, "metrics_group"); variant != nil {
			collector.Collect(diag.NewIssue(diag.Warning, diag.E_SPELLING_VARIANT,
				`"metrics_group" is a non-canonical spelling, accepted as "metric_groups"`).
				WithSpan(spanAt(sourceID, variant)).
				WithDetail(diag.DetailKeyField, "metrics_group").
				WithDetail(diag.DetailKeyCanonical, "metric_groups").
				Build())
			groupsNode = variant
		}
	}
	if groupsNode != nil && groupsNode.Kind == yaml.SequenceNode {
		for _, gn := range groupsNode.Content {
			sec.MetricGroups = append(sec.MetricGroups, parseMetricGroupUse(gn, sourceID, strict, collector))
		}
	}
	return sec
}

func parseMetricUse(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) MetricUse {
	m := MetricUse{
		Ref:  scalarString(mapValue(n, "ref")),
		Span: spanAt(sourceID, n),
	}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			m.Attributes = append(m.Attributes, semconv.ParseAttribute(an, sourceID, "metrics["+m.Ref+"].attributes", strict, collector))
		}
	}
	return m
}

func parseMetricGroupUse(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) MetricGroupUse {
	g := MetricGroupUse{
		Ref:  scalarString(mapValue(n, "ref")),
		Span: spanAt(sourceID, n),
	}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			g.Attributes = append(g.Attributes, semconv.ParseAttribute(an, sourceID, "metric_groups["+g.Ref+"].attributes", strict, collector))
		}
	}
	if metricsNode := mapValue(n, "metrics"); metricsNode != nil && metricsNode.Kind == yaml.SequenceNode {
		for _, mn := range metricsNode.Content {
			g.Metrics = append(g.Metrics, parseMetricUse(mn, sourceID, strict, collector))
		}
	}
	return g
}

func parseResourceEventsSection(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) ResourceEventsSection {
	sec := ResourceEventsSection{Set: true}
	if eventsNode := mapValue(n, "events"); eventsNode != nil && eventsNode.Kind == yaml.SequenceNode {
		for _, en := range eventsNode.Content {
			sec.Events = append(sec.Events, parseEventUse(en, sourceID, strict, collector))
		}
	}
	return sec
}

func parseEventUse(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) EventUse {
	ev := EventUse{
		Name: firstNonEmpty(scalarString(mapValue(n, "event_name")), scalarString(mapValue(n, "id")), scalarString(mapValue(n, "name"))),
		Span: spanAt(sourceID, n),
	}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			ev.Attributes = append(ev.Attributes, semconv.ParseAttribute(an, sourceID, "events["+ev.Name+"].attributes", strict, collector))
		}
	}
	return ev
}

func parseResourceSpansSection(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) ResourceSpansSection {
	sec := ResourceSpansSection{Set: true}
	if spansNode := mapValue(n, "spans"); spansNode != nil && spansNode.Kind == yaml.SequenceNode {
		for _, sn := range spansNode.Content {
			sec.Spans = append(sec.Spans, parseSpanUse(sn, sourceID, strict, collector))
		}
	}
	return sec
}

func parseSpanUse(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) SpanUse {
	sp := SpanUse{
		Name: firstNonEmpty(scalarString(mapValue(n, "span_name")), scalarString(mapValue(n, "id")), scalarString(mapValue(n, "name"))),
		Span: spanAt(sourceID, n),
	}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			sp.Attributes = append(sp.Attributes, semconv.ParseAttribute(an, sourceID, "spans["+sp.Name+"].attributes", strict, collector))
		}
	}
	if eventsNode := mapValue(n, "events"); eventsNode != nil && eventsNode.Kind == yaml.SequenceNode {
		for _, en := range eventsNode.Content {
			sp.Events = append(sp.Events, parseEventUse(en, sourceID, strict, collector))
		}
	}
	if linksNode := mapValue(n, "links"); linksNode != nil && linksNode.Kind == yaml.SequenceNode {
		for _, ln := range linksNode.Content {
			sp.Links = append(sp.Links, parseSpanLinkUse(ln, sourceID, strict, collector))
		}
	}
	return sp
}

func parseSpanLinkUse(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) SpanLinkUse {
	link := SpanLinkUse{Span: spanAt(sourceID, n)}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			link.Attributes = append(link.Attributes, semconv.ParseAttribute(an, sourceID, "links.attributes", strict, collector))
		}
	}
	return link
}

func parseVersionEntry(version string, n *yaml.Node, sourceID location.SourceID, collector *diag.Collector) VersionEntry {
	ve := VersionEntry{Version: version, Span: spanAt(sourceID, n)}
	if !isValidSemver(version) {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_VERSION_FORMAT,
			fmt.Sprintf("invalid semantic version %q", version)).
			WithSpan(ve.Span).
			Build())
	}

	changesNode := mapValue(n, "changes")
	if changesNode == nil || changesNode.Kind != yaml.SequenceNode {
		return ve
	}
	for _, cn := range changesNode.Content {
		cd := ChangeDescriptor{Span: spanAt(sourceID, cn)}
		switch {
		case mapValue(cn, "rename_attributes") != nil:
			rn := mapValue(cn, "rename_attributes")
			cd.ApplyToMetrics = decodeStringSlice(mapValue(rn, "apply_to_metrics"))
			cd.AttributeMap = decodeStringMap(mapValue(rn, "attribute_map"))
		case mapValue(cn, "rename_metrics") != nil:
			rn := mapValue(cn, "rename_metrics")
			cd.MetricMap = decodeStringMap(mapValue(rn, "metric_map"))
		default:
			collector.Collect(diag.NewIssue(diag.Error, diag.E_VERSION_FORMAT,
				"version change entry is neither rename_attributes nor rename_metrics").
				WithSpan(cd.Span).
				Build())
			continue
		}
		ve.Changes = append(ve.Changes, cd)
	}
	return ve
}

func isValidSemver(v string) bool {
	if v == "" {
		return false
	}
	parts := 1
	for _, r := range v {
		if r == '.' {
			parts++
		} else if r < '0' || r > '9' {
			return false
		}
	}
	return parts == 3
}

func decodeStringSlice(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, c.Value)
	}
	return out
}

func spanAt(sourceID location.SourceID, n *yaml.Node) location.Span {
	if n == nil {
		return location.Span{}
	}
	return location.Point(sourceID, n.Line, n.Column)
}

func mapValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func scalarString(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	return n.Value
}

func decodeStringMap(n *yaml.Node) map[string]string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make(map[string]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = n.Content[i+1].Value
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
