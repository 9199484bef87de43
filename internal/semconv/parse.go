package semconv

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/location"
)

// knownGroupFields lists the top-level fields recognized on a group mapping.
var knownGroupFields = map[string]bool{
	"id": true, "type": true, "extends": true, "prefix": true,
	"attributes": true, "metric_name": true, "instrument": true, "unit": true,
	"name": true, "span_name": true, "events": true, "brief": true, "note": true,
	"stability": true, "display_name": true,
}

// knownAttributeFields lists the top-level fields recognized on an
// attribute declaration mapping.
var knownAttributeFields = map[string]bool{
	"id": true, "type": true, "brief": true, "note": true, "examples": true,
	"requirement_level": true, "tag": true, "tags": true, "stability": true,
	"deprecated": true, "sampling_relevant": true, "value": true,
	"ref": true, "attribute_group_ref": true, "resource_ref": true,
	"span_ref": true, "event_ref": true,
}

// Parse deserializes a semantic-convention YAML document into a Registry.
//
// sourceID identifies the document for provenance on every group and
// attribute declaration. strictUnknownFields controls whether unrecognized
// top-level group/attribute fields produce E_UNKNOWN_FIELD diagnostics;
// either way, unknown fields are never silently merged into a catch-all
// unless the schema explicitly names one (groups have no such catch-all;
// only an attribute declaration's tags map supports arbitrary string keys).
//
// Parse returns (nil, true) when the document fails to parse at all
// (E_PARSE, fatal); otherwise it returns a best-effort Registry and false,
// with any field-level issues collected into collector.
func Parse(content []byte, sourceID location.SourceID, strictUnknownFields bool, collector *diag.Collector) (*Registry, bool) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_PARSE, fmt.Sprintf("malformed YAML: %v", err)).
			WithPath(sourceID.String(), "").
			Build())
		return nil, true
	}
	if len(root.Content) == 0 {
		return &Registry{URL: sourceID.String()}, false
	}

	doc := root.Content[0]
	groupsNode := mapValue(doc, "groups")
	if groupsNode == nil || groupsNode.Kind != yaml.SequenceNode {
		return &Registry{URL: sourceID.String()}, false
	}

	reg := &Registry{URL: sourceID.String()}
	for _, gn := range groupsNode.Content {
		g := parseGroup(gn, sourceID, strictUnknownFields, collector)
		reg.Groups = append(reg.Groups, g)
	}
	return reg, false
}

func spanAt(sourceID location.SourceID, n *yaml.Node) location.Span {
	if n == nil {
		return location.Span{}
	}
	return location.Point(sourceID, n.Line, n.Column)
}

// mapValue returns the value node for key in a YAML mapping node, or nil.
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

func scalarBool(n *yaml.Node) bool {
	if n == nil {
		return false
	}
	var b bool
	_ = n.Decode(&b)
	return b
}

func decodeAny(n *yaml.Node) any {
	if n == nil {
		return nil
	}
	var v any
	_ = n.Decode(&v)
	return v
}

func decodeAnySlice(n *yaml.Node) []any {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]any, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, decodeAny(c))
	}
	return out
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

func checkUnknownFields(n *yaml.Node, known map[string]bool, sourceID location.SourceID, path string, strict bool, collector *diag.Collector) {
	if !strict || n == nil || n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if !known[key] {
			collector.Collect(diag.NewIssue(diag.Warning, diag.E_UNKNOWN_FIELD,
				fmt.Sprintf("unrecognized field %q", key)).
				WithSpan(spanAt(sourceID, n.Content[i])).
				WithPath(sourceID.String(), path).
				Build())
		}
	}
}

func parseGroup(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) Group {
	g := Group{
		ID:      scalarString(mapValue(n, "id")),
		Extends: scalarString(mapValue(n, "extends")),
		Prefix:  scalarString(mapValue(n, "prefix")),
		Brief:   scalarString(mapValue(n, "brief")),
		Note:    scalarString(mapValue(n, "note")),
		Span:    spanAt(sourceID, n),
	}
	g.Kind = GroupKind(scalarString(mapValue(n, "type")))

	checkUnknownFields(n, knownGroupFields, sourceID, "groups["+g.ID+"]", strict, collector)

	switch g.Kind {
	case KindMetricGroup:
		g.MetricName = scalarString(mapValue(n, "metric_name"))
		g.Instrument = Instrument(scalarString(mapValue(n, "instrument")))
		g.Unit = scalarString(mapValue(n, "unit"))
	case KindMetric:
		g.MetricName = scalarString(mapValue(n, "metric_name"))
		g.Instrument = Instrument(scalarString(mapValue(n, "instrument")))
		g.Unit = scalarString(mapValue(n, "unit"))
	case KindEvent:
		g.Name = firstNonEmpty(scalarString(mapValue(n, "name")), g.ID)
	case KindSpan:
		g.Name = firstNonEmpty(scalarString(mapValue(n, "span_name")), scalarString(mapValue(n, "name")), g.ID)
		if eventsNode := mapValue(n, "events"); eventsNode != nil && eventsNode.Kind == yaml.SequenceNode {
			for _, en := range eventsNode.Content {
				g.Events = append(g.Events, parseNestedEvent(en, sourceID, strict, collector))
			}
		}
	}

	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			g.Attributes = append(g.Attributes, ParseAttribute(an, sourceID, "groups["+g.ID+"].attributes", strict, collector))
		}
	}

	return g
}

func parseNestedEvent(n *yaml.Node, sourceID location.SourceID, strict bool, collector *diag.Collector) NestedEvent {
	ev := NestedEvent{
		Name: firstNonEmpty(scalarString(mapValue(n, "event_name")), scalarString(mapValue(n, "name")), scalarString(mapValue(n, "id"))),
		Span: spanAt(sourceID, n),
	}
	if attrsNode := mapValue(n, "attributes"); attrsNode != nil && attrsNode.Kind == yaml.SequenceNode {
		for _, an := range attrsNode.Content {
			ev.Attributes = append(ev.Attributes, ParseAttribute(an, sourceID, "events["+ev.Name+"].attributes", strict, collector))
		}
	}
	return ev
}

// ParseAttribute decodes a single attribute declaration or reference node.
// path is used only for unknown-field diagnostics and is otherwise
// cosmetic; callers outside this package (e.g. internal/telschema, which
// parses attribute use sites in an application schema) call this directly
// since the declaration shape is identical in both contexts.
func ParseAttribute(n *yaml.Node, sourceID location.SourceID, path string, strict bool, collector *diag.Collector) AttributeDecl {
	a := AttributeDecl{
		ID:                scalarString(mapValue(n, "id")),
		Ref:               scalarString(mapValue(n, "ref")),
		AttributeGroupRef: scalarString(mapValue(n, "attribute_group_ref")),
		ResourceRef:       scalarString(mapValue(n, "resource_ref")),
		SpanRef:           scalarString(mapValue(n, "span_ref")),
		EventRef:          scalarString(mapValue(n, "event_ref")),
		Span:              spanAt(sourceID, n),
	}

	checkUnknownFields(n, knownAttributeFields, sourceID, path, strict, collector)

	if a.ID != "" && a.IsReference() {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_REF_AND_ID,
			"attribute declaration has both an id and a reference field").
			WithSpan(a.Span).
			WithDetail(diag.DetailKeyAttributeID, a.ID).
			Build())
	}

	if briefN := mapValue(n, "brief"); briefN != nil {
		a.Brief = briefN.Value
		a.OverriddenBrief = a.IsReference()
	}
	if noteN := mapValue(n, "note"); noteN != nil {
		a.Note = noteN.Value
		a.OverriddenNote = a.IsReference()
	}
	if exN := mapValue(n, "examples"); exN != nil {
		a.Examples = decodeAnySlice(exN)
		a.OverriddenExamples = a.IsReference()
	}
	if tagN := mapValue(n, "tag"); tagN != nil {
		a.Tag = tagN.Value
		a.OverriddenTag = a.IsReference()
	}
	if tagsN := mapValue(n, "tags"); tagsN != nil {
		a.Tags = decodeStringMap(tagsN)
		a.OverriddenTags = a.IsReference()
	}
	a.Stability = scalarString(mapValue(n, "stability"))
	a.Deprecated = scalarString(mapValue(n, "deprecated"))
	a.SamplingRelevant = scalarBool(mapValue(n, "sampling_relevant"))
	if valN := mapValue(n, "value"); valN != nil {
		a.Value = decodeAny(valN)
		a.HasValue = true
		a.OverriddenValue = a.IsReference()
	}

	if rlN := mapValue(n, "requirement_level"); rlN != nil {
		a.RequirementLevel = parseRequirementLevel(rlN, sourceID, collector)
		a.OverriddenRequirementLevel = a.IsReference()
	}

	if typeN := mapValue(n, "type"); typeN != nil {
		if a.IsReference() {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_TYPE_OVERRIDE,
				fmt.Sprintf("attribute reference %q cannot override type at use site", a.Ref)).
				WithSpan(spanAt(sourceID, typeN)).
				WithDetail(diag.DetailKeyAttributeID, a.Ref).
				Build())
		} else {
			a.Type = parseAttributeType(typeN, sourceID, collector)
		}
	}

	return a
}

func parseRequirementLevel(n *yaml.Node, sourceID location.SourceID, collector *diag.Collector) RequirementLevel {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case "required", "recommended", "opt_in":
			return RequirementLevel{Kind: n.Value}
		default:
			collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_REQUIREMENT_LEVEL,
				fmt.Sprintf("invalid requirement_level %q", n.Value)).
				WithSpan(spanAt(sourceID, n)).
				Build())
			return RequirementLevel{}
		}
	case yaml.MappingNode:
		if v := mapValue(n, "conditionally_required"); v != nil {
			return RequirementLevel{Kind: "conditionally_required", Text: v.Value}
		}
		if v := mapValue(n, "recommended"); v != nil {
			return RequirementLevel{Kind: "recommended_text", Text: v.Value}
		}
		collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_REQUIREMENT_LEVEL,
			"requirement_level mapping has no recognized variant").
			WithSpan(spanAt(sourceID, n)).
			Build())
		return RequirementLevel{}
	default:
		collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_REQUIREMENT_LEVEL,
			"requirement_level has an unrecognized shape").
			WithSpan(spanAt(sourceID, n)).
			Build())
		return RequirementLevel{}
	}
}

var primitiveTypes = map[string]bool{
	"string": true, "int": true, "double": true, "boolean": true,
	"string[]": true, "int[]": true, "double[]": true, "boolean[]": true,
}

func parseAttributeType(n *yaml.Node, sourceID location.SourceID, collector *diag.Collector) AttributeType {
	if n.Kind == yaml.ScalarNode {
		if primitiveTypes[n.Value] {
			return AttributeType{Primitive: n.Value}
		}
		return AttributeType{Template: n.Value}
	}

	if n.Kind == yaml.MappingNode {
		membersNode := mapValue(n, "members")
		if membersNode != nil {
			t := AttributeType{IsEnum: true}
			if acv := mapValue(n, "allow_custom_values"); acv != nil {
				t.AllowCustomValues = scalarBool(acv)
			}
			seenIDs := make(map[string]bool)
			seenValues := make(map[any]bool)
			for _, mn := range membersNode.Content {
				m := EnumMember{
					ID:    scalarString(mapValue(mn, "id")),
					Value: decodeAny(mapValue(mn, "value")),
					Brief: scalarString(mapValue(mn, "brief")),
					Note:  scalarString(mapValue(mn, "note")),
					Span:  spanAt(sourceID, mn),
				}
				if seenIDs[m.ID] {
					collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_ENUM,
						fmt.Sprintf("duplicate enum member id %q", m.ID)).
						WithSpan(m.Span).Build())
				}
				seenIDs[m.ID] = true
				if seenValues[m.Value] {
					collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_ENUM,
						fmt.Sprintf("duplicate enum member value for id %q", m.ID)).
						WithSpan(m.Span).Build())
				}
				seenValues[m.Value] = true
				t.EnumMembers = append(t.EnumMembers, m)
			}
			if len(t.EnumMembers) == 0 {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_ENUM,
					"enum type has no members").
					WithSpan(spanAt(sourceID, n)).Build())
			}
			return t
		}
	}

	collector.Collect(diag.NewIssue(diag.Error, diag.E_INVALID_ENUM,
		"attribute type has an unrecognized shape").
		WithSpan(spanAt(sourceID, n)).Build())
	return AttributeType{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
