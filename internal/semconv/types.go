// Package semconv implements the Semantic-Convention Parser: deserializing
// a registry YAML document into a typed in-memory group model.
//
// Grounded on the retrieval pack's internal/parse package in spirit (every
// declaration and group carries a location.Span), adapted to decode
// gopkg.in/yaml.v3 Node trees instead of ANTLR parse trees, since semantic
// conventions are expressed in YAML rather than the retrieval pack's bespoke
// grammar.
package semconv

import "github.com/f5/otel-weaver/location"

// GroupKind is the closed set of semantic-convention group kinds.
type GroupKind string

const (
	KindAttributeGroup GroupKind = "attribute_group"
	KindMetric         GroupKind = "metric"
	KindMetricGroup    GroupKind = "metric_group"
	KindEvent          GroupKind = "event"
	KindSpan           GroupKind = "span"
	KindResource       GroupKind = "resource"
	KindScope          GroupKind = "scope"
)

// Instrument is the closed set of metric instrument kinds.
type Instrument string

const (
	InstrumentCounter      Instrument = "counter"
	InstrumentUpDownCounter Instrument = "updowncounter"
	InstrumentGauge        Instrument = "gauge"
	InstrumentHistogram    Instrument = "histogram"
)

// RequirementLevel captures one of the requirement-level variants:
// required | recommended | opt_in | {conditionally_required: text} |
// {recommended: text}.
type RequirementLevel struct {
	Kind string // "required" | "recommended" | "opt_in" | "conditionally_required" | "recommended_text"
	Text string // set when Kind is "conditionally_required" or "recommended_text"
}

// EnumMember is one ordered member of an enum attribute type.
type EnumMember struct {
	ID    string
	Value any
	Brief string
	Note  string
	Span  location.Span
}

// AttributeType is the closed set of attribute type shapes: a primitive
// name, an enum, or a template type name.
type AttributeType struct {
	Primitive         string // "string"|"int"|"double"|"boolean"|"string[]"|"int[]"|"double[]"|"boolean[]", empty if not primitive
	Template          string // non-empty for template types
	EnumMembers       []EnumMember
	AllowCustomValues bool
	IsEnum            bool
}

// AttributeDecl is a single attribute declaration: either a definition
// (ID set) or a reference (exactly one of Ref/AttributeGroupRef/
// ResourceRef/SpanRef/EventRef set).
type AttributeDecl struct {
	// Definition form.
	ID               string
	Type             AttributeType
	Brief            string
	Note             string
	Examples         []any
	RequirementLevel RequirementLevel
	Tag              string
	Tags             map[string]string
	Stability        string
	Deprecated       string
	SamplingRelevant bool
	Value            any
	HasValue         bool

	// Reference form.
	Ref               string
	AttributeGroupRef string
	ResourceRef       string
	SpanRef           string
	EventRef          string

	// Per-use overrides on the reference form. Overridden* flags record
	// which fields were explicitly present in the override, so field-level
	// merge can distinguish "absent" from "set to zero value".
	OverriddenBrief            bool
	OverriddenNote             bool
	OverriddenExamples         bool
	OverriddenRequirementLevel bool
	OverriddenTag              bool
	OverriddenTags             bool
	OverriddenValue            bool

	Span location.Span
}

// IsReference reports whether the declaration is a reference form.
func (a AttributeDecl) IsReference() bool {
	return a.Ref != "" || a.AttributeGroupRef != "" || a.ResourceRef != "" ||
		a.SpanRef != "" || a.EventRef != ""
}

// NestedEvent is an event nested inside a span group declaration.
type NestedEvent struct {
	Name       string
	Attributes []AttributeDecl
	Span       location.Span
}

// Group is a named unit within a semantic-convention registry.
type Group struct {
	ID         string
	Kind       GroupKind
	Extends    string
	Prefix     string
	Attributes []AttributeDecl
	Brief      string
	Note       string

	// Metric-group-only fields.
	MetricName string
	Instrument Instrument
	Unit       string

	// Event/span-only fields.
	Name   string
	Events []NestedEvent

	Span location.Span
}

// Registry is the parsed form of one semantic-convention YAML document.
type Registry struct {
	URL    string
	Groups []Group
}
