// Package telschema implements the Telemetry-Schema Parser: deserializing
// an application schema YAML document into an in-memory tree isomorphic to
// the data model's Application schema shape.
//
// Grounded on the same yaml.Node-walking approach as internal/semconv, with
// acceptance of historical field spellings (metric_groups/metrics_group,
// event_name/id, span_name/id) normalized to their canonical form at parse
// time, matching the retrieval pack's field-normalization helpers in
// internal/normalize.
package telschema

import (
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/location"
)

// SemanticConventionImport is one entry in the schema's semantic_conventions list.
type SemanticConventionImport struct {
	URL  string
	Span location.Span
}

// AttributeUse is an attribute reference within a use-site list: resource
// attributes, a metric's attributes, an event's attributes, and so on.
// It reuses semconv.AttributeDecl's reference/definition shape since the
// schema language's attribute use sites accept the same declaration forms
// as registry attribute lists.
type AttributeUse = semconv.AttributeDecl

// MetricUse is a metric or metric-group use site under resource_metrics.
type MetricUse struct {
	Ref        string // name looked up in the registries' metric groups
	Attributes []AttributeUse
	Span       location.Span
}

// MetricGroupUse is a metric-group use site: a Ref plus the metrics it contains.
type MetricGroupUse struct {
	Ref        string
	Attributes []AttributeUse
	Metrics    []MetricUse
	Span       location.Span
}

// EventUse is an event use site.
type EventUse struct {
	Name       string // normalized from event_name/id
	Attributes []AttributeUse
	Span       location.Span
}

// SpanLinkUse is a span link use site.
type SpanLinkUse struct {
	Attributes []AttributeUse
	Span       location.Span
}

// SpanUse is a span use site, with nested events and links.
type SpanUse struct {
	Name       string // normalized from span_name/id
	Attributes []AttributeUse
	Events     []EventUse
	Links      []SpanLinkUse
	Span       location.Span
}

// ResourceSection holds the application's resource attribute declarations.
type ResourceSection struct {
	Attributes []AttributeUse
	Set        bool
}

// InstrumentationLibrarySection identifies the instrumentation library.
type InstrumentationLibrarySection struct {
	Name    string
	Version string
	Set     bool
}

// ResourceMetricsSection holds the application's metrics and metric groups.
type ResourceMetricsSection struct {
	Attributes   []AttributeUse
	Metrics      []MetricUse
	MetricGroups []MetricGroupUse
	Set          bool
}

// ResourceEventsSection holds the application's events.
type ResourceEventsSection struct {
	Events []EventUse
	Set    bool
}

// ResourceSpansSection holds the application's spans.
type ResourceSpansSection struct {
	Spans []SpanUse
	Set   bool
}

// ChangeDescriptor is one entry in a version's change list: exactly one of
// AttributeMap or MetricMap is set, naming the rename_attributes or
// rename_metrics variant respectively.
type ChangeDescriptor struct {
	AttributeMap   map[string]string
	MetricMap      map[string]string
	ApplyToMetrics []string
	Span           location.Span
}

// VersionEntry is one semantic-version key's ordered change list, carried
// verbatim from input; the resolver never applies these changes, it only
// validates their structural shape.
type VersionEntry struct {
	Version string
	Changes []ChangeDescriptor
	Span    location.Span
}

// Schema is the parsed form of one application schema YAML document.
//
// Fields absent from input are left at their zero value with the
// corresponding *Set flag false (for section types) so parent-schema
// inheritance can distinguish "absent" from "present but empty".
type Schema struct {
	FileFormat           string
	ParentSchemaURL      string
	SchemaURL            string
	SemanticConventions  []SemanticConventionImport

	Resource               ResourceSection
	InstrumentationLibrary InstrumentationLibrarySection
	ResourceMetrics        ResourceMetricsSection
	ResourceEvents         ResourceEventsSection
	ResourceSpans          ResourceSpansSection

	Versions []VersionEntry

	SourceID location.SourceID
}
