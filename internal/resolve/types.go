package resolve

import (
	"github.com/f5/otel-weaver/internal/registry"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/internal/telschema"
)

// Event is a fully materialized event: its attribute list has every
// reference resolved and every duplicate id merged.
type Event struct {
	Name       string
	Attributes []semconv.AttributeDecl
}

// SpanLink is a fully materialized span link.
type SpanLink struct {
	Attributes []semconv.AttributeDecl
}

// Span is a fully materialized span, with independently resolved nested
// events and links.
type Span struct {
	Name       string
	Attributes []semconv.AttributeDecl
	Events     []Event
	Links      []SpanLink
}

// Metric is a fully materialized metric: declared attributes plus any
// use-site attributes, use-site entries first and winning ties.
type Metric struct {
	Name       string
	Brief      string
	Note       string
	Instrument semconv.Instrument
	Unit       string
	Attributes []semconv.AttributeDecl
}

// Materialized is the fully resolved form of one application schema: every
// attribute list has its references resolved, its parent-schema sections
// merged in, and its duplicates deduplicated. It still addresses
// attributes by full definition rather than catalog index; internal/catalog
// performs that final indexing step.
type Materialized struct {
	SchemaURL              string
	Resource               []semconv.AttributeDecl
	InstrumentationLibrary telschema.InstrumentationLibrarySection
	Metrics                []Metric
	Events                 []Event
	Spans                  []Span
	Versions               []telschema.VersionEntry

	// Registries are the semantic-convention registries this schema level
	// itself loaded (not its parent's), kept for Resolved-Schema output.
	Registries *registry.Resolved
}
