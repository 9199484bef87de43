// Package resolved defines the Resolved Schema output model: the
// self-contained, canonical intermediate representation produced by
// resolution, suitable for code generation and downstream tooling.
//
// Schema and its component types are immutable after construction and are
// serializable to JSON (and, via gopkg.in/yaml.v3, to YAML). Field order in
// struct definitions is the emission order, so JSON/YAML output is
// deterministic independent of map iteration order — no catalog or signal
// list is ever serialized from a Go map.
package resolved

// RequirementLevel is the closed set of requirement-level variants.
type RequirementLevel struct {
	Kind string `json:"kind" yaml:"kind"` // "required" | "recommended" | "opt_in" | "conditionally_required" | "recommended_text"
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// EnumMember is one ordered member of an enum attribute type.
type EnumMember struct {
	ID    string `json:"id" yaml:"id"`
	Value any    `json:"value" yaml:"value"`
	Brief string `json:"brief,omitempty" yaml:"brief,omitempty"`
	Note  string `json:"note,omitempty" yaml:"note,omitempty"`
}

// AttributeType describes a primitive, enum, or template attribute type.
type AttributeType struct {
	Primitive         string       `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Template          string       `json:"template,omitempty" yaml:"template,omitempty"`
	EnumMembers       []EnumMember `json:"enumMembers,omitempty" yaml:"enumMembers,omitempty"`
	AllowCustomValues bool         `json:"allowCustomValues,omitempty" yaml:"allowCustomValues,omitempty"`
}

// Attribute is a canonical, deduplicated attribute record held in the catalog.
type Attribute struct {
	ID               string            `json:"id" yaml:"id"`
	Type             AttributeType     `json:"type" yaml:"type"`
	Brief            string            `json:"brief,omitempty" yaml:"brief,omitempty"`
	Note             string            `json:"note,omitempty" yaml:"note,omitempty"`
	Examples         []any             `json:"examples,omitempty" yaml:"examples,omitempty"`
	RequirementLevel RequirementLevel  `json:"requirementLevel" yaml:"requirementLevel"`
	Tag              string            `json:"tag,omitempty" yaml:"tag,omitempty"`
	Tags             map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Stability        string            `json:"stability,omitempty" yaml:"stability,omitempty"`
	Deprecated       string            `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	SamplingRelevant bool              `json:"samplingRelevant,omitempty" yaml:"samplingRelevant,omitempty"`
	Value            any               `json:"value,omitempty" yaml:"value,omitempty"`
}

// AttributeOverrides carries the per-use-site field overrides that are not
// part of the canonical catalog record.
type AttributeOverrides struct {
	Brief            string            `json:"brief,omitempty" yaml:"brief,omitempty"`
	Note             string            `json:"note,omitempty" yaml:"note,omitempty"`
	Examples         []any             `json:"examples,omitempty" yaml:"examples,omitempty"`
	RequirementLevel *RequirementLevel `json:"requirementLevel,omitempty" yaml:"requirementLevel,omitempty"`
	Tag              string            `json:"tag,omitempty" yaml:"tag,omitempty"`
	Tags             map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Value            any               `json:"value,omitempty" yaml:"value,omitempty"`
}

// AttributeRef is a use-site reference into the catalog: a stable index
// plus optional per-use overrides.
type AttributeRef struct {
	Index     int                 `json:"index" yaml:"index"`
	Overrides *AttributeOverrides `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Metric is a catalog record for a resolved metric.
type Metric struct {
	Name       string         `json:"name" yaml:"name"`
	Brief      string         `json:"brief,omitempty" yaml:"brief,omitempty"`
	Note       string         `json:"note,omitempty" yaml:"note,omitempty"`
	Instrument string         `json:"instrument" yaml:"instrument"`
	Unit       string         `json:"unit,omitempty" yaml:"unit,omitempty"`
	Attributes []AttributeRef `json:"attributes" yaml:"attributes"`
}

// Catalog holds deduplicated attribute and metric records, addressed by index.
type Catalog struct {
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
	Metrics    []Metric    `json:"metrics" yaml:"metrics"`
}

// Group is a resolved semantic-convention group within a registry.
type Group struct {
	ID         string `json:"id" yaml:"id"`
	Kind       string `json:"kind" yaml:"kind"`
	Attributes []int  `json:"attributes" yaml:"attributes"`
}

// Registry is one input registry's resolved groups.
type Registry struct {
	URL    string  `json:"url" yaml:"url"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// Resource is the application's resolved resource attribute list.
type Resource struct {
	Attributes []AttributeRef `json:"attributes" yaml:"attributes"`
}

// InstrumentationLibrary identifies the instrumentation producing telemetry.
type InstrumentationLibrary struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Event is a resolved event signal.
type Event struct {
	Name       string         `json:"name" yaml:"name"`
	Attributes []AttributeRef `json:"attributes" yaml:"attributes"`
}

// SpanLink is a resolved span link reference.
type SpanLink struct {
	Attributes []AttributeRef `json:"attributes" yaml:"attributes"`
}

// Span is a resolved span signal, with nested events and links.
type Span struct {
	Name       string         `json:"name" yaml:"name"`
	Attributes []AttributeRef `json:"attributes" yaml:"attributes"`
	Events     []Event        `json:"events,omitempty" yaml:"events,omitempty"`
	Links      []SpanLink     `json:"links,omitempty" yaml:"links,omitempty"`
}

// ResourceMetrics holds the application's resolved metrics and metric groups.
type ResourceMetrics struct {
	Metrics      []Metric `json:"metrics" yaml:"metrics"`
	MetricGroups []Metric `json:"metricGroups,omitempty" yaml:"metricGroups,omitempty"`
}

// ResourceEvents holds the application's resolved events.
type ResourceEvents struct {
	Events []Event `json:"events" yaml:"events"`
}

// ResourceSpans holds the application's resolved spans.
type ResourceSpans struct {
	Spans []Span `json:"spans" yaml:"spans"`
}

// RenameAttributes is a rename_attributes change-descriptor variant.
type RenameAttributes struct {
	ApplyToMetrics []string          `json:"applyToMetrics,omitempty" yaml:"applyToMetrics,omitempty"`
	AttributeMap   map[string]string `json:"attributeMap,omitempty" yaml:"attributeMap,omitempty"`
}

// RenameMetrics is a rename_metrics change-descriptor variant.
type RenameMetrics struct {
	MetricMap map[string]string `json:"metricMap,omitempty" yaml:"metricMap,omitempty"`
}

// VersionChange is one entry in a version's ordered change list; exactly
// one of RenameAttributes or RenameMetrics is set.
type VersionChange struct {
	RenameAttributes *RenameAttributes `json:"renameAttributes,omitempty" yaml:"renameAttributes,omitempty"`
	RenameMetrics    *RenameMetrics    `json:"renameMetrics,omitempty" yaml:"renameMetrics,omitempty"`
}

// VersionEntry is one semantic-version key's ordered change list, carried
// verbatim from input.
type VersionEntry struct {
	Version string          `json:"version" yaml:"version"`
	Changes []VersionChange `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// Schema is the top-level Resolved Schema: a self-contained, immutable
// value produced once per resolution and never mutated afterward.
type Schema struct {
	FileFormat             string                 `json:"fileFormat" yaml:"fileFormat"`
	SchemaURL              string                 `json:"schemaUrl" yaml:"schemaUrl"`
	Catalog                Catalog                `json:"catalog" yaml:"catalog"`
	Registries             []Registry             `json:"registries" yaml:"registries"`
	Resource               Resource               `json:"resource" yaml:"resource"`
	InstrumentationLibrary InstrumentationLibrary `json:"instrumentationLibrary" yaml:"instrumentationLibrary"`
	ResourceMetrics        ResourceMetrics        `json:"resourceMetrics" yaml:"resourceMetrics"`
	ResourceEvents         ResourceEvents         `json:"resourceEvents" yaml:"resourceEvents"`
	ResourceSpans          ResourceSpans          `json:"resourceSpans" yaml:"resourceSpans"`
	Versions               []VersionEntry         `json:"versions,omitempty" yaml:"versions,omitempty"`
}
