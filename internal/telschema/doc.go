// Package telschema parses application telemetry schema documents: the
// top-level file_format/parent_schema_url/schema_url/semantic_conventions
// fields plus the schema block's resource, instrumentation_library,
// resource_metrics, resource_events, resource_spans sections and the
// optional versions map.
//
// Absence tracking matters here more than in internal/semconv: a section
// omitted from a child schema must be distinguishable from a section
// present but empty, because parent-schema inheritance (internal/resolve)
// fills in omitted sections from the parent's resolved output. Each
// section type therefore carries a Set flag rather than relying on a
// nil/empty slice to mean "absent".
package telschema
