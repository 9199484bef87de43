// Package resolve is the entry point that ties internal/cache,
// internal/semconv, internal/telschema, and internal/registry together: it
// fetches an application schema document, loads and resolves its semantic-
// convention registries, follows its parent_schema_url chain, and expands
// every attribute use site into a fully materialized tree.
//
// Grounded on the retrieval pack's schema/load package for the "fetch, parse,
// recurse on imports, merge" top-level shape, and on
// schema/internal/complete for the reference-resolution and dedup-by-id
// mechanics that mirror that package's cross-schema reference resolution.
package resolve
