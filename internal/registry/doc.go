// Package registry resolves semantic-convention registries: extends
// chains are flattened (parent attributes first, child entries replacing
// same-id parent entries in place), prefixes are applied to inline
// attribute ids, and inline ref: attribute references are resolved to
// their full definitions by searching every attribute_group group across
// all loaded registries.
//
// Field-level per-use overrides on a ref (brief, note, examples,
// requirement_level, tag, tags, value) are applied after the reference is
// resolved, using the same Overridden* flags internal/semconv records at
// parse time.
package registry
