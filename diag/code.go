package diag

// CodeCategory represents the pipeline stage that a code's errors belong to.
//
// Categories represent the semantic domain of an error, not necessarily the
// component that emits it. Most codes are emitted exclusively by their
// category's stage, but a few (E_INTERNAL, E_LIMIT_REACHED) cross stages.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategoryCache is for source-fetch errors (4.A).
	CategoryCache

	// CategoryParse is for semantic-convention and telemetry-schema parse
	// errors (4.B, 4.C).
	CategoryParse

	// CategoryRegistry is for extends-chain and intra-registry resolution
	// errors (4.D).
	CategoryRegistry

	// CategorySchema is for schema-resolution errors: reference-use and
	// parent-schema inheritance (4.E).
	CategorySchema

	// CategoryCatalog is for catalog-construction errors (4.F).
	CategoryCatalog
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategoryCache:
		return "cache"
	case CategoryParse:
		return "parse"
	case CategoryRegistry:
		return "registry"
	case CategorySchema:
		return "schema"
	case CategoryCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes—only codes defined in this package are valid.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_EXTENDS_CYCLE").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor—callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	// It does not automatically trigger Result.LimitReached(); use
	// Collector.LimitReached() to check limit status.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug indicator).
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Cache codes (4.A).
var (
	// E_NOT_FOUND indicates a location could not be located on disk or via HTTP.
	E_NOT_FOUND = code("E_NOT_FOUND", CategoryCache)

	// E_TRANSPORT indicates an HTTP fetch failed (non-2xx status or network error).
	E_TRANSPORT = code("E_TRANSPORT", CategoryCache)

	// E_IO indicates a local filesystem read failed.
	E_IO = code("E_IO", CategoryCache)
)

// Parse codes (4.B, 4.C).
var (
	// E_PARSE indicates malformed YAML or a structurally invalid document. Fatal per file.
	E_PARSE = code("E_PARSE", CategoryParse)

	// E_REF_AND_ID indicates an attribute declaration carries both id and a reference field.
	E_REF_AND_ID = code("E_REF_AND_ID", CategoryParse)

	// E_TYPE_OVERRIDE indicates a ref:/attribute_group_ref: use-site
	// declaration also carries a type field, attempting to override the
	// type of an attribute it only references.
	E_TYPE_OVERRIDE = code("E_TYPE_OVERRIDE", CategoryParse)

	// E_INVALID_ENUM indicates a duplicate enum member id/value, or missing members.
	E_INVALID_ENUM = code("E_INVALID_ENUM", CategoryParse)

	// E_INVALID_REQUIREMENT_LEVEL indicates a requirement_level value outside the closed set.
	E_INVALID_REQUIREMENT_LEVEL = code("E_INVALID_REQUIREMENT_LEVEL", CategoryParse)

	// E_INVALID_STABILITY indicates a stability value outside the closed set.
	E_INVALID_STABILITY = code("E_INVALID_STABILITY", CategoryParse)

	// E_INVALID_INSTRUMENT indicates an instrument value outside the closed set.
	E_INVALID_INSTRUMENT = code("E_INVALID_INSTRUMENT", CategoryParse)

	// E_VERSION_FORMAT indicates a versions map key is not a valid semantic version.
	E_VERSION_FORMAT = code("E_VERSION_FORMAT", CategoryParse)

	// E_UNKNOWN_FIELD indicates an unrecognized group or attribute-declaration
	// field. Reported as a warning.
	E_UNKNOWN_FIELD = code("E_UNKNOWN_FIELD", CategoryParse)

	// E_SPELLING_VARIANT flags acceptance of a historical field spelling
	// (e.g. metrics_group) normalized to its canonical form.
	E_SPELLING_VARIANT = code("E_SPELLING_VARIANT", CategoryParse)
)

// Registry codes (4.D).
var (
	// E_UNKNOWN_EXTENDS indicates an extends parent gid cannot be found.
	E_UNKNOWN_EXTENDS = code("E_UNKNOWN_EXTENDS", CategoryRegistry)

	// E_EXTENDS_CYCLE indicates an extends chain contains a cycle. Fatal. The
	// registry's other groups are still resolved; the groups on the cycle keep
	// only the attributes resolved before the cycle was found.
	E_EXTENDS_CYCLE = code("E_EXTENDS_CYCLE", CategoryRegistry)

	// E_DUPLICATE_GROUP_ID indicates the same gid is declared twice: as an
	// error when within one registry, as a warning when a later registry
	// redefines it (the later definition wins).
	E_DUPLICATE_GROUP_ID = code("E_DUPLICATE_GROUP_ID", CategoryRegistry)

	// E_UNKNOWN_ATTRIBUTE_REF indicates an inline ref: <attr-id> has no matching definition.
	E_UNKNOWN_ATTRIBUTE_REF = code("E_UNKNOWN_ATTRIBUTE_REF", CategoryRegistry)
)

// Schema resolution codes (4.E).
var (
	// E_UNKNOWN_ATTRIBUTE indicates a ref: <id> matches no loaded attribute definition.
	E_UNKNOWN_ATTRIBUTE = code("E_UNKNOWN_ATTRIBUTE", CategorySchema)

	// E_AMBIGUOUS_ATTRIBUTE indicates a ref: <id> matches more than one definition.
	E_AMBIGUOUS_ATTRIBUTE = code("E_AMBIGUOUS_ATTRIBUTE", CategorySchema)

	// E_UNKNOWN_GROUP_REF indicates an attribute_group_ref/resource_ref/span_ref/event_ref
	// names a gid that cannot be found.
	E_UNKNOWN_GROUP_REF = code("E_UNKNOWN_GROUP_REF", CategorySchema)

	// E_WRONG_GROUP_KIND indicates a group reference resolved to a group of
	// the wrong kind (e.g. span_ref pointing at a metric group).
	E_WRONG_GROUP_KIND = code("E_WRONG_GROUP_KIND", CategorySchema)

	// E_PARENT_SCHEMA_CYCLE indicates a parent_schema_url chain contains a cycle. Fatal.
	E_PARENT_SCHEMA_CYCLE = code("E_PARENT_SCHEMA_CYCLE", CategorySchema)

	// E_PARENT_SCHEMA_TOO_DEEP indicates the parent_schema_url chain exceeds MaxInheritanceDepth.
	E_PARENT_SCHEMA_TOO_DEEP = code("E_PARENT_SCHEMA_TOO_DEEP", CategorySchema)

	// E_PARENT_FETCH_FAILED indicates a schema document (the root or a parent)
	// or a semantic_conventions registry could not be fetched.
	E_PARENT_FETCH_FAILED = code("E_PARENT_FETCH_FAILED", CategorySchema)
)

// Catalog codes (4.F).
var (
	// E_CATALOG_INDEX_INVALID indicates an attribute index outside the catalog bounds
	// was produced internally. No stage of this resolver emits it.
	E_CATALOG_INDEX_INVALID = code("E_CATALOG_INDEX_INVALID", CategoryCatalog)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	// Sentinel
	E_LIMIT_REACHED,
	E_INTERNAL,
	// Cache
	E_NOT_FOUND,
	E_TRANSPORT,
	E_IO,
	// Parse
	E_PARSE,
	E_REF_AND_ID,
	E_TYPE_OVERRIDE,
	E_INVALID_ENUM,
	E_INVALID_REQUIREMENT_LEVEL,
	E_INVALID_STABILITY,
	E_INVALID_INSTRUMENT,
	E_VERSION_FORMAT,
	E_UNKNOWN_FIELD,
	E_SPELLING_VARIANT,
	// Registry
	E_UNKNOWN_EXTENDS,
	E_EXTENDS_CYCLE,
	E_DUPLICATE_GROUP_ID,
	E_UNKNOWN_ATTRIBUTE_REF,
	// Schema
	E_UNKNOWN_ATTRIBUTE,
	E_AMBIGUOUS_ATTRIBUTE,
	E_UNKNOWN_GROUP_REF,
	E_WRONG_GROUP_KIND,
	E_PARENT_SCHEMA_CYCLE,
	E_PARENT_SCHEMA_TOO_DEEP,
	E_PARENT_FETCH_FAILED,
	// Catalog
	E_CATALOG_INDEX_INVALID,
}

// AllCodes returns all defined codes.
//
// The returned slice is a copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
