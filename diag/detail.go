package diag

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key constants
// to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable programmatic
// inspection of diagnostic details. Custom detail keys are permitted for
// domain-specific diagnostics; use lower_snake_case for custom keys.
const (
	// DetailKeyGid is the group id involved in the diagnostic.
	DetailKeyGid = "gid"

	// DetailKeyAttributeID is the attribute id involved.
	DetailKeyAttributeID = "attribute_id"

	// DetailKeyCandidates is a comma-joined, sorted list of candidate sources,
	// each a registry URL followed by "#" and the group id (plus "." and the
	// event name for an event attribute) (used with E_AMBIGUOUS_ATTRIBUTE).
	DetailKeyCandidates = "candidates"

	// DetailKeyExpectedKind is the expected group kind (used with E_WRONG_GROUP_KIND).
	DetailKeyExpectedKind = "expected_kind"

	// DetailKeyGotKind is the actual group kind found (used with E_WRONG_GROUP_KIND).
	DetailKeyGotKind = "got_kind"

	// DetailKeyChain is the cycle or inheritance chain, comma-joined in chain
	// order ("a,b,c,a"); the issue message shows it as "a -> b -> c -> a".
	DetailKeyChain = "chain"

	// DetailKeyDepth is the inheritance depth reached (used with E_PARENT_SCHEMA_TOO_DEEP).
	DetailKeyDepth = "depth"

	// DetailKeyMaxDepth is the configured depth limit.
	DetailKeyMaxDepth = "max_depth"

	// DetailKeySource is the source location (path or URL) involved.
	DetailKeySource = "source"

	// DetailKeyCause is the underlying transport/IO failure description.
	DetailKeyCause = "cause"

	// DetailKeyField is the offending field name.
	DetailKeyField = "field"

	// DetailKeyValue is the offending field value.
	DetailKeyValue = "value"

	// DetailKeyCanonical is the canonical spelling a historical spelling was
	// normalized to (used with E_SPELLING_VARIANT).
	DetailKeyCanonical = "canonical"
)

// GidDetail creates a single detail entry naming a group id.
func GidDetail(gid string) []Detail {
	return []Detail{{Key: DetailKeyGid, Value: gid}}
}

// FieldValue creates detail entries for an invalid field-value pair.
func FieldValue(field, value string) []Detail {
	return []Detail{
		{Key: DetailKeyField, Value: field},
		{Key: DetailKeyValue, Value: value},
	}
}

// GroupKindMismatch creates detail entries for a wrong-kind group reference.
func GroupKindMismatch(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpectedKind, Value: expected},
		{Key: DetailKeyGotKind, Value: got},
	}
}
