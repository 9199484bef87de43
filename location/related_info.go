package location

// Msg* are the stock RelatedInfo captions this resolver attaches to its own
// diagnostics, kept here so every call site spells the same scenario the
// same way (a duplicate-group warning always says "previous definition
// here", never "defined earlier" in one place and "original definition" in
// another).
const (
	// MsgPreviousDefinition points back at a group id's first declaration
	// when a later load redefines it.
	MsgPreviousDefinition = "previous definition here"
	// MsgImportedFrom points at the semantic_conventions entry that pulled
	// a registry document into the resolution.
	MsgImportedFrom = "imported from here"
	// MsgDeclaredHere points at an attribute or group's own declaration.
	MsgDeclaredHere = "declared here"
	// MsgExtendsFrom marks one link of an extends chain, used to annotate
	// every intermediate group in a reported extends cycle.
	MsgExtendsFrom = "extends from here"
	// MsgReferencedFrom points at a ref:/attribute_group_ref: use site.
	MsgReferencedFrom = "referenced from here"
	// MsgDefinedHere points at the group or schema level a value came from,
	// for diagnostics whose primary span is a use site rather than a
	// definition site.
	MsgDefinedHere = "defined here"
)

// RelatedInfo attaches a secondary source location to a diagnostic: the
// "previous definition here" pointer alongside a duplicate-id error, or one
// link of an extends/parent-schema cycle chain.
type RelatedInfo struct {
	Span    Span
	Message string
}

// IsValid reports whether r carries enough content to be worth rendering:
// a located span, an explanatory message, or both.
func (r RelatedInfo) IsValid() bool {
	return r.Span.IsValid() || r.Message != ""
}

func (r RelatedInfo) String() string {
	switch {
	case r.Span.IsZero():
		return r.Message
	case r.Message == "":
		return r.Span.String()
	default:
		return r.Span.String() + ": " + r.Message
	}
}
