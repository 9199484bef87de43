package location

// PositionRegistry provides byte-offset-to-position conversion.
//
// This interface is the bridge between format adapters (YAML, JSON) and source
// content caches that perform the actual conversion. It enables adapters
// to obtain accurate Position values from byte offsets captured during parsing.
//
// No package in this module implements it.
//
// Design rationale:
//
//  1. Foundation tier placement: PositionRegistry is defined in location
//     (foundation tier) because the interface operates on location.Position and
//     location.SourceID — natural cohesion with the location package.
//
//  2. Decouples adapters from the cache: Adapters can use any PositionRegistry
//     implementation. This enables testing with
//     mock registries and supports alternative implementations.
//
//  3. Enables adapter independence: Adapters can be used in contexts where the
//     full resolver machinery isn't needed.
type PositionRegistry interface {
	// PositionAt converts a byte offset to a Position for the given source.
	//
	// Returns a zero Position (check via IsZero()) if:
	//   - The source is not registered
	//   - The byte offset is out of range
	//   - The byte offset is negative
	//
	// The returned Position has:
	//   - Line: 1-based line number
	//   - Column: 1-based rune offset from line start
	//   - Byte: The input byteOffset (echoed back for convenience)
	PositionAt(source SourceID, byteOffset int) Position
}

// RuneOffsetConverter provides rune-to-byte offset conversion.
//
// YAML decoder positions are rune-based (character indices) in some code
// paths, but the resolver layer uses byte offsets for consistency with Go
// strings and UTF-8 handling. This interface enables the conversion between
// these coordinate systems.
//
// No package in this module implements it.
type RuneOffsetConverter interface {
	// RuneToByteOffset converts a rune offset to a byte offset for the given source.
	//
	// Returns (byteOffset, true) on success.
	// Returns (0, false) if:
	//   - The source is not registered
	//   - The rune offset is out of range
	//   - The rune offset is negative
	RuneToByteOffset(source SourceID, runeOffset int) (byteOffset int, ok bool)
}
