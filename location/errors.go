package location

import "errors"

// Sentinel errors for location's path and source-id constructors. Errors for
// these failure modes chain back to one of these via %w, so callers can
// branch on failure mode with errors.Is instead of parsing messages.
// Filesystem failures (from filepath.Abs or filepath.EvalSymlinks) wrap the
// underlying error instead.
var (
	// ErrEmptySourceID: ValidateSyntheticSourceID (and MustNewSourceID) reject
	// an empty synthetic identifier — a registry loaded from "" has no
	// meaningful provenance to report in a diagnostic.
	ErrEmptySourceID = errors.New("location: synthetic source ID cannot be empty")

	// ErrAbsolutePathSourceID: a synthetic source ID that resembles an
	// absolute path (Unix "/path", Windows "C:/path", UNC "//server") would
	// collide with a file-backed SourceID's String() form. Callers building
	// synthetic IDs for inline or embedded registries should prefix them
	// with a scheme instead, e.g. "inline:" or "embedded://".
	ErrAbsolutePathSourceID = errors.New("location: synthetic source ID looks like absolute file path")

	// ErrUNCPath: UNC paths (//server/share, \\server\share) are rejected
	// everywhere a local filesystem path is expected, because path.Clean
	// collapses a leading "//" to "/" and would silently alias a UNC share
	// onto an unrelated local path.
	ErrUNCPath = errors.New("location: UNC paths are not supported")

	// ErrNotAbsolute: SourceIDFromAbsolutePath requires an already-absolute
	// path; it performs no filesystem lookup to resolve a relative one.
	ErrNotAbsolute = errors.New("location: path is not absolute")

	// ErrAbsoluteJoinElement: CanonicalPath.Join rejects elements that look
	// absolute (Unix "/path", Windows volume "C:/path", UNC) since joining
	// an absolute element onto an existing base is almost always a caller
	// mistake — use NewCanonicalPath directly for that element instead.
	ErrAbsoluteJoinElement = errors.New("location: join element is absolute")
)
