// Package config holds the resolver's configuration object.
//
// Config is a plain struct passed explicitly end to end, never a package
// global, per the functional-options pattern used in
// schema/load.Option.
package config

// Config controls resolution behavior.
type Config struct {
	// FollowRemote allows http(s):// locations to be fetched. When false,
	// remote locations produce a diagnostic instead of a network call.
	FollowRemote bool

	// MaxInheritanceDepth bounds parent_schema_url chain length.
	MaxInheritanceDepth int

	// StrictUnknownFields reports unrecognized fields of semantic-convention
	// groups and of attribute declarations as E_UNKNOWN_FIELD warnings; the
	// document is still accepted, and other schema-document fields are not
	// checked. When false, unknown fields are ignored.
	StrictUnknownFields bool

	// BestEffort records whether partial output is wanted alongside a
	// non-OK diagnostic result. Resolver.Resolve does not read it and always
	// returns whatever it could materialize; the weaver-resolve command
	// decides from its --best-effort flag whether to write that output.
	BestEffort bool

	// IssueLimit caps the number of diagnostics collected per resolution.
	// Zero means unlimited.
	IssueLimit int
}

// Default returns the documented default configuration:
// follow_remote: true, max_inheritance_depth: 8, strict_unknown_fields:
// true, best_effort: false.
func Default() Config {
	return Config{
		FollowRemote:        true,
		MaxInheritanceDepth: 8,
		StrictUnknownFields: true,
		BestEffort:          false,
		IssueLimit:          0,
	}
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithFollowRemote sets FollowRemote.
func WithFollowRemote(on bool) Option {
	return func(c *Config) { c.FollowRemote = on }
}

// WithMaxInheritanceDepth sets MaxInheritanceDepth.
func WithMaxInheritanceDepth(n int) Option {
	return func(c *Config) { c.MaxInheritanceDepth = n }
}

// WithStrictUnknownFields sets StrictUnknownFields.
func WithStrictUnknownFields(on bool) Option {
	return func(c *Config) { c.StrictUnknownFields = on }
}

// WithBestEffort sets BestEffort.
func WithBestEffort(on bool) Option {
	return func(c *Config) { c.BestEffort = on }
}

// WithIssueLimit sets IssueLimit.
func WithIssueLimit(limit int) Option {
	return func(c *Config) { c.IssueLimit = limit }
}

// New builds a Config starting from Default and applying opts in order.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
