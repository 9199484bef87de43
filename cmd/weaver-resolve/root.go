package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

// commonFlags holds the options every verb accepts, per the boundary
// summary: --schema, --output, --language, --protocol.
type commonFlags struct {
	schema   string
	output   string
	language string
	protocol string

	followRemote        bool
	strictUnknownFields bool
	bestEffort          bool
	maxInheritanceDepth int
	issueLimit          int
	format              string
	excerpts            bool
	color               bool
}

func newRootCmd(ctx context.Context, logger *slog.Logger) *cobra.Command {
	flags := &commonFlags{}

	root := &cobra.Command{
		Use:           "weaver-resolve",
		Short:         "Resolve telemetry schemas against semantic-convention registries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.schema, "schema", "", "path or URL to the application schema document")
	root.PersistentFlags().StringVar(&flags.output, "output", "", "output path (default stdout)")
	root.PersistentFlags().StringVar(&flags.language, "language", "", "target language id (consumed by generation verbs)")
	root.PersistentFlags().StringVar(&flags.protocol, "protocol", "", "target protocol id (consumed by generation verbs)")
	root.PersistentFlags().BoolVar(&flags.followRemote, "follow-remote", true, "allow http(s):// schema and registry locations")
	root.PersistentFlags().BoolVar(&flags.strictUnknownFields, "strict-unknown-fields", true, "warn about unrecognized group and attribute fields")
	root.PersistentFlags().BoolVar(&flags.bestEffort, "best-effort", false, "emit a partial Resolved Schema alongside a non-zero exit on errors")
	root.PersistentFlags().IntVar(&flags.maxInheritanceDepth, "max-inheritance-depth", 8, "maximum parent_schema_url chain length")
	root.PersistentFlags().IntVar(&flags.issueLimit, "issue-limit", 0, "cap on collected diagnostics (0 = unlimited)")
	root.PersistentFlags().StringVar(&flags.format, "format", "json", "output encoding: json or yaml")
	root.PersistentFlags().BoolVar(&flags.excerpts, "excerpts", false, "include source excerpts in rendered diagnostics")
	root.PersistentFlags().BoolVar(&flags.color, "color", false, "colorize rendered diagnostics")

	root.AddCommand(
		newResolveCmd(ctx, logger, flags),
		newGenClientSDKCmd(),
		newGenClientAPICmd(),
		newLanguagesCmd(),
		newSearchCmd(),
	)
	return root
}
