package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/cache"
	"github.com/f5/otel-weaver/internal/catalog"
	"github.com/f5/otel-weaver/internal/config"
	"github.com/f5/otel-weaver/internal/resolve"
)

func newResolveCmd(ctx context.Context, logger *slog.Logger, flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an application schema and its registries into the Resolved Schema form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(ctx, logger, flags)
		},
	}
}

func runResolve(ctx context.Context, logger *slog.Logger, flags *commonFlags) error {
	if flags.schema == "" {
		return fmt.Errorf("--schema is required")
	}

	cfg := config.Config{
		FollowRemote:        flags.followRemote,
		MaxInheritanceDepth: flags.maxInheritanceDepth,
		StrictUnknownFields: flags.strictUnknownFields,
		BestEffort:          flags.bestEffort,
		IssueLimit:          flags.issueLimit,
	}

	reg := prometheus.NewRegistry()
	c := cache.New(cache.WithPrometheusCounters(reg))
	r := resolve.New(c, cfg)

	collector := diag.NewCollector(flags.issueLimit)
	logger.Info("resolving schema", slog.String("schema", flags.schema))

	mat, fatal := r.Resolve(ctx, flags.schema, ".", collector)
	result := collector.Result()

	renderer := diag.NewRenderer(
		diag.WithExcerpts(flags.excerpts),
		diag.WithColors(flags.color),
	)

	if fatal || (!result.OK() && !flags.bestEffort) {
		logger.Error("resolution failed", slog.Int("issues", result.Len()))
		fmt.Fprintln(os.Stderr, renderer.FormatResult(result))
		return fmt.Errorf("resolution failed with %d diagnostic(s)", result.Len())
	}

	b := catalog.NewBuilder()
	out := catalog.Assemble(schemaFileFormat, mat, b)

	if err := writeOutput(flags, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if result.Len() > 0 {
		fmt.Fprintln(os.Stderr, renderer.FormatResult(result))
	}
	if !result.OK() {
		return fmt.Errorf("resolution completed with %d diagnostic(s)", result.Len())
	}
	return nil
}

// schemaFileFormat is the Resolved Schema file_format version this resolver emits.
const schemaFileFormat = "1.0.0"

func writeOutput(flags *commonFlags, out any) error {
	w := os.Stdout
	var f *os.File
	if flags.output != "" {
		var err error
		f, err = os.Create(flags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch flags.format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown --format %q (want json or yaml)", flags.format)
	}
}
