package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRunResolve_WritesResolvedSchemaToOutputFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "registry.yaml", `
groups:
  - id: server.common
    type: attribute_group
    prefix: server
    attributes:
      - id: address
        type: string
        requirement_level: required
`)
	schemaPath := writeTestFile(t, dir, "schema.yaml", `
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "registry.yaml"
schema:
  resource:
    attributes:
      - attribute_group_ref: server.common
`)

	outPath := filepath.Join(dir, "out.json")
	flags := &commonFlags{
		schema:              schemaPath,
		output:              outPath,
		followRemote:        true,
		strictUnknownFields: true,
		maxInheritanceDepth: 8,
		format:              "json",
	}

	err := runResolve(context.Background(), discardLogger(), flags)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1.0.0", decoded["fileFormat"])
	assert.NotEmpty(t, decoded["catalog"])
}

func TestRunResolve_RequiresSchemaFlag(t *testing.T) {
	err := runResolve(context.Background(), discardLogger(), &commonFlags{})
	assert.Error(t, err)
}
