package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/cache"
	"github.com/f5/otel-weaver/internal/config"
	"github.com/f5/otel-weaver/internal/resolve"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAssemble_ResourceAttributesAreCatalogAddressed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registry.yaml", `
groups:
  - id: server.common
    type: attribute_group
    prefix: server
    attributes:
      - id: address
        type: string
        requirement_level: required
      - id: port
        type: int
        requirement_level: recommended
`)
	schemaPath := writeFile(t, dir, "schema.yaml", `
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "registry.yaml"
schema:
  resource:
    attributes:
      - attribute_group_ref: server.common
`)

	collector := diag.NewCollectorUnlimited()
	r := resolve.New(cache.New(), config.Default())
	mat, fatal := r.Resolve(context.Background(), schemaPath, dir, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())

	b := NewBuilder()
	s := Assemble("1.0.0", mat, b)

	require.Len(t, s.Resource.Attributes, 2)
	require.Len(t, s.Catalog.Attributes, 2)
	for _, ref := range s.Resource.Attributes {
		require.GreaterOrEqual(t, ref.Index, 0)
		require.Less(t, ref.Index, len(s.Catalog.Attributes))
	}

	ids := map[string]bool{}
	for _, ref := range s.Resource.Attributes {
		ids[s.Catalog.Attributes[ref.Index].ID] = true
	}
	assert.True(t, ids["server.address"])
	assert.True(t, ids["server.port"])

	require.Len(t, s.Registries, 1)
	assert.Equal(t, "server.common", s.Registries[0].Groups[0].ID)
}

func TestAssemble_SameAttributeAcrossSignalsSharesOneCatalogEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registry.yaml", `
groups:
  - id: env.vars
    type: attribute_group
    attributes:
      - id: deployment.environment
        type: string
        requirement_level: opt_in
`)
	schemaPath := writeFile(t, dir, "schema.yaml", `
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "registry.yaml"
schema:
  resource:
    attributes:
      - ref: deployment.environment
  resource_spans:
    spans:
      - span_name: http.request
        attributes:
          - ref: deployment.environment
`)

	collector := diag.NewCollectorUnlimited()
	r := resolve.New(cache.New(), config.Default())
	mat, fatal := r.Resolve(context.Background(), schemaPath, dir, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())

	b := NewBuilder()
	s := Assemble("1.0.0", mat, b)

	require.Len(t, s.Resource.Attributes, 1)
	require.Len(t, s.ResourceSpans.Spans, 1)
	require.Len(t, s.ResourceSpans.Spans[0].Attributes, 1)
	assert.Equal(t, s.Resource.Attributes[0].Index, s.ResourceSpans.Spans[0].Attributes[0].Index)
	assert.Len(t, s.Catalog.Attributes, 1)
}
