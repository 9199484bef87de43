package resolve

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
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestResolver() *Resolver {
	return New(cache.New(), config.Default())
}

func TestResolve_BasicInheritanceViaAttributeGroupRef(t *testing.T) {
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
	mat, fatal := newTestResolver().Resolve(context.Background(), schemaPath, dir, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())
	require.Len(t, mat.Resource, 1)
	assert.Equal(t, "server.address", mat.Resource[0].ID)
}

func TestResolve_RefWithOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registry.yaml", `
groups:
  - id: env.vars
    type: attribute_group
    attributes:
      - id: deployment.environment
        type: string
        brief: "the environment"
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
        requirement_level: required
`)

	collector := diag.NewCollectorUnlimited()
	mat, fatal := newTestResolver().Resolve(context.Background(), schemaPath, dir, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())
	require.Len(t, mat.Resource, 1)
	assert.Equal(t, "required", mat.Resource[0].RequirementLevel.Kind)
	assert.Equal(t, "the environment", mat.Resource[0].Brief)
}

func TestResolve_ParentSchemaInheritanceMergesSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registry.yaml", `
groups:
  - id: service.common
    type: attribute_group
    attributes:
      - id: service.name
        type: string
        requirement_level: required
      - id: service.version
        type: string
        requirement_level: recommended
`)
	parentPath := writeFile(t, dir, "parent.yaml", `
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "registry.yaml"
schema:
  resource:
    attributes:
      - ref: service.name
`)
	_ = parentPath
	childPath := writeFile(t, dir, "child.yaml", `
file_format: "1.0.0"
parent_schema_url: "parent.yaml"
schema_url: "https://example.com/schemas/1.1.0"
semantic_conventions:
  - "registry.yaml"
schema:
  instrumentation_library:
    name: my-service
    version: "2.0.0"
`)

	collector := diag.NewCollectorUnlimited()
	mat, fatal := newTestResolver().Resolve(context.Background(), childPath, dir, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())
	require.Len(t, mat.Resource, 1)
	assert.Equal(t, "service.name", mat.Resource[0].ID)
	assert.Equal(t, "my-service", mat.InstrumentationLibrary.Name)
}

func TestResolve_AmbiguousAttributeAcrossRegistries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", `
groups:
  - id: env.a
    type: attribute_group
    attributes:
      - id: deployment.environment
        type: string
        requirement_level: opt_in
`)
	writeFile(t, dir, "b.yaml", `
groups:
  - id: env.b
    type: attribute_group
    attributes:
      - id: deployment.environment
        type: int
        requirement_level: opt_in
`)
	schemaPath := writeFile(t, dir, "schema.yaml", `
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "a.yaml"
  - "b.yaml"
schema:
  resource:
    attributes:
      - ref: deployment.environment
`)

	collector := diag.NewCollectorUnlimited()
	newTestResolver().Resolve(context.Background(), schemaPath, dir, collector)
	assert.True(t, collector.HasErrors())
	found := false
	for iss := range collector.Result().Errors() {
		if iss.Code() == diag.E_AMBIGUOUS_ATTRIBUTE {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_ParentSchemaCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", `
file_format: "1.0.0"
parent_schema_url: "b.yaml"
schema_url: "https://example.com/schemas/1.0.0"
schema: {}
`)
	bPath := writeFile(t, dir, "b.yaml", `
file_format: "1.0.0"
parent_schema_url: "a.yaml"
schema_url: "https://example.com/schemas/1.0.0"
schema: {}
`)

	collector := diag.NewCollectorUnlimited()
	newTestResolver().Resolve(context.Background(), bPath, dir, collector)
	assert.True(t, collector.HasFatal() || collector.HasErrors())
	found := false
	for iss := range collector.Result().Errors() {
		if iss.Code() == diag.E_PARENT_SCHEMA_CYCLE {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_LoadRegistries_PreservesDeclarationOrderAcrossParallelFetches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", `
groups:
  - id: shared.group
    type: attribute_group
    attributes:
      - id: shared.attr
        type: string
        brief: "from a.yaml"
        requirement_level: required
`)
	writeFile(t, dir, "b.yaml", `
groups:
  - id: shared.group
    type: attribute_group
    attributes:
      - id: shared.attr
        type: string
        brief: "from b.yaml"
        requirement_level: required
`)
	schemaPath := writeFile(t, dir, "schema.yaml", `
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "a.yaml"
  - "b.yaml"
schema:
  resource:
    attributes:
      - attribute_group_ref: shared.group
`)

	collector := diag.NewCollectorUnlimited()
	mat, fatal := newTestResolver().Resolve(context.Background(), schemaPath, dir, collector)
	require.False(t, fatal)
	require.Len(t, mat.Resource, 1)
	// b.yaml is declared after a.yaml, so its definition of shared.group wins
	// the "later load wins" rule regardless of which fetch completed first.
	assert.Equal(t, "from b.yaml", mat.Resource[0].Brief)
	assert.True(t, collector.Result().HasWarnings())
}
