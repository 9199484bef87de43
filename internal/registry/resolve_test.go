package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/location"
)

func mustParse(t *testing.T, src string, url string) *semconv.Registry {
	t.Helper()
	sourceID := location.MustNewSourceID("test://registry/" + url)
	collector := diag.NewCollectorUnlimited()
	reg, fatal := semconv.Parse([]byte(src), sourceID, true, collector)
	require.False(t, fatal)
	reg.URL = url
	return reg
}

func TestResolve_ExtendsFlattening(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: base
    type: attribute_group
    attributes:
      - id: common.field
        type: string
        requirement_level: required
  - id: child
    type: attribute_group
    extends: base
    attributes:
      - id: child.field
        type: string
        requirement_level: opt_in
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	resolved := Resolve([]*semconv.Registry{reg}, collector)
	require.True(t, collector.OK())

	g, ok := resolved.Group("child")
	require.True(t, ok)
	require.Len(t, g.Attributes, 2)
	assert.Equal(t, "common.field", g.Attributes[0].ID)
	assert.Equal(t, "child.field", g.Attributes[1].ID)
}

func TestResolve_ChildOverridesParentSameID(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: base
    type: attribute_group
    attributes:
      - id: shared.field
        type: string
        requirement_level: opt_in
  - id: child
    type: attribute_group
    extends: base
    attributes:
      - id: shared.field
        type: int
        requirement_level: required
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	resolved := Resolve([]*semconv.Registry{reg}, collector)
	g, ok := resolved.Group("child")
	require.True(t, ok)
	require.Len(t, g.Attributes, 1)
	assert.Equal(t, "int", g.Attributes[0].Type.Primitive)
	assert.Equal(t, "required", g.Attributes[0].RequirementLevel.Kind)
}

func TestResolve_PrefixAppliedToInlineDeclaration(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: net
    type: attribute_group
    prefix: net
    attributes:
      - id: address
        type: string
        requirement_level: opt_in
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	resolved := Resolve([]*semconv.Registry{reg}, collector)
	g, ok := resolved.Group("net")
	require.True(t, ok)
	require.Len(t, g.Attributes, 1)
	assert.Equal(t, "net.address", g.Attributes[0].ID)
}

func TestResolve_RefResolvesAndAppliesOverride(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: http.common
    type: attribute_group
    attributes:
      - id: http.method
        type: string
        brief: "the HTTP method"
        requirement_level: required
  - id: http.server
    type: attribute_group
    attributes:
      - ref: http.method
        brief: "overridden brief"
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	resolved := Resolve([]*semconv.Registry{reg}, collector)
	require.True(t, collector.OK())
	g, ok := resolved.Group("http.server")
	require.True(t, ok)
	require.Len(t, g.Attributes, 1)
	assert.Equal(t, "http.method", g.Attributes[0].ID)
	assert.Equal(t, "overridden brief", g.Attributes[0].Brief)
	assert.Equal(t, "required", g.Attributes[0].RequirementLevel.Kind)
}

func TestResolve_UnknownAttributeRef(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: http.server
    type: attribute_group
    attributes:
      - ref: does.not.exist
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	Resolve([]*semconv.Registry{reg}, collector)
	assert.True(t, collector.HasErrors())
	found := false
	for iss := range collector.Result().Errors() {
		if iss.Code() == diag.E_UNKNOWN_ATTRIBUTE_REF {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_ExtendsCycleDetected(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: a
    type: attribute_group
    extends: b
    attributes: []
  - id: b
    type: attribute_group
    extends: c
    attributes: []
  - id: c
    type: attribute_group
    extends: a
    attributes: []
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	Resolve([]*semconv.Registry{reg}, collector)
	assert.True(t, collector.HasErrors())
	found := false
	for iss := range collector.Result().Errors() {
		if iss.Code() == diag.E_EXTENDS_CYCLE {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_DuplicateGroupIDWithinRegistry(t *testing.T) {
	reg := mustParse(t, `
groups:
  - id: dup
    type: attribute_group
    attributes: []
  - id: dup
    type: attribute_group
    attributes: []
`, "a.yaml")

	collector := diag.NewCollectorUnlimited()
	Resolve([]*semconv.Registry{reg}, collector)
	assert.True(t, collector.HasErrors())
}

func TestResolve_CrossRegistryLaterLoadWins(t *testing.T) {
	regA := mustParse(t, `
groups:
  - id: shared
    type: attribute_group
    attributes:
      - id: from.a
        type: string
        requirement_level: opt_in
`, "a.yaml")
	regB := mustParse(t, `
groups:
  - id: shared
    type: attribute_group
    attributes:
      - id: from.b
        type: string
        requirement_level: opt_in
`, "b.yaml")

	collector := diag.NewCollectorUnlimited()
	resolved := Resolve([]*semconv.Registry{regA, regB}, collector)
	assert.True(t, collector.Result().HasWarnings())
	g, ok := resolved.Group("shared")
	require.True(t, ok)
	require.Len(t, g.Attributes, 1)
	assert.Equal(t, "from.b", g.Attributes[0].ID)
}
