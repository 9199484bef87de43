package semconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/location"
)

func testSourceID(t *testing.T) location.SourceID {
	t.Helper()
	return location.MustNewSourceID("test://unit/registry.yaml")
}

func TestParse_BasicAttributeGroup(t *testing.T) {
	src := []byte(`
groups:
  - id: server
    type: attribute_group
    prefix: server
    attributes:
      - id: address
        type: string
        brief: "the server address"
        requirement_level: required
`)
	collector := diag.NewCollectorUnlimited()
	reg, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())
	require.Len(t, reg.Groups, 1)

	g := reg.Groups[0]
	assert.Equal(t, "server", g.ID)
	assert.Equal(t, KindAttributeGroup, g.Kind)
	require.Len(t, g.Attributes, 1)
	assert.Equal(t, "address", g.Attributes[0].ID)
	assert.Equal(t, "string", g.Attributes[0].Type.Primitive)
	assert.Equal(t, "required", g.Attributes[0].RequirementLevel.Kind)
}

func TestParse_RefAndIDIsError(t *testing.T) {
	src := []byte(`
groups:
  - id: server
    type: attribute_group
    attributes:
      - id: address
        ref: http.method
`)
	collector := diag.NewCollectorUnlimited()
	_, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	assert.True(t, collector.HasErrors())
	res := collector.Result()
	found := false
	for iss := range res.Errors() {
		if iss.Code() == diag.E_REF_AND_ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParse_RefWithTypeOverrideIsError(t *testing.T) {
	src := []byte(`
groups:
  - id: server
    type: attribute_group
    attributes:
      - ref: http.method
        type: int
`)
	collector := diag.NewCollectorUnlimited()
	_, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	assert.True(t, collector.HasErrors())
	res := collector.Result()
	found := false
	for iss := range res.Errors() {
		if iss.Code() == diag.E_TYPE_OVERRIDE {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParse_EnumDuplicateMemberID(t *testing.T) {
	src := []byte(`
groups:
  - id: os
    type: attribute_group
    attributes:
      - id: os.type
        type:
          members:
            - id: linux
              value: "linux"
            - id: linux
              value: "other_linux"
`)
	collector := diag.NewCollectorUnlimited()
	_, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	assert.True(t, collector.HasErrors())
}

func TestParse_MalformedYAMLIsFatal(t *testing.T) {
	src := []byte("groups: [")
	collector := diag.NewCollectorUnlimited()
	reg, fatal := Parse(src, testSourceID(t), true, collector)
	assert.True(t, fatal)
	assert.Nil(t, reg)
	assert.True(t, collector.HasFatal())
}

func TestParse_MetricGroupFields(t *testing.T) {
	src := []byte(`
groups:
  - id: http.server.duration
    type: metric
    metric_name: http.server.duration
    instrument: histogram
    unit: ms
    attributes: []
`)
	collector := diag.NewCollectorUnlimited()
	reg, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.Len(t, reg.Groups, 1)
	g := reg.Groups[0]
	assert.Equal(t, Instrument("histogram"), g.Instrument)
	assert.Equal(t, "ms", g.Unit)
}

func TestParse_UnknownFieldWarns(t *testing.T) {
	src := []byte(`
groups:
  - id: server
    type: attribute_group
    bogus_field: 1
    attributes: []
`)
	collector := diag.NewCollectorUnlimited()
	_, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	res := collector.Result()
	assert.True(t, res.HasWarnings())
}
