package telschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/location"
)

func testSourceID(t *testing.T) location.SourceID {
	t.Helper()
	return location.MustNewSourceID("test://unit/schema.yaml")
}

func TestParse_BasicResourceAndMetrics(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
semantic_conventions:
  - "./registry.yaml"
schema:
  resource:
    attributes:
      - ref: service.name
      - id: service.instance.id
        type: string
        requirement_level: recommended
  instrumentation_library:
    name: my-lib
    version: "1.2.3"
  resource_metrics:
    attributes:
      - ref: http.method
    metrics:
      - ref: http.server.duration
`)
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.True(t, collector.OK())

	assert.Equal(t, "1.0.0", s.FileFormat)
	assert.Equal(t, "https://example.com/schemas/1.0.0", s.SchemaURL)
	require.Len(t, s.SemanticConventions, 1)
	assert.Equal(t, "./registry.yaml", s.SemanticConventions[0].URL)

	require.True(t, s.Resource.Set)
	require.Len(t, s.Resource.Attributes, 2)
	assert.Equal(t, "service.name", s.Resource.Attributes[0].Ref)
	assert.Equal(t, "service.instance.id", s.Resource.Attributes[1].ID)

	assert.True(t, s.InstrumentationLibrary.Set)
	assert.Equal(t, "my-lib", s.InstrumentationLibrary.Name)
	assert.Equal(t, "1.2.3", s.InstrumentationLibrary.Version)

	require.True(t, s.ResourceMetrics.Set)
	require.Len(t, s.ResourceMetrics.Metrics, 1)
	assert.Equal(t, "http.server.duration", s.ResourceMetrics.Metrics[0].Ref)
}

func TestParse_AbsentSectionsLeaveSetFalse(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
schema:
  resource:
    attributes: []
`)
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	assert.True(t, s.Resource.Set)
	assert.False(t, s.ResourceMetrics.Set)
	assert.False(t, s.ResourceEvents.Set)
	assert.False(t, s.ResourceSpans.Set)
	assert.False(t, s.InstrumentationLibrary.Set)
}

func TestParse_MetricGroupsSpellingVariants(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
schema:
  resource_metrics:
    metrics_group:
      - ref: http.server
        metrics:
          - ref: http.server.duration
`)
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.Len(t, s.ResourceMetrics.MetricGroups, 1)
	assert.Equal(t, "http.server", s.ResourceMetrics.MetricGroups[0].Ref)
	require.Len(t, s.ResourceMetrics.MetricGroups[0].Metrics, 1)

	assert.True(t, collector.Result().HasWarnings())
	found := false
	for iss := range collector.Result().Warnings() {
		if iss.Code() == diag.E_SPELLING_VARIANT {
			found = true
		}
	}
	assert.True(t, found, "expected E_SPELLING_VARIANT warning for metrics_group")
}

func TestParse_MetricGroupsCanonicalSpellingWarnsNothing(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
schema:
  resource_metrics:
    metric_groups:
      - ref: http.server
        metrics:
          - ref: http.server.duration
`)
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.Len(t, s.ResourceMetrics.MetricGroups, 1)
	assert.False(t, collector.Result().HasWarnings())
}

func TestParse_SpanNameSpellingVariants(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
schema:
  resource_spans:
    spans:
      - id: http.server.request
        attributes: []
        events:
          - event_name: exception
            attributes: []
`)
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.Len(t, s.ResourceSpans.Spans, 1)
	assert.Equal(t, "http.server.request", s.ResourceSpans.Spans[0].Name)
	require.Len(t, s.ResourceSpans.Spans[0].Events, 1)
	assert.Equal(t, "exception", s.ResourceSpans.Spans[0].Events[0].Name)
}

func TestParse_VersionsAreParsed(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
schema: {}
versions:
  1.2.0:
    changes:
      - rename_attributes:
          attribute_map:
            peer.service: peer.service.name
  1.1.0:
    changes:
      - rename_metrics:
          metric_map:
            http.server.duration: http.server.request.duration
`)
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	require.Len(t, s.Versions, 2)
	for _, ve := range s.Versions {
		require.Len(t, ve.Changes, 1)
	}
}

func TestParse_InvalidVersionFormat(t *testing.T) {
	src := []byte(`
file_format: "1.0.0"
schema_url: "https://example.com/schemas/1.0.0"
schema: {}
versions:
  not-a-version:
    changes: []
`)
	collector := diag.NewCollectorUnlimited()
	_, fatal := Parse(src, testSourceID(t), true, collector)
	require.False(t, fatal)
	assert.True(t, collector.HasErrors())
}

func TestParse_MalformedYAMLIsFatal(t *testing.T) {
	src := []byte("schema: [")
	collector := diag.NewCollectorUnlimited()
	s, fatal := Parse(src, testSourceID(t), true, collector)
	assert.True(t, fatal)
	assert.Nil(t, s)
	assert.True(t, collector.HasFatal())
}
