package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f5/otel-weaver/internal/resolve"
	"github.com/f5/otel-weaver/internal/semconv"
)

func TestInsertAttribute_IdempotentOnEqualRecord(t *testing.T) {
	b := NewBuilder()
	a := semconv.AttributeDecl{ID: "server.address", Type: semconv.AttributeType{Primitive: "string"}, RequirementLevel: semconv.RequirementLevel{Kind: "required"}}

	i1 := b.InsertAttribute(a)
	i2 := b.InsertAttribute(a)
	assert.Equal(t, i1, i2)
	require.Len(t, b.Attributes(), 1)
}

func TestInsertAttribute_DistinctOnDifferingField(t *testing.T) {
	b := NewBuilder()
	a := semconv.AttributeDecl{ID: "deployment.environment", Type: semconv.AttributeType{Primitive: "string"}}
	a2 := a
	a2.Brief = "different brief"

	i1 := b.InsertAttribute(a)
	i2 := b.InsertAttribute(a2)
	assert.NotEqual(t, i1, i2)
	assert.Len(t, b.Attributes(), 2)
}

func TestInsertAttribute_SpanAndRefFieldsExcludedFromComparison(t *testing.T) {
	b := NewBuilder()
	a := semconv.AttributeDecl{ID: "service.name", Type: semconv.AttributeType{Primitive: "string"}}
	a2 := a
	a2.Ref = "service.name" // reference-bookkeeping field, not part of the canonical record

	i1 := b.InsertAttribute(a)
	i2 := b.InsertAttribute(a2)
	assert.Equal(t, i1, i2)
}

func TestRef_CarriesOverrideDelta(t *testing.T) {
	b := NewBuilder()
	a := semconv.AttributeDecl{
		ID:                         "deployment.environment",
		Type:                       semconv.AttributeType{Primitive: "string"},
		RequirementLevel:           semconv.RequirementLevel{Kind: "required"},
		OverriddenRequirementLevel: true,
	}
	ref := b.Ref(a)
	require.NotNil(t, ref.Overrides)
	require.NotNil(t, ref.Overrides.RequirementLevel)
	assert.Equal(t, "required", ref.Overrides.RequirementLevel.Kind)
	assert.Empty(t, ref.Overrides.Brief)
}

func TestRef_NilOverridesWhenNothingOverridden(t *testing.T) {
	b := NewBuilder()
	a := semconv.AttributeDecl{ID: "service.name", Type: semconv.AttributeType{Primitive: "string"}}
	ref := b.Ref(a)
	assert.Nil(t, ref.Overrides)
}

func TestInsertMetric_IdempotentOnEqualDefinition(t *testing.T) {
	b := NewBuilder()
	m := resolve.Metric{
		Name:       "http.server.duration",
		Instrument: semconv.InstrumentHistogram,
		Unit:       "ms",
		Attributes: []semconv.AttributeDecl{{ID: "http.method", Type: semconv.AttributeType{Primitive: "string"}}},
	}
	r1 := b.InsertMetric(m)
	r2 := b.InsertMetric(m)
	assert.Equal(t, r1, r2)
	assert.Len(t, b.Metrics(), 1)
	assert.Len(t, b.Attributes(), 1)
}
