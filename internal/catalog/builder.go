package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/f5/otel-weaver/internal/resolve"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/internal/workerpool"
	"github.com/f5/otel-weaver/resolved"
)

// Builder accumulates the attribute and metric catalogs across a resolution
// run. Each canonically distinct record is assigned a stable index on first
// insertion; re-inserting a canonically equal record returns the existing
// index. Writes are serialized through a workerpool.Coordinator so the
// builder can be shared across concurrently merging signals.
type Builder struct {
	coord *workerpool.Coordinator

	attrs     []resolved.Attribute
	attrIndex map[string]int

	metrics     []resolved.Metric
	metricIndex map[string]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		coord:       &workerpool.Coordinator{},
		attrIndex:   make(map[string]int),
		metricIndex: make(map[string]int),
	}
}

// InsertAttribute canonicalizes def and returns its catalog index, inserting
// a new record only when no canonically equal one already exists. The
// comparison and the stored record use def's field values as given,
// including per-use override values already merged into them; only the
// Overridden* flags and the span are left out. Two uses of one attribute
// with different override values therefore get two catalog records. Ref
// additionally carries the overridden fields on the use-site reference.
func (b *Builder) InsertAttribute(def semconv.AttributeDecl) int {
	key := attributeKey(def)
	idx := -1
	b.coord.Do(func() {
		if i, ok := b.attrIndex[key]; ok {
			idx = i
			return
		}
		idx = len(b.attrs)
		b.attrs = append(b.attrs, toResolvedAttribute(def))
		b.attrIndex[key] = idx
	})
	return idx
}

// Ref builds the use-site AttributeRef for a resolved attribute: the
// catalog index of its canonical record, plus any per-use override values
// actually carried by def's Overridden* flags.
func (b *Builder) Ref(def semconv.AttributeDecl) resolved.AttributeRef {
	ref := resolved.AttributeRef{Index: b.InsertAttribute(def)}
	ref.Overrides = toOverrides(def)
	return ref
}

// Refs builds AttributeRefs for every entry in list, preserving order.
func (b *Builder) Refs(list []semconv.AttributeDecl) []resolved.AttributeRef {
	out := make([]resolved.AttributeRef, 0, len(list))
	for _, a := range list {
		out = append(out, b.Ref(a))
	}
	return out
}

// InsertMetric builds the index-addressed resolved.Metric for m, registering
// its canonical form (name, brief, note, instrument, unit, and resolved
// attribute-index set) into the metric catalog if not already present.
func (b *Builder) InsertMetric(m resolve.Metric) resolved.Metric {
	rm := resolved.Metric{
		Name:       m.Name,
		Brief:      m.Brief,
		Note:       m.Note,
		Instrument: string(m.Instrument),
		Unit:       m.Unit,
		Attributes: b.Refs(m.Attributes),
	}
	key := metricKey(rm)
	b.coord.Do(func() {
		if _, ok := b.metricIndex[key]; ok {
			return
		}
		b.metricIndex[key] = len(b.metrics)
		b.metrics = append(b.metrics, rm)
	})
	return rm
}

// Attributes returns the attribute catalog in first-insertion order.
func (b *Builder) Attributes() []resolved.Attribute {
	return b.attrs
}

// Metrics returns the metric catalog in first-insertion order.
func (b *Builder) Metrics() []resolved.Metric {
	return b.metrics
}

func toResolvedAttribute(a semconv.AttributeDecl) resolved.Attribute {
	return resolved.Attribute{
		ID:               a.ID,
		Type:             toResolvedType(a.Type),
		Brief:            a.Brief,
		Note:             a.Note,
		Examples:         a.Examples,
		RequirementLevel: resolved.RequirementLevel{Kind: a.RequirementLevel.Kind, Text: a.RequirementLevel.Text},
		Tag:              a.Tag,
		Tags:             a.Tags,
		Stability:        a.Stability,
		Deprecated:       a.Deprecated,
		SamplingRelevant: a.SamplingRelevant,
		Value:            a.Value,
	}
}

func toResolvedType(t semconv.AttributeType) resolved.AttributeType {
	out := resolved.AttributeType{
		Primitive:         t.Primitive,
		Template:          t.Template,
		AllowCustomValues: t.AllowCustomValues,
	}
	for _, m := range t.EnumMembers {
		out.EnumMembers = append(out.EnumMembers, resolved.EnumMember{
			ID: m.ID, Value: m.Value, Brief: m.Brief, Note: m.Note,
		})
	}
	return out
}

// toOverrides returns the per-use override delta recorded by def's
// Overridden* flags, or nil when def carries no override.
func toOverrides(a semconv.AttributeDecl) *resolved.AttributeOverrides {
	if !a.OverriddenBrief && !a.OverriddenNote && !a.OverriddenExamples &&
		!a.OverriddenRequirementLevel && !a.OverriddenTag && !a.OverriddenTags && !a.OverriddenValue {
		return nil
	}
	ov := &resolved.AttributeOverrides{}
	if a.OverriddenBrief {
		ov.Brief = a.Brief
	}
	if a.OverriddenNote {
		ov.Note = a.Note
	}
	if a.OverriddenExamples {
		ov.Examples = a.Examples
	}
	if a.OverriddenRequirementLevel {
		rl := resolved.RequirementLevel{Kind: a.RequirementLevel.Kind, Text: a.RequirementLevel.Text}
		ov.RequirementLevel = &rl
	}
	if a.OverriddenTag {
		ov.Tag = a.Tag
	}
	if a.OverriddenTags {
		ov.Tags = a.Tags
	}
	if a.OverriddenValue {
		ov.Value = a.Value
	}
	return ov
}

// attributeKey builds the canonical comparator for an attribute record: id,
// normalized type (enum members compared as an ordered sequence), brief,
// note, examples, requirement_level, tag, tags, stability, deprecated,
// sampling_relevant, and value. Span, the reference fields, and the
// Overridden* flags are deliberately excluded.
func attributeKey(a semconv.AttributeDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id=%s|type=%s|brief=%s|note=%s|examples=%v|rl=%s:%s|tag=%s|tags=%s|stability=%s|deprecated=%s|sampling=%t|value=%v",
		a.ID, typeKey(a.Type), a.Brief, a.Note, a.Examples,
		a.RequirementLevel.Kind, a.RequirementLevel.Text,
		a.Tag, tagsKey(a.Tags), a.Stability, a.Deprecated, a.SamplingRelevant, a.Value)
	return sb.String()
}

func typeKey(t semconv.AttributeType) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%t", t.Primitive, t.Template, t.AllowCustomValues)
	for _, m := range t.EnumMembers {
		fmt.Fprintf(&sb, "|(%s=%v:%s:%s)", m.ID, m.Value, m.Brief, m.Note)
	}
	return sb.String()
}

func tagsKey(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s;", k, tags[k])
	}
	return sb.String()
}

func metricKey(m resolved.Metric) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name=%s|brief=%s|note=%s|instrument=%s|unit=%s|attrs=", m.Name, m.Brief, m.Note, m.Instrument, m.Unit)
	for _, r := range m.Attributes {
		fmt.Fprintf(&sb, "%d,", r.Index)
	}
	return sb.String()
}
