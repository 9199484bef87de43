package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/f5/otel-weaver/diag"
	"github.com/f5/otel-weaver/internal/cache"
	"github.com/f5/otel-weaver/internal/config"
	"github.com/f5/otel-weaver/internal/registry"
	"github.com/f5/otel-weaver/internal/semconv"
	"github.com/f5/otel-weaver/internal/telschema"
	"github.com/f5/otel-weaver/internal/workerpool"
	"github.com/f5/otel-weaver/location"
)

// Resolver materializes an application schema, following parent_schema_url
// inheritance and loading every semantic_conventions registry it names.
type Resolver struct {
	cache *cache.Cache
	cfg   config.Config
}

// New creates a Resolver backed by c, governed by cfg.
func New(c *cache.Cache, cfg config.Config) *Resolver {
	return &Resolver{cache: c, cfg: cfg}
}

// Resolve fetches, parses, and fully materializes the application schema at
// loc (resolved against baseDir if relative), following its parent-schema
// chain and loading its semantic-convention registries. It returns (nil,
// true) on a fatal failure to even load the root document; otherwise a
// best-effort Materialized and false, with issues collected into collector.
func (r *Resolver) Resolve(ctx context.Context, loc, baseDir string, collector *diag.Collector) (*Materialized, bool) {
	return r.resolveChain(ctx, loc, baseDir, 0, nil, collector)
}

func (r *Resolver) resolveChain(ctx context.Context, loc, baseDir string, depth int, chain []string, collector *diag.Collector) (*Materialized, bool) {
	if depth > r.cfg.MaxInheritanceDepth {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_PARENT_SCHEMA_TOO_DEEP,
			fmt.Sprintf("parent schema inheritance exceeds max depth %d", r.cfg.MaxInheritanceDepth)).
			WithDetail(diag.DetailKeyDepth, fmt.Sprintf("%d", depth)).
			WithDetail(diag.DetailKeyMaxDepth, fmt.Sprintf("%d", r.cfg.MaxInheritanceDepth)).
			Build())
		return nil, true
	}

	content, resolvedLoc, err := r.cache.Fetch(ctx, loc, baseDir, r.cfg.FollowRemote)
	if err != nil {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_PARENT_FETCH_FAILED,
			fmt.Sprintf("failed to fetch schema %s: %v", loc, err)).
			WithDetail(diag.DetailKeySource, loc).
			WithDetail(diag.DetailKeyCause, err.Error()).
			Build())
		return nil, true
	}

	// Cycle detection compares resolved absolute locations, since the same
	// parent can be named with different relative spellings at different
	// points in the chain.
	for _, seen := range chain {
		if seen == resolvedLoc {
			collector.Collect(diag.NewIssue(diag.Fatal, diag.E_PARENT_SCHEMA_CYCLE,
				fmt.Sprintf("parent schema cycle detected: %s", strings.Join(append(chain, resolvedLoc), " -> "))).
				WithDetail(diag.DetailKeyChain, strings.Join(append(chain, resolvedLoc), ",")).
				Build())
			return nil, true
		}
	}

	sourceID := sourceIDFor(resolvedLoc)
	docDir := cache.DirOf(resolvedLoc)

	schema, fatal := telschema.Parse(content, sourceID, r.cfg.StrictUnknownFields, collector)
	if fatal {
		return nil, true
	}

	resolvedRegistries := r.loadRegistries(ctx, schema.SemanticConventions, docDir, collector)

	var parent *Materialized
	if schema.ParentSchemaURL != "" {
		p, pFatal := r.resolveChain(ctx, schema.ParentSchemaURL, docDir, depth+1, append(chain, resolvedLoc), collector)
		if !pFatal {
			parent = p
		}
	}

	pool := newRefPool(resolvedRegistries, parent)

	mat := &Materialized{SchemaURL: schema.SchemaURL, Registries: resolvedRegistries}
	if mat.SchemaURL == "" && parent != nil {
		mat.SchemaURL = parent.SchemaURL
	}

	mat.Resource = mergeResourceSection(schema.Resource, parent, pool, collector)
	mat.InstrumentationLibrary = mergeInstrumentationLibrary(schema.InstrumentationLibrary, parent)
	mat.Metrics = mergeMetrics(schema.ResourceMetrics, parent, pool, collector)
	mat.Events = mergeEvents(schema.ResourceEvents, parent, pool, collector)
	mat.Spans = mergeSpans(schema.ResourceSpans, parent, pool, collector)
	mat.Versions = mergeVersions(schema.Versions, parent, collector)

	return mat, false
}

// loadRegistries fetches and parses every semantic_conventions import,
// relative to baseDir, and resolves the combined set through the Registry
// Resolver. Each import is an independent fetch-then-parse unit, so they run
// through workerpool.MapOrdered instead of one at a time: a schema that
// names a dozen registries, several of them remote, no longer pays for their
// fetch latency serially. MapOrdered keeps per-import results indexed by
// their original position, so registry.Resolve still sees them in
// declaration order regardless of which fetch finishes first — required for
// the later-load-wins duplicate-group-id semantics in internal/registry to
// stay deterministic.
func (r *Resolver) loadRegistries(ctx context.Context, imports []telschema.SemanticConventionImport, baseDir string, collector *diag.Collector) *registry.Resolved {
	loaded, _ := workerpool.MapOrdered(ctx, imports, 0,
		func(ctx context.Context, imp telschema.SemanticConventionImport, _ int) (*semconv.Registry, error) {
			content, resolvedLoc, err := r.cache.Fetch(ctx, imp.URL, baseDir, r.cfg.FollowRemote)
			if err != nil {
				collector.Collect(diag.NewIssue(diag.Error, diag.E_PARENT_FETCH_FAILED,
					fmt.Sprintf("failed to fetch semantic convention registry %s: %v", imp.URL, err)).
					WithSpan(imp.Span).
					WithDetail(diag.DetailKeySource, imp.URL).
					WithDetail(diag.DetailKeyCause, err.Error()).
					Build())
				return nil, nil
			}
			sourceID := sourceIDFor(resolvedLoc)
			reg, fatal := semconv.Parse(content, sourceID, r.cfg.StrictUnknownFields, collector)
			if fatal || reg == nil {
				return nil, nil
			}
			reg.URL = resolvedLoc
			return reg, nil
		})

	var registries []*semconv.Registry
	for _, reg := range loaded {
		if reg != nil {
			registries = append(registries, reg)
		}
	}
	return registry.Resolve(registries, collector)
}

func sourceIDFor(resolvedLoc string) location.SourceID {
	if strings.HasPrefix(resolvedLoc, "http://") || strings.HasPrefix(resolvedLoc, "https://") {
		return location.MustNewSourceID(resolvedLoc)
	}
	sid, err := location.SourceIDFromAbsolutePath(resolvedLoc)
	if err != nil {
		return location.MustNewSourceID("file://" + resolvedLoc)
	}
	return sid
}
