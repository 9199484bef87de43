// Package diag provides structured diagnostics for the resolution pipeline.
//
// # Design Principles
//
//   - Structured data, not embedded strings. Locations, codes, and context
//     are first-class fields on Issue, not baked into message text.
//   - Immutable results. Result and Issue are immutable after construction;
//     defensive copies are returned from accessors that expose slices.
//   - Stable error codes. The closed Code type (see code.go) prevents
//     ad-hoc code creation; every code is declared once, in one category.
//   - Deterministic ordering. Collector.Result() always returns issues in
//     the same order for the same input set, regardless of the order
//     concurrent workers reported them in (see compareIssues).
//   - Builder-pattern construction only. Issue has no exported fields;
//     build via NewIssue/IssueBuilder so validity is enforced at
//     construction time rather than checked ad hoc at every call site.
//   - Precomputed counts. Result and Collector maintain severity counts
//     incrementally so OK()/HasErrors()/HasFatal() are O(1).
//
// # Entry Point Pattern
//
// Resolution-stage functions follow a triple-return convention:
//
//   - err != nil: a catastrophic failure occurred (I/O failure reading the
//     root input, a programming invariant violated). The operation could
//     not produce a diagnostic result at all.
//   - err == nil && !result.OK(): the operation ran to completion but
//     found fatal or error-severity issues. The resolved output, if any,
//     should not be used as-is.
//   - err == nil && result.OK(): the operation succeeded, possibly with
//     warnings, info, or hints attached to the result.
//
// # Severity Semantics
//
// Fatal issues abort processing of the document that produced them (e.g. a
// parse error, or a parent-schema cycle). An extends cycle is also Fatal,
// but the other groups of its registry are still resolved. Error issues are
// collected and processing continues across sibling documents, but the
// overall result is not OK(). Warning, Info, and Hint issues never affect
// OK().
//
// # Issue Construction
//
//	issue := diag.NewIssue(diag.Error, diag.E_UNKNOWN_ATTRIBUTE, `attribute "http.methdo" is not defined`).
//	    WithSpan(span).
//	    WithHint(`did you mean "http.method"?`).
//	    Build()
//
// # Collection and Results
//
//	collector := diag.NewCollectorUnlimited()
//	collector.Collect(issue)
//	result := collector.Result()
//	if !result.OK() {
//	    for issue := range result.Errors() {
//	        fmt.Println(issue.Message())
//	    }
//	}
//
// # Rendering
//
// Issues are rendered for human consumption by a Renderer (see renderer.go)
// and for machine consumption by Renderer.FormatResultJSON and
// Renderer.FormatIssueJSON (see json.go).
//
// # Package Dependencies
//
// diag imports only the standard library and the location package. It must
// not import any domain package (cache, semconv, telschema, registry,
// resolve, catalog)—this is the Foundation Rule: foundation packages never
// depend on the packages that use them.
package diag
