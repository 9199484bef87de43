package diag

import "iter"

// SeverityCounts holds precomputed counts of issues by severity.
type SeverityCounts struct {
	Fatal    int
	Errors   int
	Warnings int
	Info     int
	Hints    int
}

// Result is an immutable collection of diagnostic issues.
//
// Result is returned from resolution-stage entry points following the
// triple-return convention: err != nil signals a catastrophic failure
// (the operation could not even attempt diagnosis); err == nil with
// !result.OK() signals recoverable diagnostic failures; err == nil with
// result.OK() signals success, possibly carrying warnings, info, or hints.
//
// All fields are unexported; counts are precomputed at construction time
// so queries are O(1).
type Result struct {
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int
	counts       SeverityCounts
}

// OK returns an empty, successful Result.
func OK() Result {
	return Result{}
}

// newResult constructs a Result, precomputing severity counts.
func newResult(issues []Issue, limit int, limitReached bool, dropped int) Result {
	r := Result{
		issues:       issues,
		limit:        limit,
		limitReached: limitReached,
		droppedCount: dropped,
	}
	for _, iss := range issues {
		switch iss.Severity() {
		case Fatal:
			r.counts.Fatal++
		case Error:
			r.counts.Errors++
		case Warning:
			r.counts.Warnings++
		case Info:
			r.counts.Info++
		case Hint:
			r.counts.Hints++
		}
	}
	return r
}

// OK reports whether the result contains no fatal or error-severity issues.
func (r Result) OK() bool {
	return r.counts.Fatal == 0 && r.counts.Errors == 0
}

// HasFatal reports whether any fatal-severity issue is present.
func (r Result) HasFatal() bool {
	return r.counts.Fatal > 0
}

// HasErrors reports whether any error-severity issue is present.
func (r Result) HasErrors() bool {
	return r.counts.Errors > 0
}

// HasWarnings reports whether any warning-severity issue is present.
func (r Result) HasWarnings() bool {
	return r.counts.Warnings > 0
}

// HasInfo reports whether any info-severity issue is present.
func (r Result) HasInfo() bool {
	return r.counts.Info > 0
}

// HasHints reports whether any hint-severity issue is present.
func (r Result) HasHints() bool {
	return r.counts.Hints > 0
}

// Len returns the total number of issues.
func (r Result) Len() int {
	return len(r.issues)
}

// LimitReached reports whether the collector's issue limit was hit.
func (r Result) LimitReached() bool {
	return r.limitReached
}

// DroppedCount returns the number of issues dropped due to the limit.
func (r Result) DroppedCount() int {
	return r.droppedCount
}

// Limit returns the collector's configured limit, or 0 for unlimited.
func (r Result) Limit() int {
	return r.limit
}

// SeverityCounts returns precomputed counts by severity.
func (r Result) SeverityCounts() SeverityCounts {
	return r.counts
}

// Issues returns an iterator over all issues in deterministic sorted order.
func (r Result) Issues() iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, iss := range r.issues {
			if !yield(iss) {
				return
			}
		}
	}
}

// IssuesSlice returns a defensive copy of all issues.
func (r Result) IssuesSlice() []Issue {
	cp := make([]Issue, len(r.issues))
	copy(cp, r.issues)
	return cp
}

// Errors returns an iterator over fatal and error-severity issues.
func (r Result) Errors() iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, iss := range r.issues {
			if iss.Severity().IsFailure() {
				if !yield(iss) {
					return
				}
			}
		}
	}
}

// ErrorsSlice returns a defensive copy of fatal and error-severity issues.
func (r Result) ErrorsSlice() []Issue {
	var out []Issue
	for _, iss := range r.issues {
		if iss.Severity().IsFailure() {
			out = append(out, iss)
		}
	}
	return out
}

// Warnings returns an iterator over warning-severity issues.
func (r Result) Warnings() iter.Seq[Issue] {
	return r.BySeverity(Warning)
}

// WarningsSlice returns a defensive copy of warning-severity issues.
func (r Result) WarningsSlice() []Issue {
	return r.BySeveritySlice(Warning)
}

// BySeverity returns an iterator over issues of exactly the given severity.
func (r Result) BySeverity(severity Severity) iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, iss := range r.issues {
			if iss.Severity() == severity {
				if !yield(iss) {
					return
				}
			}
		}
	}
}

// BySeveritySlice returns a defensive copy of issues of exactly the given severity.
func (r Result) BySeveritySlice(severity Severity) []Issue {
	return r.countBySeverity(severity)
}

func (r Result) countBySeverity(severity Severity) []Issue {
	var out []Issue
	for _, iss := range r.issues {
		if iss.Severity() == severity {
			out = append(out, iss)
		}
	}
	return out
}

// IssuesAtLeastAsSevereAs returns an iterator over issues at or above threshold severity.
func (r Result) IssuesAtLeastAsSevereAs(threshold Severity) iter.Seq[Issue] {
	return func(yield func(Issue) bool) {
		for _, iss := range r.issues {
			if iss.Severity().IsAtLeastAsSevereAs(threshold) {
				if !yield(iss) {
					return
				}
			}
		}
	}
}

// IssuesAtLeastAsSevereAsSlice returns a defensive copy of issues at or above threshold severity.
func (r Result) IssuesAtLeastAsSevereAsSlice(threshold Severity) []Issue {
	var out []Issue
	for _, iss := range r.issues {
		if iss.Severity().IsAtLeastAsSevereAs(threshold) {
			out = append(out, iss)
		}
	}
	return out
}

// Messages returns the message text of all issues, in sorted order.
func (r Result) Messages() []string {
	out := make([]string, len(r.issues))
	for i, iss := range r.issues {
		out[i] = iss.Message()
	}
	return out
}

// MessagesAtOrAbove returns message text for issues at or above threshold severity.
func (r Result) MessagesAtOrAbove(threshold Severity) []string {
	var out []string
	for _, iss := range r.issues {
		if iss.Severity().IsAtLeastAsSevereAs(threshold) {
			out = append(out, iss.Message())
		}
	}
	return out
}

// String renders a human-readable summary of the result.
func (r Result) String() string {
	if r.OK() && len(r.issues) == 0 {
		return "OK"
	}
	out := "resolution failed:\n"
	for _, iss := range r.ErrorsSlice() {
		out += "  " + iss.Severity().String() + " " + iss.Code().String() + ": " + iss.Message() + "\n"
	}
	return out
}
