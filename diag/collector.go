package diag

import (
	"slices"
	"strings"
	"sync"

	"github.com/f5/otel-weaver/location"
)

// NoLimit indicates a Collector has no issue limit.
const NoLimit = 0

// Collector accumulates issues during a resolution pass and produces a
// deterministically-ordered, immutable Result.
//
// Collector is safe for concurrent use; multiple worker goroutines
// resolving independent documents may share one Collector and call
// Collect/CollectAll/Merge concurrently. Severity counts are maintained
// incrementally so HasFatal/HasErrors/OK are O(1) without sorting.
type Collector struct {
	mu           sync.RWMutex
	issues       []Issue
	limit        int
	limitReached bool
	droppedCount int

	fatalCount   int
	errorCount   int
	warningCount int
	infoCount    int
	hintCount    int

	cachedResult *Result
}

// NewCollector creates a Collector that drops issues beyond limit.
//
// A limit of NoLimit (0) means unlimited; use [NewCollectorUnlimited] for
// clarity at call sites.
func NewCollector(limit int) *Collector {
	return &Collector{limit: limit}
}

// NewCollectorUnlimited creates a Collector with no issue limit.
func NewCollectorUnlimited() *Collector {
	return NewCollector(NoLimit)
}

// validateIssue panics if issue is not a valid, non-zero Issue.
func validateIssue(issue Issue) {
	if issue.IsZero() {
		panic("diag.Collector: zero-value Issue")
	}
	if !issue.IsValid() {
		panic("diag.Collector: invalid Issue (missing code, message, or severity)")
	}
}

// Collect adds a single issue.
//
// Collect panics if issue is invalid; always build issues via [NewIssue]
// or [IssueBuilder] to avoid this.
func (c *Collector) Collect(issue Issue) {
	validateIssue(issue)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collectLocked(issue)
}

// CollectAll adds multiple issues.
func (c *Collector) CollectAll(issues []Issue) {
	for _, iss := range issues {
		validateIssue(iss)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, iss := range issues {
		c.collectLocked(iss)
	}
}

// Merge folds a previously-produced Result into this collector.
//
// Results are structurally guaranteed valid by construction, so Merge does
// not re-validate each issue.
func (c *Collector) Merge(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, iss := range res.issues {
		c.collectLocked(iss)
	}
}

// collectLocked appends issue and updates counts. Caller must hold c.mu.
func (c *Collector) collectLocked(issue Issue) {
	c.cachedResult = nil

	if c.limit > 0 && len(c.issues) >= c.limit {
		c.limitReached = true
		c.droppedCount++
		return
	}

	c.issues = append(c.issues, issue)
	switch issue.Severity() {
	case Fatal:
		c.fatalCount++
	case Error:
		c.errorCount++
	case Warning:
		c.warningCount++
	case Info:
		c.infoCount++
	case Hint:
		c.hintCount++
	}
}

// Result returns an immutable, deterministically-sorted snapshot.
//
// The sort order is cached; subsequent calls without an intervening
// Collect/CollectAll/Merge return the cached Result without re-sorting.
func (c *Collector) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedResult != nil {
		return *c.cachedResult
	}

	sorted := make([]Issue, len(c.issues))
	copy(sorted, c.issues)
	slices.SortFunc(sorted, compareIssues)

	res := newResult(sorted, c.limit, c.limitReached, c.droppedCount)
	c.cachedResult = &res
	return res
}

// HasFatal reports whether any fatal-severity issue has been collected.
func (c *Collector) HasFatal() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fatalCount > 0
}

// HasErrors reports whether any fatal or error-severity issue has been collected.
func (c *Collector) HasErrors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fatalCount > 0 || c.errorCount > 0
}

// OK reports whether no fatal or error-severity issue has been collected.
func (c *Collector) OK() bool {
	return !c.HasErrors()
}

// Len returns the number of collected issues, excluding those dropped by the limit.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}

// LimitReached reports whether the configured limit has been hit.
func (c *Collector) LimitReached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limitReached
}

// DroppedCount returns the number of issues dropped due to the limit.
func (c *Collector) DroppedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.droppedCount
}

// compareIssues imposes a deterministic total order on issues so that
// Result output is reproducible regardless of the order concurrent workers
// reported issues in.
func compareIssues(a, b Issue) int {
	aHasSpan, bHasSpan := a.HasSpan(), b.HasSpan()
	if aHasSpan != bHasSpan {
		if aHasSpan {
			return -1
		}
		return 1
	}

	if aHasSpan {
		if c := a.Span().Compare(b.Span()); c != 0 {
			return c
		}
	} else {
		if c := strings.Compare(a.SourceName(), b.SourceName()); c != 0 {
			return c
		}
		if c := strings.Compare(a.Path(), b.Path()); c != 0 {
			return c
		}
	}

	if c := strings.Compare(a.Code().String(), b.Code().String()); c != 0 {
		return c
	}
	if a.Severity() != b.Severity() {
		if a.Severity() < b.Severity() {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Message(), b.Message()); c != 0 {
		return c
	}
	if c := strings.Compare(a.Hint(), b.Hint()); c != 0 {
		return c
	}
	if c := strings.Compare(a.SourceName(), b.SourceName()); c != 0 {
		return c
	}
	if c := strings.Compare(a.Path(), b.Path()); c != 0 {
		return c
	}
	if c := compareDetails(a.Details(), b.Details()); c != 0 {
		return c
	}
	return compareRelated(a.Related(), b.Related())
}

func compareDetails(a, b []Detail) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}
		if c := strings.Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareRelated(a, b []location.RelatedInfo) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Span.Compare(b[i].Span); c != 0 {
			return c
		}
		if c := strings.Compare(a[i].Message, b[i].Message); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}
