// Package cache implements the Source Cache: a fetch-once, content-
// addressed local mirror of filesystem and HTTP(S) inputs.
//
// Grounded on the retrieval pack's internal/source.Registry (content storage
// keyed by a stable identity, mutex-protected, defensive-copy-on-read),
// generalized from SourceID-keyed schema text to location-keyed raw
// document bytes. The HTTP client's dial/TLS-handshake timeout pattern is
// grounded on the registry-client in hamba/avro's registry package.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/f5/otel-weaver/location"
)

// ErrNotFound indicates a location could not be located on disk or via HTTP.
var ErrNotFound = errors.New("cache: location not found")

// TransportError indicates an HTTP fetch failed.
type TransportError struct {
	URL    string
	Status int   // non-zero for a non-2xx response
	Cause  error // non-nil for a network-level failure
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache: transport error fetching %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("cache: unexpected status %d fetching %s", e.Status, e.URL)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// IOError indicates a local filesystem read failed.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cache: io error reading %s: %v", e.Path, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }

// entry is a memoized fetch result.
type entry struct {
	content []byte
	err     error
}

// Metrics is a read-only snapshot of cache counters, returned by Snapshot.
// WithPrometheusCounters also registers the same counts as
// prometheus.Counter values with a caller's own registry. No HTTP exporter
// is wired here; exporting metrics is outside this module's scope.
type Metrics struct {
	Fetches int64
	Hits    int64
}

// Cache fetches and memoizes raw document bytes by resolved absolute location.
//
// Cache is safe for concurrent use. Identical subsequent requests for the
// same resolved location return the cached bytes without I/O.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	client *http.Client

	fetchCounter prometheus.Counter
	hitCounter   prometheus.Counter
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient overrides the default HTTP client (used mainly for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithPrometheusCounters registers fetch-count and cache-hit counters on an
// existing prometheus.Registerer. If reg is nil, counters are created but
// not registered anywhere.
func WithPrometheusCounters(reg prometheus.Registerer) Option {
	return func(c *Cache) {
		c.fetchCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weaver_resolver_cache_fetches_total",
			Help: "Total number of source cache fetch attempts.",
		})
		c.hitCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "weaver_resolver_cache_hits_total",
			Help: "Total number of source cache fetches served from memoized content.",
		})
		if reg != nil {
			reg.MustRegister(c.fetchCounter, c.hitCounter)
		}
	}
}

// defaultHTTPClient mirrors hamba/avro's registry-client timeout pattern:
// bounded dial and TLS handshake timeouts so a hung remote cannot stall
// resolution indefinitely.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 3 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 3 * time.Second,
		},
	}
}

// New creates a Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		client:  defaultHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the raw bytes at loc, resolved against baseDir if loc is a
// relative filesystem path. loc may be an absolute path, a path relative to
// baseDir, or an http(s):// URL.
//
// Fetch panics if ctx is nil, matching the prior fetch function's Load/LoadString
// convention of failing fast on programmer error rather than silently
// using context.Background().
//
// followRemote controls whether http(s):// locations may be fetched; when
// false, a remote location returns an error without any network access.
func (c *Cache) Fetch(ctx context.Context, loc string, baseDir string, followRemote bool) ([]byte, string, error) {
	if ctx == nil {
		panic("cache.Fetch: nil context")
	}

	resolved, isRemote, err := resolveLocation(loc, baseDir)
	if err != nil {
		return nil, "", err
	}

	if isRemote && !followRemote {
		return nil, resolved, fmt.Errorf("cache: remote fetch disabled for %s", resolved)
	}

	if c.fetchCounter != nil {
		c.fetchCounter.Inc()
	}

	c.mu.Lock()
	if e, ok := c.entries[resolved]; ok {
		c.mu.Unlock()
		if c.hitCounter != nil {
			c.hitCounter.Inc()
		}
		return e.content, resolved, e.err
	}
	c.mu.Unlock()

	var content []byte
	if isRemote {
		content, err = c.fetchHTTP(ctx, resolved)
	} else {
		content, err = fetchFile(resolved)
	}

	c.mu.Lock()
	c.entries[resolved] = &entry{content: content, err: err}
	c.mu.Unlock()

	return content, resolved, err
}

func (c *Cache) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Cause: err}
	}
	return body, nil
}

func fetchFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &IOError{Path: path, Cause: err}
	}
	return content, nil
}

// resolveLocation resolves loc against baseDir and reports whether the
// result is a remote (http/https) location. Relative filesystem paths are
// resolved against baseDir, the directory of the requesting document, not
// the process working directory.
func resolveLocation(loc string, baseDir string) (resolved string, isRemote bool, err error) {
	if u, perr := url.Parse(loc); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return loc, true, nil
	}

	if filepath.IsAbs(loc) {
		cp, err := location.NewCanonicalPath(loc)
		if err != nil {
			return "", false, fmt.Errorf("cache: invalid location %q: %w", loc, err)
		}
		return cp.String(), false, nil
	}

	joined := filepath.Join(baseDir, loc)
	cp, err := location.NewCanonicalPath(joined)
	if err != nil {
		return "", false, fmt.Errorf("cache: invalid location %q: %w", joined, err)
	}
	return cp.String(), false, nil
}

// Snapshot returns a point-in-time copy of the cache's counters.
func (c *Cache) Snapshot() Metrics {
	var m Metrics
	if c.fetchCounter != nil {
		m.Fetches = int64(readCounter(c.fetchCounter))
	}
	if c.hitCounter != nil {
		m.Hits = int64(readCounter(c.hitCounter))
	}
	return m
}

func readCounter(c prometheus.Counter) float64 {
	var metric dto.Metric
	_ = c.Write(&metric)
	if metric.Counter != nil {
		return metric.Counter.GetValue()
	}
	return 0
}

// dirOf returns the directory a relative reference from within doc should
// resolve against: the directory of doc itself.
func dirOf(docLocation string) string {
	if strings.HasPrefix(docLocation, "http://") || strings.HasPrefix(docLocation, "https://") {
		if idx := strings.LastIndex(docLocation, "/"); idx >= 0 {
			return docLocation[:idx]
		}
		return docLocation
	}
	return filepath.Dir(docLocation)
}

// DirOf is the exported form of dirOf, used by callers resolving a nested
// reference (e.g. parent_schema_url, semantic_conventions entries) relative
// to the document that named it.
func DirOf(docLocation string) string {
	return dirOf(docLocation)
}
