package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsCache(opts ...Option) *Cache {
	reg := prometheus.NewRegistry()
	return New(append([]Option{WithPrometheusCounters(reg)}, opts...)...)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetch_MemoizesLocalFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "registry.yaml", "groups: []\n")

	c := newMetricsCache()
	content1, resolved1, err := c.Fetch(context.Background(), "registry.yaml", dir, false)
	require.NoError(t, err)
	assert.Equal(t, "groups: []\n", string(content1))

	// Overwrite the file on disk; a second Fetch for the same resolved
	// location must still return the memoized bytes, not the new content.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "registry.yaml"), []byte("groups:\n  - id: changed\n"), 0o644))

	content2, resolved2, err := c.Fetch(context.Background(), "registry.yaml", dir, false)
	require.NoError(t, err)
	assert.Equal(t, resolved1, resolved2)
	assert.Equal(t, string(content1), string(content2))

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.Fetches)
	assert.Equal(t, int64(1), snap.Hits)
}

func TestFetch_ResolvesRelativePathAgainstBaseDirNotWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeTestFile(t, sub, "child.yaml", "schema_url: \"x\"\n")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NotEqual(t, sub, wd)

	c := New()
	content, resolved, err := c.Fetch(context.Background(), "child.yaml", sub, false)
	require.NoError(t, err)
	assert.Equal(t, "schema_url: \"x\"\n", string(content))
	assert.Contains(t, resolved, "nested/child.yaml")

	// Resolving the same relative name against a different base dir is a
	// different document and is not served from the first fetch's entry.
	writeTestFile(t, dir, "child.yaml", "schema_url: \"y\"\n")
	content2, resolved2, err := c.Fetch(context.Background(), "child.yaml", dir, false)
	require.NoError(t, err)
	assert.NotEqual(t, resolved, resolved2)
	assert.Equal(t, "schema_url: \"y\"\n", string(content2))
}

func TestFetch_MissingLocalFileIsErrNotFound(t *testing.T) {
	dir := t.TempDir()
	c := New()
	_, _, err := c.Fetch(context.Background(), "does-not-exist.yaml", dir, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetch_UnreadableLocalFileIsIOError(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a-directory.yaml")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	c := New()
	_, _, err := c.Fetch(context.Background(), "a-directory.yaml", dir, false)
	require.Error(t, err)
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestFetch_RemoteDisallowedWithoutFollowRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("groups: []\n"))
	}))
	defer srv.Close()

	c := New()
	_, _, err := c.Fetch(context.Background(), srv.URL+"/registry.yaml", "", false)
	require.Error(t, err)
}

func TestFetch_RemoteFetchAndMemoization(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("groups: []\n"))
	}))
	defer srv.Close()

	c := newMetricsCache()
	url := srv.URL + "/registry.yaml"

	content1, resolved1, err := c.Fetch(context.Background(), url, "", true)
	require.NoError(t, err)
	assert.Equal(t, "groups: []\n", string(content1))

	content2, resolved2, err := c.Fetch(context.Background(), url, "", true)
	require.NoError(t, err)
	assert.Equal(t, resolved1, resolved2)
	assert.Equal(t, string(content1), string(content2))

	// Only the first Fetch should have reached the server.
	assert.Equal(t, 1, hits)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.Fetches)
	assert.Equal(t, int64(1), snap.Hits)
}

func TestFetch_RemoteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New()
	_, _, err := c.Fetch(context.Background(), srv.URL+"/missing.yaml", "", true)
	require.Error(t, err)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusNotFound, transportErr.Status)
}

func TestFetch_PanicsOnNilContext(t *testing.T) {
	c := New()
	assert.Panics(t, func() {
		//lint:ignore SA1012 exercising the documented nil-context panic
		c.Fetch(nil, "registry.yaml", t.TempDir(), false)
	})
}

func TestDirOf(t *testing.T) {
	assert.Equal(t, "/a/b", DirOf("/a/b/c.yaml"))
	assert.Equal(t, "https://example.com/schemas", DirOf("https://example.com/schemas/v1.yaml"))
}
