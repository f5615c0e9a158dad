package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/claimsift/claimsift/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSearcher records queries and returns canned results per query
type mockSearcher struct {
	results map[string]string
	err     error
	queries []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) (string, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return "", m.err
	}
	if r, ok := m.results[query]; ok {
		return r, nil
	}
	return "generic result for " + query, nil
}

func newTestCollector(t *testing.T, searcher *mockSearcher) *Collector {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "search_cache.json"), 24*time.Hour)
	require.NoError(t, err)

	c := NewCollector(searcher, store)
	c.delay = func() time.Duration { return 0 }
	c.sleep = func(time.Duration) {}
	return c
}

func TestCollect_CapsAtThreeQueries(t *testing.T) {
	searcher := &mockSearcher{}
	c := newTestCollector(t, searcher)

	c.Collect(context.Background(), []string{"q1", "q2", "q3", "q4", "q5"})

	assert.Equal(t, []string{"q1", "q2", "q3"}, searcher.queries,
		"never more than 3 distinct search calls per claim")
}

func TestCollect_DeduplicatesExactQueries(t *testing.T) {
	searcher := &mockSearcher{}
	c := newTestCollector(t, searcher)

	bundle := c.Collect(context.Background(), []string{"same query", "same query", "other"})

	assert.Equal(t, []string{"same query", "other"}, searcher.queries,
		"a repeated query is skipped, not re-searched")
	assert.Contains(t, bundle, "Query: same query")
	assert.Contains(t, bundle, "Query: other")
}

func TestCollect_CacheHitSkipsProvider(t *testing.T) {
	searcher := &mockSearcher{results: map[string]string{"q1": "live result"}}
	c := newTestCollector(t, searcher)

	first := c.Collect(context.Background(), []string{"q1"})
	second := c.Collect(context.Background(), []string{"q1"})

	assert.Len(t, searcher.queries, 1, "second run must be served from the cache")
	assert.Equal(t, first, second)
	assert.Contains(t, second, "live result")
}

func TestCollect_ProviderErrorBecomesInlineResult(t *testing.T) {
	searcher := &mockSearcher{err: errors.New("network unreachable")}
	c := newTestCollector(t, searcher)

	bundle := c.Collect(context.Background(), []string{"q1"})

	assert.Contains(t, bundle, "Query: q1")
	assert.Contains(t, bundle, "Error during search: network unreachable")
	assert.NotEqual(t, noEvidenceSentinel, bundle, "an error string still counts as (degraded) evidence")
}

func TestCollect_ErrorResultsAreNotCached(t *testing.T) {
	searcher := &mockSearcher{err: errors.New("transient failure")}
	c := newTestCollector(t, searcher)

	c.Collect(context.Background(), []string{"q1"})

	searcher.err = nil
	searcher.results = map[string]string{"q1": "recovered result"}
	bundle := c.Collect(context.Background(), []string{"q1"})

	assert.Contains(t, bundle, "recovered result", "a failed search must be retried next run")
}

func TestCollect_EmptyQueriesYieldsSentinel(t *testing.T) {
	c := newTestCollector(t, &mockSearcher{})

	assert.Equal(t, noEvidenceSentinel, c.Collect(context.Background(), nil))
}

func TestCollect_BundleFormat(t *testing.T) {
	searcher := &mockSearcher{results: map[string]string{"q1": "result one", "q2": "result two"}}
	c := newTestCollector(t, searcher)

	bundle := c.Collect(context.Background(), []string{"q1", "q2"})

	expected := "Query: q1\nResult:\nresult one\n---\n\nQuery: q2\nResult:\nresult two\n---"
	assert.Equal(t, expected, bundle)
}
