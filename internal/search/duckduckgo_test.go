package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result results_links">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.reuters.com%2Fworld%2Fus-capital%2F&amp;rut=abc">Washington, D.C. | Capital of the United States</a>
    </h2>
    <a class="result__snippet" href="#">Washington, D.C. has served as the <b>capital</b> of the United States since 1800.</a>
  </div>
  <div class="result results_links">
    <h2 class="result__title">
      <a class="result__a" href="https://en.wikipedia.org/wiki/Washington,_D.C.">Washington, D.C. - Wikipedia</a>
    </h2>
    <div class="result__snippet">The city is the federal capital of the United States.</div>
  </div>
  <div class="result results_links">
    <h2 class="result__title">
      <a class="result__a" href="https://example.com/third">Third result</a>
    </h2>
  </div>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	results, err := parseResults(strings.NewReader(sampleResultsPage), 8)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Washington, D.C. | Capital of the United States", results[0].title)
	assert.Equal(t, "https://www.reuters.com/world/us-capital/", results[0].url, "redirect links must be unwrapped")
	assert.Contains(t, results[0].snippet, "capital of the United States since 1800")

	assert.Equal(t, "https://en.wikipedia.org/wiki/Washington,_D.C.", results[1].url)
	assert.Equal(t, "The city is the federal capital of the United States.", results[1].snippet)

	assert.Equal(t, "Third result", results[2].title)
	assert.Empty(t, results[2].snippet)
}

func TestParseResults_MaxCap(t *testing.T) {
	results, err := parseResults(strings.NewReader(sampleResultsPage), 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestParseResults_EmptyPage(t *testing.T) {
	results, err := parseResults(strings.NewReader("<html><body>no results here</body></html>"), 8)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func newTestClient(serverURL string) *DuckDuckGo {
	d := NewDuckDuckGo(model.SearchConfig{
		UserAgent:         "claimsift-test",
		Timeout:           5 * time.Second,
		MaxResults:        8,
		RespectRobots:     false,
		RequestsPerSecond: 1000,
	})
	d.baseURL = serverURL
	return d
}

func TestSearch_ReturnsEvidenceBlob(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(sampleResultsPage))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Search(context.Background(), "capital of the United States")
	require.NoError(t, err)

	assert.Equal(t, "capital of the United States", gotQuery)
	assert.Contains(t, out, "Title: Washington, D.C. | Capital of the United States")
	assert.Contains(t, out, "URL: https://www.reuters.com/world/us-capital/")
	assert.Contains(t, out, "Snippet: The city is the federal capital")
}

func TestSearch_NoResultsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Search(context.Background(), "gibberish query")
	require.NoError(t, err)
	assert.Equal(t, "No search results found for: gibberish query", out)
}

func TestSearch_HTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
