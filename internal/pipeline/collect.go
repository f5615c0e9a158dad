package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/cache"
	"github.com/claimsift/claimsift/internal/search"
)

// maxQueriesPerClaim bounds external search calls per claim run
const maxQueriesPerClaim = 3

// noEvidenceSentinel marks a run where no query produced any evidence
const noEvidenceSentinel = "No evidence gathered from web search."

// Collector executes bounded, deduplicated search queries against the
// search cache and the external provider, assembling one evidence
// transcript per claim. A failing query degrades to an inline error string
// instead of aborting the run.
type Collector struct {
	searcher search.Searcher
	cache    *cache.Store

	// delay returns the courtesy pause after each live search call;
	// injectable for tests
	delay func() time.Duration
	sleep func(time.Duration)
}

// NewCollector creates an evidence collector over the given search
// provider and search-namespace cache
func NewCollector(searcher search.Searcher, searchCache *cache.Store) *Collector {
	return &Collector{
		searcher: searcher,
		cache:    searchCache,
		delay: func() time.Duration {
			// Randomized 1.0-2.0s pause between live calls: rate-limit
			// courtesy, not a correctness requirement
			return time.Duration(float64(time.Second) * (1.0 + rand.Float64()))
		},
		sleep: time.Sleep,
	}
}

// Collect gathers evidence for the first 3 queries, skipping exact
// duplicates. Cached results are reused without a network call.
func (c *Collector) Collect(ctx context.Context, queries []string) string {
	if len(queries) > maxQueriesPerClaim {
		queries = queries[:maxQueriesPerClaim]
	}

	seen := make(map[string]bool)
	var parts []string

	for _, query := range queries {
		if seen[query] {
			continue
		}
		seen[query] = true

		result := c.lookup(ctx, query)
		parts = append(parts, fmt.Sprintf("Query: %s\nResult:\n%s\n---", query, result))
	}

	if len(parts) == 0 {
		return noEvidenceSentinel
	}
	return strings.Join(parts, "\n\n")
}

// lookup serves one query from the cache or the live provider
func (c *Collector) lookup(ctx context.Context, query string) string {
	key := cache.Key(query)
	if payload, ok := c.cache.Get(key); ok {
		return string(payload)
	}

	result, err := c.searcher.Search(ctx, query)
	if err != nil {
		return fmt.Sprintf("Error during search: %v", err)
	}

	if err := c.cache.Put(key, []byte(result)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not cache search result: %v\n", err)
	}
	c.sleep(c.delay())

	return result
}
