// Package search provides the web-search provider contract and a
// DuckDuckGo HTML implementation. Results are opaque text blobs; the
// pipeline never depends on their internal structure beyond containing
// source URLs for reliability scoring.
package search

import "context"

// Searcher is the external search provider contract. Search may fail;
// the evidence collector converts failures into inline error strings
// rather than aborting a run.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}
