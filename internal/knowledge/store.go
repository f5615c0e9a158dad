// Package knowledge implements the semantic fact store: short factual
// statements chunked, embedded, and persisted in a directory-backed index.
// Facts are append-only; superseded facts are tolerated as a known
// staleness risk rather than resolved.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claimsift/claimsift/internal/cache"
	"github.com/claimsift/claimsift/internal/llm"
)

const indexFileName = "facts.json"

// bootstrapFacts seed an empty store so early claims have background
// context to check against
var bootstrapFacts = []string{
	"Narendra Modi is the Prime Minister of India as of 2024.",
	"The position of Prime Minister of India is the head of government in India.",
	"Donald Trump was the 45th President of the United States.",
	"Donald Trump was elected as the 47th President of the United States in 2024.",
	"The United States has a presidential system of government.",
	"India has a parliamentary system of government.",
	"Joe Biden was the 46th President of the United States.",
	"The capital of India is New Delhi.",
	"The capital of the United States is Washington, D.C.",
}

// Store is the append-only semantic fact store
type Store struct {
	index        *Index
	embedder     llm.Embedder
	chunkSize    int
	chunkOverlap int
}

// Open loads the fact store from dir, seeding it with the bootstrap facts
// if it is empty or absent. A nil embedder yields a degraded store whose
// queries return nothing and whose writes are dropped with a warning.
func Open(ctx context.Context, dir string, embedder llm.Embedder, chunkSize, chunkOverlap int) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create knowledge dir: %w", err)
	}

	index, err := OpenIndex(filepath.Join(dir, indexFileName))
	if err != nil {
		return nil, err
	}

	s := &Store{
		index:        index,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}

	if index.Len() == 0 && embedder != nil {
		for _, fact := range bootstrapFacts {
			if err := s.Add(ctx, fact); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not seed knowledge base: %v\n", err)
				break
			}
		}
	}

	return s, nil
}

// Add chunks, embeds, and appends a fact. Existing facts are never
// modified or removed.
func (s *Store) Add(ctx context.Context, fact string) error {
	if s.embedder == nil {
		fmt.Fprintf(os.Stderr, "Warning: no embedder configured; fact not stored\n")
		return nil
	}

	chunks := Chunks(fact, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	recs := make([]record, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk: %w", err)
		}
		recs = append(recs, record{
			ID:        fmt.Sprintf("%s-%d", cache.Key(fact)[:16], i),
			Content:   chunk,
			Embedding: embedding,
		})
	}

	return s.index.Add(recs...)
}

// Query returns up to k stored facts nearest to the query text
func (s *Store) Query(ctx context.Context, text string, k int) ([]string, error) {
	if s.embedder == nil || s.index.Len() == 0 {
		return nil, nil
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return s.index.Search(embedding, k), nil
}

// Len returns the number of stored chunks
func (s *Store) Len() int {
	return s.index.Len()
}
