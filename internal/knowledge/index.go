package knowledge

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Index is a directory-backed semantic index: embedded text chunks stored
// in one JSON file, searched by cosine similarity. Records are append-only.
type Index struct {
	path    string
	records []record
}

type record struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// OpenIndex loads an index file, or starts empty if it does not exist
func OpenIndex(path string) (*Index, error) {
	ix := &Index{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ix, nil
		}
		return nil, fmt.Errorf("read index file: %w", err)
	}

	if err := json.Unmarshal(data, &ix.records); err != nil {
		return nil, fmt.Errorf("unmarshal index file %s: %w", path, err)
	}

	return ix, nil
}

// Len returns the number of stored chunks
func (ix *Index) Len() int {
	return len(ix.records)
}

// Add appends embedded chunks and persists the index synchronously
func (ix *Index) Add(recs ...record) error {
	ix.records = append(ix.records, recs...)
	return ix.save()
}

// Search returns the contents of the k records nearest to the query vector
func (ix *Index) Search(query []float32, k int) []string {
	type scored struct {
		content string
		score   float64
	}

	results := make([]scored, 0, len(ix.records))
	for _, rec := range ix.records {
		results = append(results, scored{
			content: rec.Content,
			score:   cosineSimilarity(query, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.content
	}
	return contents
}

func (ix *Index) save() error {
	data, err := json.Marshal(ix.records)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(ix.path, data, 0644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
