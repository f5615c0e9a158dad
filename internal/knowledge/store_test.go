package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordEmbedder maps text to a bag-of-words vector over a fixed vocabulary,
// giving deterministic similarity for tests without a model call
type wordEmbedder struct {
	vocab []string
}

func newWordEmbedder() *wordEmbedder {
	return &wordEmbedder{vocab: []string{
		"capital", "united", "states", "washington", "india", "delhi",
		"president", "prime", "minister", "modi", "trump", "biden",
		"government", "parliamentary", "presidential", "true", "false",
	}}
}

func (e *wordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(e.vocab))
	for i, word := range e.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

func TestChunks(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := Chunks("The capital of India is New Delhi.", 200, 20)
		require.Len(t, chunks, 1)
		assert.Equal(t, "The capital of India is New Delhi.", chunks[0])
	})

	t.Run("long text overlaps", func(t *testing.T) {
		long := strings.Repeat("abcdefghij", 50) // 500 chars
		chunks := Chunks(long, 200, 20)

		require.Len(t, chunks, 3) // steps of 180: 0, 180, 360
		assert.Len(t, chunks[0], 200)
		assert.Len(t, chunks[1], 200)
		assert.Len(t, chunks[2], 140)
		assert.Equal(t, chunks[0][180:], chunks[1][:20], "adjacent chunks must overlap")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Chunks("   ", 200, 20))
	})
}

func TestStore_BootstrapSeeding(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(ctx, dir, newWordEmbedder(), 200, 20)
	require.NoError(t, err)
	assert.Equal(t, len(bootstrapFacts), store.Len(), "every bootstrap fact fits one chunk")

	// Reopening loads the existing store without reseeding
	reopened, err := Open(ctx, dir, newWordEmbedder(), 200, 20)
	require.NoError(t, err)
	assert.Equal(t, store.Len(), reopened.Len())
}

func TestStore_QueryFindsRelevantFact(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, t.TempDir(), newWordEmbedder(), 200, 20)
	require.NoError(t, err)

	facts, err := store.Query(ctx, "The capital of the United States is Washington, D.C.", 3)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "The capital of the United States is Washington, D.C.", facts[0])
}

func TestStore_AddIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, t.TempDir(), newWordEmbedder(), 200, 20)
	require.NoError(t, err)
	before := store.Len()

	require.NoError(t, store.Add(ctx, "It is true that: The capital of the United States is Washington, D.C."))
	assert.Equal(t, before+1, store.Len())

	// Adding the same fact again appends rather than replacing
	require.NoError(t, store.Add(ctx, "It is true that: The capital of the United States is Washington, D.C."))
	assert.Equal(t, before+2, store.Len())
}

func TestStore_NilEmbedderDegrades(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, t.TempDir(), nil, 200, 20)
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, "some fact"))
	facts, err := store.Query(ctx, "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestIndex_SearchRanksByCosine(t *testing.T) {
	ix := &Index{path: t.TempDir() + "/facts.json"}
	require.NoError(t, ix.Add(
		record{ID: "a", Content: "A", Embedding: []float32{1, 0, 0}},
		record{ID: "b", Content: "B", Embedding: []float32{0.9, 0.1, 0}},
		record{ID: "c", Content: "C", Embedding: []float32{0, 0, 1}},
	))

	got := ix.Search([]float32{1, 0, 0}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0])
	assert.Equal(t, "B", got[1])
}
