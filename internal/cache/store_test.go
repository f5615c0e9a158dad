package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Deterministic(t *testing.T) {
	claim := "The capital of the United States is Washington, D.C."

	k1 := Key(claim)
	k2 := Key(claim)

	assert.Equal(t, k1, k2, "identical strings must hash identically")
	assert.Len(t, k1, 64)
	assert.NotEqual(t, Key(claim+" "), k1, "distinct strings must not collide")
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_cache.json")
	store, err := Open(path, 24*time.Hour)
	require.NoError(t, err)

	key := Key("prime minister of india 2024")
	require.NoError(t, store.Put(key, []byte("Narendra Modi ... reuters.com")))

	got, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "Narendra Modi ... reuters.com", string(got))
}

func TestStore_TTLExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_cache.json")
	store, err := Open(path, 24*time.Hour)
	require.NoError(t, err)

	now := time.Now()
	store.now = func() time.Time { return now }

	key := Key("some query")
	require.NoError(t, store.Put(key, []byte("result")))

	// Still fresh just inside the window
	store.now = func() time.Time { return now.Add(24*time.Hour - time.Second) }
	_, ok := store.Get(key)
	assert.True(t, ok)

	// Stale at exactly the window: miss and evicted
	store.now = func() time.Time { return now.Add(24 * time.Hour) }
	_, ok = store.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "stale entry must be evicted on access")
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdict_cache.json")

	store, err := Open(path, 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put(Key("claim"), []byte(`{"verdict":"True"}`)))

	reopened, err := Open(path, 24*time.Hour)
	require.NoError(t, err)

	got, ok := reopened.Get(Key("claim"))
	require.True(t, ok)
	assert.JSONEq(t, `{"verdict":"True"}`, string(got))
}

func TestStore_CorruptFileFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all {{{"), 0644))

	store, err := Open(path, 24*time.Hour)
	require.NoError(t, err, "corrupted cache must not fail startup")
	assert.Equal(t, 0, store.Len())

	// The namespace is usable again after the reset
	require.NoError(t, store.Put(Key("q"), []byte("v")))
	_, ok := store.Get(Key("q"))
	assert.True(t, ok)
}

func TestStore_PutOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_cache.json")
	store, err := Open(path, 24*time.Hour)
	require.NoError(t, err)

	key := Key("q")
	require.NoError(t, store.Put(key, []byte("old")))
	require.NoError(t, store.Put(key, []byte("new")))

	got, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "new", string(got))
	assert.Equal(t, 1, store.Len())
}
