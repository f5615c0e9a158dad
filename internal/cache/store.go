package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store is a keyed expiring cache namespace persisted as a single JSON file.
// Every put rewrites the whole file synchronously; entries past the TTL are
// treated as absent and evicted on next access (lazy expiry, no background
// sweep). A Store assumes a single-process, single-writer workload: there is
// no file locking, and concurrent processes racing on the same file get
// last-writer-wins semantics.
type Store struct {
	path    string
	ttl     time.Duration
	entries map[string]entry

	now func() time.Time
}

type entry struct {
	Payload   []byte    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Open loads a cache namespace from disk. A missing file yields an empty
// namespace; a corrupted file is discarded with a warning rather than
// failing startup.
func Open(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	s := &Store{
		path:    path,
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load cache file %s: %v. Creating new cache.\n", path, err)
		s.entries = make(map[string]entry)
	}

	return s, nil
}

// Get returns the payload for key if present and younger than the TTL.
// A stale entry is evicted and reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if s.now().Sub(e.Timestamp) >= s.ttl {
		delete(s.entries, key)
		return nil, false
	}

	return e.Payload, true
}

// Put overwrites the entry for key unconditionally with the current
// timestamp and persists the entire namespace synchronously.
func (s *Store) Put(key string, payload []byte) error {
	s.entries[key] = entry{
		Payload:   payload,
		Timestamp: s.now(),
	}
	return s.save()
}

// Len returns the number of entries currently held, stale ones included
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) save() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	return nil
}
