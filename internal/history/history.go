// Package history keeps the append-only log of processed claims, persisted
// as one serialized list bounded to the most recent entries.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claimsift/claimsift/internal/model"
)

// Store is the capped run-history log. The whole list is rewritten on
// every append; a corrupted file is discarded and replaced with an empty
// history rather than blocking startup.
type Store struct {
	path    string
	max     int
	entries []model.HistoryEntry
}

// Open loads the history file, starting fresh on absence or corruption
func Open(path string, max int) *Store {
	if max <= 0 {
		max = 50
	}

	s := &Store{path: path, max: max}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupted history file %s discarded: %v\n", path, err)
		s.entries = nil
	}

	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}

	return s
}

// Append adds an entry, drops the oldest beyond the cap, and rewrites the
// file synchronously
func (s *Store) Append(entry model.HistoryEntry) error {
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.max {
		s.entries = s.entries[len(s.entries)-s.max:]
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	return nil
}

// Entries returns the stored entries, oldest first
func (s *Store) Entries() []model.HistoryEntry {
	return s.entries
}
