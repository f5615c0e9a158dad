package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key generates a deterministic cache key from the exact input text.
// Identical strings always hash identically; distinct strings do not
// collide in practice.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
