// Package hash computes checksums of written documents.
//
// Every document a run writes is reported with its SHA-256 checksum so a
// lab rollout can confirm it deploys exactly what prod2lab produced. The
// package provides a real implementation using crypto/sha256 and a fake
// implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher provides an abstraction for content hashing.
type Hasher interface {
	// Hash computes the checksum of data.
	Hash(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Hash returns the hex-encoded SHA-256 of data.
func (h *SHA256Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with a fixed checksum for testing.
type FakeHasher struct {
	Sum string
}

// Hash returns the fixed checksum, "fakehash" when unset.
func (h *FakeHasher) Hash([]byte) string {
	if h.Sum == "" {
		return "fakehash"
	}
	return h.Sum
}
