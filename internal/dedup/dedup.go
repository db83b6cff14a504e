// Package dedup fingerprints chunk text and answers whether a chunk's
// content has already been persisted. Deduplication only applies when
// a run persists results: without a store there is no hash index, so
// every chunk is scored. Identical text scores identically either way.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// HashText returns the SHA-256 hex digest of the UTF-8 bytes of text.
// Deterministic; a single-character change produces a different digest.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// HashIndex is the store-side lookup the deduplicator consults
type HashIndex interface {
	ExistsHash(hash string) (bool, error)
}

// Deduplicator answers "seen before?" for content hashes, keeping a
// TTL memory cache of known hashes in front of the store so repeated
// batches do not hit SQLite for every chunk.
type Deduplicator struct {
	index HashIndex
	cache *gocache.Cache
	log   *slog.Logger
}

// New creates a deduplicator backed by the given hash index
func New(index HashIndex, ttl, cleanupInterval time.Duration, log *slog.Logger) *Deduplicator {
	return &Deduplicator{
		index: index,
		cache: gocache.New(ttl, cleanupInterval),
		log:   log,
	}
}

// Seen reports whether any prior row carries this content hash.
// Store lookups that come back positive are cached; a store error is
// surfaced so the caller can decide whether to score anyway.
func (d *Deduplicator) Seen(hash string) (bool, error) {
	if _, found := d.cache.Get(hash); found {
		return true, nil
	}

	exists, err := d.index.ExistsHash(hash)
	if err != nil {
		return false, err
	}
	if exists {
		d.cache.SetDefault(hash, struct{}{})
	}
	return exists, nil
}

// Remember marks a hash as persisted, warming the cache after a save
func (d *Deduplicator) Remember(hash string) {
	d.cache.SetDefault(hash, struct{}{})
}
