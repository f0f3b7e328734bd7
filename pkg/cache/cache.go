// Package cache stores rendered artifacts keyed by a hash of their inputs.
//
// The CLI renders the same frame many times while a document is edited;
// Graphviz layouts and rsvg conversions are the slow part. Artifacts are
// keyed with [Key] over everything that affects the output bytes, so a
// hit is always safe to reuse.
//
// Implementations:
//
//   - [FileCache]: one JSON file per entry under a directory, with expiry
//   - [NullCache]: never stores anything, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// Cache stores byte artifacts under string keys.
type Cache interface {
	// Get returns the data for key and whether it was found. Expired and
	// corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
