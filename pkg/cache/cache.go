// Package cache provides content-addressed caching for compiled sequences
// and rendered artifacts.
//
// Compilation is deterministic for a fixed seed, so a (pattern, options)
// pair fully determines its output and can be cached under a hash of both.
// Backends share one small [Cache] interface; [FileCache] serves the CLI,
// [RedisCache] the HTTP server, [MemoryCache] and [NullCache] tests and
// disabled caching.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime of cache entries. Compiled sequences
// are cheap to rebuild; the cache exists to skip rendering work and to give
// the HTTP server stable responses, not to be durable storage.
const DefaultTTL = 24 * time.Hour

// Cache stores binary blobs under string keys with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SequenceKeyOpts are the compile options that affect a compiled sequence
// and therefore belong in its cache key.
type SequenceKeyOpts struct {
	MaxDepth   int    `json:"max_depth"`
	RestSymbol string `json:"rest_symbol"`
	Normalize  bool   `json:"normalize"`
	Seed       uint64 `json:"seed"`
}

// ArtifactKeyOpts are the render options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SequenceKey generates a key for a compiled sequence.
	SequenceKey(pattern string, opts SequenceKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, derived from the
	// hash of the pattern it was rendered from.
	ArtifactKey(patternHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator. Keys are prefixed by stage
// ("seq", "artifact") and carry a SHA-256 hash of all distinguishing
// inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SequenceKey generates a key for a compiled sequence.
func (k *DefaultKeyer) SequenceKey(pattern string, opts SequenceKeyOpts) string {
	return hashKey("seq", pattern, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(patternHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", patternHash, opts)
}
