// Package cache stores rendered artifacts keyed by content.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for a
// server fleet sharing one store, and [NullCache] when caching is disabled.
// Keys come from a [Keyer] so that the same content and render options
// always map to the same entry.
//
// The material cache of an assembly job is not stored here; it lives and
// dies with the job (see package material).
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// ArtifactTTL bounds how long rendered artifacts are kept.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}
