// Package blobcache defines the Cache collaborator: a write-through,
// read-through byte cache with TTL that sits in front of the authoritative
// object store.
package blobcache

import (
	"context"
	"errors"
	"time"
)

// TTL is the fixed lifetime applied to every docstore and liststore cache
// write.
const TTL = 30 * 24 * time.Hour

// ErrCacheClosed is returned when operations are attempted on a closed
// cache.
var ErrCacheClosed = errors.New("blobcache: cache is closed")

// Cache is the interface the core requires from the in-memory byte cache.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached bytes for k. ok is false when the key is
	// absent, which is distinct from a present-but-empty entry.
	Get(ctx context.Context, k string) (value []byte, ok bool, err error)

	// Set stores value under k with the given TTL, overwriting any
	// existing entry.
	Set(ctx context.Context, k string, value []byte, ttl time.Duration) error

	// Delete removes k. Deleting an absent key succeeds.
	Delete(ctx context.Context, k string) error

	// Keys returns every cache key matching the glob pattern (path.Match
	// syntax). Used only by clearCache and deleteName to invalidate a
	// whole list's shards in one sweep.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close releases resources held by the cache.
	Close() error
}

// DocStoreKey namespaces a DocStore object-store key for the cache.
func DocStoreKey(objectStoreKey string) string {
	return "docstore::" + objectStoreKey
}

// ListStoreKey namespaces a ListStore object-store key for the cache under
// bucket, preventing cross-bucket collisions when one process talks to
// several buckets.
func ListStoreKey(bucket, objectStoreKey string) string {
	return "liststore::" + bucket + "::" + objectStoreKey
}
