// Package badger implements blobcache.Cache on top of an embedded BadgerDB
// instance, using BadgerDB's native per-key TTL for expiry.
package badger

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	bdg "github.com/dgraph-io/badger/v4"

	"github.com/cktan/liststore/internal/logger"
	"github.com/cktan/liststore/pkg/blobcache"
)

// Config holds construction-time configuration for the cache.
type Config struct {
	// Dir is the on-disk directory BadgerDB persists to. Empty means
	// in-memory only (badger.DefaultOptions(""). WithInMemory(true)).
	Dir string

	// InMemory forces an in-memory instance regardless of Dir. Useful
	// for tests and for the "cache host/port" style deployments where
	// the cache is explicitly not durable.
	InMemory bool
}

// Cache implements blobcache.Cache backed by BadgerDB.
type Cache struct {
	db *bdg.DB
	mu sync.RWMutex
}

// Open creates or opens a BadgerDB-backed cache at cfg.Dir.
func Open(cfg Config) (*Cache, error) {
	opts := bdg.DefaultOptions(cfg.Dir)
	opts = opts.WithLogger(nil) // badger's own logger would otherwise fight ours
	if cfg.InMemory || cfg.Dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := bdg.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("blobcache/badger: open: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get implements blobcache.Cache.
func (c *Cache) Get(_ context.Context, k string) ([]byte, bool, error) {
	var value []byte
	found := false

	err := c.db.View(func(txn *bdg.Txn) error {
		item, err := txn.Get([]byte(k))
		if errors.Is(err, bdg.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("blobcache/badger: get %q: %w", k, err)
	}
	return value, found, nil
}

// Set implements blobcache.Cache.
func (c *Cache) Set(_ context.Context, k string, value []byte, ttl time.Duration) error {
	err := c.db.Update(func(txn *bdg.Txn) error {
		entry := bdg.NewEntry([]byte(k), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("blobcache/badger: set %q: %w", k, err)
	}
	return nil
}

// Delete implements blobcache.Cache. Deleting an absent key is a no-op:
// BadgerDB's Delete already behaves this way.
func (c *Cache) Delete(_ context.Context, k string) error {
	err := c.db.Update(func(txn *bdg.Txn) error {
		return txn.Delete([]byte(k))
	})
	if err != nil {
		return fmt.Errorf("blobcache/badger: delete %q: %w", k, err)
	}
	return nil
}

// Keys implements blobcache.Cache using a glob match (path.Match syntax)
// over every key in the store. BadgerDB has no native glob support, so this
// walks the full keyspace; callers only use it for per-list invalidation
// sweeps, not hot-path reads.
func (c *Cache) Keys(_ context.Context, pattern string) ([]string, error) {
	var matched []string

	err := c.db.View(func(txn *bdg.Txn) error {
		opts := bdg.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			k := string(it.Item().KeyCopy(nil))
			ok, err := path.Match(pattern, k)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			if ok {
				matched = append(matched, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blobcache/badger: keys %q: %w", pattern, err)
	}
	return matched, nil
}

// Close releases the underlying BadgerDB handle.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.Close(); err != nil {
		logger.Warn("blobcache/badger: close failed", "error", err)
		return fmt.Errorf("blobcache/badger: close: %w", err)
	}
	return nil
}

var _ blobcache.Cache = (*Cache)(nil)
