// Package memory provides an in-memory blobcache.Cache for tests.
package memory

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/cktan/liststore/pkg/blobcache"
)

type entry struct {
	value   []byte
	expires time.Time // zero means never
}

// Cache is an in-memory implementation of blobcache.Cache with TTL
// expiry evaluated lazily on read.
type Cache struct {
	mu     sync.RWMutex
	data   map[string]entry
	closed bool
	now    func() time.Time
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{data: make(map[string]entry), now: time.Now}
}

// Get implements blobcache.Cache.
func (c *Cache) Get(_ context.Context, k string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, blobcache.ErrCacheClosed
	}

	e, ok := c.data[k]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.data, k)
		return nil, false, nil
	}

	cp := make([]byte, len(e.value))
	copy(cp, e.value)
	return cp, true, nil
}

// Set implements blobcache.Cache.
func (c *Cache) Set(_ context.Context, k string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return blobcache.ErrCacheClosed
	}

	cp := make([]byte, len(value))
	copy(cp, value)

	e := entry{value: cp}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.data[k] = e
	return nil
}

// Delete implements blobcache.Cache.
func (c *Cache) Delete(_ context.Context, k string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return blobcache.ErrCacheClosed
	}
	delete(c.data, k)
	return nil
}

// Keys implements blobcache.Cache.
func (c *Cache) Keys(_ context.Context, pattern string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, blobcache.ErrCacheClosed
	}

	var matched []string
	for k := range c.data {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

// Close implements blobcache.Cache.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.data = nil
	return nil
}

// Len returns the number of live (possibly expired-but-not-yet-reaped)
// entries, for test assertions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

var _ blobcache.Cache = (*Cache)(nil)
