// Package memory provides an in-memory objectstore.Client for tests and
// for exercising docstore/liststore without a live S3 bucket.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cktan/liststore/pkg/objectstore"
)

// Client is an in-memory implementation of objectstore.Client.
type Client struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New creates an empty in-memory client.
func New() *Client {
	return &Client{data: make(map[string][]byte)}
}

// Put implements objectstore.Client.
func (c *Client) Put(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return objectstore.ErrStoreClosed
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	c.data[key] = cp
	return nil
}

// Get implements objectstore.Client.
func (c *Client) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, objectstore.ErrStoreClosed
	}

	b, ok := c.data[key]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// Delete implements objectstore.Client. Deleting a missing key is a no-op.
func (c *Client) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return objectstore.ErrStoreClosed
	}
	delete(c.data, key)
	return nil
}

// List implements objectstore.Client, returning keys in lexicographic
// order as the interface requires.
func (c *Client) List(_ context.Context, prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, objectstore.ErrStoreClosed
	}

	var keys []string
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close marks the client as closed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.data = nil
	return nil
}

// Len returns the number of stored keys, for test assertions.
func (c *Client) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

var _ objectstore.Client = (*Client)(nil)
