// Package docstore implements a flat, key-addressable blob namespace keyed
// by (path, id): put / get / delete / list, with compressed durable storage
// and cache-through reads.
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/cktan/liststore/internal/logger"
	"github.com/cktan/liststore/internal/metrics"
	"github.com/cktan/liststore/pkg/blobcache"
	"github.com/cktan/liststore/pkg/codec"
	"github.com/cktan/liststore/pkg/objectstore"
	"github.com/cktan/liststore/pkg/storeerr"
)

const metricsComponent = "docstore"

// DocStore is a flat blob namespace over an object store, fronted by a
// byte cache. The object store is authoritative; the cache holds gzip-framed
// copies identical to what is durably stored.
type DocStore struct {
	objects objectstore.Client
	cache   blobcache.Cache
}

// New builds a DocStore over objects (authoritative) and cache (fast path).
func New(objects objectstore.Client, cache blobcache.Cache) *DocStore {
	return &DocStore{objects: objects, cache: cache}
}

func logicalKey(path, id string) string {
	return path + "/" + id
}

// Put compresses s and writes it to the object store at path/id.gz, then
// populates the cache with the same compressed bytes. On object-store
// failure the cache is left untouched.
func (d *DocStore) Put(ctx context.Context, path, id string, s []byte) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation(metricsComponent, "put", start, err) }()

	key := logicalKey(path, id)
	objKey := key + ".gz"

	z, cerr := codec.Compress(s)
	if cerr != nil {
		err = storeerr.NewDataError(key, "compress: "+cerr.Error())
		return err
	}

	if perr := d.objects.Put(ctx, objKey, z); perr != nil {
		err = storeerr.Wrap(key, "object put", perr)
		return err
	}

	if serr := d.cache.Set(ctx, blobcache.DocStoreKey(objKey), z, blobcache.TTL); serr != nil {
		err = storeerr.Wrap(key, "cache set", serr)
		return err
	}

	logger.DebugCtx(ctx, "docstore put", logger.StoreName(key), logger.Count(len(s)), logger.DurationMs(logger.Duration(start)))
	return nil
}

// Get reads path/id, preferring the cache. ok is false when the document
// doesn't exist; this is distinct from a zero-length document.
func (d *DocStore) Get(ctx context.Context, path, id string) (data []byte, ok bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation(metricsComponent, "get", start, err) }()

	key := logicalKey(path, id)
	objKey := key + ".gz"
	cacheKey := blobcache.DocStoreKey(objKey)

	if z, hit, cerr := d.cache.Get(ctx, cacheKey); cerr != nil {
		err = storeerr.Wrap(key, "cache get", cerr)
		return nil, false, err
	} else if hit {
		metrics.ObserveCacheResult(metricsComponent, true)
		s, derr := codec.Decompress(z)
		if derr != nil {
			err = storeerr.NewDataError(key, "decompress: "+derr.Error())
			return nil, false, err
		}
		logger.DebugCtx(ctx, "docstore get", logger.StoreName(key), logger.CacheHit(true))
		return s, true, nil
	}
	metrics.ObserveCacheResult(metricsComponent, false)

	z, gerr := d.objects.Get(ctx, objKey)
	if errors.Is(gerr, objectstore.ErrNotFound) {
		_ = d.cache.Delete(ctx, cacheKey)
		return nil, false, nil
	}
	if gerr != nil {
		err = storeerr.Wrap(key, "object get", gerr)
		return nil, false, err
	}

	if serr := d.cache.Set(ctx, cacheKey, z, blobcache.TTL); serr != nil {
		err = storeerr.Wrap(key, "cache set", serr)
		return nil, false, err
	}

	s, derr := codec.Decompress(z)
	if derr != nil {
		err = storeerr.NewDataError(key, "decompress: "+derr.Error())
		return nil, false, err
	}
	logger.DebugCtx(ctx, "docstore get", logger.StoreName(key), logger.CacheHit(false))
	return s, true, nil
}

// Delete removes path/id from both the object store and the cache. Both
// operations are idempotent.
func (d *DocStore) Delete(ctx context.Context, path, id string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation(metricsComponent, "delete", start, err) }()

	key := logicalKey(path, id)
	objKey := key + ".gz"

	if derr := d.objects.Delete(ctx, objKey); derr != nil {
		err = storeerr.Wrap(key, "object delete", derr)
		return err
	}
	if cerr := d.cache.Delete(ctx, blobcache.DocStoreKey(objKey)); cerr != nil {
		err = storeerr.Wrap(key, "cache delete", cerr)
		return err
	}
	return nil
}

// List enumerates up to limit object-store keys under path. The cache is
// never consulted: listing is authoritative only at the object store.
// limit <= 0 means unbounded.
func (d *DocStore) List(ctx context.Context, path string, limit int) (keys []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveOperation(metricsComponent, "list", start, err) }()

	keys, err = d.objects.List(ctx, path)
	if err != nil {
		err = storeerr.Wrap(path, "object list", err)
		return nil, err
	}
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

// DeleteFromCache removes the cache entry for path/id without touching
// durable state. It exists to let tests force the cache-miss repair path.
func (d *DocStore) DeleteFromCache(ctx context.Context, path, id string) error {
	key := logicalKey(path, id)
	objKey := key + ".gz"
	return d.cache.Delete(ctx, blobcache.DocStoreKey(objKey))
}
