// Package liststore implements a time-partitioned, append-only log keyed
// by name: a per-name index page summarizing one Summary per calendar
// month, and one data page per month holding that month's items in
// ascending ctime order.
package liststore

import (
	"context"
	"sort"
	"sync"

	"github.com/cktan/liststore/internal/logger"
	"github.com/cktan/liststore/pkg/blobcache"
	"github.com/cktan/liststore/pkg/objectstore"
	"github.com/cktan/liststore/pkg/storeerr"
)

// ListStore manages append-only, time-partitioned lists over an object
// store and a byte cache.
type ListStore struct {
	objects objectstore.Client
	cache   blobcache.Cache
	bucket  string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds a ListStore. bucket namespaces this store's cache keys so a
// single cache can safely back several object-store buckets.
func New(objects objectstore.Client, cache blobcache.Cache, bucket string) *ListStore {
	return &ListStore{
		objects: objects,
		cache:   cache,
		bucket:  bucket,
		locks:   make(map[string]*sync.Mutex),
	}
}

// nameLock returns the per-name mutex serializing writers within this
// process. Cross-process serialization is the caller's responsibility:
// the object store has no compare-and-swap primitive here.
func (s *ListStore) nameLock(name string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Append adds rows to name, grouping them by calendar month and writing
// each month's data page in ascending ctime order. Rows need not arrive
// pre-sorted; each month's group is sorted before being checked and
// written. Every new ctime must be strictly greater than every ctime
// already recorded under name, across every month, or Append fails with
// a NonFutureItem error and no partial write is made for the
// violating month or any month after it.
func (s *ListStore) Append(ctx context.Context, name string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	lock := s.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	byMonth := make(map[string][]Row)
	for _, r := range rows {
		ym := yyyymmOf(r.Ctime)
		byMonth[ym] = append(byMonth[ym], r)
	}

	months := make([]string, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	sort.Strings(months)

	for _, ym := range months {
		group := byMonth[ym]
		sort.Slice(group, func(i, j int) bool { return group[i].Ctime < group[j].Ctime })
		if err := s.appendMonth(ctx, name, ym, group); err != nil {
			return err
		}
	}

	logger.DebugCtx(ctx, "liststore append", logger.StoreName(name), logger.Count(len(rows)))
	return nil
}

func (s *ListStore) appendMonth(ctx context.Context, name, yyyymm string, group []Row) error {
	minCtime := group[0].Ctime

	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return err
	}
	for _, summary := range ip.YMTab {
		if summary.Total > 0 && summary.CtimeMax >= minCtime {
			return storeerr.NewNonFutureItem(name, minCtime)
		}
	}

	dp, err := s.readDataPage(ctx, name, yyyymm)
	if err != nil {
		return err
	}
	if n := len(dp.CTab); n > 0 && dp.CTab[n-1].Ctime >= minCtime {
		return storeerr.NewNonFutureItem(name, minCtime)
	}

	for _, r := range group {
		dp.CTab = append(dp.CTab, Item{Ctime: r.Ctime, Content: r.Content})
	}
	return s.writeDataPage(ctx, name, yyyymm, dp)
}

// Retrieve returns the item with the given ctime, or nil if it doesn't
// exist or has been dismissed.
func (s *ListStore) Retrieve(ctx context.Context, name string, ctime int64) (*Item, error) {
	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return nil, err
	}
	ym := yyyymmOf(ctime)
	summary, ok := ip.YMTab[ym]
	if !ok || summary.Total == summary.Dismissed {
		return nil, nil
	}

	dp, err := s.readDataPage(ctx, name, ym)
	if err != nil {
		return nil, err
	}
	i := bisectLeftCtime(dp.CTab, ctime)
	if i >= len(dp.CTab) || dp.CTab[i].Ctime != ctime {
		return nil, nil
	}
	if dp.CTab[i].Dismissed {
		return nil, nil
	}
	it := dp.CTab[i]
	return &it, nil
}

// Delete removes the item with the given ctime, if present. Deleting an
// absent ctime is a no-op.
func (s *ListStore) Delete(ctx context.Context, name string, ctime int64) error {
	lock := s.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	ym := yyyymmOf(ctime)
	dp, err := s.readDataPage(ctx, name, ym)
	if err != nil {
		return err
	}
	i := bisectLeftCtime(dp.CTab, ctime)
	if i >= len(dp.CTab) || dp.CTab[i].Ctime != ctime {
		return nil
	}
	dp.CTab = append(dp.CTab[:i], dp.CTab[i+1:]...)
	return s.writeDataPage(ctx, name, ym, dp)
}

// Count returns the aggregate total/seen/dismissed counts across every
// month recorded under name.
func (s *ListStore) Count(ctx context.Context, name string) (Counts, error) {
	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return Counts{}, err
	}
	var c Counts
	for _, summary := range ip.YMTab {
		c.Total += summary.Total
		c.Seen += summary.Seen
		c.Dismissed += summary.Dismissed
	}
	return c, nil
}

// DeleteName removes every object-store key under name (its index page
// and every month's data page) and clears the corresponding cache
// entries.
func (s *ListStore) DeleteName(ctx context.Context, name string) error {
	lock := s.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	keys, err := s.objects.List(ctx, name)
	if err != nil {
		return storeerr.Wrap(name, "object list", err)
	}
	for _, k := range keys {
		if err := s.objects.Delete(ctx, k); err != nil {
			return storeerr.Wrap(name, "object delete", err)
		}
	}
	return s.clearCacheLocked(ctx, name)
}

// ClearCache drops every cache entry for name (its index page and every
// month's data page) without touching the object store. Used to force a
// clean re-read, and as a primitive DeleteName relies on.
func (s *ListStore) ClearCache(ctx context.Context, name string) error {
	lock := s.nameLock(name)
	lock.Lock()
	defer lock.Unlock()
	return s.clearCacheLocked(ctx, name)
}

func (s *ListStore) clearCacheLocked(ctx context.Context, name string) error {
	indexCacheKey := blobcache.ListStoreKey(s.bucket, name+".gz")
	if err := s.cache.Delete(ctx, indexCacheKey); err != nil {
		return storeerr.Wrap(name, "cache delete", err)
	}

	pattern := blobcache.ListStoreKey(s.bucket, name+"/*.gz")
	keys, err := s.cache.Keys(ctx, pattern)
	if err != nil {
		return storeerr.Wrap(name, "cache keys", err)
	}
	for _, k := range keys {
		if err := s.cache.Delete(ctx, k); err != nil {
			return storeerr.Wrap(name, "cache delete", err)
		}
	}
	return nil
}
