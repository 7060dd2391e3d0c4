package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobmem "github.com/cktan/liststore/pkg/blobcache/memory"
	objmem "github.com/cktan/liststore/pkg/objectstore/memory"
)

func newTestStore() *DocStore {
	return New(objmem.New(), blobmem.New())
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	require.NoError(t, ds.Put(ctx, "invoices/2013", "acme-042", []byte("hello world")))

	data, ok, err := ds.Get(ctx, "invoices/2013", "acme-042")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello world"), data)
}

func TestGetMissingReturnsNotOK(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	data, ok, err := ds.Get(ctx, "invoices/2013", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestPutEmptyBytesRoundTrips(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	require.NoError(t, ds.Put(ctx, "invoices/2013", "empty", []byte{}))

	data, ok, err := ds.Get(ctx, "invoices/2013", "empty")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{}, data)
}

func TestDeleteRemovesDocument(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	require.NoError(t, ds.Put(ctx, "invoices/2013", "acme-042", []byte("hello")))
	require.NoError(t, ds.Delete(ctx, "invoices/2013", "acme-042"))

	_, ok, err := ds.Get(ctx, "invoices/2013", "acme-042")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListReturnsSortedKeysUnderPath(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	require.NoError(t, ds.Put(ctx, "invoices/2013", "b", []byte("1")))
	require.NoError(t, ds.Put(ctx, "invoices/2013", "a", []byte("2")))
	require.NoError(t, ds.Put(ctx, "invoices/2014", "c", []byte("3")))

	keys, err := ds.List(ctx, "invoices/2013", 0)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "invoices/2013/a.gz", keys[0])
	assert.Equal(t, "invoices/2013/b.gz", keys[1])
}

func TestListRespectsLimit(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, ds.Put(ctx, "invoices/2013", id, []byte(id)))
	}

	keys, err := ds.List(ctx, "invoices/2013", 2)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestGetAfterCacheEvictionRepairsFromObjectStore(t *testing.T) {
	ctx := context.Background()
	ds := newTestStore()

	require.NoError(t, ds.Put(ctx, "invoices/2013", "acme-042", []byte("hello world")))
	require.NoError(t, ds.DeleteFromCache(ctx, "invoices/2013", "acme-042"))

	data, ok, err := ds.Get(ctx, "invoices/2013", "acme-042")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello world"), data)
}
