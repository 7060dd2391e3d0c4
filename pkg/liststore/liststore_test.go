package liststore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobmem "github.com/cktan/liststore/pkg/blobcache/memory"
	"github.com/cktan/liststore/pkg/storeerr"
	objmem "github.com/cktan/liststore/pkg/objectstore/memory"
)

const day2013Epoch0 int64 = 1356998400 // 2013-01-01T00:00:00Z

// day returns the UTC epoch second for 2013-01-01 + (d-1) days, d in [1,365].
func day(d int) int64 {
	return day2013Epoch0 + int64(d-1)*86400
}

func newTestListStore() *ListStore {
	return New(objmem.New(), blobmem.New(), "test-bucket")
}

func appendAllOf2013(t *testing.T, ctx context.Context, s *ListStore) {
	t.Helper()
	batchSizes := []int{1, 2, 4, 8, 16, 32, 64}
	d := 1
	bi := 0
	for d <= 365 {
		size := batchSizes[bi%len(batchSizes)]
		bi++
		var rows []Row
		for i := 0; i < size && d <= 365; i++ {
			rows = append(rows, Row{Ctime: day(d), Content: fmt.Sprintf("day-%d", d)})
			d++
		}
		require.NoError(t, s.Append(ctx, "L", rows))
	}
}

func TestScenario1_InsertFullYearInCyclingBatches(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	appendAllOf2013(t, ctx, s)

	counts, err := s.Count(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 365, Seen: 0, Dismissed: 0}, counts)
}

func TestScenario2_SetDismissedNonPrior(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	appendAllOf2013(t, ctx, s)

	mar31 := day(90)
	require.NoError(t, s.SetDismissed(ctx, "L", mar31, false))

	it, err := s.Retrieve(ctx, "L", mar31)
	require.NoError(t, err)
	assert.Nil(t, it)

	it, err = s.Retrieve(ctx, "L", mar31-86400)
	require.NoError(t, err)
	assert.NotNil(t, it)
}

func TestScenario3_SetDismissedPrior(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	appendAllOf2013(t, ctx, s)

	feb14 := day(45)
	jan10 := day(10)
	require.NoError(t, s.SetDismissed(ctx, "L", feb14, true))

	for _, tc := range []int64{jan10, feb14} {
		it, err := s.Retrieve(ctx, "L", tc)
		require.NoError(t, err)
		assert.Nil(t, it)
	}

	it, err := s.Retrieve(ctx, "L", feb14+86400)
	require.NoError(t, err)
	assert.NotNil(t, it)
}

func TestScenario4_SetSeenAfterDismissals(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	appendAllOf2013(t, ctx, s)

	feb14 := day(45)
	mar31 := day(90)
	mar14 := day(73)
	jun1 := day(152)

	require.NoError(t, s.SetDismissed(ctx, "L", mar31, false))
	require.NoError(t, s.SetDismissed(ctx, "L", feb14, true))
	require.NoError(t, s.SetSeen(ctx, "L", jun1, false))
	require.NoError(t, s.SetSeen(ctx, "L", mar14, true))

	for d := 1; d <= 365; d++ {
		ct := day(d)
		it, err := s.Retrieve(ctx, "L", ct)
		require.NoError(t, err)

		switch {
		case ct <= feb14 || ct == mar31:
			assert.Nilf(t, it, "ctime=%d expected dismissed", ct)
		case ct <= mar14 || ct == jun1:
			require.NotNilf(t, it, "ctime=%d expected present", ct)
			assert.Truef(t, bool(it.Seen), "ctime=%d expected seen", ct)
		default:
			require.NotNilf(t, it, "ctime=%d expected present", ct)
			assert.Falsef(t, bool(it.Seen), "ctime=%d expected not seen", ct)
		}
	}

	counts, err := s.Count(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 365, Seen: 74, Dismissed: 46}, counts)
}

func scenario4Store(t *testing.T, ctx context.Context) *ListStore {
	t.Helper()
	s := newTestListStore()
	appendAllOf2013(t, ctx, s)

	feb14 := day(45)
	mar31 := day(90)
	mar14 := day(73)
	jun1 := day(152)

	require.NoError(t, s.SetDismissed(ctx, "L", mar31, false))
	require.NoError(t, s.SetDismissed(ctx, "L", feb14, true))
	require.NoError(t, s.SetSeen(ctx, "L", jun1, false))
	require.NoError(t, s.SetSeen(ctx, "L", mar14, true))
	return s
}

func TestScenario5_ReverseScanOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	s := scenario4Store(t, ctx)

	feb14 := day(45)
	mar31 := day(90)
	mar14 := day(73)
	jun1 := day(152)
	aug23 := day(235)

	items, err := s.ReverseScan(ctx, "L", aug23, 300, 0, false, true)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i].Ctime, items[i-1].Ctime, "expected strictly descending ctime")
	}

	last := items[len(items)-1]
	assert.Equal(t, feb14+86400, last.Ctime)

	for _, it := range items {
		assert.NotEqual(t, mar31, it.Ctime, "mar31 is dismissed, must be skipped")
		if it.Ctime <= mar14 || it.Ctime == jun1 {
			assert.True(t, bool(it.Seen))
		} else {
			assert.False(t, bool(it.Seen))
		}
	}
}

func TestScenario6_ClearCacheThenReread(t *testing.T) {
	ctx := context.Background()
	s := scenario4Store(t, ctx)

	before := make(map[int64]*Item)
	for d := 1; d <= 365; d++ {
		ct := day(d)
		it, err := s.Retrieve(ctx, "L", ct)
		require.NoError(t, err)
		before[ct] = it
	}

	require.NoError(t, s.ClearCache(ctx, "L"))

	for d := 1; d <= 365; d++ {
		ct := day(d)
		it, err := s.Retrieve(ctx, "L", ct)
		require.NoError(t, err)

		wantNil := before[ct] == nil
		if wantNil {
			assert.Nilf(t, it, "ctime=%d", ct)
			continue
		}
		require.NotNilf(t, it, "ctime=%d", ct)
		assert.Equal(t, before[ct].Seen, it.Seen)
		assert.Equal(t, before[ct].Dismissed, it.Dismissed)
	}
}

func TestAppendRejectsNonFutureItem(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()

	require.NoError(t, s.Append(ctx, "L", []Row{{Ctime: day(10), Content: "a"}}))

	err := s.Append(ctx, "L", []Row{{Ctime: day(5), Content: "b"}})
	require.Error(t, err)
	assert.True(t, storeerr.IsNonFutureItem(err))

	counts, cerr := s.Count(ctx, "L")
	require.NoError(t, cerr)
	assert.Equal(t, 1, counts.Total, "rejected append must leave the store unchanged")
}

func TestAppendRejectsEqualCtime(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()

	require.NoError(t, s.Append(ctx, "L", []Row{{Ctime: day(10), Content: "a"}}))
	err := s.Append(ctx, "L", []Row{{Ctime: day(10), Content: "dup"}})
	require.Error(t, err)
	assert.True(t, storeerr.IsNonFutureItem(err))
}

func TestAppendAcrossMonthBoundaryChecksAllMonths(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()

	// jun1 is later than mar14; appending mar14 after jun1 must fail even
	// though mar14's own month has no prior data: monotonicity is checked
	// against every month, not just the target month.
	require.NoError(t, s.Append(ctx, "L", []Row{{Ctime: day(152), Content: "jun1"}}))
	err := s.Append(ctx, "L", []Row{{Ctime: day(73), Content: "mar14"}})
	require.Error(t, err)
	assert.True(t, storeerr.IsNonFutureItem(err))
}

func TestDeleteIsIdempotentOnMissingCtime(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	require.NoError(t, s.Delete(ctx, "L", day(1)))
}

func TestDeleteRemovesItem(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	require.NoError(t, s.Append(ctx, "L", []Row{{Ctime: day(1), Content: "a"}, {Ctime: day(2), Content: "b"}}))

	require.NoError(t, s.Delete(ctx, "L", day(1)))

	it, err := s.Retrieve(ctx, "L", day(1))
	require.NoError(t, err)
	assert.Nil(t, it)

	counts, err := s.Count(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Total)
}

func TestDeleteNameRemovesEverything(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	appendAllOf2013(t, context.Background(), s)

	require.NoError(t, s.DeleteName(ctx, "L"))

	counts, err := s.Count(ctx, "L")
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)

	it, err := s.Retrieve(ctx, "L", day(1))
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestRetrieveOnEmptyListReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	it, err := s.Retrieve(ctx, "nonexistent", day(1))
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestSetSeenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	require.NoError(t, s.Append(ctx, "L", []Row{{Ctime: day(1), Content: "a"}}))

	require.NoError(t, s.SetSeen(ctx, "L", day(1), false))
	require.NoError(t, s.SetSeen(ctx, "L", day(1), false))

	it, err := s.Retrieve(ctx, "L", day(1))
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.True(t, bool(it.Seen))
}

func TestReverseScanRespectsLimitAndOffset(t *testing.T) {
	ctx := context.Background()
	s := newTestListStore()
	var rows []Row
	for d := 1; d <= 10; d++ {
		rows = append(rows, Row{Ctime: day(d), Content: fmt.Sprintf("d%d", d)})
	}
	require.NoError(t, s.Append(ctx, "L", rows))

	items, err := s.ReverseScan(ctx, "L", day(10), 3, 0, false, false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{day(10), day(9), day(8)}, []int64{items[0].Ctime, items[1].Ctime, items[2].Ctime})

	offsetItems, err := s.ReverseScan(ctx, "L", day(10), 3, 2, false, false)
	require.NoError(t, err)
	require.Len(t, offsetItems, 3)
	assert.Equal(t, day(8), offsetItems[0].Ctime)
}
