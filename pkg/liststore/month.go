package liststore

import (
	"fmt"
	"sort"
	"time"
)

// yyyymmOf returns the "YYYYMM" partition key for a unix ctime, in UTC.
func yyyymmOf(ctime int64) string {
	t := time.Unix(ctime, 0).UTC()
	return fmt.Sprintf("%04d%02d", t.Year(), int(t.Month()))
}

// monthStartEpoch returns the unix time of the first instant of yyyymm,
// used as the fallback ctime_max for a month whose data page is empty.
func monthStartEpoch(yyyymm string) (int64, error) {
	t, err := time.Parse("200601", yyyymm)
	if err != nil {
		return 0, fmt.Errorf("liststore: bad yyyymm %q: %w", yyyymm, err)
	}
	return t.UTC().Unix(), nil
}

// sortedMonthsAsc returns the months present in ip, ascending.
func sortedMonthsAsc(ip *IndexPage) []string {
	months := make([]string, 0, len(ip.YMTab))
	for ym := range ip.YMTab {
		months = append(months, ym)
	}
	sort.Strings(months)
	return months
}

// bisectLeftStr returns the insertion point for ym in the ascending,
// already-sorted slice months: the index of the first element >= ym.
func bisectLeftStr(months []string, ym string) int {
	return sort.SearchStrings(months, ym)
}

// bisectLeftCtime returns the insertion point for ctime in rows, which
// must already be sorted ascending by Ctime: the index of the first item
// with Ctime >= ctime.
func bisectLeftCtime(rows []Item, ctime int64) int {
	return sort.Search(len(rows), func(i int) bool { return rows[i].Ctime >= ctime })
}
