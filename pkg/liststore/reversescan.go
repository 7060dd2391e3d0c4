package liststore

import "context"

// ReverseScan walks items at or before ctime, latest first, across
// months, applying skipSeen/skipDismissed filters and an offset before
// collecting up to limit items. A month whose every item would be
// filtered out is skipped without reading its data page. limit <= 0
// returns no items.
func (s *ListStore) ReverseScan(ctx context.Context, name string, ctime int64, limit, offset int, skipSeen, skipDismissed bool) ([]Item, error) {
	if limit <= 0 {
		return nil, nil
	}

	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return nil, err
	}
	months := sortedMonthsAsc(ip)
	ym := yyyymmOf(ctime)

	start := bisectLeftStr(months, ym)
	if start >= len(months) || months[start] != ym {
		start--
	}

	var out []Item
	for idx := start; idx >= 0 && limit > 0; idx-- {
		curYM := months[idx]
		summary := ip.YMTab[curYM]
		if skipDismissed && summary.Total > 0 && summary.Total == summary.Dismissed {
			continue
		}
		if skipSeen && summary.Total > 0 && summary.Total == summary.Seen {
			continue
		}

		dp, err := s.readDataPage(ctx, name, curYM)
		if err != nil {
			return nil, err
		}

		j := bisectLeftCtime(dp.CTab, ctime)
		if j >= len(dp.CTab) || dp.CTab[j].Ctime != ctime {
			j--
		}

		for k := j; k >= 0 && limit > 0; k-- {
			it := dp.CTab[k]
			if skipDismissed && bool(it.Dismissed) {
				continue
			}
			if skipSeen && bool(it.Seen) {
				continue
			}
			if offset > 0 {
				offset--
				continue
			}
			out = append(out, it)
			limit--
		}
	}
	return out, nil
}
