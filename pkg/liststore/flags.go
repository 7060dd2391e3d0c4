package liststore

import "context"

type flagKind int

const (
	flagSeen flagKind = iota
	flagDismissed
)

func getFlag(it Item, kind flagKind) bool {
	if kind == flagSeen {
		return bool(it.Seen)
	}
	return bool(it.Dismissed)
}

func setFlag(it *Item, kind flagKind) {
	if kind == flagSeen {
		it.Seen = true
	} else {
		it.Dismissed = true
	}
}

// SetSeen marks the item at ctime (and, if prior is true, every unseen
// item at or before it) as seen.
func (s *ListStore) SetSeen(ctx context.Context, name string, ctime int64, prior bool) error {
	return s.setFlag(ctx, name, ctime, prior, flagSeen)
}

// SetDismissed marks the item at ctime (and, if prior is true, every
// undismissed item at or before it) as dismissed.
func (s *ListStore) SetDismissed(ctx context.Context, name string, ctime int64, prior bool) error {
	return s.setFlag(ctx, name, ctime, prior, flagDismissed)
}

func (s *ListStore) setFlag(ctx context.Context, name string, ctime int64, prior bool, kind flagKind) error {
	lock := s.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	if !prior {
		return s.setFlagOne(ctx, name, ctime, kind)
	}
	return s.setFlagPrior(ctx, name, ctime, kind)
}

func (s *ListStore) setFlagOne(ctx context.Context, name string, ctime int64, kind flagKind) error {
	ym := yyyymmOf(ctime)
	dp, err := s.readDataPage(ctx, name, ym)
	if err != nil {
		return err
	}
	i := bisectLeftCtime(dp.CTab, ctime)
	if i >= len(dp.CTab) || dp.CTab[i].Ctime != ctime {
		return nil
	}
	if getFlag(dp.CTab[i], kind) {
		return nil
	}
	setFlag(&dp.CTab[i], kind)
	return s.writeDataPage(ctx, name, ym, dp)
}

// setFlagPrior walks months descending from ctime's month, and within
// each month walks items descending from the target position, setting
// kind on every item that doesn't already have it set. A month whose
// summary shows the flag already covers every item is skipped without a
// read.
func (s *ListStore) setFlagPrior(ctx context.Context, name string, ctime int64, kind flagKind) error {
	ip, err := s.readIndexPage(ctx, name)
	if err != nil {
		return err
	}
	months := sortedMonthsAsc(ip)
	ym := yyyymmOf(ctime)

	start := bisectLeftStr(months, ym)
	if start >= len(months) || months[start] != ym {
		start--
	}

	for idx := start; idx >= 0; idx-- {
		curYM := months[idx]
		summary := ip.YMTab[curYM]
		flagCount := summary.Seen
		if kind == flagDismissed {
			flagCount = summary.Dismissed
		}
		if summary.Total > 0 && flagCount == summary.Total {
			continue
		}

		dp, err := s.readDataPage(ctx, name, curYM)
		if err != nil {
			return err
		}

		j := bisectLeftCtime(dp.CTab, ctime)
		if j >= len(dp.CTab) || dp.CTab[j].Ctime != ctime {
			j--
		}

		dirty := false
		for k := j; k >= 0; k-- {
			if !getFlag(dp.CTab[k], kind) {
				setFlag(&dp.CTab[k], kind)
				dirty = true
			}
		}
		if dirty {
			if err := s.writeDataPage(ctx, name, curYM, dp); err != nil {
				return err
			}
		}
	}
	return nil
}
