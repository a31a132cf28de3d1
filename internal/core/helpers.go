package core

import "context"

// PrimeBaseline returns cache with every checker's installed version recorded
// in the baseline, the way the host fills the checked marker before asking
// for updates.
func PrimeBaseline(cache UpdateCache, checkers []*Checker) UpdateCache {
	for _, c := range checkers {
		cache = cache.WithChecked(c.pkg.Slug, c.pkg.CurrentVersion)
	}
	return cache
}

// CheckAll runs the checkers one after another, threading the cache through
// each. Checkers of other kinds than the first are skipped so one cache only
// ever holds records of one kind.
func CheckAll(ctx context.Context, cache UpdateCache, checkers []*Checker) UpdateCache {
	if len(checkers) == 0 {
		return cache
	}
	kind := checkers[0].kind.Name
	for _, c := range checkers {
		if c.kind.Name != kind {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		cache = c.CheckForUpdates(ctx, cache)
	}
	return cache
}

// ByKind groups checkers by kind name, keeping their order.
func ByKind(checkers []*Checker) map[string][]*Checker {
	out := make(map[string][]*Checker)
	for _, c := range checkers {
		out[c.kind.Name] = append(out[c.kind.Name], c)
	}
	return out
}
