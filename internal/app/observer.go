package app

import (
	"time"
)

// slowSearchThreshold is the duration above which a search is logged at WARN.
const slowSearchThreshold = 10 * time.Millisecond

// searchObserver counts searches and logs each one. Called by the matcher
// after every search, from whichever goroutine ran it.
func (a *App) searchObserver(query string, hits int, elapsed time.Duration) {
	a.searches.Add(1)
	if hits == 0 {
		a.emptySearches.Add(1)
	}

	attrs := []any{
		"query", query,
		"hits", hits,
		"duration_us", elapsed.Microseconds(),
	}
	if elapsed > slowSearchThreshold {
		a.logger.Warn("slow search", attrs...)
		return
	}
	a.logger.Debug("search", attrs...)
}

// SearchCounts returns the total number of searches and how many found nothing.
func (a *App) SearchCounts() (total, empty int64) {
	return a.searches.Load(), a.emptySearches.Load()
}
