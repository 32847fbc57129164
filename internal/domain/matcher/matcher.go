// Package matcher ranks catalog entries against a free-text query.
//
// Matching is a substring test on kana-folded names. Candidates are ordered
// prefix-first, then by raw name length, then by catalog order, and capped at
// MaxResults.
package matcher

import (
	"sort"
	"strings"
	"time"

	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/kana"
)

// MaxResults caps every search.
const MaxResults = 10

// Search returns up to MaxResults entries of cat whose normalized name
// contains the normalized query. An empty query or nil catalog yields nil.
func Search(cat *catalog.Catalog, query string) []catalog.Entry {
	if query == "" || cat.Len() == 0 {
		return nil
	}
	q := kana.Normalize(query)

	type candidate struct {
		idx    int
		prefix bool
	}
	var cands []candidate
	for i := 0; i < cat.Len(); i++ {
		name := cat.Normalized(i)
		if !strings.Contains(name, q) {
			continue
		}
		cands = append(cands, candidate{idx: i, prefix: strings.HasPrefix(name, q)})
	}

	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.prefix != cb.prefix {
			return ca.prefix
		}
		return cat.NameLen(ca.idx) < cat.NameLen(cb.idx)
	})

	if len(cands) > MaxResults {
		cands = cands[:MaxResults]
	}
	out := make([]catalog.Entry, len(cands))
	for i, c := range cands {
		out[i] = cat.At(c.idx)
	}
	return out
}

// Observer is called after every search with the query, hit count and
// elapsed time. Used by the app layer for logging and counters.
type Observer func(query string, hits int, elapsed time.Duration)

// Matcher searches whatever catalog its source returns at call time, so a
// reload is picked up by the next query without coordination.
type Matcher struct {
	source   func() *catalog.Catalog
	observer Observer
}

// New creates a Matcher over a snapshot source. A nil source always searches
// an empty catalog.
func New(source func() *catalog.Catalog) *Matcher {
	return &Matcher{source: source}
}

// SetObserver installs fn. Must be called before the Matcher is shared.
func (m *Matcher) SetObserver(fn Observer) {
	m.observer = fn
}

// Search runs Search against the current snapshot.
func (m *Matcher) Search(query string) []catalog.Entry {
	start := time.Now()
	var cat *catalog.Catalog
	if m.source != nil {
		cat = m.source()
	}
	hits := Search(cat, query)
	if m.observer != nil {
		m.observer(query, len(hits), time.Since(start))
	}
	return hits
}
