// Package catalog holds the ordered list of named creatures and their type
// labels. A Catalog is immutable once built; reloads swap a whole new Catalog
// into a Snapshot.
package catalog

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/corey/typedex/internal/domain/kana"
	"github.com/corey/typedex/internal/domain/typechart"
)

var (
	// ErrUnavailable means the catalog source could not be read.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrMalformed means the source was read but failed decoding or validation.
	ErrMalformed = errors.New("catalog malformed")
)

// Entry is one named creature. Types holds one or two labels in source order.
type Entry struct {
	Name  string            `json:"name"`
	Types []typechart.Label `json:"types"`
}

// Catalog is an ordered, read-only list of entries with their names
// pre-normalized for matching.
type Catalog struct {
	entries    []Entry
	normalized []string
	runeLens   []int
	loadedAt   time.Time
	source     string
}

// New builds a Catalog over entries. The slice is retained, not copied;
// callers must not modify it afterwards.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries:    entries,
		normalized: make([]string, len(entries)),
		runeLens:   make([]int, len(entries)),
		loadedAt:   time.Now(),
	}
	for i, e := range entries {
		c.normalized[i] = kana.Normalize(e.Name)
		c.runeLens[i] = len([]rune(e.Name))
	}
	return c
}

// WithSource returns a shallow copy tagged with where it was loaded from.
func (c *Catalog) WithSource(source string) *Catalog {
	cp := *c
	cp.source = source
	return &cp
}

// Len returns the number of entries. A nil Catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the backing slice. Treat it as read-only.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// At returns the i-th entry.
func (c *Catalog) At(i int) Entry { return c.entries[i] }

// Normalized returns the kana-folded name of the i-th entry.
func (c *Catalog) Normalized(i int) string { return c.normalized[i] }

// NameLen returns the rune count of the i-th entry's raw name.
func (c *Catalog) NameLen(i int) int { return c.runeLens[i] }

// LoadedAt is when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Source names where the catalog came from ("embedded", "store" or a path).
func (c *Catalog) Source() string { return c.source }

// Validate checks every entry has a name and one or two known, distinct
// labels. The first violation is returned wrapped in ErrMalformed.
func Validate(entries []Entry) error {
	for i, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("%w: entry %d: empty name", ErrMalformed, i)
		}
		if len(e.Types) < 1 || len(e.Types) > 2 {
			return fmt.Errorf("%w: entry %d (%s): has %d types, want 1 or 2", ErrMalformed, i, e.Name, len(e.Types))
		}
		for _, l := range e.Types {
			if !l.Valid() {
				return fmt.Errorf("%w: entry %d (%s): unknown type", ErrMalformed, i, e.Name)
			}
		}
		if len(e.Types) == 2 && e.Types[0] == e.Types[1] {
			return fmt.Errorf("%w: entry %d (%s): duplicate type %s", ErrMalformed, i, e.Name, e.Types[0])
		}
	}
	return nil
}

// Stats summarizes a catalog for health output and the validate command.
type Stats struct {
	Entries    int            `json:"entries"`
	Duplicates int            `json:"duplicates"`
	DualTyped  int            `json:"dual_typed"`
	PerLabel   map[string]int `json:"per_label"`
}

// Stats counts entries, repeated names, dual-typed entries and label usage.
func (c *Catalog) Stats() Stats {
	s := Stats{PerLabel: make(map[string]int, typechart.NumLabels)}
	if c == nil {
		return s
	}
	seen := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		s.Entries++
		if seen[e.Name] {
			s.Duplicates++
		}
		seen[e.Name] = true
		if len(e.Types) == 2 {
			s.DualTyped++
		}
		for _, l := range e.Types {
			s.PerLabel[l.String()]++
		}
	}
	return s
}

// Snapshot publishes the current Catalog to concurrent readers. Readers call
// Load once per operation and never observe a partially built catalog.
type Snapshot struct {
	p     atomic.Pointer[Catalog]
	swaps atomic.Int64
}

// NewSnapshot returns a Snapshot holding c (which may be nil).
func NewSnapshot(c *Catalog) *Snapshot {
	s := &Snapshot{}
	if c != nil {
		s.p.Store(c)
	}
	return s
}

// Load returns the current catalog, or nil if none has been stored.
func (s *Snapshot) Load() *Catalog { return s.p.Load() }

// Swap installs c and returns the previous catalog.
func (s *Snapshot) Swap(c *Catalog) *Catalog {
	s.swaps.Add(1)
	return s.p.Swap(c)
}

// Swaps counts how many times Swap has been called.
func (s *Snapshot) Swaps() int64 { return s.swaps.Load() }
