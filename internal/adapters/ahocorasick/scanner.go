// Package ahocorasick finds catalog names inside free text in one pass using
// an Aho-Corasick automaton over the kana-folded names.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/kana"
)

// Mention is one catalog name found in a text. Start and End are byte
// offsets into the original text (End exclusive).
type Mention struct {
	Entry catalog.Entry `json:"entry"`
	Start int           `json:"start"`
	End   int           `json:"end"`
}

// Scanner is built for one catalog and is safe for concurrent use.
type Scanner struct {
	automaton aho.AhoCorasick
	cat       *catalog.Catalog
	entryOf   []int // pattern index -> first catalog index with that name
}

// NewScanner compiles every distinct normalized name of cat. For repeated
// names the first catalog entry is reported.
func NewScanner(cat *catalog.Catalog) *Scanner {
	s := &Scanner{cat: cat}
	seen := make(map[string]bool, cat.Len())
	var patterns []string
	for i := 0; i < cat.Len(); i++ {
		name := cat.Normalized(i)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		patterns = append(patterns, name)
		s.entryOf = append(s.entryOf, i)
	}

	if len(patterns) == 0 {
		return s
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		MatchKind: aho.LeftMostLongestMatch,
		DFA:       true,
	})
	s.automaton = builder.Build(patterns)
	return s
}

// Catalog returns the catalog the scanner was built from.
func (s *Scanner) Catalog() *catalog.Catalog {
	return s.cat
}

// Scan returns non-overlapping mentions in text order. Where names overlap,
// the longest one starting first wins, so ゴースト is not also reported as
// ゴース. Hiragana in text matches katakana names.
func (s *Scanner) Scan(text string) []Mention {
	if text == "" || len(s.entryOf) == 0 {
		return nil
	}
	// Folding keeps byte offsets, invalid UTF-8 included.
	folded := kana.Normalize(text)

	matches := s.automaton.FindAll(folded)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Mention, 0, len(matches))
	for _, m := range matches {
		out = append(out, Mention{
			Entry: s.cat.At(s.entryOf[m.Pattern()]),
			Start: m.Start(),
			End:   m.End(),
		})
	}
	return out
}

// Patterns reports how many distinct names the automaton holds.
func (s *Scanner) Patterns() int {
	return len(s.entryOf)
}
