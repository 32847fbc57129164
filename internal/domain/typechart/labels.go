// Package typechart holds the closed set of 18 type labels and the static
// attack × defense effectiveness table. Everything here is immutable after
// package initialization and safe for concurrent use without locking.
package typechart

// Label identifies one of the 18 types. The numeric value is the declaration
// order, which is used for stable iteration and as the matrix index. It carries
// no semantic ordering.
type Label int

// The 18 labels in declaration order.
const (
	Normal Label = iota
	Fire
	Water
	Electric
	Grass
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy

	// NumLabels is the size of the label set.
	NumLabels = 18
)

// Invalid is returned by lookups that fail. It is never a valid matrix index.
const Invalid Label = -1

// labelInfo pairs the display name (the identifier used in the catalog and on
// the wire) with the English slug used by the upstream data source.
type labelInfo struct {
	name string
	slug string
}

var labels = [NumLabels]labelInfo{
	Normal:   {"ノーマル", "normal"},
	Fire:     {"ほのお", "fire"},
	Water:    {"みず", "water"},
	Electric: {"でんき", "electric"},
	Grass:    {"くさ", "grass"},
	Ice:      {"こおり", "ice"},
	Fighting: {"かくとう", "fighting"},
	Poison:   {"どく", "poison"},
	Ground:   {"じめん", "ground"},
	Flying:   {"ひこう", "flying"},
	Psychic:  {"エスパー", "psychic"},
	Bug:      {"むし", "bug"},
	Rock:     {"いわ", "rock"},
	Ghost:    {"ゴースト", "ghost"},
	Dragon:   {"ドラゴン", "dragon"},
	Dark:     {"あく", "dark"},
	Steel:    {"はがね", "steel"},
	Fairy:    {"フェアリー", "fairy"},
}

// byName resolves both display names and slugs. Built once in init.
var byName map[string]Label

func init() {
	byName = make(map[string]Label, NumLabels*2)
	for i, info := range labels {
		byName[info.name] = Label(i)
		byName[info.slug] = Label(i)
	}
}

// All returns every label in declaration order. The slice is freshly
// allocated; callers may modify it.
func All() []Label {
	out := make([]Label, NumLabels)
	for i := range out {
		out[i] = Label(i)
	}
	return out
}

// Parse resolves a display name ("ほのお") or slug ("fire") to a Label.
func Parse(name string) (Label, bool) {
	l, ok := byName[name]
	if !ok {
		return Invalid, false
	}
	return l, true
}

// Valid reports whether l is one of the 18 labels.
func (l Label) Valid() bool {
	return l >= 0 && l < NumLabels
}

// String returns the display name, or "" for an invalid label.
func (l Label) String() string {
	if !l.Valid() {
		return ""
	}
	return labels[l].name
}

// Slug returns the English identifier used by the upstream data source.
func (l Label) Slug() string {
	if !l.Valid() {
		return ""
	}
	return labels[l].slug
}

// MarshalText encodes the label as its display name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts a display name or slug. Unknown names decode to
// Invalid rather than failing, so callers can report every bad entry at once.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		*l = Invalid
		return nil
	}
	*l = parsed
	return nil
}
