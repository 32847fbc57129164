package typechart

import "fmt"

// Multiplier is a single-relation effectiveness value. The table only holds
// 0, 0.5, 1 and 2; products over two defenders add 0.25 and 4.
type Multiplier float64

// Matrix is indexed [attack][defend].
type Matrix [NumLabels][NumLabels]Multiplier

const (
	x0 Multiplier = 0
	xh Multiplier = 0.5
	x1 Multiplier = 1
	x2 Multiplier = 2
)

// chart is the Gen-6+ table. Columns follow declaration order:
// ノーマル ほのお みず でんき くさ こおり かくとう どく じめん ひこう エスパー むし いわ ゴースト ドラゴン あく はがね フェアリー
var chart = Matrix{
	Normal:   {x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, xh, x0, x1, x1, xh, x1},
	Fire:     {x1, xh, xh, x1, x2, x2, x1, x1, x1, x1, x1, x2, xh, x1, xh, x1, x2, x1},
	Water:    {x1, x2, xh, x1, xh, x1, x1, x1, x2, x1, x1, x1, x2, x1, xh, x1, x1, x1},
	Electric: {x1, x1, x2, xh, xh, x1, x1, x1, x0, x2, x1, x1, x1, x1, xh, x1, x1, x1},
	Grass:    {x1, xh, x2, x1, xh, x1, x1, xh, x2, xh, x1, xh, x2, x1, xh, x1, xh, x1},
	Ice:      {x1, xh, xh, x1, x2, xh, x1, x1, x2, x2, x1, x1, x1, x1, x2, x1, xh, x1},
	Fighting: {x2, x1, x1, x1, x1, x2, x1, xh, x1, xh, xh, xh, x2, x0, x1, x2, x2, xh},
	Poison:   {x1, x1, x1, x1, x2, x1, x1, xh, xh, x1, x1, x1, xh, xh, x1, x1, x0, x2},
	Ground:   {x1, x2, x1, x2, xh, x1, x1, x2, x1, x0, x1, xh, x2, x1, x1, x1, x2, x1},
	Flying:   {x1, x1, x1, xh, x2, x1, x2, x1, x1, x1, x1, x2, xh, x1, x1, x1, xh, x1},
	Psychic:  {x1, x1, x1, x1, x1, x1, x2, x2, x1, x1, xh, x1, x1, x1, x1, x0, xh, x1},
	Bug:      {x1, xh, x1, x1, x2, x1, xh, xh, x1, xh, x2, x1, x1, xh, x1, x2, xh, xh},
	Rock:     {x1, x2, x1, x1, x1, x2, xh, x1, xh, x2, x1, x2, x1, x1, x1, x1, xh, x1},
	Ghost:    {x0, x1, x1, x1, x1, x1, x1, x1, x1, x1, x2, x1, x1, x2, x1, xh, x1, x1},
	Dragon:   {x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x1, x2, x1, xh, x0},
	Dark:     {x1, x1, x1, x1, x1, x1, xh, x1, x1, x1, x2, x1, x1, x2, x1, xh, x1, xh},
	Steel:    {x1, xh, xh, xh, x1, x2, x1, x1, x1, x1, x1, x1, x2, x1, x1, x1, xh, x2},
	Fairy:    {x1, xh, x1, x1, x1, x1, x2, xh, x1, x1, x1, x1, x1, x1, x2, x2, xh, x1},
}

// Lookup returns the multiplier for attack hitting defend. It is total: any
// label outside the 18 yields 1.
func Lookup(attack, defend Label) Multiplier {
	if !attack.Valid() || !defend.Valid() {
		return x1
	}
	return chart[attack][defend]
}

// LookupName is Lookup keyed by display name or slug. Unknown names are
// neutral.
func LookupName(attack, defend string) Multiplier {
	a, ok := Parse(attack)
	if !ok {
		return x1
	}
	d, ok := Parse(defend)
	if !ok {
		return x1
	}
	return chart[a][d]
}

// Chart returns a copy of the shipped table.
func Chart() Matrix {
	return chart
}

// Validate checks the shipped table and label set. It is cheap and is run
// once by the daemon at startup.
func Validate() error {
	return ValidateMatrix(&chart)
}

// ValidateMatrix checks that every cell holds one of the four single-relation
// values and that the label tables are consistent with the matrix size.
func ValidateMatrix(m *Matrix) error {
	if m == nil {
		return fmt.Errorf("typechart: nil matrix")
	}
	seen := make(map[string]bool, NumLabels)
	for i, info := range labels {
		if info.name == "" || info.slug == "" {
			return fmt.Errorf("typechart: label %d has no name", i)
		}
		if seen[info.name] || seen[info.slug] {
			return fmt.Errorf("typechart: duplicate label name %q", info.name)
		}
		seen[info.name] = true
		seen[info.slug] = true
	}
	for a := range m {
		for d := range m[a] {
			switch m[a][d] {
			case x0, xh, x1, x2:
			default:
				return fmt.Errorf("typechart: %s→%s has invalid multiplier %v",
					Label(a), Label(d), float64(m[a][d]))
			}
		}
	}
	return nil
}
