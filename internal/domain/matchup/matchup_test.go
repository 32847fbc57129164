package matchup

import (
	"errors"
	"testing"

	tc "github.com/corey/typedex/internal/domain/typechart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiplierOf(t *testing.T, results []Result, attack tc.Label) Result {
	t.Helper()
	for _, r := range results {
		if r.Attack == attack {
			return r
		}
	}
	t.Fatalf("no result for %s", attack)
	return Result{}
}

// =============================================================================
// Compute
// =============================================================================

func TestCompute_SingleGrass(t *testing.T) {
	results := Compute([]tc.Label{tc.Grass})
	require.Len(t, results, tc.NumLabels)

	fire := multiplierOf(t, results, tc.Fire)
	assert.Equal(t, 2.0, fire.Multiplier)
	assert.Equal(t, SuperEffective, fire.Category)

	water := multiplierOf(t, results, tc.Water)
	assert.Equal(t, 0.5, water.Multiplier)
	assert.Equal(t, Resistant, water.Category)

	normal := multiplierOf(t, results, tc.Normal)
	assert.Equal(t, 1.0, normal.Multiplier)
	assert.Equal(t, Neutral, normal.Category)
}

func TestCompute_GrassPoison(t *testing.T) {
	results := Compute([]tc.Label{tc.Grass, tc.Poison})

	psychic := multiplierOf(t, results, tc.Psychic)
	assert.Equal(t, 2.0, psychic.Multiplier)
	assert.Equal(t, SuperEffective, psychic.Category)

	grass := multiplierOf(t, results, tc.Grass)
	assert.Equal(t, 0.25, grass.Multiplier)
	assert.Equal(t, DoubleResistant, grass.Category)

	ground := multiplierOf(t, results, tc.Ground)
	assert.Equal(t, 1.0, ground.Multiplier)
	assert.Equal(t, Neutral, ground.Category)
}

func TestCompute_GroundFlyingVsElectric(t *testing.T) {
	results := Compute([]tc.Label{tc.Ground, tc.Flying})
	electric := multiplierOf(t, results, tc.Electric)
	assert.Equal(t, 0.0, electric.Multiplier)
	assert.Equal(t, TripleResistantImmune, electric.Category)

	ice := multiplierOf(t, results, tc.Ice)
	assert.Equal(t, 4.0, ice.Multiplier)
	assert.Equal(t, DoubleSuperEffective, ice.Category)
}

func TestCompute_DeclarationOrder(t *testing.T) {
	results := Compute([]tc.Label{tc.Water})
	for i, r := range results {
		assert.Equal(t, tc.Label(i), r.Attack)
	}
}

func TestCompute_SingleMatchesLookup(t *testing.T) {
	for _, d := range tc.All() {
		for _, r := range Compute([]tc.Label{d}) {
			assert.Equal(t, float64(tc.Lookup(r.Attack, d)), r.Multiplier)
		}
	}
}

func TestCompute_OrderInsensitive(t *testing.T) {
	for _, a := range tc.All() {
		for _, b := range tc.All() {
			assert.Equal(t, Compute([]tc.Label{a, b}), Compute([]tc.Label{b, a}))
		}
	}
}

func TestCompute_PairIsProductOfLookups(t *testing.T) {
	for _, a := range tc.All() {
		for _, b := range tc.All() {
			for _, r := range Compute([]tc.Label{a, b}) {
				want := float64(tc.Lookup(r.Attack, a)) * float64(tc.Lookup(r.Attack, b))
				assert.Equal(t, want, r.Multiplier, "%s vs %s/%s", r.Attack, a, b)
				assert.Equal(t, Categorize(r.Multiplier), r.Category)
			}
		}
	}
}

func TestCompute_FireWaterVsGrassCancels(t *testing.T) {
	grass := multiplierOf(t, Compute([]tc.Label{tc.Fire, tc.Water}), tc.Grass)
	assert.Equal(t, 1.0, grass.Multiplier)
	assert.Equal(t, Neutral, grass.Category)
}

func TestCompute_DragonFairyVsDragonImmune(t *testing.T) {
	dragon := multiplierOf(t, Compute([]tc.Label{tc.Dragon, tc.Fairy}), tc.Dragon)
	assert.Equal(t, 0.0, dragon.Multiplier)
	assert.Equal(t, TripleResistantImmune, dragon.Category)
}

func TestCompute_MultipliersInRepresentableSet(t *testing.T) {
	allowed := map[float64]bool{0: true, 0.25: true, 0.5: true, 1: true, 2: true, 4: true}
	for _, a := range tc.All() {
		for _, b := range tc.All() {
			for _, r := range Compute([]tc.Label{a, b}) {
				assert.True(t, allowed[r.Multiplier], "%v", r.Multiplier)
			}
		}
	}
}

func TestCompute_UnknownIsNeutral(t *testing.T) {
	results := Compute([]tc.Label{tc.Invalid})
	for _, r := range results {
		assert.Equal(t, 1.0, r.Multiplier)
	}
	assert.Equal(t, Compute([]tc.Label{tc.Fire}), Compute([]tc.Label{tc.Fire, tc.Label(42)}))
}

// =============================================================================
// Categorize / GroupByCategory
// =============================================================================

func TestCategorize(t *testing.T) {
	tests := []struct {
		m    float64
		want Category
	}{
		{4, DoubleSuperEffective},
		{8, DoubleSuperEffective},
		{2, SuperEffective},
		{3, SuperEffective},
		{1, Neutral},
		{1.5, Resistant}, // not reachable from the chart, falls through to >= 0.5
		{0.5, Resistant},
		{0.25, DoubleResistant},
		{0.125, TripleResistantImmune},
		{0, TripleResistantImmune},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.m), "%v", tt.m)
	}
}

func TestCaptions(t *testing.T) {
	assert.Equal(t, "効果はちょうバツグンだ! (×4.0)", DoubleSuperEffective.Caption())
	assert.Equal(t, "等倍 (×1.0)", Neutral.Caption())
	assert.Equal(t, "効果がないようだ…", TripleResistantImmune.Caption())
	for _, c := range Categories() {
		assert.NotEmpty(t, c.Caption(), string(c))
	}
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(Compute([]tc.Label{tc.Ground, tc.Flying}))

	var cats []Category
	total := 0
	for _, g := range groups {
		cats = append(cats, g.Category)
		total += len(g.Results)
		for i := 1; i < len(g.Results); i++ {
			assert.Less(t, g.Results[i-1].Attack, g.Results[i].Attack)
		}
	}
	assert.Equal(t, tc.NumLabels, total)
	// Ground/Flying has no 0.25 results, so that group is omitted.
	assert.Equal(t, []Category{DoubleSuperEffective, SuperEffective, Neutral, Resistant, TripleResistantImmune}, cats)
	assert.Equal(t, tc.Ice, groups[0].Results[0].Attack)
}

func TestGroupByCategory_Empty(t *testing.T) {
	assert.Empty(t, GroupByCategory(nil))
}

// =============================================================================
// Selection
// =============================================================================

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"くさ", "poison"})
	require.NoError(t, err)
	assert.Equal(t, []tc.Label{tc.Grass, tc.Poison}, sel.Labels())
	assert.Equal(t, []string{"くさ", "どく"}, sel.Names())
}

func TestParseSelection_Invalid(t *testing.T) {
	for _, names := range [][]string{
		nil,
		{"くさ", "どく", "みず"},
		{"ひかり"},
		{"くさ", "grass"},
	} {
		_, err := ParseSelection(names)
		require.Error(t, err, "%v", names)
		assert.True(t, errors.Is(err, ErrInvalidSelection))
	}
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name  string
		start []tc.Label
		click tc.Label
		want  []tc.Label
	}{
		{"keep last one", []tc.Label{tc.Normal}, tc.Normal, []tc.Label{tc.Normal}},
		{"append second", []tc.Label{tc.Normal}, tc.Fire, []tc.Label{tc.Normal, tc.Fire}},
		{"remove one of two", []tc.Label{tc.Normal, tc.Fire}, tc.Normal, []tc.Label{tc.Fire}},
		{"evict oldest", []tc.Label{tc.Normal, tc.Fire}, tc.Water, []tc.Label{tc.Fire, tc.Water}},
		{"from empty", nil, tc.Ghost, []tc.Label{tc.Ghost}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSelection(tt.start...).Toggle(tt.click)
			assert.Equal(t, tt.want, got.Labels())
		})
	}
}

func TestToggle_DoesNotAliasReceiver(t *testing.T) {
	s := NewSelection(tc.Normal)
	_ = s.Toggle(tc.Fire)
	assert.Equal(t, []tc.Label{tc.Normal}, s.Labels())
}

func TestSelection_Compute(t *testing.T) {
	s := NewSelection(tc.Water)
	assert.Equal(t, Compute([]tc.Label{tc.Water}), s.Compute())
	assert.True(t, s.Contains(tc.Water))
	assert.Equal(t, 1, s.Len())
}
