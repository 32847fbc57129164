// Package matchup computes combined effectiveness of every attacking label
// against one or two defending labels and buckets the results for display.
package matchup

import (
	"github.com/corey/typedex/internal/domain/typechart"
)

// Category is a display bucket for a combined multiplier.
type Category string

// Categories in display order.
const (
	DoubleSuperEffective  Category = "double-super-effective"
	SuperEffective        Category = "super-effective"
	Neutral               Category = "neutral"
	Resistant             Category = "resistant"
	DoubleResistant       Category = "double-resistant"
	TripleResistantImmune Category = "triple-resistant-immune"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		DoubleSuperEffective,
		SuperEffective,
		Neutral,
		Resistant,
		DoubleResistant,
		TripleResistantImmune,
	}
}

var captions = map[Category]string{
	DoubleSuperEffective:  "効果はちょうバツグンだ! (×4.0)",
	SuperEffective:        "効果はバツグンだ! (×2.0)",
	Neutral:               "等倍 (×1.0)",
	Resistant:             "効果はいまひとつだ (×0.5)",
	DoubleResistant:       "効果はかなりいまひとつだ (×0.25)",
	TripleResistantImmune: "効果がないようだ…",
}

// Caption returns the Japanese display caption.
func (c Category) Caption() string {
	return captions[c]
}

// Result is the combined multiplier of one attacking label.
type Result struct {
	Attack     typechart.Label `json:"type"`
	Multiplier float64         `json:"multiplier"`
	Category   Category        `json:"category"`
}

// Group collects results sharing a category.
type Group struct {
	Category Category `json:"category"`
	Results  []Result `json:"results"`
}

// Compute returns one Result per attacking label in declaration order. The
// multiplier is the product of Lookup over every defender, starting at 1.
// An empty defense yields all-neutral results; unknown labels are neutral.
func Compute(defense []typechart.Label) []Result {
	results := make([]Result, 0, typechart.NumLabels)
	for _, attack := range typechart.All() {
		m := 1.0
		for _, d := range defense {
			m *= float64(typechart.Lookup(attack, d))
		}
		results = append(results, Result{
			Attack:     attack,
			Multiplier: m,
			Category:   Categorize(m),
		})
	}
	return results
}

// Categorize buckets a multiplier. Thresholds are checked in order and the
// first match wins; the representable products are exact in float64.
func Categorize(m float64) Category {
	switch {
	case m >= 4:
		return DoubleSuperEffective
	case m >= 2:
		return SuperEffective
	case m == 1:
		return Neutral
	case m >= 0.5:
		return Resistant
	case m >= 0.25:
		return DoubleResistant
	default:
		return TripleResistantImmune
	}
}

// GroupByCategory returns the non-empty groups in display order. Results keep
// their relative order within a group.
func GroupByCategory(results []Result) []Group {
	byCat := make(map[Category][]Result, 6)
	for _, r := range results {
		byCat[r.Category] = append(byCat[r.Category], r)
	}
	var groups []Group
	for _, c := range Categories() {
		if rs := byCat[c]; len(rs) > 0 {
			groups = append(groups, Group{Category: c, Results: rs})
		}
	}
	return groups
}
