package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/corey/typedex/internal/domain/typechart"
)

// badgeColors is the background of each type badge.
var badgeColors = [typechart.NumLabels]lipgloss.Color{
	typechart.Normal:   lipgloss.Color("#9CA3AF"),
	typechart.Fire:     lipgloss.Color("#EF4444"),
	typechart.Water:    lipgloss.Color("#3B82F6"),
	typechart.Electric: lipgloss.Color("#FACC15"),
	typechart.Grass:    lipgloss.Color("#22C55E"),
	typechart.Ice:      lipgloss.Color("#22D3EE"),
	typechart.Fighting: lipgloss.Color("#EA580C"),
	typechart.Poison:   lipgloss.Color("#A855F7"),
	typechart.Ground:   lipgloss.Color("#CA8A04"),
	typechart.Flying:   lipgloss.Color("#818CF8"),
	typechart.Psychic:  lipgloss.Color("#EC4899"),
	typechart.Bug:      lipgloss.Color("#84CC16"),
	typechart.Rock:     lipgloss.Color("#B45309"),
	typechart.Ghost:    lipgloss.Color("#7E22CE"),
	typechart.Dragon:   lipgloss.Color("#4F46E5"),
	typechart.Dark:     lipgloss.Color("#1F2937"),
	typechart.Steel:    lipgloss.Color("#64748B"),
	typechart.Fairy:    lipgloss.Color("#F472B6"),
}

var (
	badgeTextDark  = lipgloss.Color("#0F172A")
	badgeTextLight = lipgloss.Color("#FFFFFF")
)

// badgeText returns the foreground for a badge. Only あく is dark enough to
// need light text.
func badgeText(l typechart.Label) lipgloss.Color {
	if l == typechart.Dark {
		return badgeTextLight
	}
	return badgeTextDark
}
