package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/corey/typedex/internal/adapters/ahocorasick"
	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/matchup"
	"github.com/corey/typedex/internal/domain/typechart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainStyles() *styles {
	return newStyles(&bytes.Buffer{}, false)
}

func TestBadge_Plain(t *testing.T) {
	s := plainStyles()
	assert.Equal(t, "[みず]", s.badge("みず"))
	assert.Equal(t, "[みず]", s.badge("water"), "slugs render as display names")
	assert.Equal(t, "ひかり", s.badge("ひかり"), "unknown names pass through")
	assert.Equal(t, "[くさ] [どく]", s.badges([]string{"くさ", "どく"}))
}

func TestBadge_ColorKeepsName(t *testing.T) {
	s := newStyles(&bytes.Buffer{}, true)
	out := s.badge("あく")
	assert.Contains(t, out, "あく")
	assert.Contains(t, out, "\x1b[", "color output carries escape codes")
}

func TestBadgeColors_Complete(t *testing.T) {
	for _, l := range typechart.All() {
		assert.NotEmpty(t, string(badgeColors[l]), "label %s", l)
	}
	assert.Equal(t, badgeTextLight, badgeText(typechart.Dark))
	assert.Equal(t, badgeTextDark, badgeText(typechart.Electric))
}

func TestFormatSearch(t *testing.T) {
	s := plainStyles()
	result := &socket.SearchResult{
		Results: []catalog.Entry{
			catalog.FromNames("ゴース", []string{"ゴースト", "どく"}),
			catalog.FromNames("ゴースト", []string{"ゴースト", "どく"}),
		},
		Count:   2,
		Elapsed: "41µs",
	}

	out := formatSearch(s, "ごーす", result)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "⚡ 2 matches │ 41µs", lines[0])
	assert.Equal(t, "  ゴース    [ゴースト] [どく]", lines[1])
	assert.Equal(t, "  ゴースト  [ゴースト] [どく]", lines[2])
}

func TestFormatSearch_NoMatches(t *testing.T) {
	out := formatSearch(plainStyles(), "ぬるぽ", &socket.SearchResult{})
	assert.Equal(t, "no matches for \"ぬるぽ\"\n", out)
}

func TestFormatMentions(t *testing.T) {
	text := "ぴかちゅうとゼニガメ"
	result := &socket.MentionsResult{
		Mentions: []ahocorasick.Mention{
			{Entry: catalog.FromNames("ピカチュウ", []string{"でんき"}), Start: 0, End: 15},
			{Entry: catalog.FromNames("ゼニガメ", []string{"みず"}), Start: 18, End: 30},
		},
		Count: 2,
	}

	out := formatMentions(plainStyles(), text, result)
	assert.Equal(t, "⚡ 2 mentions\n"+
		"  ピカチュウ  [でんき]  ぴかちゅう@0\n"+
		"  ゼニガメ  [みず]  ゼニガメ@18\n", out)

	assert.Equal(t, "no names found\n", formatMentions(plainStyles(), "x", &socket.MentionsResult{}))
}

func TestFormatMatchup(t *testing.T) {
	sel, err := matchup.ParseSelection([]string{"じめん", "ひこう"})
	require.NoError(t, err)
	r := socket.NewMatchupResult(sel)

	out := formatMatchup(plainStyles(), &r)
	assert.True(t, strings.HasPrefix(out, "⚡ ぼうぎょ [じめん] [ひこう]\n"))
	assert.Contains(t, out, "効果はちょうバツグンだ! (×4.0)\n  [こおり]\n")
	assert.Contains(t, out, "効果がないようだ…\n  [でんき] [じめん]\n")
	assert.NotContains(t, out, "効果はバツグンだ! (×2.0)", "empty categories are hidden")
}

func TestBadgeRows_Wraps(t *testing.T) {
	s := plainStyles()
	names := []string{"ほのお", "みず", "でんき"}

	assert.Equal(t, "[ほのお] [みず] [でんき]", s.badgeRows(names, 2))

	// "[ほのお]" and "[みず]" are 8 and 6 columns wide.
	s.width = 2 + 8 + 1 + 6
	assert.Equal(t, "[ほのお] [みず]\n  [でんき]", s.badgeRows(names, 2))

	s.width = 5
	assert.Equal(t, "[ほのお]\n  [みず]\n  [でんき]", s.badgeRows(names, 2))
}

func TestFormatTypes(t *testing.T) {
	out := formatTypes(plainStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, typechart.NumLabels)
	assert.Equal(t, "  [ノーマル] normal", lines[0])
	assert.Equal(t, "  [フェアリー] fairy", lines[17])
}

func TestFormatHealth(t *testing.T) {
	out := formatHealth(plainStyles(), &socket.HealthResult{
		Status:         "ok",
		Entries:        151,
		Source:         "embedded:pokemon.json",
		Reloads:        2,
		ReloadFailures: 1,
		Searches:       40,
		Uptime:         "1m0s",
	})
	assert.Contains(t, out, "Status:   ok\n")
	assert.Contains(t, out, "Entries:  151\n")
	assert.Contains(t, out, "Reloads:  2 (1 failed)\n")
	assert.Contains(t, out, "Uptime:   1m0s\n")
	assert.NotContains(t, out, "Loaded:")
}

func TestFormatStats(t *testing.T) {
	cat := catalog.New([]catalog.Entry{
		catalog.FromNames("フシギダネ", []string{"くさ", "どく"}),
		catalog.FromNames("ナゾノクサ", []string{"くさ", "どく"}),
		catalog.FromNames("ヒトカゲ", []string{"ほのお"}),
		catalog.FromNames("ヒトカゲ", []string{"ほのお"}),
		catalog.FromNames("ゼニガメ", []string{"みず"}),
	})

	out := formatStats(plainStyles(), "test", cat.Stats())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "⚡ 5 entries │ test", lines[0])
	assert.Equal(t, "  Dual-typed:  2", lines[1])
	assert.Equal(t, "  Duplicates:  1", lines[2])
	// ties keep declaration order: ほのお before くさ before どく
	assert.Equal(t, "  [ほのお] 2", lines[3])
	assert.Equal(t, "  [くさ] 2", lines[4])
	assert.Equal(t, "  [どく] 2", lines[5])
	assert.Equal(t, "  [みず] 1", lines[6])
	assert.Len(t, lines, 3+typechart.NumLabels)
}

func TestResolveColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.True(t, resolveColor("always", false))
	assert.False(t, resolveColor("always", true))
	assert.False(t, resolveColor("never", false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, resolveColor("always", false))
}

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.False(t, isDBLockError(assert.AnError))
	assert.True(t, isDBLockError(fmt.Errorf("open store: %w", errors.New("bbolt open: timeout"))))
}
