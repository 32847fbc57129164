package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/typechart"
	"github.com/muesli/termenv"
)

// styles renders terminal output for one writer. With color off every style
// renders plain text, so formatted output can be compared in tests.
type styles struct {
	r      *lipgloss.Renderer
	color  bool
	width  int // wrap badge rows at this width; 0 disables wrapping
	title  lipgloss.Style
	dim    lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
	labels [typechart.NumLabels]lipgloss.Style
}

func newStyles(w io.Writer, color bool) *styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	s := &styles{
		r:     r,
		color: color,
		title: r.NewStyle().Bold(true),
		dim:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		good:  r.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
	}
	for _, l := range typechart.All() {
		s.labels[l] = r.NewStyle().
			Background(badgeColors[l]).
			Foreground(badgeText(l)).
			Padding(0, 1)
	}
	return s
}

// badge renders a type name. Unknown names render as-is.
func (s *styles) badge(name string) string {
	l, ok := typechart.Parse(name)
	if !ok {
		return name
	}
	if !s.color {
		return "[" + l.String() + "]"
	}
	return s.labels[l].Render(l.String())
}

func (s *styles) badges(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = s.badge(n)
	}
	return strings.Join(parts, " ")
}

// badgeRows renders names as badges, starting a new indented row before a
// badge that would cross s.width.
func (s *styles) badgeRows(names []string, indent int) string {
	pad := strings.Repeat(" ", indent)
	var sb strings.Builder
	col := indent
	for i, n := range names {
		b := s.badge(n)
		w := lipgloss.Width(b)
		if i > 0 {
			if s.width > 0 && col+1+w > s.width {
				sb.WriteString("\n")
				sb.WriteString(pad)
				col = indent
			} else {
				sb.WriteString(" ")
				col++
			}
		}
		sb.WriteString(b)
		col += w
	}
	return sb.String()
}

// formatSearch formats a SearchResult for terminal display.
//
//	⚡ 2 matches │ 41µs
//	  ゴース     [ゴースト] [どく]
//	  ゴースト   [ゴースト] [どく]
func formatSearch(s *styles, query string, result *socket.SearchResult) string {
	var sb strings.Builder
	if result.Count == 0 {
		sb.WriteString(s.dim.Render(fmt.Sprintf("no matches for %q", query)))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(s.title.Render(fmt.Sprintf("⚡ %d matches", result.Count)))
	if result.Elapsed != "" {
		sb.WriteString(" " + s.dim.Render("│ "+result.Elapsed))
	}
	sb.WriteString("\n")

	width := 0
	for _, e := range result.Results {
		width = max(width, lipgloss.Width(e.Name))
	}
	for _, e := range result.Results {
		pad := strings.Repeat(" ", width-lipgloss.Width(e.Name))
		sb.WriteString(fmt.Sprintf("  %s%s  %s\n", e.Name, pad, s.badges(entryTypes(e))))
	}
	return sb.String()
}

func entryTypes(e catalog.Entry) []string {
	out := make([]string, len(e.Types))
	for i, l := range e.Types {
		out[i] = l.String()
	}
	return out
}

// formatMentions lists each mention with its position in text.
//
//	⚡ 2 mentions │ 12µs
//	  ピカチュウ  [でんき]  ぴかちゅう@0
func formatMentions(s *styles, text string, result *socket.MentionsResult) string {
	var sb strings.Builder
	if result.Count == 0 {
		sb.WriteString(s.dim.Render("no names found"))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(s.title.Render(fmt.Sprintf("⚡ %d mentions", result.Count)))
	if result.Elapsed != "" {
		sb.WriteString(" " + s.dim.Render("│ "+result.Elapsed))
	}
	sb.WriteString("\n")
	for _, m := range result.Mentions {
		span := ""
		if m.Start >= 0 && m.End <= len(text) && m.Start < m.End {
			span = text[m.Start:m.End]
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", m.Entry.Name, s.badges(entryTypes(m.Entry)),
			s.dim.Render(fmt.Sprintf("%s@%d", span, m.Start))))
	}
	return sb.String()
}

// formatMatchup formats the grouped matchup table. Empty categories are not
// shown.
func formatMatchup(s *styles, result *socket.MatchupResult) string {
	var sb strings.Builder
	sb.WriteString(s.title.Render("⚡ ぼうぎょ"))
	sb.WriteString(" ")
	sb.WriteString(s.badges(result.Defense))
	sb.WriteString("\n")
	for _, g := range result.Groups {
		sb.WriteString("\n")
		sb.WriteString(s.title.Render(g.Label))
		sb.WriteString("\n  ")
		sb.WriteString(s.badgeRows(g.Types, 2))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatTypes lists every type label with its slug.
func formatTypes(s *styles) string {
	var sb strings.Builder
	for _, l := range typechart.All() {
		sb.WriteString(fmt.Sprintf("  %s %s\n", s.badge(l.String()), s.dim.Render(l.Slug())))
	}
	return sb.String()
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(s *styles, h *socket.HealthResult) string {
	status := s.good.Render(h.Status)
	if h.Status != "ok" {
		status = s.bad.Render(h.Status)
	}
	var sb strings.Builder
	sb.WriteString(s.title.Render("⚡ typedex daemon"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Status:   %s\n", status))
	sb.WriteString(fmt.Sprintf("  Entries:  %d\n", h.Entries))
	sb.WriteString(fmt.Sprintf("  Source:   %s\n", h.Source))
	if !h.LoadedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("  Loaded:   %s\n", h.LoadedAt.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString(fmt.Sprintf("  Reloads:  %d (%d failed)\n", h.Reloads, h.ReloadFailures))
	sb.WriteString(fmt.Sprintf("  Searches: %d\n", h.Searches))
	if h.Uptime != "" {
		sb.WriteString(fmt.Sprintf("  Uptime:   %s\n", h.Uptime))
	}
	return sb.String()
}

// formatStats formats catalog statistics with labels by descending use.
func formatStats(s *styles, source string, st catalog.Stats) string {
	var sb strings.Builder
	sb.WriteString(s.title.Render(fmt.Sprintf("⚡ %d entries", st.Entries)))
	sb.WriteString(" " + s.dim.Render("│ "+source))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Dual-typed:  %d\n", st.DualTyped))
	sb.WriteString(fmt.Sprintf("  Duplicates:  %d\n", st.Duplicates))

	type row struct {
		label typechart.Label
		n     int
	}
	rows := make([]row, 0, typechart.NumLabels)
	for _, l := range typechart.All() {
		rows = append(rows, row{l, st.PerLabel[l.String()]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].n > rows[j].n })
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("  %s %d\n", s.badge(r.label.String()), r.n))
	}
	return sb.String()
}
