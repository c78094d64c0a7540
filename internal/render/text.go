package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lifecal/internal/timeline"
)

var glyphs = map[timeline.Phase]rune{
	timeline.PhaseNone:     '·',
	timeline.PhaseYouth:    '▒',
	timeline.PhaseMaturity: '█',
	timeline.PhaseNext:     '░',
}

// Glyph returns the single-rune mark for p.
func Glyph(p timeline.Phase) rune {
	if g, ok := glyphs[p]; ok {
		return g
	}
	return '?'
}

// CellText is the label of one cell, e.g. "youth w".
func CellText(p timeline.Phase, s timeline.Scale) string {
	return p.String() + " " + s.String()
}

// Row renders one year as colored glyphs, prefixed by the year. Runs of the
// same phase share one style call.
func Row(row timeline.Row, theme Theme) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render(fmt.Sprintf("%4d ", row.Year)))

	for i := 0; i < len(row.Cells); {
		j := i
		for j < len(row.Cells) && row.Cells[j] == row.Cells[i] {
			j++
		}
		run := strings.Repeat(string(Glyph(row.Cells[i])), j-i)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Color(row.Cells[i])).Render(run))
		i = j
	}
	return b.String()
}

// Text renders the whole grid with a legend line.
func Text(grid timeline.Grid, scale timeline.Scale, theme Theme) string {
	var b strings.Builder
	for _, row := range grid {
		b.WriteString(Row(row, theme))
		b.WriteByte('\n')
	}
	b.WriteString(Legend(theme))
	b.WriteByte('\n')
	return b.String()
}

// Legend lists each phase in its color.
func Legend(theme Theme) string {
	parts := make([]string, 0, len(timeline.Phases))
	for _, p := range timeline.Phases {
		mark := lipgloss.NewStyle().Foreground(theme.Color(p)).Render(string(Glyph(p)))
		parts = append(parts, mark+" "+p.String())
	}
	return strings.Join(parts, "   ")
}

// Plain renders the grid without escape codes.
func Plain(grid timeline.Grid) string {
	var b strings.Builder
	for _, row := range grid {
		fmt.Fprintf(&b, "%4d ", row.Year)
		for _, c := range row.Cells {
			b.WriteRune(Glyph(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
