package render

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Lived is the fraction of [start, end) already behind now, clamped to [0, 1].
func Lived(start, end, now time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	f := float64(now.Sub(start)) / float64(total)
	return min(max(f, 0), 1)
}

// ProgressBar renders percent (0..1) as a bar width cells wide.
func ProgressBar(percent float64, width int, theme Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	done := lipgloss.NewStyle().Foreground(theme.Maturity).Render(strings.Repeat("━", filled))
	rest := lipgloss.NewStyle().Foreground(theme.Muted).Render(strings.Repeat("─", width-filled))
	return done + rest
}
