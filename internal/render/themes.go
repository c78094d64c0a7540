package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lifecal/internal/timeline"
)

// Theme maps every phase to a color.
type Theme struct {
	Name     string
	None     lipgloss.Color
	Youth    lipgloss.Color
	Maturity lipgloss.Color
	Next     lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:     "classic",
		None:     lipgloss.Color("#3a3a3a"),
		Youth:    lipgloss.Color("#5fd068"), // green
		Maturity: lipgloss.Color("#0088ff"), // blue
		Next:     lipgloss.Color("#d0d0d0"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		None:     lipgloss.Color("#222222"),
		Youth:    lipgloss.Color("#bbbbbb"),
		Maturity: lipgloss.Color("#888888"),
		Next:     lipgloss.Color("#eeeeee"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		None:     lipgloss.Color("#001a33"),
		Youth:    lipgloss.Color("#00a8cc"),
		Maturity: lipgloss.Color("#0077be"),
		Next:     lipgloss.Color("#e0f0ff"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		None:     lipgloss.Color("#2d1b2e"),
		Youth:    lipgloss.Color("#feca57"),
		Maturity: lipgloss.Color("#ff6b6b"), // coral
		Next:     lipgloss.Color("#fff5f5"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeMono,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Color returns the color for p.
func (t Theme) Color(p timeline.Phase) lipgloss.Color {
	switch p {
	case timeline.PhaseYouth:
		return t.Youth
	case timeline.PhaseMaturity:
		return t.Maturity
	case timeline.PhaseNext:
		return t.Next
	default:
		return t.None
	}
}
