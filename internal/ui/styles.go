package ui

import (
	"alcyxob/fitness-testkit/internal/theme"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors for one resolved theme mode.
type Palette struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Dark       bool
}

func LightPalette() Palette {
	return Palette{
		Background: lipgloss.Color("#f4f5f6"),
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#2e7d32"),
		Muted:      lipgloss.Color("#6b7280"),
		Error:      lipgloss.Color("#e53935"),
	}
}

func DarkPalette() Palette {
	return Palette{
		Background: lipgloss.Color("#141d2b"),
		Foreground: lipgloss.Color("#f2f2f2"),
		Primary:    lipgloss.Color("#8BC34A"),
		Muted:      lipgloss.Color("#94a3b8"),
		Error:      lipgloss.Color("#ef5350"),
		Dark:       true,
	}
}

// PaletteFor resolves m against the terminal background.
func PaletteFor(m theme.Mode, systemDark bool) Palette {
	if m.Resolve(systemDark) == theme.ModeDark {
		return DarkPalette()
	}
	return LightPalette()
}

type styles struct {
	header   lipgloss.Style
	title    lipgloss.Style
	option   lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	hint     lipgloss.Style
	err      lipgloss.Style
}

func newStyles(p Palette) styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(p.Foreground).Background(p.Background).Padding(0, 1),
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		option:   lipgloss.NewStyle().Foreground(p.Foreground),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		cursor:   lipgloss.NewStyle().Foreground(p.Primary),
		hint:     lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		err:      lipgloss.NewStyle().Foreground(p.Error),
	}
}
