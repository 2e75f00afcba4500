package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the application
type Theme struct {
	Name string

	// Text colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color

	// UI element colors
	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Highlight    lipgloss.Color
}

// Available themes
var (
	CatppuccinMocha = Theme{
		Name:         "Catppuccin Mocha",
		Primary:      lipgloss.Color("#cdd6f4"),
		Secondary:    lipgloss.Color("#a6adc8"),
		Accent:       lipgloss.Color("#f5c2e7"),
		Muted:        lipgloss.Color("#6c7086"),
		Error:        lipgloss.Color("#f38ba8"),
		Border:       lipgloss.Color("#45475a"),
		BorderActive: lipgloss.Color("#89b4fa"),
		Highlight:    lipgloss.Color("#f9e2af"),
	}

	Dracula = Theme{
		Name:         "Dracula",
		Primary:      lipgloss.Color("#f8f8f2"),
		Secondary:    lipgloss.Color("#6272a4"),
		Accent:       lipgloss.Color("#ff79c6"),
		Muted:        lipgloss.Color("#6272a4"),
		Error:        lipgloss.Color("#ff5555"),
		Border:       lipgloss.Color("#44475a"),
		BorderActive: lipgloss.Color("#bd93f9"),
		Highlight:    lipgloss.Color("#f1fa8c"),
	}

	SolarizedDark = Theme{
		Name:         "Solarized Dark",
		Primary:      lipgloss.Color("#839496"),
		Secondary:    lipgloss.Color("#586e75"),
		Accent:       lipgloss.Color("#d33682"),
		Muted:        lipgloss.Color("#586e75"),
		Error:        lipgloss.Color("#dc322f"),
		Border:       lipgloss.Color("#073642"),
		BorderActive: lipgloss.Color("#268bd2"),
		Highlight:    lipgloss.Color("#b58900"),
	}
)

// AllThemes returns a list of all available themes
func AllThemes() []Theme {
	return []Theme{
		CatppuccinMocha,
		Dracula,
		SolarizedDark,
	}
}

// GetTheme returns a theme by name, defaulting to Catppuccin Mocha if not found
func GetTheme(name string) Theme {
	themes := map[string]Theme{
		"catppuccin-mocha": CatppuccinMocha,
		"dracula":          Dracula,
		"solarized-dark":   SolarizedDark,
	}

	if theme, ok := themes[name]; ok {
		return theme
	}
	return CatppuccinMocha
}

// Styles bundles the lipgloss styles the views render with, derived from
// one theme so pane chrome stays consistent.
type Styles struct {
	Header      lipgloss.Style
	Title       lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	VerseNum    lipgloss.Style
	VerseText   lipgloss.Style
	Focused     lipgloss.Style
	Match       lipgloss.Style
	PaneBorder  lipgloss.Style
	PaneActive  lipgloss.Style
	RefListItem lipgloss.Style
}

// NewStyles derives the style set for a theme.
func NewStyles(t Theme) Styles {
	border := lipgloss.NormalBorder()
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			BorderStyle(border).
			BorderBottom(true).
			BorderForeground(t.Border),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Help:        lipgloss.NewStyle().Foreground(t.Muted),
		Error:       lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		VerseNum:    lipgloss.NewStyle().Foreground(t.Secondary),
		VerseText:   lipgloss.NewStyle().Foreground(t.Primary),
		Focused:     lipgloss.NewStyle().Foreground(t.Primary).Background(t.Border),
		Match:       lipgloss.NewStyle().Foreground(t.Highlight).Bold(true),
		PaneBorder:  lipgloss.NewStyle().BorderStyle(border).BorderForeground(t.Border),
		PaneActive:  lipgloss.NewStyle().BorderStyle(border).BorderForeground(t.BorderActive),
		RefListItem: lipgloss.NewStyle().Foreground(t.Secondary),
	}
}
