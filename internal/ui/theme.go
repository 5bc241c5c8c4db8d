package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines a set of semantic colors used to build the UI styles.
type Theme struct {
	Name      string
	Slug      string
	Fg        string // primary text, station names
	Accent    string // favorites, active items, live metadata
	Secondary string // header bg, panel borders, help bg
	Bg        string // app background, active item text
	Muted     string // hints, metadata
	Error     string // error messages
}

// Themes is the ordered list of all built-in themes.
var Themes = []Theme{
	themeMidnight(),
	themeVintage(),
	themeNord(),
	themeGruvboxDark(),
}

// ThemeBySlug returns the theme with the given slug, falling back to the
// first entry.
func ThemeBySlug(slug string) Theme {
	for _, t := range Themes {
		if t.Slug == slug {
			return t
		}
	}
	return Themes[0]
}

// BuildStyles constructs the full Styles set from a theme.
func BuildStyles(t Theme) Styles {
	fg := lipgloss.Color(t.Fg)
	accent := lipgloss.Color(t.Accent)
	secondary := lipgloss.Color(t.Secondary)
	bg := lipgloss.Color(t.Bg)
	muted := lipgloss.Color(t.Muted)
	errColor := lipgloss.Color(t.Error)

	border := lipgloss.RoundedBorder()

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(fg).
			Background(bg),
		Header: lipgloss.NewStyle().
			Foreground(fg).
			Background(secondary).
			Padding(0, 1).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(border).
			BorderForeground(secondary).
			Padding(0, 2),
		StationName: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),
		Meta: lipgloss.NewStyle().
			Foreground(muted),
		ListHeader: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		ListItem: lipgloss.NewStyle().
			Foreground(fg),
		ListActive: lipgloss.NewStyle().
			Foreground(bg).
			Background(accent).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(muted),
		HelpBox: lipgloss.NewStyle().
			Border(border).
			BorderForeground(accent).
			Padding(1, 2).
			Background(secondary).
			Foreground(fg),
		Error: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		Accent: lipgloss.NewStyle().
			Foreground(accent),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
	}
}

func themeMidnight() Theme {
	return Theme{
		Name:      "Midnight",
		Slug:      "midnight",
		Fg:        "#C8D3F5",
		Accent:    "#FFC777",
		Secondary: "#2F334D",
		Bg:        "#1E2030",
		Muted:     "#636DA6",
		Error:     "#FF757F",
	}
}

func themeVintage() Theme {
	return Theme{
		Name:      "Vintage",
		Slug:      "vintage",
		Fg:        "#F5E6C8",
		Accent:    "#D9A441",
		Secondary: "#6E4A2F",
		Bg:        "#2B1D12",
		Muted:     "#A08A66",
		Error:     "#C45A3B",
	}
}

func themeNord() Theme {
	return Theme{
		Name:      "Nord",
		Slug:      "nord",
		Fg:        "#ECEFF4",
		Accent:    "#88C0D0",
		Secondary: "#3B4252",
		Bg:        "#2E3440",
		Muted:     "#7B88A1",
		Error:     "#BF616A",
	}
}

func themeGruvboxDark() Theme {
	return Theme{
		Name:      "Gruvbox Dark",
		Slug:      "gruvbox-dark",
		Fg:        "#EBDBB2",
		Accent:    "#FABD2F",
		Secondary: "#3C3836",
		Bg:        "#282828",
		Muted:     "#928374",
		Error:     "#FB4934",
	}
}
