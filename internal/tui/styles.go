package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents the color theme for the TUI
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
}

// GruvboxTheme creates a Gruvbox-inspired theme
func GruvboxTheme() Theme {
	return Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#b8bb26", Dark: "#b8bb26"},
		Secondary: lipgloss.AdaptiveColor{Light: "#fe8019", Dark: "#fe8019"},
		Success:   lipgloss.AdaptiveColor{Light: "#98971a", Dark: "#b8bb26"},
		Warning:   lipgloss.AdaptiveColor{Light: "#d79921", Dark: "#fabd2f"},
		Error:     lipgloss.AdaptiveColor{Light: "#cc241d", Dark: "#fb4934"},
		Info:      lipgloss.AdaptiveColor{Light: "#458588", Dark: "#83a598"},
		Subtle:    lipgloss.AdaptiveColor{Light: "#928374", Dark: "#7c6f64"},
		Highlight: lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#3c3836"},
		Border:    lipgloss.AdaptiveColor{Light: "#d5c4a1", Dark: "#504945"},
		Text:      lipgloss.AdaptiveColor{Light: "#3c3836", Dark: "#fbf1c7"},
		TextDim:   lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#a89984"},
	}
}

// DefaultTheme is the default theme for the TUI
var DefaultTheme = GruvboxTheme()

// Styles contains predefined styles for the TUI
type Styles struct {
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	TabPending    lipgloss.Style
	TabRunning    lipgloss.Style
	TabDone       lipgloss.Style
	TabError      lipgloss.Style
	ViewBar       lipgloss.Style
	ViewBarActive lipgloss.Style
	SectionTitle  lipgloss.Style
	SectionFocus  lipgloss.Style
	DiffAdd       lipgloss.Style
	DiffRemove    lipgloss.Style
	DiffHunk      lipgloss.Style
	Counter       lipgloss.Style
	CounterDone   lipgloss.Style
	StatusBar     lipgloss.Style
	Spinner       lipgloss.Style
	Error         lipgloss.Style
	ErrorBox      lipgloss.Style
	Subtle        lipgloss.Style
	Title         lipgloss.Style
	SearchBox     lipgloss.Style
	SearchHit     lipgloss.Style
	SearchCursor  lipgloss.Style
}

// DefaultStyles returns default styles for the TUI
func DefaultStyles() Styles {
	theme := DefaultTheme

	return Styles{
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Highlight).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Padding(0, 1),

		TabPending: lipgloss.NewStyle().Foreground(theme.Subtle),
		TabRunning: lipgloss.NewStyle().Foreground(theme.Warning),
		TabDone:    lipgloss.NewStyle().Foreground(theme.Success),
		TabError:   lipgloss.NewStyle().Foreground(theme.Error),

		ViewBar: lipgloss.NewStyle().
			Foreground(theme.TextDim),

		ViewBarActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			Underline(true),

		SectionTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Info),

		SectionFocus: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Highlight),

		DiffAdd:    lipgloss.NewStyle().Foreground(theme.Success),
		DiffRemove: lipgloss.NewStyle().Foreground(theme.Error),
		DiffHunk:   lipgloss.NewStyle().Foreground(theme.Info),

		Counter: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Warning),

		CounterDone: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Text).
			Background(theme.Highlight).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().Foreground(theme.Secondary),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		ErrorBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Error).
			Padding(1, 2),

		Subtle: lipgloss.NewStyle().Foreground(theme.TextDim),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text),

		SearchBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		SearchHit: lipgloss.NewStyle().Foreground(theme.Text),

		SearchCursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Highlight),
	}
}

// DefaultStyle is the default style set for the TUI
var DefaultStyle = DefaultStyles()
