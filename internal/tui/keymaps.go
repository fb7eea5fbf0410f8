package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI
type KeyMap struct {
	Quit          key.Binding
	Help          key.Binding
	NextTab       key.Binding
	PrevTab       key.Binding
	ViewUpdate    key.Binding
	ViewDiff      key.Binding
	ViewCommits   key.Binding
	ViewPatch     key.Binding
	NextSection   key.Binding
	PrevSection   key.Binding
	ToggleSection key.Binding
	ToggleAll     key.Binding
	HideUnchanged key.Binding
	Search        key.Binding
	Dismiss       key.Binding
	Select        key.Binding
}

// DefaultKeyMap returns the default key map
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("l", "tab"),
			key.WithHelp("l", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("h", "shift+tab"),
			key.WithHelp("h", "previous tab"),
		),
		ViewUpdate: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update view"),
		),
		ViewDiff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "diff view"),
		),
		ViewCommits: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "commits view"),
		),
		ViewPatch: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "commits + patch"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous section"),
		),
		ToggleSection: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle section"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle all sections"),
		),
		HideUnchanged: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle unchanged"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
	}
}

// Keys is the global keymap instance used by the model
var Keys = DefaultKeyMap()

// ShortHelp returns the short help text for the help bubble
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Search, k.Help, k.Quit}
}

// FullHelp returns the full help text for the help bubble
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewUpdate, k.ViewDiff, k.ViewCommits, k.ViewPatch},
		{k.NextTab, k.PrevTab, k.NextSection, k.PrevSection},
		{k.ToggleSection, k.ToggleAll, k.HideUnchanged, k.Search},
		{k.Help, k.Quit},
	}
}
