package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/tildaslashalef/pullwatch/internal/config"
	"github.com/tildaslashalef/pullwatch/internal/runner"
)

// Model is the single source of truth for the UI. The update loop is the
// only writer: job goroutines hand immutable outcomes over the event
// channel and never touch this state.
type Model struct {
	cfg    *config.Config
	events <-chan runner.Event
	cancel context.CancelFunc

	registry *Registry
	summary  runner.Summary
	status   Status

	activeTab int

	// Components from bubbletea/bubbles
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	showHelp bool
	styles   Styles

	width  int
	height int
	ready  bool

	// Search overlay state; the index is rebuilt on overlay entry
	searchOpen  bool
	searchInput textinput.Model
	searchIndex *Index
	searchHits  []Candidate
	searchSel   int

	criticalErr error
	aborted     bool
}

// NewModel creates the TUI model for a run. events is the orchestrator's
// stream; cancel aborts all in-flight jobs on quit.
func NewModel(cfg *config.Config, events <-chan runner.Event, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	h := help.New()
	h.ShowAll = false

	styles := DefaultStyles()
	s.Style = styles.Spinner

	ti := textinput.New()
	ti.Placeholder = "search visible content"
	ti.Prompt = "/ "

	vp := viewport.New(10, 10)

	return Model{
		cfg:         cfg,
		events:      events,
		cancel:      cancel,
		registry:    NewRegistry(cfg.Repos, cfg.UI.CollapseThreshold),
		summary:     runner.Summary{Total: len(cfg.Repos)},
		status:      StatusLoading,
		spinner:     s,
		help:        h,
		styles:      styles,
		searchInput: ti,
		viewport:    vp,
	}
}

// NewCriticalModel creates a model that only renders the terminal error
// screen, used when configuration could not produce a run at all
func NewCriticalModel(err error) Model {
	m := Model{
		styles:      DefaultStyles(),
		status:      StatusCritical,
		criticalErr: err,
		help:        help.New(),
	}
	return m
}

// CriticalErr exposes the fatal error after the program exits, so the
// process can choose its exit code
func (m Model) CriticalErr() error { return m.criticalErr }

// Aborted reports whether the user quit before the run completed
func (m Model) Aborted() bool { return m.aborted }

// Summary exposes the final run counters
func (m Model) Summary() runner.Summary { return m.summary }

// currentTab returns the active TabState, or nil when none is visible
func (m *Model) currentTab() *TabState {
	if m.registry == nil {
		return nil
	}
	return m.registry.At(m.activeTab)
}

// visibleTabPos returns the position of the active tab within the
// visible tab list, and that list
func (m *Model) visibleTabPos() (int, []int) {
	visible := m.registry.Visible()
	for i, idx := range visible {
		if idx == m.activeTab {
			return i, visible
		}
	}
	return -1, visible
}

// moveTab advances the active tab by delta within the visible list
func (m *Model) moveTab(delta int) {
	pos, visible := m.visibleTabPos()
	if len(visible) == 0 {
		return
	}
	if pos < 0 {
		pos = 0
	}
	pos = ((pos+delta)%len(visible) + len(visible)) % len(visible)
	m.activeTab = visible[pos]
	m.syncViewport()
}

// switchView activates a view on the current tab, materializing it on
// first visit
func (m *Model) switchView(id ViewID) {
	t := m.currentTab()
	if t == nil {
		return
	}
	t.active = id
	m.registry.View(t, id)
	m.syncViewport()
	m.viewport.GotoTop()
}

// syncViewport re-renders the current tab's active view into the viewport
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	t := m.currentTab()
	if t == nil {
		m.viewport.SetContent("")
		return
	}
	// The active tab can be hidden with nothing to fall back to, e.g.
	// hide-unchanged with every repository up to date. Show nothing
	// rather than the hidden tab's content.
	if pos, visible := m.visibleTabPos(); pos < 0 && len(visible) == 0 {
		m.viewport.SetContent("")
		return
	}
	v := m.registry.View(t, t.active)
	m.viewport.SetContent(m.renderSections(v))
}

// offsetOf computes the rendered line offset of a candidate within its
// view, honoring the current collapse state
func offsetOf(v *ViewState, sectionIdx, lineIdx int) int {
	offset := 0
	for i := 0; i < sectionIdx && i < len(v.Sections); i++ {
		offset++
		if !v.Sections[i].Collapsed {
			offset += len(v.Sections[i].Lines)
		}
	}
	if lineIdx >= 0 {
		offset += 1 + lineIdx
	}
	return offset
}

// navigateTo jumps to a search hit: activate its tab and view, expand the
// containing section, and scroll the target line into view
func (m *Model) navigateTo(c Candidate) {
	m.activeTab = c.TabIndex
	t := m.currentTab()
	if t == nil {
		return
	}
	t.active = c.View
	v := m.registry.View(t, c.View)
	if c.SectionIdx < len(v.Sections) {
		v.Sections[c.SectionIdx].Collapsed = false
		v.Current = c.SectionIdx
	}
	m.syncViewport()
	m.viewport.SetYOffset(offsetOf(v, c.SectionIdx, c.LineIndex))
}
