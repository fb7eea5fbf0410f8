package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/pullwatch/internal/loggy"
	"github.com/tildaslashalef/pullwatch/internal/runner"
)

// Update handles messages and updates the model state. Messages arrive
// one at a time, so every mutation here is race-free by construction.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chromeHeight
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.ready = true
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		if m.status == StatusCritical {
			// The error screen accepts only quit
			if key.Matches(msg, Keys.Quit) || key.Matches(msg, Keys.Dismiss) {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.searchOpen {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case orchestratorMsg:
		if msg.closed {
			return m, nil
		}
		m = m.applyEvent(msg.event)
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		if m.status == StatusLoading || m.status == StatusRunning {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applyEvent folds one orchestrator event into tab and counter state
func (m Model) applyEvent(ev runner.Event) Model {
	switch {
	case ev.Progress != nil:
		if ev.Progress.Phase == runner.PhaseStarted {
			m.registry.Started(ev.Progress.Name)
			if m.status == StatusLoading {
				m.status = StatusRunning
			}
		}

	case ev.Outcome != nil:
		m.registry.Finish(ev.Outcome)
		m.summary.Completed++
		if ev.Outcome.Failedish() {
			m.summary.Failed++
		}
		if ev.Outcome.Class == runner.ClassCancelled {
			m.summary.Cancelled++
		}
		if ev.Outcome.Descriptor.Name == m.currentTabName() {
			m.syncViewport()
		}

	case ev.Complete != nil:
		// The orchestrator's summary is authoritative
		m.summary = *ev.Complete
		if m.summary.Failed > 0 {
			m.status = StatusPartialFailure
		} else {
			m.status = StatusAllDone
		}
		loggy.Info("run finished",
			"completed", m.summary.Completed,
			"failed", m.summary.Failed,
		)
	}
	return m
}

func (m *Model) currentTabName() string {
	if t := m.currentTab(); t != nil {
		return t.Name
	}
	return ""
}

// updateKeys handles the normal (non-overlay) key surface
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, Keys.Quit):
		if m.status == StatusLoading || m.status == StatusRunning {
			m.aborted = true
		}
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		m.moveTab(1)
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		m.moveTab(-1)
		return m, nil

	case key.Matches(msg, Keys.ViewUpdate):
		m.switchView(ViewUpdate)
		return m, nil

	case key.Matches(msg, Keys.ViewDiff):
		m.switchView(ViewDiff)
		return m, nil

	case key.Matches(msg, Keys.ViewCommits):
		m.switchView(ViewCommits)
		return m, nil

	case key.Matches(msg, Keys.ViewPatch):
		m.switchView(ViewCommitsDiff)
		return m, nil

	case key.Matches(msg, Keys.NextSection):
		m.moveSection(1)
		return m, nil

	case key.Matches(msg, Keys.PrevSection):
		m.moveSection(-1)
		return m, nil

	case key.Matches(msg, Keys.ToggleSection):
		m.toggleCurrentSection()
		return m, nil

	case key.Matches(msg, Keys.ToggleAll):
		m.toggleAllSections()
		return m, nil

	case key.Matches(msg, Keys.HideUnchanged):
		m.registry.SetHideUnchanged(!m.registry.HideUnchanged())
		// The active tab may have just been hidden
		if pos, visible := m.visibleTabPos(); pos < 0 && len(visible) > 0 {
			m.activeTab = visible[0]
		}
		m.syncViewport()
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.openSearch()
		return m, nil
	}

	// Everything else (j/k, pgup/pgdown, mouse) scrolls the viewport
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// openSearch enters the search overlay, rebuilding the index from the
// currently materialized content
func (m *Model) openSearch() {
	m.searchOpen = true
	m.searchIndex = BuildIndex(m.registry)
	m.searchHits = nil
	m.searchSel = 0
	m.searchInput.SetValue("")
	m.searchInput.Focus()
}

// updateSearch handles keys while the search overlay is open
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Dismiss):
		m.searchOpen = false
		m.searchInput.Blur()
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.searchSel < len(m.searchHits)-1 {
			m.searchSel++
		}
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.searchSel > 0 {
			m.searchSel--
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		if m.searchSel < len(m.searchHits) {
			hit := m.searchHits[m.searchSel]
			m.searchOpen = false
			m.searchInput.Blur()
			m.navigateTo(hit)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchHits = m.searchIndex.Query(m.searchInput.Value())
	if m.searchSel >= len(m.searchHits) {
		m.searchSel = 0
	}
	return m, cmd
}

// moveSection moves the focused section within the active view
func (m *Model) moveSection(delta int) {
	t := m.currentTab()
	if t == nil {
		return
	}
	v := m.registry.View(t, t.active)
	if len(v.Sections) == 0 {
		return
	}
	v.Current = ((v.Current+delta)%len(v.Sections) + len(v.Sections)) % len(v.Sections)
	m.syncViewport()
	m.viewport.SetYOffset(offsetOf(v, v.Current, -1))
}

// toggleCurrentSection collapses or expands the focused section
func (m *Model) toggleCurrentSection() {
	t := m.currentTab()
	if t == nil {
		return
	}
	v := m.registry.View(t, t.active)
	if v.Current < len(v.Sections) {
		v.Sections[v.Current].Collapsed = !v.Sections[v.Current].Collapsed
		m.syncViewport()
	}
}

// toggleAllSections flips every section in the active view, matching the
// majority state so one keypress always has a visible effect
func (m *Model) toggleAllSections() {
	t := m.currentTab()
	if t == nil {
		return
	}
	v := m.registry.View(t, t.active)
	expanded := 0
	for _, s := range v.Sections {
		if !s.Collapsed {
			expanded++
		}
	}
	collapse := expanded*2 >= len(v.Sections)
	for _, s := range v.Sections {
		s.Collapsed = collapse
	}
	m.syncViewport()
}
