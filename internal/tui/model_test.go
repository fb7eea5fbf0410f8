package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/pullwatch/internal/config"
	"github.com/tildaslashalef/pullwatch/internal/runner"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

func testModel(t *testing.T, names ...string) Model {
	t.Helper()
	cfg := &config.Config{
		Repos: testDescriptors(names...),
		UI:    config.UIConfig{CollapseThreshold: 10},
	}
	events := make(chan runner.Event, 16)
	_, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewModel(cfg, events, cancel)

	// Simulate the terminal attaching
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model)
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func outcomeEvent(out *runner.Outcome) tea.Msg {
	return orchestratorMsg{event: runner.Event{Outcome: out}}
}

func startedEvent(name string) tea.Msg {
	return orchestratorMsg{event: runner.Event{
		Progress: &runner.Progress{Name: name, Phase: runner.PhaseStarted},
	}}
}

func TestModelStatusTransitions(t *testing.T) {
	m := testModel(t, "alpha", "bravo")
	assert.Equal(t, StatusLoading, m.status)

	m = apply(t, m, startedEvent("alpha"))
	assert.Equal(t, StatusRunning, m.status)

	m = apply(t, m, outcomeEvent(updatedOutcome("alpha", 1)))
	assert.Equal(t, 1, m.summary.Completed)

	m = apply(t, m, outcomeEvent(&runner.Outcome{
		Descriptor: vcs.Descriptor{Name: "bravo"},
		Class:      runner.ClassUpToDate,
	}))
	m = apply(t, m, orchestratorMsg{event: runner.Event{
		Complete: &runner.Summary{Total: 2, Completed: 2},
	}})

	assert.Equal(t, StatusAllDone, m.status)
	assert.True(t, m.Summary().Done())
}

func TestModelPartialFailure(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, outcomeEvent(&runner.Outcome{
		Descriptor: vcs.Descriptor{Name: "alpha"},
		Class:      runner.ClassFailed,
		RawOutput:  "fatal: nope",
	}))
	m = apply(t, m, orchestratorMsg{event: runner.Event{
		Complete: &runner.Summary{Total: 1, Completed: 1, Failed: 1},
	}})

	assert.Equal(t, StatusPartialFailure, m.status)
	assert.Contains(t, m.View(), "1 failed")
}

func TestModelDoneCounterInView(t *testing.T) {
	m := testModel(t, "alpha", "bravo", "charlie")
	assert.Contains(t, m.View(), "0/3")

	m = apply(t, m, outcomeEvent(updatedOutcome("alpha", 1)))
	assert.Contains(t, m.View(), "1/3")

	m = apply(t, m, outcomeEvent(updatedOutcome("bravo", 1)))
	assert.Contains(t, m.View(), "2/3")
}

func TestModelTabNavigationWraps(t *testing.T) {
	m := testModel(t, "alpha", "bravo", "charlie")
	assert.Equal(t, "alpha", m.currentTab().Name)

	m = apply(t, m, keyMsg("l"))
	assert.Equal(t, "bravo", m.currentTab().Name)

	m = apply(t, m, keyMsg("l"))
	m = apply(t, m, keyMsg("l"))
	assert.Equal(t, "alpha", m.currentTab().Name, "next wraps past the last tab")

	m = apply(t, m, keyMsg("h"))
	assert.Equal(t, "charlie", m.currentTab().Name, "previous wraps past the first")
}

func TestModelViewSwitching(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, outcomeEvent(updatedOutcome("alpha", 1)))

	assert.Equal(t, ViewUpdate, m.currentTab().ActiveView())

	m = apply(t, m, keyMsg("d"))
	assert.Equal(t, ViewDiff, m.currentTab().ActiveView())

	m = apply(t, m, keyMsg("c"))
	assert.Equal(t, ViewCommits, m.currentTab().ActiveView())

	m = apply(t, m, keyMsg("p"))
	assert.Equal(t, ViewCommitsDiff, m.currentTab().ActiveView())

	m = apply(t, m, keyMsg("u"))
	assert.Equal(t, ViewUpdate, m.currentTab().ActiveView())
}

func TestModelHideUnchangedMovesOffHiddenTab(t *testing.T) {
	m := testModel(t, "alpha", "bravo")
	m = apply(t, m, outcomeEvent(&runner.Outcome{
		Descriptor: vcs.Descriptor{Name: "alpha"},
		Class:      runner.ClassUpToDate,
	}))
	m = apply(t, m, outcomeEvent(updatedOutcome("bravo", 1)))

	// alpha is active and about to be hidden
	assert.Equal(t, "alpha", m.currentTab().Name)
	m = apply(t, m, keyMsg("w"))
	assert.Equal(t, "bravo", m.currentTab().Name)

	m = apply(t, m, keyMsg("w"))
	assert.False(t, m.registry.HideUnchanged())
}

func TestModelHideUnchangedWithNothingLeftBlanksViewport(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, outcomeEvent(&runner.Outcome{
		Descriptor: vcs.Descriptor{Name: "alpha"},
		Class:      runner.ClassUpToDate,
		RawOutput:  "Already up to date.",
	}))
	view := m.View()
	assert.Contains(t, view, "Already up to date.")

	// Every tab is unchanged, so hiding them leaves none to show; the
	// hidden tab's content must not linger in the viewport
	m = apply(t, m, keyMsg("w"))
	view = m.View()
	assert.Contains(t, view, "no repositories to show")
	assert.NotContains(t, view, "Already up to date.")

	// Unhiding brings the content back
	m = apply(t, m, keyMsg("w"))
	assert.Contains(t, m.View(), "Already up to date.")
}

func TestModelQuitMidRunSetsAborted(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, startedEvent("alpha"))

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	assert.True(t, m.Aborted())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelQuitAfterCompleteIsClean(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, outcomeEvent(updatedOutcome("alpha", 1)))
	m = apply(t, m, orchestratorMsg{event: runner.Event{
		Complete: &runner.Summary{Total: 1, Completed: 1},
	}})

	m = apply(t, m, keyMsg("q"))
	assert.False(t, m.Aborted())
}

func TestModelSearchOverlayFlow(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, outcomeEvent(updatedOutcome("alpha", 1)))
	m = apply(t, m, keyMsg("d"))

	m = apply(t, m, keyMsg("/"))
	assert.True(t, m.searchOpen)

	m = apply(t, m, keyMsg("file"))
	require.NotEmpty(t, m.searchHits)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searchOpen, "selecting a hit closes the overlay")
	assert.Equal(t, ViewDiff, m.currentTab().ActiveView())
}

func TestModelSearchDismiss(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, keyMsg("/"))
	assert.True(t, m.searchOpen)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searchOpen)
}

func TestModelSearchSwallowsNavigationKeys(t *testing.T) {
	m := testModel(t, "alpha", "bravo")
	m = apply(t, m, keyMsg("/"))

	m = apply(t, m, keyMsg("l"))
	assert.Equal(t, "alpha", m.currentTab().Name, "typing in the overlay never switches tabs")
	assert.Equal(t, "l", m.searchInput.Value())
}

func TestModelToggleSection(t *testing.T) {
	m := testModel(t, "alpha")
	out := updatedOutcome("alpha", 3)
	m = apply(t, m, outcomeEvent(out))
	m = apply(t, m, keyMsg("d"))

	tab := m.currentTab()
	v := m.registry.View(tab, ViewDiff)
	require.Len(t, v.Sections, 3)
	assert.False(t, v.Sections[0].Collapsed)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, v.Sections[0].Collapsed)

	// o collapses the rest in one stroke, then expands everything
	m = apply(t, m, keyMsg("o"))
	for _, s := range v.Sections {
		assert.True(t, s.Collapsed)
	}
	m = apply(t, m, keyMsg("o"))
	for _, s := range v.Sections {
		assert.False(t, s.Collapsed)
	}
}

func TestModelSectionNavigation(t *testing.T) {
	m := testModel(t, "alpha")
	m = apply(t, m, outcomeEvent(updatedOutcome("alpha", 3)))
	m = apply(t, m, keyMsg("d"))

	v := m.registry.View(m.currentTab(), ViewDiff)
	assert.Equal(t, 0, v.Current)

	m = apply(t, m, keyMsg("n"))
	assert.Equal(t, 1, v.Current)

	m = apply(t, m, keyMsg("N"))
	m = apply(t, m, keyMsg("N"))
	assert.Equal(t, 2, v.Current, "previous wraps to the last section")
}

func TestCriticalModelRendersErrorOnly(t *testing.T) {
	m := NewCriticalModel(assertErr("no repositories configured"))
	m = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.Contains(t, view, "no repositories configured")
	assert.NotContains(t, view, "0/0")

	// Any non-quit key is inert
	m = apply(t, m, keyMsg("l"))
	next, cmd := m.Update(keyMsg("q"))
	_ = next
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func TestOffsetOfHonorsCollapseState(t *testing.T) {
	v := &ViewState{Sections: []*Section{
		{Title: "a", Lines: []string{"1", "2", "3"}},
		{Title: "b", Collapsed: true, Lines: []string{"4", "5"}},
		{Title: "c", Lines: []string{"6"}},
	}}

	assert.Equal(t, 0, offsetOf(v, 0, -1))
	assert.Equal(t, 2, offsetOf(v, 0, 1))
	assert.Equal(t, 4, offsetOf(v, 1, -1))
	assert.Equal(t, 5, offsetOf(v, 2, -1), "collapsed section contributes its title row only")
	assert.Equal(t, 6, offsetOf(v, 2, 0))
}

func TestRenderSectionsStylesDiffLines(t *testing.T) {
	m := testModel(t, "alpha")
	v := &ViewState{Sections: []*Section{
		{Title: "~ f.go", Lines: []string{"@@ -1,1 +1,1 @@", "-old", "+new", " ctx"}},
	}}

	out := m.renderSections(v)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "~ f.go")
	assert.Contains(t, lines[1], "@@")
	assert.Contains(t, lines[2], "-old")
	assert.Contains(t, lines[3], "+new")
	assert.Equal(t, " ctx", lines[4], "context lines pass through unstyled")
}

func TestTruncateLineKeepsStyledCellsAndWidth(t *testing.T) {
	styled := "\x1b[31malphabravo\x1b[0m"
	require.Equal(t, 10, lipgloss.Width(styled))

	out := truncateLine(styled, 8)
	assert.Equal(t, 8, lipgloss.Width(out), "clipping preserves the requested cell width")
	assert.Contains(t, out, "alphabra", "visible cells survive up to the boundary")
	assert.Equal(t, strings.Count(styled, "\x1b[31m"), strings.Count(out, "\x1b[31m"),
		"opening escape sequence is never split")
}

func TestTruncateLinePassThrough(t *testing.T) {
	assert.Equal(t, "short", truncateLine("short", 10))
	assert.Equal(t, "unbounded", truncateLine("unbounded", 0))
	assert.Equal(t, "ab", truncateLine("abcdef", 2))
}

func TestRenderSectionsSkipsCollapsedBodies(t *testing.T) {
	m := testModel(t, "alpha")
	v := &ViewState{Sections: []*Section{
		{Title: "hidden", Collapsed: true, Lines: []string{"secret-line"}},
	}}

	out := m.renderSections(v)
	assert.Contains(t, out, "hidden")
	assert.NotContains(t, out, "secret-line")
}
