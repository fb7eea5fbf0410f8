package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/pullwatch/internal/runner"
)

// Init starts the spinner and begins draining the orchestrator stream
func (m Model) Init() tea.Cmd {
	if m.status == StatusCritical {
		return nil
	}
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// waitForEvent blocks on the orchestrator channel and delivers the next
// event as a message. Re-issued after every receive; this is the only
// suspension point the UI has besides user input.
func waitForEvent(events <-chan runner.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return orchestratorMsg{closed: true}
		}
		return orchestratorMsg{event: ev}
	}
}
