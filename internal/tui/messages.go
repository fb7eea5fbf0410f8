package tui

import "github.com/tildaslashalef/pullwatch/internal/runner"

// orchestratorMsg delivers one event from the sync run's stream into the
// single-threaded update loop. closed marks channel exhaustion.
type orchestratorMsg struct {
	event  runner.Event
	closed bool
}
