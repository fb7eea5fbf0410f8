package tui

// Status represents the top-level state of the UI session
type Status int

const (
	// StatusLoading is the state before the first orchestrator event
	StatusLoading Status = iota
	// StatusRunning is the state while sync jobs are in flight
	StatusRunning
	// StatusAllDone is the state after a run where every repository synced
	// cleanly
	StatusAllDone
	// StatusPartialFailure is the state after a run with at least one
	// failed or conflicted repository
	StatusPartialFailure
	// StatusCritical is the terminal error screen superseding the tab view
	StatusCritical
)

// TabStatus represents one repository tab's lifecycle
type TabStatus int

const (
	// TabPending means the repository's job has not started yet
	TabPending TabStatus = iota
	// TabRunning means the sync is in flight
	TabRunning
	// TabDone means the job finished cleanly (up to date or updated)
	TabDone
	// TabError means the job failed, conflicted, or was cancelled
	TabError
)

// ViewID identifies one of the four per-repository views
type ViewID string

const (
	// ViewUpdate shows the raw sync output
	ViewUpdate ViewID = "update"
	// ViewDiff shows the parsed file diff
	ViewDiff ViewID = "diff"
	// ViewCommits shows the pulled commits without patches
	ViewCommits ViewID = "commits"
	// ViewCommitsDiff shows the pulled commits with their patches
	ViewCommitsDiff ViewID = "commits_diff"
)

// viewOrder is the display cycle for the four views
var viewOrder = []ViewID{ViewUpdate, ViewDiff, ViewCommits, ViewCommitsDiff}

// Title returns the human name of a view
func (v ViewID) Title() string {
	switch v {
	case ViewUpdate:
		return "update"
	case ViewDiff:
		return "diff"
	case ViewCommits:
		return "commits"
	case ViewCommitsDiff:
		return "commits + patch"
	default:
		return string(v)
	}
}
