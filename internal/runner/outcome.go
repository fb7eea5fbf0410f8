// Package runner owns the lifecycle of a sync run: one concurrent job per
// configured repository, each producing exactly one immutable outcome that
// flows to the UI as a message. Jobs never touch UI state.
package runner

import (
	"github.com/tildaslashalef/pullwatch/internal/commitlog"
	"github.com/tildaslashalef/pullwatch/internal/diff"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

// Class is the terminal classification of one sync job
type Class string

const (
	// ClassUpToDate means the sync succeeded and pulled nothing
	ClassUpToDate Class = "up-to-date"
	// ClassUpdated means the sync pulled new commits
	ClassUpdated Class = "updated"
	// ClassConflict means the sync hit a merge conflict the operator must
	// resolve by hand
	ClassConflict Class = "conflict"
	// ClassFailed means the sync failed for any other reason
	ClassFailed Class = "failed"
	// ClassCancelled means the job was cancelled before finishing
	ClassCancelled Class = "cancelled"
)

// Outcome is the single terminal result of one repository's sync job.
// Created once by the job runner, immutable thereafter.
type Outcome struct {
	Descriptor vcs.Descriptor
	Class      Class
	Range      vcs.Range // pulled range, set only for ClassUpdated
	ExitStatus int
	// RawOutput preserves the adapter's stdout/stderr verbatim; for a
	// failed repository it is the only forensic record the operator gets
	RawOutput string
	// Detail carries the conflict signature line for ClassConflict
	Detail string

	// Populated only for ClassUpdated with a resolvable range
	DiffRaw string
	LogRaw  string
	Diff    []diff.FileChange
	Commits []commitlog.Commit
}

// Failedish reports whether this outcome counts toward the run's failure
// tally (Failed and Conflict both need operator attention)
func (o *Outcome) Failedish() bool {
	return o.Class == ClassFailed || o.Class == ClassConflict
}

// Summary holds the process-wide run counters. Reset at run start,
// incremented as outcomes arrive, read-only after RunComplete.
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Cancelled int
}

// Done reports whether every job has produced a terminal outcome
func (s Summary) Done() bool {
	return s.Completed >= s.Total
}
