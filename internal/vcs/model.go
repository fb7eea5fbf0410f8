// Package vcs wraps the version-control binaries pullwatch shells out to.
// Each Client turns "bring this clone up to date" into raw command output
// plus an exit status; interpreting that output is left to the caller.
package vcs

import (
	"fmt"
	"strings"
)

// Kind identifies the version-control system backing a repository
type Kind string

const (
	// KindGit is a git repository
	KindGit Kind = "git"
	// KindMercurial is a mercurial repository
	KindMercurial Kind = "mercurial"
)

// ParseKind resolves a configured type string to a Kind, accepting the
// usual short alias for mercurial
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "git":
		return KindGit, nil
	case "mercurial", "hg":
		return KindMercurial, nil
	default:
		return "", fmt.Errorf("unknown vcs type %q", s)
	}
}

// Descriptor is the configured identity of one tracked clone. Immutable
// once loaded from configuration.
type Descriptor struct {
	Name   string `json:"name"`
	Dest   string `json:"dest"`
	Source string `json:"source"`
	Kind   Kind   `json:"kind"`
}

// Range identifies the span of history a sync pulled in, in whatever
// notation the underlying VCS reports (short hashes for git, changeset
// ids for mercurial). New may be empty for an open-ended span.
type Range struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// IsZero reports whether no range was resolved
func (r Range) IsZero() bool {
	return r.Old == "" && r.New == ""
}

func (r Range) String() string {
	if r.IsZero() {
		return ""
	}
	if r.New == "" {
		return r.Old
	}
	return r.Old + ".." + r.New
}

// Result is the raw outcome of one VCS command invocation
type Result struct {
	ExitStatus int    `json:"exit_status"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

// Output returns the text the operator should see for this invocation:
// stdout when the command succeeded, stderr otherwise. Matches how git
// itself splits progress and diagnostics.
func (r Result) Output() string {
	if r.ExitStatus == 0 && r.Stdout != "" {
		return r.Stdout
	}
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Combined returns stdout followed by stderr, preserving both streams
// verbatim for the forensic record.
func (r Result) Combined() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}
