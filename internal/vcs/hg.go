package vcs

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/tildaslashalef/pullwatch/internal/loggy"
)

// newChangesetsPrefix starts the line `hg pull` prints when it pulled
// anything, e.g. "new changesets 4be2d9f7" or "new changesets 4be2d9f7:a1c8e0b2"
const newChangesetsPrefix = "new changesets "

var hgConflictMarkers = []string{
	"unresolved merge conflicts",
	"use 'hg resolve' to retry unresolved file merges",
	"conflicts while merging",
	"abort: outstanding uncommitted merge",
}

// MercurialClient drives the hg binary
type MercurialClient struct {
	runner
	classify     ConflictClassifier
	cloneMissing bool
}

// NewMercurialClient creates a mercurial client
func NewMercurialClient(logger *loggy.Logger, grace time.Duration) *MercurialClient {
	return &MercurialClient{
		runner:       runner{logger: logger, grace: grace},
		classify:     classifyByMarkers(hgConflictMarkers),
		cloneMissing: true,
	}
}

// SetConflictClassifier replaces the conflict detection heuristic
func (c *MercurialClient) SetConflictClassifier(fn ConflictClassifier) {
	if fn != nil {
		c.classify = fn
	}
}

// SetCloneMissing controls whether a missing destination gets cloned or
// reported as a failure
func (c *MercurialClient) SetCloneMissing(clone bool) {
	c.cloneMissing = clone
}

// Kind reports KindMercurial
func (c *MercurialClient) Kind() Kind { return KindMercurial }

// Sync pulls and updates dest, cloning first when the destination is missing
func (c *MercurialClient) Sync(ctx context.Context, d Descriptor) (Result, error) {
	if _, err := os.Stat(d.Dest); os.IsNotExist(err) {
		if !c.cloneMissing {
			return cloneDisabledResult(d), nil
		}
		c.logger.Info("destination missing, cloning", "repo", d.Name, "source", d.Source)
		return c.run(ctx, "", "hg", "clone", d.Source, d.Dest)
	}
	return c.run(ctx, "", "hg", "--cwd", d.Dest, "pull", "--update")
}

// FetchDiff returns the diff across the pulled changeset span, in git
// format so the parser sees one diff syntax for both VCS kinds
func (c *MercurialClient) FetchDiff(ctx context.Context, d Descriptor, rng Range) (string, error) {
	args := append([]string{"--cwd", d.Dest, "diff", "--git"}, hgRevArgs(rng)...)
	res, err := c.run(ctx, "", "hg", args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// FetchLog returns the log across the pulled changeset span. Patches are
// requested in git format so one diff syntax covers both VCS kinds.
func (c *MercurialClient) FetchLog(ctx context.Context, d Descriptor, rng Range, withPatch bool) (string, error) {
	args := []string{"--cwd", d.Dest, "log"}
	if withPatch {
		args = append(args, "-p", "--git")
	}
	if rng.New == "" {
		args = append(args, "-r", rng.Old+":tip")
	} else {
		args = append(args, "-r", rng.Old+":"+rng.New)
	}
	res, err := c.run(ctx, "", "hg", args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// hgRevArgs converts a pulled range into hg revision selection arguments.
// A single changeset compares against its parent.
func hgRevArgs(rng Range) []string {
	if rng.New == "" {
		return []string{"--from", rng.Old + "^", "--to", "tip"}
	}
	return []string{"--from", rng.Old, "--to", rng.New}
}

// PulledRange scans pull output for the "new changesets" line
func (c *MercurialClient) PulledRange(output string) (Range, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, newChangesetsPrefix) {
			continue
		}
		span := strings.TrimPrefix(line, newChangesetsPrefix)
		// Trailing annotations like "(2 drafts)" follow the span
		if i := strings.IndexByte(span, ' '); i >= 0 {
			span = span[:i]
		}
		switch parts := strings.Split(span, ":"); len(parts) {
		case 1:
			return Range{Old: parts[0]}, true
		case 2:
			return Range{Old: parts[0], New: parts[1]}, true
		default:
			c.logger.Warn("unparsable new changesets line", "line", line)
			return Range{}, false
		}
	}
	return Range{}, false
}

// ConflictDetail applies the configured conflict classifier
func (c *MercurialClient) ConflictDetail(output string) (string, bool) {
	return c.classify(output)
}
