package vcs

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"

	"github.com/tildaslashalef/pullwatch/internal/loggy"
)

// updatingRe matches the range line `git pull` prints on a fast-forward or
// merge, e.g. "Updating 1a2b3c4..5d6e7f8"
var updatingRe = regexp.MustCompile(`^Updating ([0-9a-fA-F]+)\.\.([0-9a-fA-F]+)$`)

// Default signatures git prints when a pull cannot complete cleanly
var gitConflictMarkers = []string{
	"CONFLICT (",
	"Automatic merge failed",
	"error: Your local changes to the following files would be overwritten",
	"fix conflicts and then commit the result",
}

// GitClient drives the git binary for one or more repositories
type GitClient struct {
	runner
	classify     ConflictClassifier
	cloneMissing bool
}

// NewGitClient creates a git client. grace bounds how long a cancelled
// subprocess may linger before being killed.
func NewGitClient(logger *loggy.Logger, grace time.Duration) *GitClient {
	return &GitClient{
		runner:       runner{logger: logger, grace: grace},
		classify:     classifyByMarkers(gitConflictMarkers),
		cloneMissing: true,
	}
}

// SetConflictClassifier replaces the conflict detection heuristic
func (c *GitClient) SetConflictClassifier(fn ConflictClassifier) {
	if fn != nil {
		c.classify = fn
	}
}

// SetCloneMissing controls whether a missing destination gets cloned or
// reported as a failure
func (c *GitClient) SetCloneMissing(clone bool) {
	c.cloneMissing = clone
}

// Kind reports KindGit
func (c *GitClient) Kind() Kind { return KindGit }

// HasRepo reports whether dest holds a valid git repository
func (c *GitClient) HasRepo(dest string) bool {
	_, err := gogit.PlainOpen(dest)
	if err != nil {
		c.logger.Debug("not a git repository", "path", dest, "error", err)
		return false
	}
	return true
}

// Sync pulls dest from its upstream, cloning first when the destination
// does not exist yet. Git clone writes its progress to stderr even on
// success, so Result.Output handles the stream selection.
func (c *GitClient) Sync(ctx context.Context, d Descriptor) (Result, error) {
	if _, err := os.Stat(d.Dest); os.IsNotExist(err) {
		if !c.cloneMissing {
			return cloneDisabledResult(d), nil
		}
		c.logger.Info("destination missing, cloning", "repo", d.Name, "source", d.Source)
		return c.run(ctx, "", "git", "clone", d.Source, d.Dest)
	}
	if !c.HasRepo(d.Dest) {
		if !c.cloneMissing {
			return cloneDisabledResult(d), nil
		}
		c.logger.Info("destination exists but holds no repository, cloning", "repo", d.Name)
		return c.run(ctx, "", "git", "clone", d.Source, d.Dest)
	}
	return c.run(ctx, "", "git", "-C", d.Dest, "pull")
}

// FetchDiff returns the unified diff across the pulled range
func (c *GitClient) FetchDiff(ctx context.Context, d Descriptor, rng Range) (string, error) {
	res, err := c.run(ctx, "", "git", "-C", d.Dest, "diff", rng.String())
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// FetchLog returns the log across the pulled range, oldest entries last
// the way git prints them; parsing reverses the order
func (c *GitClient) FetchLog(ctx context.Context, d Descriptor, rng Range, withPatch bool) (string, error) {
	args := []string{"-C", d.Dest, "log"}
	if withPatch {
		args = append(args, "-p")
	}
	args = append(args, rng.String())
	res, err := c.run(ctx, "", "git", args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// PulledRange scans pull output for the "Updating old..new" line
func (c *GitClient) PulledRange(output string) (Range, bool) {
	for _, line := range strings.Split(output, "\n") {
		if m := updatingRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return Range{Old: m[1], New: m[2]}, true
		}
	}
	return Range{}, false
}

// ConflictDetail applies the configured conflict classifier
func (c *GitClient) ConflictDetail(output string) (string, bool) {
	return c.classify(output)
}

// classifyByMarkers builds a classifier matching any of the given
// substrings, reporting the first offending line as the detail
func classifyByMarkers(markers []string) ConflictClassifier {
	return func(output string) (string, bool) {
		for _, line := range strings.Split(output, "\n") {
			for _, marker := range markers {
				if strings.Contains(line, marker) {
					return strings.TrimSpace(line), true
				}
			}
		}
		return "", false
	}
}
