package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/tildaslashalef/pullwatch/internal/loggy"
)

// Client is the boundary between pullwatch and one VCS binary. All methods
// are potentially slow and must honor ctx; a non-zero exit status is
// reported through Result, not as an error. Errors are reserved for
// failures to run the command at all.
type Client interface {
	// Kind reports which VCS this client drives
	Kind() Kind

	// Sync brings the clone at d.Dest up to date, cloning it first when it
	// does not exist yet
	Sync(ctx context.Context, d Descriptor) (Result, error)

	// FetchDiff returns the raw unified diff for the pulled range
	FetchDiff(ctx context.Context, d Descriptor, rng Range) (string, error)

	// FetchLog returns the raw log for the pulled range, optionally with
	// per-commit patches
	FetchLog(ctx context.Context, d Descriptor, rng Range, withPatch bool) (string, error)

	// PulledRange extracts the commit range a successful sync pulled in
	// from its raw output. ok is false when the output carries no range
	// (nothing new, or a message variant we do not recognize).
	PulledRange(output string) (rng Range, ok bool)

	// ConflictDetail reports whether the sync output carries a conflict
	// signature, and if so which line triggered it
	ConflictDetail(output string) (detail string, ok bool)
}

// ConflictClassifier decides whether raw sync output signals a merge
// conflict. The exact signature differs between VCS versions, so clients
// accept a replacement.
type ConflictClassifier func(output string) (detail string, ok bool)

// cloneDisabledResult is the failure a client reports when the clone
// destination is missing and cloning was turned off
func cloneDisabledResult(d Descriptor) Result {
	return Result{
		ExitStatus: 1,
		Stderr:     fmt.Sprintf("%s does not hold a repository and cloning is disabled", d.Dest),
	}
}

// runner executes one external command with bounded-grace cancellation
type runner struct {
	logger *loggy.Logger
	grace  time.Duration
}

// run executes name with args in dir. On ctx cancellation the process gets
// SIGTERM (via cmd.Cancel) and, after the grace period, SIGKILL (via
// cmd.WaitDelay), so a stuck remote can never hang shutdown.
func (r *runner) run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if r.grace > 0 {
		cmd.WaitDelay = r.grace
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running vcs command", "cmd", name, "args", args, "dir", dir)
	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Cancellation is its own terminal state, never folded into a
			// generic failure
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitStatus = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", name, err)
	}

	return res, nil
}
