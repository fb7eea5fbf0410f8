package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/tildaslashalef/pullwatch/internal/commitlog"
	"github.com/tildaslashalef/pullwatch/internal/diff"
	"github.com/tildaslashalef/pullwatch/internal/loggy"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

// Job runs one repository's sync from invocation to classified outcome.
// It never lets an adapter failure escape as an error: everything maps to
// an Outcome value.
type Job struct {
	client vcs.Client
	logger *loggy.Logger
}

// NewJob creates a job bound to the client for the descriptor's VCS kind
func NewJob(client vcs.Client, logger *loggy.Logger) *Job {
	return &Job{client: client, logger: logger}
}

// Run syncs the repository and classifies the result. Only when new
// commits were pulled does it also fetch and parse the diff and the log
func (j *Job) Run(ctx context.Context, d vcs.Descriptor) *Outcome {
	res, err := j.client.Sync(ctx, d)
	if err != nil {
		return j.failedOutcome(d, res, err)
	}

	out := &Outcome{
		Descriptor: d,
		ExitStatus: res.ExitStatus,
		RawOutput:  res.Combined(),
	}

	combined := res.Combined()
	if detail, ok := j.client.ConflictDetail(combined); ok {
		j.logger.Warn("conflict detected", "repo", d.Name, "detail", detail)
		out.Class = ClassConflict
		out.Detail = detail
		return out
	}

	if res.ExitStatus != 0 {
		j.logger.Warn("sync failed", "repo", d.Name, "exit_status", res.ExitStatus)
		out.Class = ClassFailed
		return out
	}

	rng, ok := j.client.PulledRange(combined)
	if !ok {
		out.Class = ClassUpToDate
		return out
	}

	out.Class = ClassUpdated
	out.Range = rng
	j.logger.Info("repository updated", "repo", d.Name, "range", rng.String())

	// Change data is best-effort: a failure here degrades the diff/commit
	// views but leaves the Updated outcome intact
	if raw, err := j.client.FetchDiff(ctx, d, rng); err != nil {
		if cancelled(err) {
			out.Class = ClassCancelled
			return out
		}
		j.logger.Warn("fetching diff failed", "repo", d.Name, "error", err)
	} else {
		out.DiffRaw = raw
		out.Diff = diff.Parse(raw)
	}

	if raw, err := j.client.FetchLog(ctx, d, rng, true); err != nil {
		if cancelled(err) {
			out.Class = ClassCancelled
			return out
		}
		j.logger.Warn("fetching log failed", "repo", d.Name, "error", err)
	} else {
		out.LogRaw = raw
		out.Commits = commitlog.Parse(raw, true)
	}

	return out
}

func (j *Job) failedOutcome(d vcs.Descriptor, res vcs.Result, err error) *Outcome {
	out := &Outcome{
		Descriptor: d,
		ExitStatus: res.ExitStatus,
		RawOutput:  res.Combined(),
	}
	if cancelled(err) {
		j.logger.Info("sync cancelled", "repo", d.Name)
		out.Class = ClassCancelled
		return out
	}
	j.logger.Error("sync errored", "repo", d.Name, "error", err)
	out.Class = ClassFailed
	if out.RawOutput == "" {
		out.RawOutput = err.Error()
	} else {
		out.RawOutput = fmt.Sprintf("%s\n%s", out.RawOutput, err.Error())
	}
	return out
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
