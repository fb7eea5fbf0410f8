package runner

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tildaslashalef/pullwatch/internal/loggy"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

// Phase marks the two progress edges of one job
type Phase string

const (
	// PhaseStarted is emitted just before a job's sync begins
	PhaseStarted Phase = "started"
	// PhaseFinished is emitted after a job produced its outcome
	PhaseFinished Phase = "finished"
)

// Event is one message on the orchestrator's stream. Exactly one of the
// fields beyond Progress metadata is set:
//   - Progress: a job crossed a phase edge
//   - Outcome: a job produced its terminal outcome
//   - Complete: every job finished; Summary is final
type Event struct {
	Progress *Progress
	Outcome  *Outcome
	Complete *Summary
}

// Progress reports a phase edge for one repository
type Progress struct {
	Name  string
	Phase Phase
}

// Orchestrator fans out one sync job per configured repository. Repos are
// independent failure domains: no job blocks, aborts, or reorders another.
type Orchestrator struct {
	clients map[vcs.Kind]vcs.Client
	timeout time.Duration
	logger  *loggy.Logger
}

// New creates an orchestrator. timeout bounds each individual job; zero
// means no per-job bound.
func New(clients map[vcs.Kind]vcs.Client, timeout time.Duration, logger *loggy.Logger) *Orchestrator {
	return &Orchestrator{
		clients: clients,
		timeout: timeout,
		logger:  logger,
	}
}

// Start launches one goroutine per descriptor and returns the event
// stream. The channel carries progress events and outcomes in arrival
// order, then a final Complete event, then closes. Cancelling ctx cancels
// all in-flight jobs; their outcomes arrive as ClassCancelled.
func (o *Orchestrator) Start(ctx context.Context, descriptors []vcs.Descriptor) <-chan Event {
	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	logger := o.logger.With("run_id", runID)
	logger.Info("run starting", "repos", len(descriptors))

	events := make(chan Event, len(descriptors)*3+1)
	outcomes := make(chan *Outcome, len(descriptors))

	var wg sync.WaitGroup
	for _, d := range descriptors {
		client, ok := o.clients[d.Kind]
		if !ok {
			// Config validation rejects unknown kinds before a run starts,
			// so this is a programming error surfaced as a failed repo
			outcomes <- &Outcome{
				Descriptor: d,
				Class:      ClassFailed,
				RawOutput:  "no client registered for vcs kind " + string(d.Kind),
			}
			continue
		}

		wg.Add(1)
		go func(d vcs.Descriptor, client vcs.Client) {
			defer wg.Done()

			jobCtx := ctx
			var cancel context.CancelFunc
			if o.timeout > 0 {
				jobCtx, cancel = context.WithTimeout(ctx, o.timeout)
				defer cancel()
			}

			events <- Event{Progress: &Progress{Name: d.Name, Phase: PhaseStarted}}
			out := NewJob(client, logger.With("repo", d.Name)).Run(jobCtx, d)
			outcomes <- out
		}(d, client)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	go func() {
		defer close(events)

		summary := Summary{Total: len(descriptors)}
		for out := range outcomes {
			summary.Completed++
			if out.Failedish() {
				summary.Failed++
			}
			if out.Class == ClassCancelled {
				summary.Cancelled++
			}
			events <- Event{Outcome: out}
			events <- Event{Progress: &Progress{Name: out.Descriptor.Name, Phase: PhaseFinished}}
		}

		logger.Info("run complete",
			"total", summary.Total,
			"completed", summary.Completed,
			"failed", summary.Failed,
			"cancelled", summary.Cancelled,
		)
		events <- Event{Complete: &summary}
	}()

	return events
}
