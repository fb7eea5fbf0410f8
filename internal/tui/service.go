package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/pullwatch/internal/config"
	"github.com/tildaslashalef/pullwatch/internal/loggy"
	"github.com/tildaslashalef/pullwatch/internal/runner"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

// ErrAborted is returned when the user quits while jobs are still running
var ErrAborted = errors.New("run aborted before all repositories finished")

// Run wires a full sync run to the terminal: builds the per-kind clients,
// starts the orchestrator, and blocks until the UI exits. The returned
// summary reflects whatever completed before exit.
func Run(cfg *config.Config, logger *loggy.Logger) (runner.Summary, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	git := vcs.NewGitClient(logger, cfg.Sync.GracePeriod)
	git.SetCloneMissing(cfg.Sync.CloneMissing)
	hg := vcs.NewMercurialClient(logger, cfg.Sync.GracePeriod)
	hg.SetCloneMissing(cfg.Sync.CloneMissing)
	clients := map[vcs.Kind]vcs.Client{
		vcs.KindGit:       git,
		vcs.KindMercurial: hg,
	}

	orch := runner.New(clients, cfg.Sync.Timeout, logger)
	events := orch.Start(ctx, cfg.Repos)

	model := NewModel(cfg, events, cancel)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return runner.Summary{}, fmt.Errorf("terminal ui: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return runner.Summary{}, fmt.Errorf("terminal ui returned unexpected model %T", final)
	}
	if m.Aborted() {
		return m.Summary(), ErrAborted
	}
	return m.Summary(), nil
}

// RunCritical shows the full-screen error view for failures that prevent
// a run from starting at all, such as an unusable configuration
func RunCritical(err error) error {
	program := tea.NewProgram(NewCriticalModel(err), tea.WithAltScreen())
	if _, perr := program.Run(); perr != nil {
		// The terminal is unusable; fall back to the error itself
		return err
	}
	return err
}
