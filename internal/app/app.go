// Package app provides the application initialization and lifecycle management
package app

import (
	"errors"

	"github.com/tildaslashalef/pullwatch/internal/config"
	"github.com/tildaslashalef/pullwatch/internal/loggy"
	"github.com/tildaslashalef/pullwatch/internal/runner"
	"github.com/tildaslashalef/pullwatch/internal/tui"
)

// Options are the command-line overrides applied on top of the repos
// file and the environment
type Options struct {
	ConfigPath string
	LogFile    string
	LogLevel   string
	NoClone    bool
}

// App represents the application instance with its dependencies
type App struct {
	Config *config.Config
	Logger *loggy.Logger
}

// New initializes a new application instance. A *config.Error from here
// means no sync can start; callers show the critical screen for it.
func New(opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.Output = opts.LogFile
	}
	if opts.NoClone {
		cfg.Sync.CloneMissing = false
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("application initializing",
		"config", path,
		"repos", len(cfg.Repos),
		"log_level", cfg.Logging.Level,
	)

	return &App{
		Config: cfg,
		Logger: loggy.GetGlobalLogger(),
	}, nil
}

// initLogger initializes the logging system. The TUI owns the terminal,
// so logs never go to stderr unless explicitly requested.
func initLogger(cfg *config.Config) error {
	lc := loggy.DefaultConfig()
	lc.Level = config.ParseLogLevel(cfg.Logging.Level)
	lc.Format = cfg.Logging.Format
	lc.Output = cfg.Logging.Output
	return loggy.Init(lc)
}

// Run executes one full sync run under the terminal UI and returns the
// final summary. ErrAborted passes through so the process can exit
// nonzero on an interrupted run.
func (a *App) Run() (runner.Summary, error) {
	return tui.Run(a.Config, a.Logger)
}

// Shutdown flushes application state at exit. There is no store to close,
// so this only marks the run boundary in the log.
func (a *App) Shutdown() error {
	loggy.Info("application shutting down")
	return nil
}

// IsConfigError reports whether err is a pre-run configuration failure
func IsConfigError(err error) bool {
	var cerr *config.Error
	return errors.As(err, &cerr)
}
