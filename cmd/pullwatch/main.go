package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/pullwatch/internal/app"
	"github.com/tildaslashalef/pullwatch/internal/tui"
)

// Version information - populated at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "pullwatch",
		Usage: "Sync all your VCS clones at once and review what changed",
		Description: "Pullwatch pulls every repository listed in your repos file in\n" +
			"parallel, then presents the results in a tabbed terminal view:\n" +
			"raw sync output, parsed diffs, and the new commits per repository.",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the repos file (default: ~/.config/pullwatch/repos.toml)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file instead of the default next to the repos file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.BoolFlag{
				Name:  "no-clone",
				Usage: "Report missing destinations as failures instead of cloning them",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		color.Red("pullwatch: %s", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	application, err := app.New(app.Options{
		ConfigPath: c.String("config"),
		LogFile:    c.String("log-file"),
		LogLevel:   c.String("log-level"),
		NoClone:    c.Bool("no-clone"),
	})
	if err != nil {
		if app.IsConfigError(err) {
			return tui.RunCritical(err)
		}
		return err
	}
	defer application.Shutdown()

	summary, err := application.Run()
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return fmt.Errorf("aborted with %d of %d repositories done", summary.Completed, summary.Total)
		}
		return err
	}

	if summary.Failed > 0 {
		fmt.Printf("%d/%d repositories synced, %d failed\n", summary.Completed, summary.Total, summary.Failed)
	} else {
		fmt.Printf("%d/%d repositories synced\n", summary.Completed, summary.Total)
	}
	return nil
}
