// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for riot.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/invowk/riot/pkg/riotfile"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the riot command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "riot",
		Short: "A test-matrix runner for Python projects",
		Long: TitleStyle.Render("riot") + SubtitleStyle.Render(" - a test-matrix runner for Python projects") + `

riot expands a tree of environment definitions (Python versions, package
versions, environment variables, a command) into concrete instances, builds a
virtual environment for each and runs the command in it.

The tree is declared in 'riotfile.cue' using CUE.

` + SubtitleStyle.Render("Examples:") + `
  riot list                 List every instance
  riot run test             Run the instances whose name starts with 'test'
  riot run -p 3.11 -s       Run on Python 3.11 only, skipping the dev install
  riot generate             Provision base environments without running
  riot envs                 Show provisioned environments`,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/riot/config.cue)")
	flags.StringVarP(&app.opts.riotfile, "file", "f", riotfile.DefaultFileName, "riotfile to load")

	rootCmd.AddCommand(
		newListCommand(app),
		newRunCommand(app),
		newGenerateCommand(app),
		newEnvsCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the riot CLI. It is called by main.main().
func Execute() {
	slog.SetDefault(slog.New(log.NewWithOptions(os.Stderr, log.Options{Prefix: "riot"})))

	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	// The interrupt signal cancels the command context, which stops a run
	// between instances.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
