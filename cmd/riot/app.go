// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/invowk/riot/internal/config"
	"github.com/invowk/riot/internal/issue"
	"github.com/invowk/riot/internal/provision"
	"github.com/invowk/riot/internal/runtime"
	"github.com/invowk/riot/internal/session"
	"github.com/invowk/riot/pkg/riotfile"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root of the CLI layer: every command handler receives the App and builds
	// its session through it.
	App struct {
		Config ConfigProvider
		// Provisioner and Executor replace the ones built from the
		// configuration when set.
		Provisioner provision.Provisioner
		Executor    runtime.Executor

		stdout io.Writer
		stderr io.Writer
		opts   rootOptions
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Provisioner provision.Provisioner
		Executor    runtime.Executor
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// rootOptions holds the persistent flags of the root command.
	rootOptions struct {
		verbose    bool
		configPath string
		riotfile   string
	}

	// workspace is what a command needs to act on the riotfile.
	workspace struct {
		cfg     *config.Config
		logger  *log.Logger
		session *session.Session
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:      deps.Config,
		Provisioner: deps.Provisioner,
		Executor:    deps.Executor,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		opts:        rootOptions{riotfile: riotfile.DefaultFileName},
	}, nil
}

// loadConfig loads the settings, honoring --config and --verbose.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.opts.configPath})
	if err != nil {
		return nil, err
	}
	if a.opts.verbose {
		cfg.UI.Verbose = true
	}
	return cfg, nil
}

func (a *App) newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "riot", Level: log.InfoLevel})
	if cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// renderer returns a lipgloss renderer for stdout following ui.color.
func (a *App) renderer(cfg *config.Config) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(a.stdout)
	switch cfg.UI.Color {
	case config.ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func (a *App) loadRiotfile() (*riotfile.Venv, error) {
	path := a.opts.riotfile
	if _, err := os.Stat(path); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load riotfile").
			WithResource(path).
			WithSuggestion("Run riot from the project root or pass the riotfile with --file").
			WithIssue(issue.RiotfileNotFoundId).
			Wrap(err).
			BuildError()
	}

	root, err := riotfile.Load(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse riotfile").
			WithResource(path).
			WithSuggestion("Check the reported field against the riotfile schema").
			WithIssue(issue.RiotfileParseErrorId).
			Wrap(err).
			BuildError()
	}
	return root, nil
}

// openWorkspace loads settings and the riotfile and builds a session over
// them. Commands that execute nothing pass execute=false, which skips the
// shell check.
func (a *App) openWorkspace(ctx context.Context, execute bool) (*workspace, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger := a.newLogger(cfg)

	root, err := a.loadRiotfile()
	if err != nil {
		return nil, err
	}

	executor, err := a.executor(cfg, logger, execute)
	if err != nil {
		return nil, err
	}

	provisioner := a.Provisioner
	if provisioner == nil {
		provisioner = provision.NewVirtualenvProvisioner(executor, &provision.Config{
			EnvDir:     cfg.EnvDir,
			Virtualenv: cfg.Provision.Virtualenv,
			Clone:      cfg.Provision.Clone,
			Install:    cfg.Provision.Install,
			DevInstall: cfg.Provision.DevInstall,
		}, logger)
	}

	s := session.New(root, provisioner, executor,
		session.WithLogger(logger),
		session.WithOutput(a.stdout),
		session.WithErrOutput(a.stderr),
		session.WithEnvDir(cfg.EnvDir),
		session.WithRenderer(a.renderer(cfg)),
	)

	return &workspace{cfg: cfg, logger: logger, session: s}, nil
}

func (a *App) executor(cfg *config.Config, logger *log.Logger, execute bool) (runtime.Executor, error) {
	if a.Executor != nil {
		return a.Executor, nil
	}

	kind := runtime.Kind(cfg.Executor)
	if execute && kind == runtime.KindNative {
		if _, err := exec.LookPath(cfg.Shell); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("find shell").
				WithResource(cfg.Shell).
				WithSuggestion("Set 'shell' in the riot config, or use executor: \"virtual\"").
				WithIssue(issue.ShellNotFoundId).
				Wrap(err).
				BuildError()
		}
	}

	return runtime.New(kind, runtime.Options{Shell: cfg.Shell, Logger: logger})
}
