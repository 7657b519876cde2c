// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/invowk/riot/internal/runtime"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// Compile-time interface check
var _ Provisioner = (*VirtualenvProvisioner)(nil)

// ErrInterpreterNotFound is the sentinel error wrapped by InterpreterNotFoundError.
var ErrInterpreterNotFound = errors.New("interpreter not found")

type (
	// Provisioner creates and populates virtual environments. Tool failures
	// are reported as *runtime.CommandFailedError.
	Provisioner interface {
		// Create makes the base environment of interpreter py at path and
		// returns the path. An existing directory is reused unless recreate
		// is set. Returns ErrInterpreterNotFound when python<py> is not on PATH.
		Create(ctx context.Context, py, path string, recreate bool) (string, error)
		// Clone copies the environment src to dst, replacing dst.
		Clone(ctx context.Context, src, dst string) error
		// Install installs the requirement specs into env.
		Install(ctx context.Context, env string, specs []string) error
		// DevInstall installs the project under test into env.
		DevInstall(ctx context.Context, env string) error
	}

	// VirtualenvProvisioner implements Provisioner with virtualenv and pip.
	VirtualenvProvisioner struct {
		executor runtime.Executor
		config   *Config
		logger   *log.Logger
		// lookPath resolves interpreter executables. Defaults to exec.LookPath.
		lookPath func(string) (string, error)
		now      func() time.Time
	}

	// InterpreterNotFoundError is returned when the interpreter executable of
	// a version cannot be found.
	InterpreterNotFoundError struct {
		Version string
	}
)

// Error implements the error interface.
func (e *InterpreterNotFoundError) Error() string {
	return fmt.Sprintf("python%s interpreter not found on PATH", e.Version)
}

// Unwrap returns ErrInterpreterNotFound so callers can use errors.Is for programmatic detection.
func (e *InterpreterNotFoundError) Unwrap() error { return ErrInterpreterNotFound }

// NewVirtualenvProvisioner creates a provisioner running its tools with executor.
func NewVirtualenvProvisioner(executor runtime.Executor, cfg *Config, logger *log.Logger) *VirtualenvProvisioner {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Apply()
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &VirtualenvProvisioner{
		executor: executor,
		config:   cfg,
		logger:   logger,
		lookPath: exec.LookPath,
		now:      time.Now,
	}
}

// Config returns the provisioner's configuration.
func (p *VirtualenvProvisioner) Config() *Config {
	return p.config
}

// Create implements Provisioner.
func (p *VirtualenvProvisioner) Create(ctx context.Context, py, path string, recreate bool) (string, error) {
	if isDir(path) && !recreate {
		p.logger.Info("skipping creation of virtualenv as it already exists", "path", path)
		return path, nil
	}

	interpreter, err := p.lookPath("python" + py)
	if err != nil {
		p.logger.Debug("interpreter lookup failed", "python", py, "error", err)
		return "", &InterpreterNotFoundError{Version: py}
	}

	if recreate {
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("remove virtualenv %s: %w", path, err)
		}
	}

	p.logger.Info("creating virtualenv", "path", path, "python", interpreter)
	line, err := joinQuoted(p.config.Virtualenv, "--python="+interpreter, path)
	if err != nil {
		return "", err
	}
	if err := p.run(ctx, runtime.Command{Line: line}); err != nil {
		return "", err
	}

	p.recordMetadata(path, func(m *Metadata) {
		m.Python = py
		m.Interpreter = interpreter
	})
	return path, nil
}

// Clone implements Provisioner.
func (p *VirtualenvProvisioner) Clone(ctx context.Context, src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		// Reported like a failed clone so the session fails only this instance.
		return &runtime.CommandFailedError{Command: "rm -rf " + dst, ExitCode: 1, Output: err.Error()}
	}

	line, err := joinQuoted(p.config.Clone, src, dst)
	if err != nil {
		return err
	}
	if err := p.run(ctx, runtime.Command{Line: line}); err != nil {
		return err
	}

	p.recordMetadata(dst, func(m *Metadata) {
		m.Base = src
		m.Created = p.now()
	})
	return nil
}

// Install implements Provisioner. No specs is a no-op.
func (p *VirtualenvProvisioner) Install(ctx context.Context, env string, specs []string) error {
	if len(specs) == 0 {
		return nil
	}

	line, err := joinQuoted(p.config.Install, specs...)
	if err != nil {
		return err
	}
	p.logger.Info("installing packages", "venv", env, "packages", strings.Join(specs, " "))
	if err := p.run(ctx, runtime.Command{Line: line, Venv: env, Dir: p.config.WorkDir}); err != nil {
		return err
	}

	p.recordMetadata(env, func(m *Metadata) {
		m.Packages = append(m.Packages, specs...)
	})
	return nil
}

// DevInstall implements Provisioner.
func (p *VirtualenvProvisioner) DevInstall(ctx context.Context, env string) error {
	p.logger.Info("installing dev package", "venv", env)
	if err := p.run(ctx, runtime.Command{Line: p.config.DevInstall, Venv: env, Dir: p.config.WorkDir}); err != nil {
		return err
	}

	p.recordMetadata(env, func(m *Metadata) {
		m.DevInstalled = true
	})
	return nil
}

func (p *VirtualenvProvisioner) run(ctx context.Context, cmd runtime.Command) error {
	done, err := p.executor.Run(ctx, cmd)
	if err != nil {
		return err
	}
	p.logger.Debug("provisioning command finished", "command", done.Command)
	return nil
}

// recordMetadata updates the metadata file of dir. Failures only lose
// listing information, so they are logged.
func (p *VirtualenvProvisioner) recordMetadata(dir string, fn func(*Metadata)) {
	if !isDir(dir) {
		return
	}
	if err := updateMetadata(dir, p.now(), fn); err != nil {
		p.logger.Warn("failed to record environment metadata", "path", dir, "error", err)
	}
}

// joinQuoted appends shell-quoted args to the command template cmd.
func joinQuoted(cmd string, args ...string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, cmd)
	for _, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", arg, err)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
