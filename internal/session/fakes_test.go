// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/invowk/riot/internal/provision"
	"github.com/invowk/riot/internal/runtime"
)

type (
	fakeProvisioner struct {
		created     []string
		cloned      [][2]string
		installed   map[string][]string
		devInstalls []string

		// missing lists interpreter versions reported as not found.
		missing map[string]bool
		// createErr, cloneErr, installErr and devInstallErr are returned when set.
		createErr     error
		cloneErr      error
		installErr    error
		devInstallErr error
	}

	fakeExecutor struct {
		commands []runtime.Command
		// fail maps a command line to the exit code it fails with.
		fail map[string]runtime.ExitCode
		// onRun runs before the command result is decided.
		onRun func(runtime.Command) error
	}
)

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{installed: map[string][]string{}, missing: map[string]bool{}}
}

func (p *fakeProvisioner) Create(_ context.Context, py, path string, _ bool) (string, error) {
	if p.missing[py] {
		return "", &provision.InterpreterNotFoundError{Version: py}
	}
	if p.createErr != nil {
		return "", p.createErr
	}
	p.created = append(p.created, py)
	return path, nil
}

func (p *fakeProvisioner) Clone(_ context.Context, src, dst string) error {
	if p.cloneErr != nil {
		return p.cloneErr
	}
	p.cloned = append(p.cloned, [2]string{src, dst})
	return nil
}

func (p *fakeProvisioner) Install(_ context.Context, env string, specs []string) error {
	if p.installErr != nil {
		return p.installErr
	}
	p.installed[env] = append(p.installed[env], specs...)
	return nil
}

func (p *fakeProvisioner) DevInstall(_ context.Context, env string) error {
	if p.devInstallErr != nil {
		return p.devInstallErr
	}
	p.devInstalls = append(p.devInstalls, env)
	return nil
}

func (e *fakeExecutor) Name() string { return "fake" }

func (e *fakeExecutor) Run(ctx context.Context, cmd runtime.Command) (*runtime.Completed, error) {
	e.commands = append(e.commands, cmd)
	if e.onRun != nil {
		if err := e.onRun(cmd); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	script := cmd.Script()
	out := "ran " + script + "\n"
	if cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, out)
	}
	if code, ok := e.fail[script]; ok {
		return nil, &runtime.CommandFailedError{Command: script, ExitCode: code, Output: out}
	}
	return &runtime.Completed{Command: script, Output: out}, nil
}

// envValue returns the value of name in a "K=V" environment.
func envValue(env []string, name string) (string, bool) {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == name {
			return v, true
		}
	}
	return "", false
}

func cmdFailure(code runtime.ExitCode) error {
	return &runtime.CommandFailedError{Command: "tool", ExitCode: code, Output: fmt.Sprintf("tool output %d", code)}
}
