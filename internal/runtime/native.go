// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// NativeExecutor runs command lines with the host shell.
type NativeExecutor struct {
	// Shell overrides DefaultShell.
	Shell  string
	Logger *log.Logger
}

// NewNativeExecutor creates a native executor using DefaultShell.
func NewNativeExecutor(logger *log.Logger) *NativeExecutor {
	return &NativeExecutor{Logger: logger}
}

// Name returns the executor name.
func (e *NativeExecutor) Name() string {
	return string(KindNative)
}

// Run executes cmd with "<shell> -c". When cmd.Venv is set the line becomes
// "source <venv>/bin/activate && <line>".
func (e *NativeExecutor) Run(ctx context.Context, cmd Command) (*Completed, error) {
	line, err := activationLine(cmd)
	if err != nil {
		return nil, err
	}

	e.logger().Debug("running command", "command", line, "executor", e.Name())

	c := exec.CommandContext(ctx, e.shell(), "-c", line)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = append([]string{}, cmd.Env...)
	}

	var stdout bytes.Buffer
	c.Stdout = teeWriter(&stdout, cmd.Stdout)
	c.Stderr = cmd.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	runErr := c.Run()
	e.logger().Debug("command output", "output", stdout.String())

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &CommandFailedError{
				Command:  line,
				ExitCode: normalizeExitCode(exitErr.ExitCode()),
				Output:   stdout.String(),
			}
		}
		return nil, fmt.Errorf("failed to execute command: %w", runErr)
	}

	return &Completed{Command: line, Output: stdout.String()}, nil
}

func (e *NativeExecutor) shell() string {
	if e.Shell != "" {
		return e.Shell
	}
	return DefaultShell
}

func (e *NativeExecutor) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// activationLine prefixes the script with the venv activation when needed.
func activationLine(cmd Command) (string, error) {
	script := cmd.Script()
	if cmd.Venv == "" {
		return script, nil
	}
	activate, err := syntax.Quote(filepath.Join(cmd.Venv, "bin", "activate"), syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quote venv path: %w", err)
	}
	return "source " + activate + " && " + script, nil
}

func teeWriter(capture *bytes.Buffer, sink io.Writer) io.Writer {
	if sink == nil {
		return capture
	}
	return io.MultiWriter(capture, sink)
}
