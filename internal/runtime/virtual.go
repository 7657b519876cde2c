// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualExecutor runs command lines with the embedded mvdan/sh interpreter.
// External programs are still executed from PATH; activating a venv puts its
// bin directory first on PATH and sets VIRTUAL_ENV, which is what the
// activate script does.
type VirtualExecutor struct {
	Logger *log.Logger
}

// NewVirtualExecutor creates a virtual executor.
func NewVirtualExecutor(logger *log.Logger) *VirtualExecutor {
	return &VirtualExecutor{Logger: logger}
}

// Name returns the executor name.
func (e *VirtualExecutor) Name() string {
	return string(KindVirtual)
}

// Run parses and interprets cmd.
func (e *VirtualExecutor) Run(ctx context.Context, cmd Command) (*Completed, error) {
	script := cmd.Script()
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "command")
	if err != nil {
		// bash exits 2 on a syntax error.
		return nil, &CommandFailedError{Command: script, ExitCode: 2, Output: err.Error()}
	}

	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	if cmd.Venv != "" {
		env = activateEnv(env, cmd.Venv)
	}

	e.logger().Debug("running command", "command", script, "venv", cmd.Venv, "executor", e.Name())

	var stdout bytes.Buffer
	stderr := cmd.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, teeWriter(&stdout, cmd.Stdout), stderr),
	}
	if cmd.Dir != "" {
		opts = append(opts, interp.Dir(cmd.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	runErr := runner.Run(ctx, prog)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if runErr != nil {
		var exitStatus interp.ExitStatus
		if errors.As(runErr, &exitStatus) {
			return nil, &CommandFailedError{
				Command:  script,
				ExitCode: normalizeExitCode(int(exitStatus)),
				Output:   stdout.String(),
			}
		}
		return nil, fmt.Errorf("command execution failed: %w", runErr)
	}

	return &Completed{Command: script, Output: stdout.String()}, nil
}

func (e *VirtualExecutor) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// activateEnv returns env with VIRTUAL_ENV set, the venv bin directory
// prepended to PATH and PYTHONHOME removed.
func activateEnv(env []string, venv string) []string {
	bin := filepath.Join(venv, "bin")
	out := make([]string, 0, len(env)+2)
	path := bin
	for _, kv := range env {
		name, value, _ := strings.Cut(kv, "=")
		switch name {
		case "PATH":
			if value != "" {
				path = bin + string(os.PathListSeparator) + value
			}
		case "VIRTUAL_ENV", "PYTHONHOME":
		default:
			out = append(out, kv)
		}
	}
	return append(out, "PATH="+path, "VIRTUAL_ENV="+venv)
}
