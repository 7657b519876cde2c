// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// KindNative selects the host shell executor.
	KindNative Kind = "native"
	// KindVirtual selects the embedded interpreter executor.
	KindVirtual Kind = "virtual"

	// DefaultShell is the shell the native executor runs command lines with.
	DefaultShell = "/bin/bash"

	cmdArgsPlaceholder = "{cmdargs}"
)

// ErrUnknownExecutor is the sentinel error wrapped by UnknownExecutorError.
var ErrUnknownExecutor = errors.New("unknown executor")

type (
	// Kind names an Executor implementation.
	Kind string

	// Command is a single shell command line to run.
	Command struct {
		// Line is the shell command line. It may contain the {cmdargs} placeholder.
		Line string
		// CmdArgs replaces every {cmdargs} placeholder in Line.
		CmdArgs string
		// Venv is the virtual environment to activate first. Empty means none.
		Venv string
		// Env replaces the process environment when non-nil, even when empty.
		Env []string
		// Dir is the working directory. Empty means the current one.
		Dir string
		// Stdout receives standard output as it is produced, in addition to
		// the capture returned in Completed.Output.
		Stdout io.Writer
		// Stderr receives standard error. Nil means the process stderr.
		Stderr io.Writer
	}

	// Completed is a successfully finished command.
	Completed struct {
		Command string
		Output  string
	}

	// Executor runs command lines. Run returns *CommandFailedError when the
	// command exits non-zero and the context error when ctx is cancelled.
	Executor interface {
		Name() string
		Run(ctx context.Context, cmd Command) (*Completed, error)
	}

	// Options configures executor construction.
	Options struct {
		// Shell overrides DefaultShell for the native executor.
		Shell  string
		Logger *log.Logger
	}

	// UnknownExecutorError is returned by New for an unsupported Kind.
	UnknownExecutorError struct {
		Kind Kind
	}
)

// Error implements the error interface.
func (e *UnknownExecutorError) Error() string {
	return fmt.Sprintf("unknown executor %q (valid: %s, %s)", e.Kind, KindNative, KindVirtual)
}

// Unwrap returns ErrUnknownExecutor so callers can use errors.Is for programmatic detection.
func (e *UnknownExecutorError) Unwrap() error { return ErrUnknownExecutor }

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// New builds the executor of the given kind.
func New(kind Kind, opts Options) (Executor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	switch kind {
	case KindNative, "":
		return &NativeExecutor{Shell: opts.Shell, Logger: logger}, nil
	case KindVirtual:
		return &VirtualExecutor{Logger: logger}, nil
	default:
		return nil, &UnknownExecutorError{Kind: kind}
	}
}

// Script returns Line with the {cmdargs} placeholder substituted.
func (c Command) Script() string {
	return strings.ReplaceAll(c.Line, cmdArgsPlaceholder, c.CmdArgs)
}
