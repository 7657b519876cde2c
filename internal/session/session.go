// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/riot/internal/provision"
	"github.com/invowk/riot/internal/runtime"
	"github.com/invowk/riot/pkg/riotfile"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// ErrInternal marks failures that indicate a runner defect rather than a
	// failing instance. Run aborts when it sees one.
	ErrInternal = errors.New("internal runner error")

	// ErrInvalidPattern is returned for a name pattern that is not a valid
	// regular expression.
	ErrInvalidPattern = errors.New("invalid name pattern")

	// ErrEnvFileNotFound is returned when a required dotenv file is missing.
	ErrEnvFileNotFound = errors.New("env file not found")

	// ErrBaseInstall is the sentinel error wrapped by BaseInstallError.
	ErrBaseInstall = errors.New("dev install into base environment failed")
)

type (
	// Session runs the instances of one riotfile.
	Session struct {
		root        *riotfile.Venv
		provisioner provision.Provisioner
		executor    runtime.Executor
		envBuilder  *runtime.EnvBuilder
		logger      *log.Logger
		out         io.Writer
		errOut      io.Writer
		envDir      string
		renderer    *lipgloss.Renderer
	}

	// Option configures a Session.
	Option func(*Session)

	// BaseInstallError reports a failed dev install into the base
	// environment of an interpreter.
	BaseInstallError struct {
		Python string
		Venv   string
		Err    error
	}
)

// New creates a Session over the tree rooted at root.
func New(root *riotfile.Venv, provisioner provision.Provisioner, executor runtime.Executor, opts ...Option) *Session {
	s := &Session{
		root:        root,
		provisioner: provisioner,
		executor:    executor,
		logger:      log.New(io.Discard),
		out:         os.Stdout,
		errOut:      os.Stderr,
		envDir:      provision.DefaultEnvDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.envBuilder == nil {
		s.envBuilder = runtime.NewEnvBuilder(s.logger)
	}
	return s
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput sets the sink receiving command output, failure messages and
// the summary.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithErrOutput sets where commands write their standard error.
func WithErrOutput(w io.Writer) Option {
	return func(s *Session) {
		s.errOut = w
	}
}

// WithEnvDir sets the directory holding the environments.
func WithEnvDir(dir string) Option {
	return func(s *Session) {
		s.envDir = dir
	}
}

// WithEnvBuilder replaces the builder of instance environments.
func WithEnvBuilder(b *runtime.EnvBuilder) Option {
	return func(s *Session) {
		s.envBuilder = b
	}
}

// WithRenderer sets the lipgloss renderer styling the summary. By default a
// renderer bound to the output sink detects its color support.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(s *Session) {
		s.renderer = r
	}
}

// Root returns the root venv of the session.
func (s *Session) Root() *riotfile.Venv {
	return s.root
}

// Error implements the error interface.
func (e *BaseInstallError) Error() string {
	return fmt.Sprintf("dev install into %s (python %s) failed: %v", e.Venv, e.Python, e.Err)
}

// Unwrap exposes both ErrBaseInstall and the underlying failure.
func (e *BaseInstallError) Unwrap() []error { return []error{ErrBaseInstall, e.Err} }

func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
