// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/invowk/riot/internal/issue"
	"github.com/invowk/riot/internal/provision"
	"github.com/invowk/riot/internal/session"

	"github.com/spf13/cobra"
)

// issueStyle is the glamour style used for catalog entries. "auto" picks a
// plain style when stdout is not a terminal.
const issueStyle = "auto"

// fail renders err with its catalog entry, if any, and returns the ExitError
// ending the command. Cobra's own error and usage output is silenced.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, ErrorStyle.Render("riot:")+" "+formatErrorForDisplay(err, a.opts.verbose))
	renderIssue(stderr, classifyError(err))

	return &ExitError{Code: 1, Err: err}
}

// formatErrorForDisplay uses ActionableError.Format when available, which
// adds suggestions and, in verbose mode, the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// classifyError maps an error to the catalog entry explaining it. Zero means
// no entry applies.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueId != 0 {
		return ae.IssueId
	}

	switch {
	case errors.Is(err, session.ErrBaseInstall):
		return issue.DevInstallFailedId
	case errors.Is(err, session.ErrInvalidPattern):
		return issue.InvalidPatternId
	case errors.Is(err, session.ErrEnvFileNotFound):
		return issue.EnvFileNotFoundId
	case errors.Is(err, provision.ErrInterpreterNotFound):
		return issue.InterpreterNotFoundId
	default:
		return 0
	}
}

func renderIssue(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}

	rendered, err := entry.Render(issueStyle)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
