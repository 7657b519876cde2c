// SPDX-License-Identifier: MPL-2.0

package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	summaryHeader = "-------------------summary-------------------"

	markPassed = "✔️"
	markFailed = "✖️"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// printSummary writes the summary block: a header, then one line per result.
// Unless a renderer was configured, styles are bound to the output sink so
// markers stay plain when it is not a terminal.
func (s *Session) printSummary(report *Report) {
	r := s.renderer
	if r == nil {
		r = lipgloss.NewRenderer(s.out)
	}
	passed := r.NewStyle().Foreground(colorSuccess)
	failed := r.NewStyle().Bold(true).Foreground(colorError)
	muted := r.NewStyle().Foreground(colorMuted)

	var b strings.Builder
	b.WriteString("\n" + summaryHeader + "\n")
	for _, res := range report.Results {
		mark := passed.Render(markPassed)
		if !res.Code.IsSuccess() {
			mark = failed.Render(markFailed)
		}
		b.WriteString(summaryLine(mark, res) + "\n")
	}
	if report.Interrupted {
		b.WriteString(muted.Render("run interrupted") + "\n")
	}

	_, _ = fmt.Fprint(s.out, b.String()) // output sink errors are not actionable here
}

// summaryLine renders "<mark>  <name>: <env> python<py> <pkgs>".
func summaryLine(mark string, res *Result) string {
	parts := []string{mark + "  " + res.Instance.Name + ":"}
	if env := res.Instance.EnvString(); env != "" {
		parts = append(parts, env)
	}
	parts = append(parts, "python"+res.Instance.Py)
	if res.PkgStr != "" {
		parts = append(parts, res.PkgStr)
	}
	return strings.Join(parts, " ")
}
