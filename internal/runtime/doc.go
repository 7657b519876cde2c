// SPDX-License-Identifier: MPL-2.0

// Package runtime runs shell command lines for riot.
//
// Two Executor implementations are available:
//   - native: runs the line with the host shell (/bin/bash by default) via os/exec
//   - virtual: runs the line with the embedded mvdan/sh interpreter
//
// Both activate a virtual environment before running the line when
// Command.Venv is set, substitute the {cmdargs} placeholder, and report a
// non-zero exit as *CommandFailedError carrying the exit code and the
// captured standard output.
//
// EnvBuilder assembles the exact environment handed to a command: the host
// environment (only when passing it through), then dotenv files, then
// explicit variables.
package runtime
