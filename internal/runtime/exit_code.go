// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
	ErrInvalidExitCode = errors.New("invalid exit code")

	// ErrCommandFailed is the sentinel error wrapped by CommandFailedError.
	ErrCommandFailed = errors.New("command failed")
)

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}

	// CommandFailedError reports a command that ran and exited non-zero.
	// Output is the captured standard output.
	CommandFailedError struct {
		Command  string
		ExitCode ExitCode
		Output   string
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the valid range (0-255),
// and a list of validation errors if it is not.
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Error implements the error interface.
func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command %q failed with code %d", truncate(e.Command, 120), e.ExitCode)
}

// Unwrap returns ErrCommandFailed so callers can use errors.Is for programmatic detection.
func (e *CommandFailedError) Unwrap() error { return ErrCommandFailed }

// normalizeExitCode maps codes reported outside 0-255 (signals report -1)
// to 1 so a failed command never looks successful.
func normalizeExitCode(code int) ExitCode {
	c := ExitCode(code)
	if ok, _ := c.IsValid(); !ok || c == 0 {
		return 1
	}
	return c
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
