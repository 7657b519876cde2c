// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorError(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{name: "operation only", err: &ActionableError{Operation: "load riotfile"}, want: "failed to load riotfile"},
		{name: "with resource", err: &ActionableError{Operation: "load riotfile", Resource: "riotfile.cue"}, want: "failed to load riotfile: riotfile.cue"},
		{name: "with cause", err: &ActionableError{Operation: "load riotfile", Resource: "riotfile.cue", Cause: cause}, want: "failed to load riotfile: riotfile.cue: no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := error(&ActionableError{Operation: "run", Cause: fmt.Errorf("wrapped: %w", sentinel)})
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() should find the sentinel through ActionableError")
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	root := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "create env dir",
		Resource:    ".riot",
		Suggestions: []string{"Check permissions", "Set env_dir"},
		Cause:       fmt.Errorf("mkdir: %w", root),
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "\n  • Check permissions\n  • Set env_dir") {
		t.Errorf("Format(false) suggestions missing:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. mkdir: permission denied\n  2. permission denied") {
		t.Errorf("Format(true) chain:\n%s", verbose)
	}
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ctx := NewErrorContext().
		WithOperation("load riotfile").
		WithResource("riotfile.cue").
		WithSuggestion("a").
		WithSuggestion("b").
		WithIssue(RiotfileParseErrorId).
		Wrap(cause)

	ae := ctx.Build()
	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load riotfile" || ae.Resource != "riotfile.cue" || ae.Cause != cause {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 2 || ae.Issue() != Get(RiotfileParseErrorId) {
		t.Errorf("Build() suggestions/issue = %v / %v", ae.Suggestions, ae.Issue())
	}

	// Later additions to the builder do not leak into built errors.
	ctx.WithSuggestion("c")
	if len(ae.Suggestions) != 2 {
		t.Error("built error shares suggestions with the builder")
	}
}

func TestErrorContextWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().Wrap(errors.New("x")).Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() without IssueId should be nil")
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	err := WrapWithContext(errors.New("x"), "op", "res")
	if err.Error() != "failed to op: res: x" {
		t.Errorf("Error() = %q", err.Error())
	}
}
