// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// executors returns every executor whose prerequisites are present.
func executors(t *testing.T) []Executor {
	t.Helper()

	out := []Executor{NewVirtualExecutor(nil)}
	if bash, err := exec.LookPath("bash"); err == nil {
		out = append(out, &NativeExecutor{Shell: bash})
	}
	return out
}

// fakeVenv creates a directory whose bin/activate exports VIRTUAL_ENV.
func fakeVenv(t *testing.T) string {
	t.Helper()

	venv := t.TempDir()
	bin := filepath.Join(venv, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	activate := "export VIRTUAL_ENV=" + venv + "\nexport PATH=\"$VIRTUAL_ENV/bin:$PATH\"\n"
	if err := os.WriteFile(filepath.Join(bin, "activate"), []byte(activate), 0o644); err != nil {
		t.Fatal(err)
	}
	return venv
}

func TestExecutorStreamsAndCaptures(t *testing.T) {
	t.Parallel()

	for _, e := range executors(t) {
		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()

			var sink bytes.Buffer
			done, err := e.Run(context.Background(), Command{
				Line:    "echo hello {cmdargs}",
				CmdArgs: "world",
				Stdout:  &sink,
				Stderr:  io.Discard,
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if strings.TrimSpace(done.Output) != "hello world" {
				t.Errorf("Output = %q", done.Output)
			}
			if sink.String() != done.Output {
				t.Errorf("sink = %q, want %q", sink.String(), done.Output)
			}
		})
	}
}

func TestExecutorFailure(t *testing.T) {
	t.Parallel()

	for _, e := range executors(t) {
		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()

			_, err := e.Run(context.Background(), Command{Line: "echo partial; exit 3", Stderr: io.Discard})
			var failed *CommandFailedError
			if !errors.As(err, &failed) {
				t.Fatalf("Run() error = %v, want *CommandFailedError", err)
			}
			if failed.ExitCode != 3 {
				t.Errorf("ExitCode = %d, want 3", failed.ExitCode)
			}
			if strings.TrimSpace(failed.Output) != "partial" {
				t.Errorf("Output = %q, want partial", failed.Output)
			}
		})
	}
}

func TestExecutorEnvReplacesProcessEnv(t *testing.T) {
	t.Setenv("RIOT_LEAK_CHECK", "leaked")

	for _, e := range executors(t) {
		t.Run(e.Name(), func(t *testing.T) {
			done, err := e.Run(context.Background(), Command{
				Line:   `echo "[$FOO][$RIOT_LEAK_CHECK]"`,
				Env:    []string{"FOO=bar"},
				Stderr: io.Discard,
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := strings.TrimSpace(done.Output); got != "[bar][]" {
				t.Errorf("Output = %q, want [bar][]", got)
			}
		})
	}
}

func TestExecutorActivatesVenv(t *testing.T) {
	t.Parallel()

	for _, e := range executors(t) {
		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()

			venv := fakeVenv(t)
			done, err := e.Run(context.Background(), Command{
				Line:   `echo "$VIRTUAL_ENV"`,
				Venv:   venv,
				Env:    []string{"PATH=/usr/bin:/bin"},
				Stderr: io.Discard,
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := strings.TrimSpace(done.Output); got != venv {
				t.Errorf("VIRTUAL_ENV = %q, want %q", got, venv)
			}
		})
	}
}

func TestExecutorCancelled(t *testing.T) {
	t.Parallel()

	for _, e := range executors(t) {
		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := e.Run(ctx, Command{Line: "sleep 5", Stderr: io.Discard})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestVirtualExecutorParseError(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"echo $(", "echo 'unterminated"} {
		_, err := NewVirtualExecutor(nil).Run(context.Background(), Command{Line: line})
		var failed *CommandFailedError
		if !errors.As(err, &failed) {
			t.Fatalf("Run(%q) error = %v, want *CommandFailedError", line, err)
		}
		if failed.ExitCode != 2 || failed.Output == "" {
			t.Errorf("Run(%q) = code %d output %q, want code 2 with the parse message", line, failed.ExitCode, failed.Output)
		}
	}
}

func TestActivateEnv(t *testing.T) {
	t.Parallel()

	got := activateEnv([]string{"PATH=/bin", "PYTHONHOME=/x", "VIRTUAL_ENV=/old", "A=1"}, "/v")
	want := []string{"A=1", "PATH=/v/bin:/bin", "VIRTUAL_ENV=/v"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("activateEnv() = %v, want %v", got, want)
	}

	got = activateEnv(nil, "/v")
	if strings.Join(got, ",") != "PATH=/v/bin,VIRTUAL_ENV=/v" {
		t.Errorf("activateEnv(nil) = %v", got)
	}
}

func TestActivationLine(t *testing.T) {
	t.Parallel()

	line, err := activationLine(Command{Line: "pytest {cmdargs}", CmdArgs: "-x", Venv: "/tmp/my env"})
	if err != nil {
		t.Fatal(err)
	}
	if line != "source '/tmp/my env/bin/activate' && pytest -x" {
		t.Errorf("activationLine() = %q", line)
	}
}
