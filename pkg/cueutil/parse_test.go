// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Settings: {
	name:  string
	level: *1 | int
	tags?: [...string]
}
`

type testSettings struct {
	Name  string   `json:"name"`
	Level int      `json:"level"`
	Tags  []string `json:"tags"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	res, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`name: "riot", tags: ["a", "b"]`), "#Settings")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if res.Value.Name != "riot" || res.Value.Level != 1 || len(res.Value.Tags) != 2 {
		t.Errorf("ParseAndDecode() = %+v", res.Value)
	}
	if !res.Unified.Exists() {
		t.Error("Unified value should exist")
	}
}

func TestCompileReportsPathAndFile(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(testSchema), []byte(`name: 3`), "#Settings", WithFilename("settings.cue"))
	if err == nil {
		t.Fatal("Compile() expected error for mistyped field")
	}
	if !strings.Contains(err.Error(), "settings.cue") || !strings.Contains(err.Error(), "name") {
		t.Errorf("Compile() error = %q, want file name and field path", err)
	}
}

func TestCompileRejectsUnknownField(t *testing.T) {
	t.Parallel()

	if _, err := Compile([]byte(testSchema), []byte(`name: "x", bogus: 1`), "#Settings"); err == nil {
		t.Fatal("Compile() expected error for field outside the closed definition")
	}
}

func TestCompileNonConcrete(t *testing.T) {
	t.Parallel()

	if _, err := Compile([]byte(testSchema), []byte(`level: 2`), "#Settings"); err == nil {
		t.Error("Compile() expected error for missing required field in concrete mode")
	}
	if _, err := Compile([]byte(testSchema), []byte(`level: 2`), "#Settings", WithConcrete(false)); err != nil {
		t.Errorf("Compile(WithConcrete(false)) error = %v", err)
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f"); err != nil {
		t.Errorf("CheckFileSize(at limit) error = %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f"); err == nil {
		t.Error("CheckFileSize(over limit) expected error")
	}
	if _, err := Compile([]byte(testSchema), []byte(`name: "x"`), "#Settings", WithMaxFileSize(2)); err == nil {
		t.Error("Compile() expected size error")
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"venv"}, "venv"},
		{[]string{"venv", "venvs", "0", "pys", "1"}, "venv.venvs[0].pys[1]"},
	}
	for _, tt := range tests {
		if got := FormatPath(tt.path); got != tt.want {
			t.Errorf("FormatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
