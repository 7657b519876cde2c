// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/riot/pkg/riotfile"
)

func TestBaseVenvPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"3.8":  filepath.Join(".riot", ".venv_py38"),
		"3.10": filepath.Join(".riot", ".venv_py310"),
		"3":    filepath.Join(".riot", ".venv_py3"),
	}
	for py, want := range tests {
		if got := BaseVenvPath(".riot", py); got != want {
			t.Errorf("BaseVenvPath(%q) = %q, want %q", py, got, want)
		}
	}
}

func TestDerivedVenvPath(t *testing.T) {
	t.Parallel()

	base := BaseVenvPath(".riot", "3.8")
	pkgs := func(specs ...string) []riotfile.PkgPair {
		out := make([]riotfile.PkgPair, 0, len(specs)/2)
		for i := 0; i < len(specs); i += 2 {
			out = append(out, riotfile.PkgPair{Name: specs[i], Value: riotfile.Version(specs[i+1])})
		}
		return out
	}

	if got := DerivedVenvPath(base, nil); got != base {
		t.Errorf("no packages: got %q, want base %q", got, base)
	}

	a := DerivedVenvPath(base, pkgs("pkgA", ">=1.0", "pytest", ""))
	if !strings.HasPrefix(a, base+"_pkgA10_pytest_") {
		t.Errorf("derived path = %q", a)
	}
	if suffix := a[strings.LastIndex(a, "_")+1:]; len(suffix) != 8 {
		t.Errorf("digest suffix = %q, want 8 hex chars", suffix)
	}

	if again := DerivedVenvPath(base, pkgs("pkgA", ">=1.0", "pytest", "")); again != a {
		t.Errorf("not deterministic: %q vs %q", a, again)
	}

	distinct := map[string]bool{}
	for _, spec := range []string{">=1.0", "<=1.0", "==1.0", "==10", ""} {
		p := DerivedVenvPath(base, pkgs("pkgA", spec))
		if distinct[p] {
			t.Errorf("constraint %q collides: %q", spec, p)
		}
		distinct[p] = true
	}
}
