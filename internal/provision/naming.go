// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/invowk/riot/pkg/riotfile"

	"github.com/zeebo/blake3"
)

// BaseVenvPath returns the base environment path of interpreter py:
// "3.8" -> <envDir>/.venv_py38.
func BaseVenvPath(envDir, py string) string {
	return filepath.Join(envDir, ".venv_py"+strings.ReplaceAll(py, ".", ""))
}

// DerivedVenvPath returns the environment path for base with the selected
// packages pkgs installed. The name lists every package with its constraint
// stripped of "<=>.," characters, followed by a short digest of the exact
// assignment so constraints that strip alike (">=1.0" and "<=1.0") still get
// distinct environments. With no packages the base itself is returned.
func DerivedVenvPath(base string, pkgs []riotfile.PkgPair) string {
	if len(pkgs) == 0 {
		return base
	}

	tokens := make([]string, 0, len(pkgs)+1)
	h := blake3.New()
	for _, p := range pkgs {
		tokens = append(tokens, p.Name+stripVersionChars(p.Value.Spec()))
		_, _ = h.Write([]byte(p.Name + "\x00" + p.Value.Spec() + "\x00")) // blake3 writes never fail
	}
	tokens = append(tokens, hex.EncodeToString(h.Sum(nil)[:4]))

	return base + "_" + strings.Join(tokens, "_")
}

func stripVersionChars(spec string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune("<=>.,", r) {
			return -1
		}
		return r
	}, spec)
}
