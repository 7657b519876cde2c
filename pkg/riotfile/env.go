// SPDX-License-Identifier: MPL-2.0

package riotfile

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// PkgEnvPrefix prefixes the variables ShellExpr sees for each selected package.
const PkgEnvPrefix = "RIOT_PKG_"

// Unset is an environment value that never produces a value.
var Unset EnvValue = unsetValue{}

type (
	// EnvValue is a candidate value of an environment variable axis. Values are
	// evaluated at execution time against the package mapping of the instance
	// (package name -> constraint, omitted packages excluded). ok=false means
	// the variable is left out of the environment.
	EnvValue interface {
		Eval(pkgs map[string]string) (value string, ok bool, err error)
		String() string
	}

	// Literal is a fixed environment value.
	Literal string

	// Computed derives a value from the package mapping.
	Computed func(pkgs map[string]string) (string, bool)

	// ShellExpr is a computed value written as a POSIX shell word, expanded
	// with one RIOT_PKG_<NAME> variable per selected package. An empty
	// expansion leaves the variable out.
	//
	//	"${RIOT_PKG_DJANGO:+1}"   -> "1" when django is selected, else unset
	ShellExpr string

	unsetValue struct{}
)

// Eval returns the literal itself.
func (l Literal) Eval(map[string]string) (string, bool, error) { return string(l), true, nil }

func (l Literal) String() string { return string(l) }

// Eval calls the function.
func (c Computed) Eval(pkgs map[string]string) (string, bool, error) {
	v, ok := c(pkgs)
	return v, ok, nil
}

func (c Computed) String() string { return "<computed>" }

// Eval expands the expression.
func (e ShellExpr) Eval(pkgs map[string]string) (string, bool, error) {
	word, err := syntax.NewParser().Document(strings.NewReader(string(e)))
	if err != nil {
		return "", false, fmt.Errorf("parse env expression %q: %w", string(e), err)
	}

	pairs := make([]string, 0, len(pkgs))
	for name, spec := range pkgs {
		pairs = append(pairs, PkgEnvName(name)+"="+spec)
	}
	cfg := &expand.Config{Env: expand.ListEnviron(pairs...)}

	out, err := expand.Document(cfg, word)
	if err != nil {
		return "", false, fmt.Errorf("expand env expression %q: %w", string(e), err)
	}
	if out == "" {
		return "", false, nil
	}
	return out, true, nil
}

func (e ShellExpr) String() string { return string(e) }

func (unsetValue) Eval(map[string]string) (string, bool, error) { return "", false, nil }

func (unsetValue) String() string { return "None" }

// Literals is a shorthand for a list of literal values.
func Literals(values ...string) []EnvValue {
	out := make([]EnvValue, len(values))
	for i, v := range values {
		out[i] = Literal(v)
	}
	return out
}

// PkgEnvName returns the variable name under which ShellExpr exposes the
// constraint of package name: "zope.interface" -> "RIOT_PKG_ZOPE_INTERFACE".
func PkgEnvName(name string) string {
	var b strings.Builder
	b.WriteString(PkgEnvPrefix)
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
