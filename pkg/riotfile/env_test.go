// SPDX-License-Identifier: MPL-2.0

package riotfile

import "testing"

func TestEnvValueEval(t *testing.T) {
	t.Parallel()

	pkgs := map[string]string{"django": ">=3", "zope.interface": ""}

	tests := []struct {
		name   string
		value  EnvValue
		want   string
		wantOK bool
	}{
		{name: "literal", value: Literal("1"), want: "1", wantOK: true},
		{name: "empty literal is a value", value: Literal(""), want: "", wantOK: true},
		{name: "unset", value: Unset, wantOK: false},
		{name: "computed with value", value: Computed(func(p map[string]string) (string, bool) {
			return p["django"], true
		}), want: ">=3", wantOK: true},
		{name: "computed without value", value: Computed(func(map[string]string) (string, bool) {
			return "", false
		}), wantOK: false},
		{name: "expr selected package", value: ShellExpr("${RIOT_PKG_DJANGO:+1}"), want: "1", wantOK: true},
		{name: "expr missing package", value: ShellExpr("${RIOT_PKG_FLASK:+1}"), wantOK: false},
		{name: "expr normalized name", value: ShellExpr("${RIOT_PKG_ZOPE_INTERFACE+set}"), want: "set", wantOK: true},
		{name: "expr constant", value: ShellExpr("plain"), want: "plain", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := tt.value.Eval(pkgs)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Eval() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestShellExprInvalid(t *testing.T) {
	t.Parallel()

	if _, _, err := ShellExpr("${unterminated").Eval(nil); err == nil {
		t.Error("Eval() expected parse error")
	}
}

func TestPkgEnvName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"django":         "RIOT_PKG_DJANGO",
		"zope.interface": "RIOT_PKG_ZOPE_INTERFACE",
		"Flask-Login2":   "RIOT_PKG_FLASK_LOGIN2",
	}
	for in, want := range tests {
		if got := PkgEnvName(in); got != want {
			t.Errorf("PkgEnvName(%q) = %q, want %q", in, got, want)
		}
	}
}
