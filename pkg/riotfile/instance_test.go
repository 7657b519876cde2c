// SPDX-License-Identifier: MPL-2.0

package riotfile

import (
	"regexp"
	"slices"
	"testing"
)

var matchAll = regexp.MustCompile(".*")

func instancesOf(t *testing.T, v *Venv, pattern *regexp.Regexp) []Instance {
	t.Helper()
	var out []Instance
	for inst := range v.Instances(pattern, nil) {
		out = append(out, inst)
	}
	return out
}

func TestInstancesEndToEnd(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Name:    "test",
		Command: "pytest",
		Pys:     []string{"3.8"},
		Pkgs:    []Axis[PackageVersion]{{Name: "pkgA", Values: Versions("", ">=1.0")}},
	}

	got := instancesOf(t, root, matchAll)
	if len(got) != 2 {
		t.Fatalf("got %d instances, want 2", len(got))
	}
	for i, want := range []string{"pkgA", "pkgA>=1.0"} {
		if got[i].PackageSummary() != want {
			t.Errorf("instance %d summary = %q, want %q", i, got[i].PackageSummary(), want)
		}
		if got[i].Py != "3.8" {
			t.Errorf("instance %d py = %q, want 3.8", i, got[i].Py)
		}
	}
}

func TestInstancesOrdering(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Name:    "ord",
		Command: "run",
		Pys:     []string{"3.7", "3.8"},
		Env:     []Axis[EnvValue]{{Name: "E", Values: Literals("e1", "e2")}},
		Pkgs:    []Axis[PackageVersion]{{Name: "p", Values: Versions("==1", "==2")}},
	}

	var got []string
	for _, inst := range instancesOf(t, root, matchAll) {
		got = append(got, inst.EnvString()+"|"+inst.Py+"|"+inst.PackageSummary())
	}
	want := []string{
		"E=e1|3.7|p==1", "E=e1|3.7|p==2", "E=e1|3.8|p==1", "E=e1|3.8|p==2",
		"E=e2|3.7|p==1", "E=e2|3.7|p==2", "E=e2|3.8|p==1", "E=e2|3.8|p==2",
	}
	if !slices.Equal(got, want) {
		t.Errorf("instances = %v\nwant %v", got, want)
	}
}

func TestInstancesPruneNonMatchingSubtree(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Pys:     []string{"3.8"},
		Command: "pytest",
		Venvs: []*Venv{
			{
				Name: "x",
				Venvs: []*Venv{
					{Name: "y-child"},
				},
			},
			{Name: "y"},
		},
	}

	got := instancesOf(t, root, regexp.MustCompile("^(?:y)"))
	// root itself (unnamed) and "y" run; "x" and everything below it is pruned
	// even though "y-child" would match.
	var names []string
	for _, inst := range got {
		names = append(names, inst.Name)
	}
	if !slices.Equal(names, []string{"y", ""}) {
		t.Errorf("instance names = %q, want [y \"\"]", names)
	}
}

func TestInstancesNonRunnableNodesPassDefaults(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Pys:  []string{"3.9"},
		Pkgs: []Axis[PackageVersion]{{Name: "pytest", Values: Versions("")}},
		Venvs: []*Venv{
			{Name: "a", Command: "pytest a"},
			{Name: "b", Command: "pytest b"},
		},
	}

	got := instancesOf(t, root, matchAll)
	if len(got) != 2 {
		t.Fatalf("got %d instances, want 2 (root has no command)", len(got))
	}
	for _, inst := range got {
		if inst.Py != "3.9" || inst.PackageSummary() != "pytest" {
			t.Errorf("instance %q did not inherit root defaults: %+v", inst.Name, inst)
		}
	}
}

func TestInstancesNodeWithChildrenAndOwnConfig(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Name:    "parent",
		Command: "parent-cmd",
		Pys:     []string{"3.8"},
		Venvs: []*Venv{
			{Name: "child", Command: "child-cmd"},
		},
	}

	got := instancesOf(t, root, matchAll)
	if len(got) != 2 {
		t.Fatalf("got %d instances, want 2", len(got))
	}
	if got[0].Command != "child-cmd" || got[1].Command != "parent-cmd" {
		t.Errorf("commands = %q, %q; want child first then parent", got[0].Command, got[1].Command)
	}
}

func TestInstancesNestedOverrides(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Command: "cmd",
		Pys:     []string{"3.6"},
		Env:     []Axis[EnvValue]{{Name: "MODE", Values: Literals("base")}},
		Venvs: []*Venv{
			{
				Name: "mid",
				Pys:  []string{"3.7"},
				Venvs: []*Venv{
					{
						Name: "leaf",
						Env:  []Axis[EnvValue]{{Name: "MODE", Values: Literals("leaf")}},
					},
				},
			},
		},
	}

	got := instancesOf(t, root, matchAll)
	// leaf, mid, root
	if len(got) != 3 {
		t.Fatalf("got %d instances, want 3", len(got))
	}
	leaf := got[0]
	if leaf.Name != "leaf" || leaf.Py != "3.7" || leaf.EnvString() != "MODE=leaf" {
		t.Errorf("leaf = %+v", leaf)
	}
	if got[1].Name != "mid" || got[1].EnvString() != "MODE=base" {
		t.Errorf("mid = %+v", got[1])
	}
	if got[2].Py != "3.6" {
		t.Errorf("root py = %q, want 3.6", got[2].Py)
	}
}

func TestInstancesOmittedPackages(t *testing.T) {
	t.Parallel()

	root := &Venv{
		Name:    "omit",
		Command: "cmd",
		Pys:     []string{"3.8"},
		Pkgs: []Axis[PackageVersion]{
			{Name: "a", Values: []PackageVersion{Version("==1"), Omitted}},
			{Name: "b", Values: Versions("")},
		},
	}

	got := instancesOf(t, root, matchAll)
	if len(got) != 2 {
		t.Fatalf("got %d instances, want 2", len(got))
	}
	if got[0].PackageSummary() != "a==1 b" {
		t.Errorf("first summary = %q", got[0].PackageSummary())
	}
	if got[1].PackageSummary() != "b" {
		t.Errorf("second summary = %q", got[1].PackageSummary())
	}
	if _, ok := got[1].PackageMap()["a"]; ok {
		t.Error("omitted package present in PackageMap")
	}
	if len(got[1].Pkgs) != 2 {
		t.Errorf("omitted package must stay in Pkgs, got %+v", got[1].Pkgs)
	}
}

func TestInstancesEarlyStop(t *testing.T) {
	t.Parallel()

	root := &Venv{Command: "c", Pys: []string{"1", "2", "3"}, Venvs: []*Venv{{Name: "child"}}}
	n := 0
	for range root.Instances(matchAll, nil) {
		n++
		if n == 1 {
			break
		}
	}
	if n != 1 {
		t.Errorf("iterated %d, want 1", n)
	}
}

func TestMatchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "anything", true},
		{".*", "anything", true},
		{"test", "test_unit", true},
		{"unit", "test_unit", false},
		{"a|b", "b", true},
		{"^pattern.*", "pattern1", true},
	}
	for _, tt := range tests {
		re, err := MatchName(tt.pattern)
		if err != nil {
			t.Fatalf("MatchName(%q) error = %v", tt.pattern, err)
		}
		if got := re.MatchString(tt.name); got != tt.want {
			t.Errorf("MatchName(%q).MatchString(%q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}

	if _, err := MatchName("("); err == nil {
		t.Error("MatchName(\"(\") expected error")
	}
}
