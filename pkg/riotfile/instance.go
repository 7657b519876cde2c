// SPDX-License-Identifier: MPL-2.0

package riotfile

import (
	"iter"
	"log/slog"
	"regexp"
	"strings"
)

type (
	// EnvPair is a concrete environment variable assignment of an Instance.
	EnvPair = Pair[EnvValue]

	// PkgPair is a concrete package assignment of an Instance.
	PkgPair = Pair[PackageVersion]

	// Instance is one fully concrete unit of work produced by expansion.
	Instance struct {
		Name    string
		Command string
		Py      string
		Env     []EnvPair
		Pkgs    []PkgPair
	}
)

// MatchName compiles pattern the way node names are selected: anchored at the
// start of the name, unanchored at the end.
func MatchName(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = ".*"
	}
	return regexp.Compile("^(?:" + pattern + ")")
}

// Instances yields every Instance of the subtree rooted at v. parents is the
// ancestor chain of v, outermost first (nil for the root).
//
// Named children whose name does not match pattern are skipped together with
// their whole subtree. The instances of matching children come first, followed
// by the node's own instances when its resolved form is runnable.
func (v *Venv) Instances(pattern *regexp.Regexp, parents []*Venv) iter.Seq[Instance] {
	return func(yield func(Instance) bool) {
		v.walk(pattern, parents, yield)
	}
}

func (v *Venv) walk(pattern *regexp.Regexp, parents []*Venv, yield func(Instance) bool) bool {
	chain := make([]*Venv, 0, len(parents)+1)
	chain = append(chain, parents...)
	chain = append(chain, v)

	for _, child := range v.Venvs {
		if child.Name != "" && !pattern.MatchString(child.Name) {
			slog.Debug("skipping venv due to name mismatch", "venv", child.Name)
			continue
		}
		if !child.walk(pattern, chain, yield) {
			return false
		}
	}

	resolved := v.Resolve(parents)
	if !resolved.Runnable() {
		return true
	}

	for env := range ExpandSpecs(resolved.Env) {
		for _, py := range resolved.Pys {
			for pkgs := range ExpandSpecs(resolved.Pkgs) {
				inst := Instance{
					Name:    resolved.Name,
					Command: resolved.Command,
					Py:      py,
					Env:     env,
					Pkgs:    pkgs,
				}
				if !yield(inst) {
					return false
				}
			}
		}
	}
	return true
}

// PackageMap returns the selected packages (omitted ones excluded).
func (i Instance) PackageMap() map[string]string {
	pkgs := make(map[string]string, len(i.Pkgs))
	for _, p := range i.Pkgs {
		if p.Value.IsOmitted() {
			continue
		}
		pkgs[p.Name] = p.Value.Spec()
	}
	return pkgs
}

// SelectedPkgs returns the non-omitted package assignments in axis order.
func (i Instance) SelectedPkgs() []PkgPair {
	out := make([]PkgPair, 0, len(i.Pkgs))
	for _, p := range i.Pkgs {
		if !p.Value.IsOmitted() {
			out = append(out, p)
		}
	}
	return out
}

// PackageSpecs returns the requirement strings ("<name><constraint>") of the
// selected packages in axis order.
func (i Instance) PackageSpecs() []string {
	selected := i.SelectedPkgs()
	specs := make([]string, len(selected))
	for n, p := range selected {
		specs[n] = p.Name + p.Value.Spec()
	}
	return specs
}

// PackageSummary joins PackageSpecs with spaces: "pkgA>=1.0 pkgB".
func (i Instance) PackageSummary() string {
	return strings.Join(i.PackageSpecs(), " ")
}

// EnvString renders the environment assignments as "K=V K2=V2".
func (i Instance) EnvString() string {
	parts := make([]string, len(i.Env))
	for n, e := range i.Env {
		parts[n] = e.Name + "=" + e.Value.String()
	}
	return strings.Join(parts, " ")
}
