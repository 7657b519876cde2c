// SPDX-License-Identifier: MPL-2.0

package riotfile

import (
	"errors"
	"fmt"
)

// CmdArgsPlaceholder is replaced by the pass-through arguments of a run.
const CmdArgsPlaceholder = "{cmdargs}"

var (
	// ErrInvalidVenv is the sentinel error wrapped by InvalidVenvError.
	ErrInvalidVenv = errors.New("invalid venv")

	// Omitted excludes a package from the combinations it appears in.
	Omitted = PackageVersion{omit: true}
)

type (
	// Venv is a node of the environment tree. The zero value is a valid,
	// non-runnable node.
	Venv struct {
		// Name identifies the node for selection and reporting.
		Name string
		// Command is a shell command template. It may contain CmdArgsPlaceholder.
		Command string
		// Pys lists the interpreter versions (e.g. "3.8") to run against.
		Pys []string
		// Pkgs holds one axis per package, in declaration order.
		Pkgs []Axis[PackageVersion]
		// Env holds one axis per environment variable, in declaration order.
		Env []Axis[EnvValue]
		// Venvs are the child nodes.
		Venvs []*Venv
	}

	// PackageVersion is a version constraint for a package ("", ">=1.0",
	// "==2.2.1") or Omitted.
	PackageVersion struct {
		spec string
		omit bool
	}

	// InvalidVenvError is returned by Validate when a node violates the tree
	// invariants. Path locates the node as a chain of names and child indices.
	InvalidVenvError struct {
		Path   string
		Reason string
	}
)

// Version returns a PackageVersion for the constraint spec. An empty spec
// means "any version".
func Version(spec string) PackageVersion {
	return PackageVersion{spec: spec}
}

// Versions is a shorthand for a list of constraints.
func Versions(specs ...string) []PackageVersion {
	out := make([]PackageVersion, len(specs))
	for i, s := range specs {
		out[i] = Version(s)
	}
	return out
}

// Spec returns the constraint string. It is empty for Omitted.
func (v PackageVersion) Spec() string { return v.spec }

// IsOmitted reports whether the package is excluded.
func (v PackageVersion) IsOmitted() bool { return v.omit }

// String renders the constraint, or "None" when omitted.
func (v PackageVersion) String() string {
	if v.omit {
		return "None"
	}
	return v.spec
}

// Error implements the error interface.
func (e *InvalidVenvError) Error() string {
	return fmt.Sprintf("venv %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidVenv for errors.Is() compatibility.
func (e *InvalidVenvError) Unwrap() error { return ErrInvalidVenv }

// Runnable reports whether the node has both a command and at least one
// interpreter. Only meaningful on a resolved node.
func (v *Venv) Runnable() bool {
	return v.Command != "" && len(v.Pys) > 0
}

// Resolve flattens the ancestor chain parents (outermost first) and the
// receiver into a fresh node. Name, Command and Pys take the last non-empty
// value; Pkgs and Env are merged key by key, later keys replacing earlier
// candidate lists. With no parents the receiver itself is returned.
//
// Neither the receiver nor any parent is modified. Children are not carried
// over to the resolved node.
func (v *Venv) Resolve(parents []*Venv) *Venv {
	if len(parents) == 0 {
		return v
	}

	resolved := &Venv{}
	chain := make([]*Venv, 0, len(parents)+1)
	chain = append(chain, parents...)
	chain = append(chain, v)

	for _, node := range chain {
		if node.Name != "" {
			resolved.Name = node.Name
		}
		if len(node.Pys) > 0 {
			resolved.Pys = append([]string(nil), node.Pys...)
		}
		if node.Command != "" {
			resolved.Command = node.Command
		}
		resolved.Env = mergeAxes(resolved.Env, node.Env)
		resolved.Pkgs = mergeAxes(resolved.Pkgs, node.Pkgs)
	}
	return resolved
}

// Validate checks the structural invariants of the tree rooted at v: axis
// names are non-empty and unique within a node, every axis has at least one
// candidate, and interpreter versions are non-empty.
func (v *Venv) Validate() error {
	return v.validate("venv")
}

func (v *Venv) validate(path string) error {
	if v.Name != "" {
		path = v.Name
	}
	for _, py := range v.Pys {
		if py == "" {
			return &InvalidVenvError{Path: path, Reason: "empty interpreter version"}
		}
	}
	if err := validateAxes(path, "pkgs", v.Pkgs); err != nil {
		return err
	}
	if err := validateAxes(path, "env", v.Env); err != nil {
		return err
	}
	for i, child := range v.Venvs {
		if child == nil {
			return &InvalidVenvError{Path: path, Reason: fmt.Sprintf("venvs[%d] is nil", i)}
		}
		if err := child.validate(fmt.Sprintf("%s.venvs[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateAxes[V any](path, field string, axes []Axis[V]) error {
	seen := make(map[string]struct{}, len(axes))
	for _, axis := range axes {
		if axis.Name == "" {
			return &InvalidVenvError{Path: path, Reason: field + " has an empty name"}
		}
		if _, dup := seen[axis.Name]; dup {
			return &InvalidVenvError{Path: path, Reason: fmt.Sprintf("%s.%s is declared twice", field, axis.Name)}
		}
		seen[axis.Name] = struct{}{}
		if len(axis.Values) == 0 {
			return &InvalidVenvError{Path: path, Reason: fmt.Sprintf("%s.%s has no candidates", field, axis.Name)}
		}
	}
	return nil
}
