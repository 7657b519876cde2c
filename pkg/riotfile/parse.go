// SPDX-License-Identifier: MPL-2.0

package riotfile

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/invowk/riot/pkg/cueutil"

	"cuelang.org/go/cue"
)

// DefaultFileName is the riotfile looked up in the working directory.
const DefaultFileName = "riotfile.cue"

//go:embed riotfile_schema.cue
var schema []byte

// Load reads and parses the riotfile at path.
func Load(path string) (*Venv, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read riotfile: %w", err)
	}
	return Parse(data, path)
}

// Parse validates data against the riotfile schema and converts it into a
// Venv tree. A riotfile without a venv yields an empty, non-runnable root.
func Parse(data []byte, filename string) (*Venv, error) {
	unified, err := cueutil.Compile(schema, data, "#Riotfile", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	root, ok := lookupField(unified, "venv")
	if !ok {
		return &Venv{}, nil
	}

	venv, err := decodeVenv(root)
	if err != nil {
		return nil, cueutil.FormatError(err, filename)
	}
	if err := venv.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return venv, nil
}

func decodeVenv(v cue.Value) (*Venv, error) {
	venv := &Venv{}

	var err error
	if venv.Name, err = optionalString(v, "name"); err != nil {
		return nil, err
	}
	if venv.Command, err = optionalString(v, "command"); err != nil {
		return nil, err
	}

	err = eachListItem(field(v, "pys"), func(item cue.Value) error {
		py, err := item.String()
		if err != nil {
			return err
		}
		venv.Pys = append(venv.Pys, py)
		return nil
	})
	if err != nil {
		return nil, err
	}

	venv.Pkgs, err = decodeAxes(field(v, "pkgs"), decodePackageVersion)
	if err != nil {
		return nil, err
	}
	venv.Env, err = decodeAxes(field(v, "env"), decodeEnvValue)
	if err != nil {
		return nil, err
	}

	err = eachListItem(field(v, "venvs"), func(item cue.Value) error {
		child, err := decodeVenv(item)
		if err != nil {
			return err
		}
		venv.Venvs = append(venv.Venvs, child)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return venv, nil
}

// lookupField returns the regular (set) field name of struct v. Optional
// fields declared by the schema but absent from the file are not reported.
func lookupField(v cue.Value, name string) (cue.Value, bool) {
	fields, err := v.Fields()
	if err != nil {
		return cue.Value{}, false
	}
	for fields.Next() {
		if fields.Selector().Unquoted() == name {
			return fields.Value(), true
		}
	}
	return cue.Value{}, false
}

// field is lookupField returning the zero (non-existent) Value when absent.
func field(v cue.Value, name string) cue.Value {
	f, _ := lookupField(v, name)
	return f
}

func optionalString(v cue.Value, name string) (string, error) {
	f, ok := lookupField(v, name)
	if !ok {
		return "", nil
	}
	return f.String()
}

func eachListItem(list cue.Value, fn func(cue.Value) error) error {
	if !list.Exists() {
		return nil
	}
	it, err := list.List()
	if err != nil {
		return err
	}
	for it.Next() {
		if err := fn(it.Value()); err != nil {
			return err
		}
	}
	return nil
}

// decodeAxes walks a struct of lists in declaration order so the axis order
// of the file is the expansion order.
func decodeAxes[V any](v cue.Value, decode func(cue.Value) (V, error)) ([]Axis[V], error) {
	if !v.Exists() {
		return nil, nil
	}
	fields, err := v.Fields()
	if err != nil {
		return nil, err
	}

	var axes []Axis[V]
	for fields.Next() {
		axis := Axis[V]{Name: fields.Selector().Unquoted()}
		err := eachListItem(fields.Value(), func(item cue.Value) error {
			val, err := decode(item)
			if err != nil {
				return err
			}
			axis.Values = append(axis.Values, val)
			return nil
		})
		if err != nil {
			return nil, err
		}
		axes = append(axes, axis)
	}
	return axes, nil
}

func decodePackageVersion(v cue.Value) (PackageVersion, error) {
	if v.IsNull() {
		return Omitted, nil
	}
	s, err := v.String()
	if err != nil {
		return PackageVersion{}, err
	}
	return Version(s), nil
}

func decodeEnvValue(v cue.Value) (EnvValue, error) {
	if v.IsNull() {
		return Unset, nil
	}
	if v.Kind() == cue.StructKind {
		expr, err := v.LookupPath(cue.ParsePath("expr")).String()
		if err != nil {
			return nil, err
		}
		return ShellExpr(expr), nil
	}
	s, err := v.String()
	if err != nil {
		return nil, err
	}
	return Literal(s), nil
}
