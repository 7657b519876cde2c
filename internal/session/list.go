// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/invowk/riot/pkg/riotfile"
)

// List prints one line per instance matching pattern to out:
//
//	<name> <VAR=val ...> Python <py> '<pkg><spec>' ...
func (s *Session) List(ctx context.Context, pattern string, out io.Writer) error {
	re, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	if out == nil {
		out = s.out
	}

	for inst := range s.root.Instances(re, nil) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, instanceLine(inst)); err != nil {
			return err
		}
	}
	return nil
}

func instanceLine(inst riotfile.Instance) string {
	parts := []string{inst.Name}
	if env := inst.EnvString(); env != "" {
		parts = append(parts, env)
	}
	parts = append(parts, "Python "+inst.Py)
	if pkgs := quotedPackages(inst); pkgs != "" {
		parts = append(parts, pkgs)
	}
	return strings.Join(parts, " ")
}

// quotedPackages renders the selected packages as "'pkgA>=1.0' 'pytest'".
func quotedPackages(inst riotfile.Instance) string {
	specs := inst.PackageSpecs()
	for i, spec := range specs {
		specs[i] = "'" + spec + "'"
	}
	return strings.Join(specs, " ")
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := riotfile.MatchName(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}
