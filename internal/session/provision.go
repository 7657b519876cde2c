// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/invowk/riot/internal/provision"
	"github.com/invowk/riot/internal/runtime"
)

type (
	// ProvisionOptions selects the base environments to provision.
	ProvisionOptions struct {
		// Pattern selects instances by name. Empty matches everything.
		Pattern string
		// Recreate rebuilds environments that already exist.
		Recreate bool
		// SkipDeps skips the dev install of the project into each base.
		SkipDeps bool
		// Pythons restricts provisioning to these interpreter versions.
		Pythons []string
	}

	// Bases lists the outcome of provisioning per interpreter version.
	Bases struct {
		// Venvs maps an interpreter version to its base environment path.
		Venvs map[string]string
		// Unavailable lists the versions whose environment could not be created.
		Unavailable []string
	}
)

// Available reports whether the base environment of py was provisioned.
func (b *Bases) Available(py string) bool {
	_, ok := b.Venvs[py]
	return ok
}

// Provision creates the base environment of every interpreter needed by the
// instances matching opts.Pattern, in first-seen order. Interpreters that
// cannot be provisioned are recorded in Bases.Unavailable. A failed dev
// install returns *BaseInstallError.
func (s *Session) Provision(ctx context.Context, opts ProvisionOptions) (*Bases, error) {
	re, err := compilePattern(opts.Pattern)
	if err != nil {
		return nil, err
	}

	var pys []string
	for inst := range s.root.Instances(re, nil) {
		if slices.Contains(pys, inst.Py) {
			continue
		}
		if len(opts.Pythons) > 0 && !slices.Contains(opts.Pythons, inst.Py) {
			continue
		}
		pys = append(pys, inst.Py)
	}

	bases := &Bases{Venvs: make(map[string]string, len(pys))}
	s.logger.Info("generating virtual environments", "pythons", strings.Join(pys, ","))

	for _, py := range pys {
		if err := ctx.Err(); err != nil {
			return bases, err
		}

		path, err := s.provisioner.Create(ctx, py, provision.BaseVenvPath(s.envDir, py), opts.Recreate)
		if err != nil {
			var failed *runtime.CommandFailedError
			switch {
			case isCancellation(ctx, err):
				return bases, err
			case errors.Is(err, provision.ErrInterpreterNotFound):
				s.logger.Error("python version not found", "python", py)
			case errors.As(err, &failed):
				s.logger.Error("failed to create virtual environment", "python", py, "output", failed.Output)
			default:
				return bases, internalError("create virtual environment for python "+py, err)
			}
			bases.Unavailable = append(bases.Unavailable, py)
			continue
		}
		bases.Venvs[py] = path

		if opts.SkipDeps {
			s.logger.Info("skipping dev package install", "venv", path)
			continue
		}
		if err := s.provisioner.DevInstall(ctx, path); err != nil {
			if isCancellation(ctx, err) {
				return bases, err
			}
			s.logger.Error("dev install failed, aborting", "venv", path, "error", err)
			return bases, &BaseInstallError{Python: py, Venv: path, Err: err}
		}
	}

	return bases, nil
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
