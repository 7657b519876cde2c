// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/invowk/riot/internal/provision"
	"github.com/invowk/riot/internal/runtime"
	"github.com/invowk/riot/pkg/riotfile"
)

// errInterrupted tells the run loop to stop after the current result.
var errInterrupted = errors.New("run interrupted")

type (
	// RunOptions configures a Run.
	RunOptions struct {
		// Pattern selects instances by name. Empty matches everything.
		Pattern string
		// SkipBaseInstall skips the dev install into base environments.
		SkipBaseInstall bool
		// RecreateVenvs rebuilds the base environments.
		RecreateVenvs bool
		// PassEnv starts every instance environment from the host environment
		// instead of an empty one.
		PassEnv bool
		// CmdArgs replaces the {cmdargs} placeholder of the commands.
		CmdArgs string
		// Pythons restricts the run to these interpreter versions.
		Pythons []string
		// EnvFiles are dotenv files overlaid before the instance variables.
		// A "?" suffix marks a file as optional.
		EnvFiles []string
	}

	// Result is the outcome of one instance.
	Result struct {
		Instance riotfile.Instance
		// VenvName is the environment the instance ran in.
		VenvName string
		// PkgStr lists the installed packages as quoted requirement specs.
		PkgStr string
		// Code is 0 on success. It starts at 1 so an instance that never
		// finished counts as failed.
		Code runtime.ExitCode
		// Message describes the failure, if any.
		Message string
	}

	// Report collects the results of a Run.
	Report struct {
		Results []*Result
		// Interrupted is set when the run stopped on cancellation.
		Interrupted bool
	}
)

// Failed reports whether any instance failed or the run was interrupted.
func (r *Report) Failed() bool {
	if r.Interrupted {
		return true
	}
	return slices.ContainsFunc(r.Results, func(res *Result) bool { return !res.Code.IsSuccess() })
}

// Counts returns the number of passed and failed results.
func (r *Report) Counts() (passed, failed int) {
	for _, res := range r.Results {
		if res.Code.IsSuccess() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Run provisions the base environments, then runs every instance matching
// opts.Pattern in order and prints the summary to the output sink.
//
// Instance failures are recorded in the Report. Cancelling ctx stops the run
// after marking the in-flight instance failed; the partial Report is returned
// without error. A failed dev install returns *BaseInstallError and
// unexpected failures return an error wrapping ErrInternal.
func (s *Session) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	re, err := compilePattern(opts.Pattern)
	if err != nil {
		return nil, err
	}
	if err := checkEnvFiles(opts.EnvFiles); err != nil {
		return nil, err
	}

	report := &Report{}

	bases, err := s.Provision(ctx, ProvisionOptions{
		Pattern:  opts.Pattern,
		Recreate: opts.RecreateVenvs,
		SkipDeps: opts.SkipBaseInstall,
		Pythons:  opts.Pythons,
	})
	if err != nil {
		if !isCancellation(ctx, err) {
			return nil, err
		}
		report.Interrupted = true
		s.printSummary(report)
		return report, nil
	}

	for inst := range s.root.Instances(re, nil) {
		if len(opts.Pythons) > 0 && !slices.Contains(opts.Pythons, inst.Py) {
			s.logger.Debug("skipping instance due to python version", "venv", inst.Name, "python", inst.Py)
			continue
		}
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}

		result, err := s.runInstance(ctx, inst, bases, opts)
		report.Results = append(report.Results, result)
		if errors.Is(err, errInterrupted) {
			report.Interrupted = true
			break
		}
		if err != nil {
			s.logger.Error("test runner failed", "venv", inst.Name, "error", err)
			return report, err
		}
	}

	s.printSummary(report)
	return report, nil
}

// runInstance returns a nil error for contained failures, errInterrupted on
// cancellation and an ErrInternal error for anything else.
func (s *Session) runInstance(ctx context.Context, inst riotfile.Instance, bases *Bases, opts RunOptions) (*Result, error) {
	selected := inst.SelectedPkgs()
	base := provision.BaseVenvPath(s.envDir, inst.Py)
	if path, ok := bases.Venvs[inst.Py]; ok {
		base = path
	}

	result := &Result{
		Instance: inst,
		VenvName: provision.DerivedVenvPath(base, selected),
		PkgStr:   quotedPackages(inst),
		Code:     1,
	}

	if slices.Contains(bases.Unavailable, inst.Py) {
		s.fail(result, 1, fmt.Sprintf("Python %s environment is not available", inst.Py))
		return result, nil
	}

	if len(selected) > 0 {
		s.logger.Info("copying base virtualenv", "base", base, "venv", result.VenvName)
		if err := s.provisioner.Clone(ctx, base, result.VenvName); err != nil {
			return result, s.contain(ctx, result, err, func(f *runtime.CommandFailedError) string {
				return fmt.Sprintf("Failed to create virtualenv '%s'\n%s", result.VenvName, f.Output)
			})
		}

		s.logger.Info("installing venv dependencies", "packages", result.PkgStr)
		if err := s.provisioner.Install(ctx, result.VenvName, inst.PackageSpecs()); err != nil {
			return result, s.contain(ctx, result, err, func(f *runtime.CommandFailedError) string {
				return fmt.Sprintf("Failed to install venv dependencies %s\n%s", result.PkgStr, f.Output)
			})
		}
	}

	vars, err := instanceVars(inst)
	if err != nil {
		return result, internalError("evaluate environment of "+inst.Name, err)
	}
	env, err := s.envBuilder.Build(runtime.EnvLayers{
		PassEnv: opts.PassEnv,
		Files:   opts.EnvFiles,
		Vars:    vars,
	})
	if err != nil {
		return result, internalError("build environment of "+inst.Name, err)
	}

	s.logger.Info("running command", "command", inst.Command, "env", inst.EnvString())
	_, err = s.executor.Run(ctx, runtime.Command{
		Line:    inst.Command,
		CmdArgs: opts.CmdArgs,
		Venv:    result.VenvName,
		Env:     env,
		Stdout:  s.out,
		Stderr:  s.errOut,
	})
	if err != nil {
		return result, s.contain(ctx, result, err, func(f *runtime.CommandFailedError) string {
			return fmt.Sprintf("Test failed with exit code %d", f.ExitCode)
		})
	}

	result.Code = 0
	return result, nil
}

// contain classifies err for result: command failures fail the instance and
// print message(err) to the sink, cancellation yields errInterrupted, and
// anything else becomes an internal error.
func (s *Session) contain(ctx context.Context, result *Result, err error, message func(*runtime.CommandFailedError) string) error {
	if isCancellation(ctx, err) {
		result.Code = 1
		result.Message = "interrupted"
		return errInterrupted
	}

	var failed *runtime.CommandFailedError
	if errors.As(err, &failed) {
		s.fail(result, failed.ExitCode, message(failed))
		return nil
	}
	return internalError("run "+result.Instance.Name, err)
}

func (s *Session) fail(result *Result, code runtime.ExitCode, msg string) {
	result.Code = code
	result.Message = msg
	_, _ = fmt.Fprintln(s.out, msg) // best-effort: the summary still carries the failure
}

// instanceVars evaluates the environment assignments of inst against its
// package mapping. Values that evaluate to no value are left out.
func instanceVars(inst riotfile.Instance) ([]runtime.EnvVar, error) {
	pkgs := inst.PackageMap()
	vars := make([]runtime.EnvVar, 0, len(inst.Env))
	for _, pair := range inst.Env {
		value, ok, err := pair.Value.Eval(pkgs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Name, err)
		}
		if !ok {
			continue
		}
		vars = append(vars, runtime.EnvVar{Name: pair.Name, Value: value})
	}
	return vars, nil
}

// checkEnvFiles fails early on missing required dotenv files so a typo does
// not surface as a failure of every instance.
func checkEnvFiles(files []string) error {
	for _, f := range files {
		if strings.HasSuffix(f, "?") {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("%w: %w", ErrEnvFileNotFound, err)
		}
	}
	return nil
}
