// SPDX-License-Identifier: MPL-2.0

// Package provision creates and populates the Python virtual environments
// riot runs commands in.
//
// Every interpreter version gets one base environment under the env
// directory (<env_dir>/.venv_py<version without dots>). Instances that
// select packages run in a derived environment: a copy of the base with the
// packages installed, named after the base plus the package assignment.
//
// The Provisioner interface is implemented by VirtualenvProvisioner, which
// drives the external tools (virtualenv, cp, pip) through a runtime.Executor:
//
//	p := provision.NewVirtualenvProvisioner(executor, provision.DefaultConfig())
//	base, err := p.Create(ctx, "3.8", provision.BaseVenvPath(".riot", "3.8"), false)
//
// Each provisioned environment carries a riot-env.toml metadata file that
// ListEnvs reads back.
package provision
