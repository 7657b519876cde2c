// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GenerateCUE renders cfg as a config file accepted by the #Config schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// riot configuration file\n\n")
	fmt.Fprintf(&sb, "env_dir: %q\n", cfg.EnvDir)
	fmt.Fprintf(&sb, "shell: %q\n", cfg.Shell)
	fmt.Fprintf(&sb, "executor: %q\n", cfg.Executor)

	sb.WriteString("\nprovision: {\n")
	fmt.Fprintf(&sb, "\tvirtualenv: %q\n", cfg.Provision.Virtualenv)
	fmt.Fprintf(&sb, "\tclone: %q\n", cfg.Provision.Clone)
	fmt.Fprintf(&sb, "\tinstall: %q\n", cfg.Provision.Install)
	fmt.Fprintf(&sb, "\tdev_install: %q\n", cfg.Provision.DevInstall)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor: %q\n", cfg.UI.Color)
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML renders cfg as TOML.
func GenerateTOML(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return data, nil
}
