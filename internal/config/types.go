// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ExecutorNative runs commands in the host shell.
	// Defined locally to avoid coupling config to internal/runtime.
	ExecutorNative ExecutorMode = "native"
	// ExecutorVirtual runs commands in the embedded mvdan/sh interpreter.
	ExecutorVirtual ExecutorMode = "virtual"

	// ColorAuto colors output only when writing to a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"

	defaultEnvDir     = ".riot"
	defaultShell      = "/bin/bash"
	defaultVirtualenv = "virtualenv"
	defaultClone      = "cp -r"
	defaultInstall    = "pip --disable-pip-version-check install"
	defaultDevInstall = "pip --disable-pip-version-check install -e ."
)

var (
	// ErrInvalidExecutorMode is returned when an ExecutorMode value is not recognized.
	ErrInvalidExecutorMode = errors.New("invalid executor mode")
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrEmptySetting is returned when a required string setting is blank.
	ErrEmptySetting = errors.New("empty setting")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ExecutorMode selects how shell commands are executed.
	ExecutorMode string

	// InvalidExecutorModeError wraps ErrInvalidExecutorMode.
	InvalidExecutorModeError struct {
		Value ExecutorMode
	}

	// ColorMode controls colored output.
	ColorMode string

	// InvalidColorModeError wraps ErrInvalidColorMode.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// EmptySettingError names a blank required setting. It wraps ErrEmptySetting.
	EmptySettingError struct {
		Key string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects the field-level errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the runner settings.
	Config struct {
		// EnvDir is where virtual environments are provisioned.
		EnvDir string `json:"env_dir" toml:"env_dir" mapstructure:"env_dir"`
		// Shell runs native commands.
		Shell string `json:"shell" toml:"shell" mapstructure:"shell"`
		// Executor selects the command executor.
		Executor ExecutorMode `json:"executor" toml:"executor" mapstructure:"executor"`
		// Provision holds the environment tool command lines.
		Provision ProvisionConfig `json:"provision" toml:"provision" mapstructure:"provision"`
		// UI configures output.
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`

		// Source is the file the settings were read from, empty for defaults.
		Source string `json:"-" toml:"-" mapstructure:"-"`
	}

	// ProvisionConfig holds the external environment tool command lines.
	ProvisionConfig struct {
		Virtualenv string `json:"virtualenv" toml:"virtualenv" mapstructure:"virtualenv"`
		Clone      string `json:"clone" toml:"clone" mapstructure:"clone"`
		Install    string `json:"install" toml:"install" mapstructure:"install"`
		DevInstall string `json:"dev_install" toml:"dev_install" mapstructure:"dev_install"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose bool      `json:"verbose" toml:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" toml:"color" mapstructure:"color"`
	}
)

// DefaultConfig returns the settings used when no file or override is present.
func DefaultConfig() *Config {
	return &Config{
		EnvDir:   defaultEnvDir,
		Shell:    defaultShell,
		Executor: ExecutorNative,
		Provision: ProvisionConfig{
			Virtualenv: defaultVirtualenv,
			Clone:      defaultClone,
			Install:    defaultInstall,
			DevInstall: defaultDevInstall,
		},
		UI: UIConfig{
			Verbose: false,
			Color:   ColorAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error

	settings := []struct{ key, value string }{
		{"env_dir", c.EnvDir},
		{"shell", c.Shell},
		{"provision.virtualenv", c.Provision.Virtualenv},
		{"provision.clone", c.Provision.Clone},
		{"provision.install", c.Provision.Install},
		{"provision.dev_install", c.Provision.DevInstall},
	}
	for _, s := range settings {
		if strings.TrimSpace(s.value) == "" {
			errs = append(errs, &EmptySettingError{Key: s.key})
		}
	}
	if valid, fieldErrs := c.Executor.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func (e *EmptySettingError) Error() string {
	return fmt.Sprintf("setting %q must not be empty", e.Key)
}

func (e *EmptySettingError) Unwrap() error { return ErrEmptySetting }

// String returns the string representation of the ExecutorMode.
func (m ExecutorMode) String() string { return string(m) }

// IsValid returns whether the ExecutorMode is one of the defined modes.
func (m ExecutorMode) IsValid() (bool, []error) {
	switch m {
	case ExecutorNative, ExecutorVirtual:
		return true, nil
	default:
		return false, []error{&InvalidExecutorModeError{Value: m}}
	}
}

func (e *InvalidExecutorModeError) Error() string {
	return fmt.Sprintf("invalid executor %q (valid: native, virtual)", e.Value)
}

func (e *InvalidExecutorModeError) Unwrap() error { return ErrInvalidExecutorMode }

// String returns the string representation of the ColorMode.
func (m ColorMode) String() string { return string(m) }

// IsValid returns whether the ColorMode is one of the defined modes.
func (m ColorMode) IsValid() (bool, []error) {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true, nil
	default:
		return false, []error{&InvalidColorModeError{Value: m}}
	}
}

func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }
