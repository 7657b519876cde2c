// SPDX-License-Identifier: MPL-2.0

package provision

const (
	// DefaultEnvDir is where environments are created.
	DefaultEnvDir = ".riot"
	// DefaultVirtualenv is the environment creation tool.
	DefaultVirtualenv = "virtualenv"
	// DefaultClone copies a base environment: "<clone> <src> <dst>".
	DefaultClone = "cp -r"
	// DefaultInstall installs requirement specs: "<install> <spec>...".
	DefaultInstall = "pip --disable-pip-version-check install"
	// DefaultDevInstall installs the project under test in editable mode.
	DefaultDevInstall = "pip --disable-pip-version-check install -e ."
)

type (
	// Config holds the command templates and locations used for provisioning.
	Config struct {
		// EnvDir is the directory holding every environment.
		EnvDir string

		// Virtualenv is invoked as "<Virtualenv> --python=<interpreter> <path>".
		Virtualenv string

		// Clone is invoked as "<Clone> <src> <dst>".
		Clone string

		// Install is invoked inside the environment as "<Install> <spec>...".
		Install string

		// DevInstall is invoked inside the environment as is.
		DevInstall string

		// WorkDir is the project directory pip runs in. Empty means the
		// current directory.
		WorkDir string
	}

	// Option is a functional option for configuring a Config.
	Option func(*Config)
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		EnvDir:     DefaultEnvDir,
		Virtualenv: DefaultVirtualenv,
		Clone:      DefaultClone,
		Install:    DefaultInstall,
		DevInstall: DefaultDevInstall,
	}
}

// WithEnvDir returns an Option that sets EnvDir on the config.
func WithEnvDir(dir string) Option {
	return func(c *Config) {
		c.EnvDir = dir
	}
}

// WithVirtualenv returns an Option that sets the environment creation command.
func WithVirtualenv(cmd string) Option {
	return func(c *Config) {
		c.Virtualenv = cmd
	}
}

// WithClone returns an Option that sets the clone command.
func WithClone(cmd string) Option {
	return func(c *Config) {
		c.Clone = cmd
	}
}

// WithInstall returns an Option that sets the package install command.
func WithInstall(cmd string) Option {
	return func(c *Config) {
		c.Install = cmd
	}
}

// WithDevInstall returns an Option that sets the dev install command.
func WithDevInstall(cmd string) Option {
	return func(c *Config) {
		c.DevInstall = cmd
	}
}

// WithWorkDir returns an Option that sets WorkDir on the config.
func WithWorkDir(dir string) Option {
	return func(c *Config) {
		c.WorkDir = dir
	}
}

// Apply applies the given options to the config. Empty command templates
// fall back to their defaults.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
	def := DefaultConfig()
	if c.EnvDir == "" {
		c.EnvDir = def.EnvDir
	}
	if c.Virtualenv == "" {
		c.Virtualenv = def.Virtualenv
	}
	if c.Clone == "" {
		c.Clone = def.Clone
	}
	if c.Install == "" {
		c.Install = def.Install
	}
	if c.DevInstall == "" {
		c.DevInstall = def.DevInstall
	}
}
