// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type (
	// EnvVar is one explicit environment assignment.
	EnvVar struct {
		Name  string
		Value string
	}

	// EnvLayers lists the sources of a command environment, lowest priority
	// first: the host environment (only with PassEnv), dotenv Files, Vars.
	EnvLayers struct {
		PassEnv bool
		// Files are dotenv files. A "?" suffix marks a file as optional.
		Files []string
		Vars  []EnvVar
	}

	// EnvBuilder assembles command environments.
	EnvBuilder struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
		Logger  *log.Logger
	}
)

// NewEnvBuilder creates an EnvBuilder over the process environment.
func NewEnvBuilder(logger *log.Logger) *EnvBuilder {
	return &EnvBuilder{Logger: logger}
}

// Build returns the environment as sorted "KEY=VALUE" strings. The result is
// never nil, so handing it to Command.Env always replaces the process
// environment.
func (b *EnvBuilder) Build(layers EnvLayers) ([]string, error) {
	env := make(map[string]string)

	if layers.PassEnv {
		environ := b.Environ
		if environ == nil {
			environ = os.Environ
		}
		for _, kv := range environ() {
			if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
				env[name] = value
			}
		}
	}

	for _, path := range layers.Files {
		vars, err := loadEnvFile(path)
		if err != nil {
			return nil, err
		}
		b.overlay(env, vars, path)
	}

	for _, v := range layers.Vars {
		b.overlay(env, map[string]string{v.Name: v.Value}, "venv")
	}

	return EnvToSlice(env), nil
}

func (b *EnvBuilder) overlay(env, vars map[string]string, source string) {
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if _, ok := env[name]; ok {
			b.logger().Debug("environment variable overridden", "name", name, "source", source)
		}
		env[name] = vars[name]
	}
}

func (b *EnvBuilder) logger() *log.Logger {
	if b.Logger == nil {
		return log.New(io.Discard)
	}
	return b.Logger
}

// loadEnvFile reads a dotenv file. Files suffixed with '?' are optional;
// a missing optional file yields no variables.
func loadEnvFile(path string) (map[string]string, error) {
	optional := strings.HasSuffix(path, "?")
	path = strings.TrimSuffix(path, "?")

	vars, err := godotenv.Read(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}
	return vars, nil
}

// EnvToSlice converts an environment map to sorted "KEY=VALUE" strings.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, name := range slices.Sorted(maps.Keys(env)) {
		out = append(out, name+"="+env[name])
	}
	return out
}
