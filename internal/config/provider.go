// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the user config directory when set.
		ConfigDirPath string
		// WorkDir is searched for riot.config.cue. Empty means the current directory.
		WorkDir string
	}

	// InvalidLoadOptionsError reports whitespace-only paths in LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider backed by files and the
// process environment.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load validates opts and reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return loadWithOptions(ctx, opts)
}

// Validate rejects paths that are set but blank.
func (o LoadOptions) Validate() error {
	var errs []error
	for name, value := range map[string]string{
		"ConfigFilePath": o.ConfigFilePath,
		"ConfigDirPath":  o.ConfigDirPath,
		"WorkDir":        o.WorkDir,
	} {
		if value != "" && strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be whitespace-only", name))
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
