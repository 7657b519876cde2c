// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// MetadataFileName is the metadata file written into every environment.
const MetadataFileName = "riot-env.toml"

type (
	// Metadata describes a provisioned environment.
	Metadata struct {
		// Python is the interpreter version the environment was created for.
		Python string `toml:"python"`
		// Interpreter is the resolved interpreter path.
		Interpreter string `toml:"interpreter,omitempty"`
		// Base is the base environment a derived environment was cloned from.
		Base string `toml:"base,omitempty"`
		// Packages are the requirement specs installed by riot.
		Packages []string `toml:"packages,omitempty"`
		// DevInstalled reports whether the project itself is installed.
		DevInstalled bool      `toml:"dev_installed"`
		Created      time.Time `toml:"created"`
		Updated      time.Time `toml:"updated"`
	}

	// EnvInfo is a provisioned environment found by ListEnvs.
	EnvInfo struct {
		Path string
		Metadata
	}
)

// ReadMetadata loads the metadata file of the environment at dir.
func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MetadataFileName, err)
	}
	return &m, nil
}

// WriteMetadata stores m in the environment at dir, which must exist.
func WriteMetadata(dir string, m *Metadata) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", MetadataFileName, err)
	}
	return os.WriteFile(filepath.Join(dir, MetadataFileName), data, 0o644)
}

// updateMetadata applies fn to the metadata of dir, starting from an empty
// record when none exists yet.
func updateMetadata(dir string, now time.Time, fn func(*Metadata)) error {
	m, err := ReadMetadata(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		m = &Metadata{Created: now}
	}
	fn(m)
	m.Updated = now
	return WriteMetadata(dir, m)
}

// ListEnvs returns the environments directly under envDir that carry a
// metadata file, sorted by path. A missing envDir yields no environments.
func ListEnvs(envDir string) ([]EnvInfo, error) {
	entries, err := os.ReadDir(envDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env dir: %w", err)
	}

	var envs []EnvInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(envDir, entry.Name())
		m, err := ReadMetadata(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		envs = append(envs, EnvInfo{Path: path, Metadata: *m})
	}

	slices.SortFunc(envs, func(a, b EnvInfo) int { return strings.Compare(a.Path, b.Path) })
	return envs, nil
}
