// Package project loads the permcheck.toml manifest that names a flat
// module tree's root source file and the checker's diagnostic limit
// (max_diagnostics): the checker assumes a flat module tree rooted at a
// single source file.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "permcheck.toml"

// Config is the decoded contents of permcheck.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
}

// PackageConfig names the package being checked.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CheckConfig configures the checker (component F/E policy knobs).
type CheckConfig struct {
	// Root is the module tree's entry file, relative to the manifest.
	Root string `toml:"root"`
	// MaxDiagnostics bounds the diagnostic bag (0 means use the CLI default).
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// Manifest pairs a decoded Config with the directory it was found in.
type Manifest struct {
	Path   string
	Dir    string
	Config Config
}

// FindManifest walks up from startDir looking for permcheck.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("project: resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("project: stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and decodes the manifest rooted at or above startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, true, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("check") || strings.TrimSpace(cfg.Check.Root) == "" {
		return nil, true, fmt.Errorf("%s: missing [check].root", path)
	}
	return &Manifest{Path: path, Dir: filepath.Dir(path), Config: cfg}, true, nil
}

// RootPath resolves the manifest's [check].root entry to an absolute path.
func (m *Manifest) RootPath() string {
	return filepath.Join(m.Dir, filepath.FromSlash(m.Config.Check.Root))
}
