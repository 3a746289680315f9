// Copyright (C) 2026 Pradyun Gedam
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package vendoring

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Substitution is a user-supplied regular expression rewrite applied
// to vendored source before any import rewriting.
type Substitution struct {
	Match   string `toml:"match"`
	Replace string `toml:"replace"`
}

// Transformations holds the source-rewriting settings.
type Transformations struct {
	// Substitute lists regex substitutions, applied in order.
	Substitute []Substitution `toml:"substitute"`

	// Drop lists destination-relative paths to remove after
	// download: a literal path, a glob, or (with a leading '^') a
	// regular expression matched against POSIX-style relative
	// paths.
	Drop []string `toml:"drop"`
}

// LicenseConfig holds the license resolution settings.
type LicenseConfig struct {
	// Directories maps a library name to the destination
	// subdirectory its license should be placed in, for libraries
	// whose distribution name differs from the installed name.
	Directories map[string]string `toml:"directories"`

	// FallbackURLs maps a library name to a URL to fetch its
	// license from when the downloaded artifact contains none.
	FallbackURLs map[string]string `toml:"fallback-urls"`
}

// Config is the validated [tool.vendoring] configuration.
type Config struct {
	// BaseDir is the project directory holding pyproject.toml.
	// All relative paths are resolved against it.
	BaseDir string `toml:"-"`

	// Destination is the directory vendored libraries are
	// unpacked into.
	Destination string `toml:"destination"`

	// Namespace is the package imports are rewritten to originate
	// from. Empty disables import rewriting.
	Namespace string `toml:"namespace"`

	// Requirements is the pip-style requirements file pinning the
	// vendored libraries.
	Requirements string `toml:"requirements"`

	// ProtectedFiles are filenames in Destination which are never
	// removed and never treated as vendored libraries.
	ProtectedFiles []string `toml:"protected-files"`

	// PatchesDir holds .patch files applied after download.
	// Empty means no patches.
	PatchesDir string `toml:"patches-dir"`

	Transformations Transformations `toml:"transformations"`

	License LicenseConfig `toml:"license"`

	// TypingStubs overrides which .pyi stubs are generated for a
	// library, as a list of dotted import names.
	TypingStubs map[string][]string `toml:"typing-stubs"`
}

// knownConfigKeys are the keys understood under [tool.vendoring].
var knownConfigKeys = map[string]bool{
	"destination":     true,
	"namespace":       true,
	"requirements":    true,
	"protected-files": true,
	"patches-dir":     true,
	"transformations": true,
	"license":         true,
	"typing-stubs":    true,
}

// resolvePath resolves value against base. Relative paths are joined
// to base; absolute paths must already be within it.
func resolvePath(base, value, key string) (string, error) {
	if value == "" {
		return "", nil
	}
	if !filepath.IsAbs(value) {
		return filepath.Join(base, value), nil
	}
	rel, err := filepath.Rel(base, value)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ConfigError{
			Reason: fmt.Sprintf("expected %s (%s) to be within %s", key, value, base),
		}
	}
	return value, nil
}

// LoadConfig reads and validates the [tool.vendoring] section of
// pyproject.toml in dir.
func LoadConfig(dir string) (*Config, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	file := filepath.Join(base, "pyproject.toml")
	log.Debugf("loading configuration from %s", file)
	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, &ConfigError{Reason: "could not read pyproject.toml: " + err.Error()}
	}

	var doc struct {
		Tool struct {
			Vendoring Config `toml:"vendoring"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(contents, &doc); err != nil {
		return nil, &ConfigError{Reason: "could not parse pyproject.toml: " + err.Error()}
	}

	// Decode again generically, to tell a missing key from an
	// empty value and to warn about unknown keys.
	var raw map[string]any
	if err := toml.Unmarshal(contents, &raw); err != nil {
		return nil, &ConfigError{Reason: "could not parse pyproject.toml: " + err.Error()}
	}
	tool, _ := raw["tool"].(map[string]any)
	section, ok := tool["vendoring"].(map[string]any)
	if !ok {
		return nil, &ConfigError{Reason: "cannot load [tool.vendoring] from pyproject.toml"}
	}
	for _, key := range []string{"destination", "namespace", "requirements"} {
		if _, ok := section[key]; !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("expected %s to be provided", key)}
		}
	}
	var unknown []string
	for key := range section {
		if !knownConfigKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		log.Warningf("got unknown configuration keys: %s", strings.Join(unknown, ", "))
	}

	cfg := doc.Tool.Vendoring
	cfg.BaseDir = base
	if cfg.Destination, err = resolvePath(base, cfg.Destination, "destination"); err != nil {
		return nil, err
	}
	if cfg.Requirements, err = resolvePath(base, cfg.Requirements, "requirements"); err != nil {
		return nil, err
	}
	if cfg.PatchesDir, err = resolvePath(base, cfg.PatchesDir, "patches-dir"); err != nil {
		return nil, err
	}

	log.Debugf("validated configuration for %s", base)
	return &cfg, nil
}
