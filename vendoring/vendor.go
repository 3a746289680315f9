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
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DownloadLibraries fetches every pinned artifact into the
// destination directory via pip.
func DownloadLibraries(cfg *Config) error {
	// --no-deps: dependencies must themselves be pinned, all the
	// way up the chain.
	return runCommand("", "pip", "install",
		"-t", cfg.Destination,
		"-r", cfg.Requirements,
		"--no-compile", "--no-deps")
}

// removeAll removes each path, ignoring ones which do not exist.
func removeAll(paths []string) error {
	for _, pth := range paths {
		if _, err := os.Lstat(pth); os.IsNotExist(err) {
			continue
		}
		log.Debugf("removing %s", pth)
		if err := os.RemoveAll(pth); err != nil {
			return errors.Wrapf(err, "removing %s", pth)
		}
	}
	return nil
}

// removeMatchingRegex removes every file or directory under root whose
// POSIX-style relative path matches pattern. Matched directories are
// pruned without descending further.
func removeMatchingRegex(root, pattern string) error {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return &ConfigError{Reason: "invalid drop pattern " + pattern + ": " + err.Error()}
	}
	return filepath.Walk(root, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if pth == root {
			return nil
		}
		rel, err := filepath.Rel(root, pth)
		if err != nil {
			return err
		}
		if !compiled.MatchString(filepath.ToSlash(rel)) {
			return nil
		}
		log.Debugf("removing %s", pth)
		if err := os.RemoveAll(pth); err != nil {
			return errors.Wrapf(err, "removing %s", pth)
		}
		if info.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
}

// removeDropPath removes the destination-relative paths matching one
// configured drop pattern: a regular expression when it starts with
// '^', a glob when it contains a glob metacharacter, and a literal
// path otherwise.
func removeDropPath(dest, pattern string) error {
	switch {
	case strings.HasPrefix(pattern, "^"):
		return removeMatchingRegex(dest, pattern)
	case strings.ContainsAny(pattern, "*?["):
		matches, err := filepath.Glob(filepath.Join(dest, pattern))
		if err != nil {
			return &ConfigError{Reason: "invalid drop pattern " + pattern + ": " + err.Error()}
		}
		return removeAll(matches)
	default:
		return removeAll([]string{filepath.Join(dest, pattern)})
	}
}

// RemoveUnnecessaryItems prunes build-tool metadata directories and
// the configured drop paths from the destination directory.
func RemoveUnnecessaryItems(cfg *Config) error {
	for _, metadata := range []string{"*.dist-info", "*.egg-info"} {
		matches, err := filepath.Glob(filepath.Join(cfg.Destination, metadata))
		if err != nil {
			return err
		}
		if err := removeAll(matches); err != nil {
			return err
		}
	}

	for _, pattern := range cfg.Transformations.Drop {
		if err := removeDropPath(cfg.Destination, pattern); err != nil {
			return err
		}
	}
	return nil
}

// DetectVendoredLibs returns the sorted top-level library names in
// the destination directory: every directory as-is and every .py file
// minus its extension, excluding protected files. Generated .pyi
// stubs are ignored; any other file gets a warning.
func DetectVendoredLibs(cfg *Config) ([]string, error) {
	entries, err := os.ReadDir(cfg.Destination)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", cfg.Destination)
	}

	protected := make(map[string]bool, len(cfg.ProtectedFiles))
	for _, name := range cfg.ProtectedFiles {
		protected[name] = true
	}

	var libs []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			libs = append(libs, name)
		case strings.HasSuffix(name, ".pyi"): // generated stubs
		case protected[name]:
		case strings.HasSuffix(name, ".py"):
			libs = append(libs, strings.TrimSuffix(name, ".py"))
		default:
			log.Warningf("got unexpected non-Python file: %s", name)
		}
	}
	sort.Strings(libs)
	return libs, nil
}

// ApplyPatches applies every .patch file in the configured patches
// directory with 'git apply', run from the base project directory. A
// failing patch is fatal.
func ApplyPatches(cfg *Config) error {
	if cfg.PatchesDir == "" {
		return nil
	}
	patches, err := filepath.Glob(filepath.Join(cfg.PatchesDir, "*.patch"))
	if err != nil {
		return err
	}
	sort.Strings(patches)
	for _, patch := range patches {
		if err := git(cfg.BaseDir, "apply", "--verbose", patch); err != nil {
			return err
		}
	}
	return nil
}

// VendorLibraries runs one vendoring pass: download the pinned
// artifacts, prune unnecessary files, detect the vendored library
// names, apply user patches, and rewrite imports. Patches are applied
// before import rewriting, so patch content written against the
// unrewritten source still applies.
func VendorLibraries(cfg *Config) ([]string, error) {
	if err := DownloadLibraries(cfg); err != nil {
		return nil, err
	}

	if err := RemoveUnnecessaryItems(cfg); err != nil {
		return nil, err
	}

	libs, err := DetectVendoredLibs(cfg)
	if err != nil {
		return nil, err
	}

	if err := ApplyPatches(cfg); err != nil {
		return nil, err
	}

	err = RewriteImports(cfg.Destination, cfg.Namespace, libs,
		cfg.Transformations.Substitute)
	if err != nil {
		return nil, err
	}
	return libs, nil
}
