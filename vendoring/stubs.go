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

// .pyi stub files are generated for every vendored library. A bare
// "from <name> import *" is enough for type checkers to find the real
// declarations.

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// stubFile pairs a destination-relative stub path with the dotted
// name it should re-export.
type stubFile struct {
	rel        string
	importName string
}

// stubFiles returns the stub files to generate for a library. With no
// override a single <lib>.pyi is enough; an override lists the dotted
// import names to generate stubs for.
func stubFiles(lib string, overrides map[string][]string) []stubFile {
	names, ok := overrides[lib]
	if !ok {
		return []stubFile{{rel: lib + ".pyi", importName: lib}}
	}

	stubs := make([]stubFile, 0, len(names))
	for _, importName := range names {
		rel := strings.ReplaceAll(importName, ".", string(os.PathSeparator)) + ".pyi"

		// An __init__.pyi stub must not import from
		// "pkg.__init__".
		importName = strings.TrimSuffix(importName, ".__init__")
		stubs = append(stubs, stubFile{rel: rel, importName: importName})
	}
	return stubs
}

// writeStub writes one stub file, creating its parent directory on
// demand.
func writeStub(dest, importName string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, "writing %s", dest)
	}
	content := "from " + importName + " import *"
	if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", dest)
	}
	return nil
}

// GenerateStubs writes the typing stub files for every vendored
// library into the destination directory.
func GenerateStubs(cfg *Config, libs []string) error {
	for _, lib := range libs {
		for _, stub := range stubFiles(lib, cfg.TypingStubs) {
			dest := filepath.Join(cfg.Destination, stub.rel)
			if err := writeStub(dest, stub.importName); err != nil {
				return err
			}
		}
	}
	return nil
}
