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
	"testing"
)

func TestGenerateStubsDefault(t *testing.T) {
	dest := t.TempDir()
	cfg := &Config{Destination: dest}

	if err := GenerateStubs(cfg, []string{"six"}); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(dest, "six.pyi"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "from six import *" {
		t.Errorf("got %q", content)
	}
}

func TestGenerateStubsOverrides(t *testing.T) {
	dest := t.TempDir()
	cfg := &Config{
		Destination: dest,
		TypingStubs: map[string][]string{
			"pkg_resources": {
				"pkg_resources.__init__",
				"pkg_resources.py31compat",
			},
		},
	}

	if err := GenerateStubs(cfg, []string{"pkg_resources"}); err != nil {
		t.Fatal(err)
	}

	init, err := os.ReadFile(filepath.Join(dest, "pkg_resources", "__init__.pyi"))
	if err != nil {
		t.Fatal(err)
	}
	// An __init__ stub imports from the package, not pkg.__init__.
	if string(init) != "from pkg_resources import *" {
		t.Errorf("__init__.pyi: got %q", init)
	}

	compat, err := os.ReadFile(filepath.Join(dest, "pkg_resources", "py31compat.pyi"))
	if err != nil {
		t.Fatal(err)
	}
	if string(compat) != "from pkg_resources.py31compat import *" {
		t.Errorf("py31compat.pyi: got %q", compat)
	}
}
