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

	"github.com/pkg/errors"
)

// CleanupExisting removes previously vendored content from the
// destination directory: every directory, and every file not in the
// protected list. A missing destination is a no-op.
func CleanupExisting(cfg *Config) error {
	entries, err := os.ReadDir(cfg.Destination)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "reading %s", cfg.Destination)
	}

	protected := make(map[string]bool, len(cfg.ProtectedFiles))
	for _, name := range cfg.ProtectedFiles {
		protected[name] = true
	}

	var doomed []string
	for _, entry := range entries {
		if !entry.IsDir() && protected[entry.Name()] {
			continue
		}
		doomed = append(doomed, filepath.Join(cfg.Destination, entry.Name()))
	}
	return removeAll(doomed)
}
