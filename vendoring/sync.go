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

// RunSync performs one complete vendoring pass: clean out the
// previously vendored libraries, vendor the pinned ones, fetch their
// licenses and generate typing stubs. It returns the detected
// vendored library names.
func RunSync(cfg *Config) ([]string, error) {
	log.Infof("cleaning existing libraries")
	if err := CleanupExisting(cfg); err != nil {
		return nil, err
	}

	log.Infof("adding vendored libraries")
	libs, err := VendorLibraries(cfg)
	if err != nil {
		return nil, err
	}

	log.Infof("fetching licenses")
	if err := FetchLicenses(cfg); err != nil {
		return nil, err
	}

	log.Infof("generating static-typing stubs")
	if err := GenerateStubs(cfg, libs); err != nil {
		return nil, err
	}
	return libs, nil
}
