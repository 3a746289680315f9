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
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// ReleaseSource is the interface that wraps the LatestRelease method.
type ReleaseSource interface {
	// LatestRelease returns the latest published version of the
	// named package.
	LatestRelease(name string) (string, error)
}

// PyPI queries the JSON API of a Python package index.
type PyPI struct {
	// BaseURL overrides the package index URL; empty means
	// https://pypi.org/pypi.
	BaseURL string

	// Client performs the requests; nil means http.DefaultClient.
	Client *http.Client
}

// LatestRelease implements the ReleaseSource interface for PyPI.
func (p *PyPI) LatestRelease(name string) (string, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://pypi.org/pypi"
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := base + "/" + name + "/json"
	log.Infof("determining latest version for %s", name)
	resp, err := client.Get(url)
	if err != nil {
		return "", errors.Wrapf(err, "could not determine latest version for %s", name)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("could not determine latest version for %s: %s",
			name, resp.Status)
	}

	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", errors.Wrapf(err, "could not determine latest version for %s", name)
	}

	log.Infof("got %s", doc.Info.Version)
	return doc.Info.Version, nil
}
