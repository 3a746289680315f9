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
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPyPILatestRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/six/json" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(`{"info": {"version": "1.17.0"}}`))
		}))
	defer server.Close()

	index := &PyPI{BaseURL: server.URL}
	version, err := index.LatestRelease("six")
	if err != nil {
		t.Fatal(err)
	}
	if version != "1.17.0" {
		t.Errorf("got %q, expected 1.17.0", version)
	}
}

func TestPyPILatestReleaseNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	index := &PyPI{BaseURL: server.URL}
	if _, err := index.LatestRelease("no-such-package"); err == nil {
		t.Fatal("expected error for missing package")
	}
}

func TestIsNewer(t *testing.T) {
	cases := []struct {
		latest, current string
		expected        bool
	}{
		{"1.17.0", "1.16.0", true},
		{"1.16.0", "1.16.0", false},
		{"1.15.0", "1.16.0", false},
		{"2.0", "1.9.9", true},
		// Unparseable versions fall back to textual comparison.
		{"4.4.0rc1", "4.4.0rc1", false},
		{"4.4.0rc2", "4.4.0rc1", true},
	}
	for _, c := range cases {
		if got := isNewer(c.latest, c.current); got != c.expected {
			t.Errorf("isNewer(%q, %q): got %t", c.latest, c.current, got)
		}
	}
}
