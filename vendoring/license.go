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
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// libraryName reconstructs the library name from the name of an
// artifact containing it, by taking the hyphen-separated segments
// before the first segment starting with a digit (version segments
// always start with a digit).
func libraryName(artifactName string) string {
	var parts []string
	for _, part := range strings.Split(artifactName, "-") {
		if part != "" && unicode.IsDigit(rune(part[0])) {
			break
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "-")
}

// findLicenses returns the archive members which look like license
// files. Members under a /test path are skipped; some packages ship
// testing licenses there.
func findLicenses(names []string) []string {
	var found []string
	for _, name := range names {
		if !strings.Contains(name, "LICENSE") && !strings.Contains(name, "COPYING") {
			continue
		}
		if strings.Contains(name, "/test") {
			log.Debugf("ignoring %s", name)
			continue
		}
		found = append(found, name)
	}
	return found
}

// LicenseExtractor locates license files in downloaded artifacts and
// places them at a deterministic destination per library.
type LicenseExtractor struct {
	// Destination is the vendoring destination directory.
	Destination string

	// Directories maps library names to alternate destination
	// subdirectory names.
	Directories map[string]string

	// FallbackURLs maps library names to URLs used when an
	// artifact contains no license at all.
	FallbackURLs map[string]string

	// Client performs fallback downloads; nil means
	// http.DefaultClient.
	Client *http.Client
}

// destination resolves where the license file for library should be
// written. An existing directory named exactly for the library wins,
// then a lowercase-named directory, then an explicit override; with
// none of those the file is placed flat as <library>.<filename>.
func (e *LicenseExtractor) destination(library, filename string) string {
	if normal := filepath.Join(e.Destination, library); isDir(normal) {
		return filepath.Join(normal, filename)
	}
	if lowercase := filepath.Join(e.Destination, strings.ToLower(library)); isDir(lowercase) {
		return filepath.Join(lowercase, filename)
	}
	if dir, ok := e.Directories[library]; ok {
		return filepath.Join(e.Destination, dir, filename)
	}
	return filepath.Join(e.Destination, library+"."+filename)
}

func isDir(pth string) bool {
	info, err := os.Stat(pth)
	return err == nil && info.IsDir()
}

func (e *LicenseExtractor) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}

// downloadFromURL fetches url and writes the body to dest.
func (e *LicenseExtractor) downloadFromURL(url, dest string) error {
	log.Infof("downloading %s", url)
	resp, err := e.client().Get(url)
	if err != nil {
		return errors.Wrapf(err, "downloading %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return errors.Errorf("downloading %s: %s", url, resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "downloading %s", url)
	}
	return os.WriteFile(dest, content, 0644)
}

// useFallback fetches the configured license URL for the library the
// artifact contains. Absence of a configured URL is fatal: a vendored
// library must not be left without a license.
func (e *LicenseExtractor) useFallback(artifactName string) error {
	library := libraryName(artifactName)
	url, ok := e.FallbackURLs[library]
	if !ok {
		return &NoLicenseError{Library: library, Artifact: artifactName}
	}

	filename := url[strings.LastIndex(url, "/")+1:]
	dest := e.destination(library, filename)
	return e.downloadFromURL(url, dest)
}

// extractMember writes one license member of an archive to its
// resolved destination.
func (e *LicenseExtractor) extractMember(artifactName string, archive Archive, member string) error {
	library := libraryName(artifactName)
	filename := path.Base(member)
	dest := e.destination(library, filename)

	log.Infof("extracting %s into %s", filename, dest)
	content, err := archive.Read(member)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, content, 0644)
}

// ExtractFromArtifact finds every license file in the artifact and
// writes each one out, falling back to a configured URL when the
// artifact contains none.
func (e *LicenseExtractor) ExtractFromArtifact(artifact string) error {
	var archive Archive
	var err error
	if isDir(artifact) {
		// pip can leave an unpacked tree next to the archives
		// it downloads.
		archive, err = NewDirArchive(artifact)
	} else {
		archive, err = OpenArchive(artifact)
	}
	if err != nil {
		return err
	}
	defer archive.Close()

	name := filepath.Base(artifact)
	licenses := findLicenses(archive.Names())
	for _, member := range licenses {
		if err := e.extractMember(name, archive, member); err != nil {
			return err
		}
	}

	if len(licenses) == 0 {
		log.Infof("no license found in %s, using fallback", name)
		return e.useFallback(name)
	}
	return nil
}

// FetchLicenses downloads the pinned source artifacts into a temporary
// directory and extracts a license for each vendored library.
func FetchLicenses(cfg *Config) error {
	tmp := filepath.Join(os.TempDir(), "vendoring-downloads")
	defer os.RemoveAll(tmp)

	err := runCommand("", "pip", "download",
		"-r", cfg.Requirements, "--no-deps", "--dest", tmp)
	if err != nil {
		return err
	}

	extractor := &LicenseExtractor{
		Destination:  cfg.Destination,
		Directories:  cfg.License.Directories,
		FallbackURLs: cfg.License.FallbackURLs,
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		return errors.Wrapf(err, "reading %s", tmp)
	}
	for _, entry := range entries {
		if err := extractor.ExtractFromArtifact(filepath.Join(tmp, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
