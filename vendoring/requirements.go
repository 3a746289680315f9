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
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// versionPattern matches a PEP 440 version token.
const versionPattern = `(?:[0-9]+!)?` + // epoch
	`[0-9]+(?:\.[0-9]+)*` + // release
	`(?:[-._]?(?:a|b|c|rc|alpha|beta|pre|preview)[-._]?[0-9]*)?` + // pre-release
	`(?:-[0-9]+|[-._]?(?:post|rev|r)[-._]?[0-9]*)?` + // post-release
	`(?:[-._]?dev[-._]?[0-9]*)?` + // dev release
	`(?:\+[a-z0-9]+(?:[-._][a-z0-9]+)*)?` // local version

// pinnedLine matches one requirements file line of the form
// <prefix><Name>==<Version><suffix>, where prefix and suffix are
// preserved verbatim for exact round-trip serialization.
var pinnedLine = regexp.MustCompile(`(?i)^(\s*)([A-Z][A-Z0-9._-]*)==(` + versionPattern + `)(.*)$`)

// PinnedPackage is one pinned package from a requirements file.
type PinnedPackage struct {
	Name    string
	Version string

	// Prefix and Suffix hold the verbatim text surrounding the
	// pin, so a serialized record reproduces its source line
	// byte-for-byte apart from a changed version.
	Prefix string
	Suffix string
}

// String serializes the record back to its requirements file line.
func (p *PinnedPackage) String() string {
	return p.Prefix + p.Name + "==" + p.Version + p.Suffix
}

// ParsePinnedPackages reads a requirements file, one pinned package
// per line. All unparseable lines are collected and reported together
// in a single RequirementsError.
func ParsePinnedPackages(pth string) ([]*PinnedPackage, error) {
	content, err := os.ReadFile(pth)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", pth)
	}

	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil, nil
	}

	var packages []*PinnedPackage
	var failed []FailedLine
	for i, line := range strings.Split(text, "\n") {
		m := pinnedLine.FindStringSubmatch(line)
		if m == nil {
			failed = append(failed, FailedLine{Number: i + 1, Text: line})
			continue
		}
		packages = append(packages, &PinnedPackage{
			Prefix:  m[1],
			Name:    m[2],
			Version: m[3],
			Suffix:  m[4],
		})
	}

	if len(failed) > 0 {
		return nil, &RequirementsError{Path: pth, Failed: failed}
	}
	return packages, nil
}

// WritePinnedPackages serializes the records back to pth, one line
// per package, preserving each package's original formatting.
func WritePinnedPackages(pth string, packages []*PinnedPackage) error {
	var b strings.Builder
	for _, p := range packages {
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	if err := os.WriteFile(pth, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", pth)
	}
	return nil
}
