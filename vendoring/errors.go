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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorUnknownArchive indicates an artifact whose filename suffix does
// not correspond to any supported archive format.
var ErrorUnknownArchive = errors.New("unknown archive type")

// ConfigError indicates a malformed or missing configuration value.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// FailedLine records a requirements file line which could not be
// parsed as a pinned package.
type FailedLine struct {
	// Number is the 1-based line number.
	Number int

	// Text is the verbatim line content.
	Text string
}

// RequirementsError reports every unparseable line of a requirements
// file in one batch.
type RequirementsError struct {
	Path   string
	Failed []FailedLine
}

func (e *RequirementsError) Error() string {
	nums := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		nums[i] = strconv.Itoa(f.Number)
	}
	return fmt.Sprintf("%s: unparseable pinned package on line(s) %s",
		e.Path, strings.Join(nums, ", "))
}

// UnrewritableImportError indicates a dotted import with no alias,
// which cannot be moved into a namespace without changing the name it
// binds. The operator must supply a source patch instead.
type UnrewritableImportError struct {
	File string

	// Line is 1-based.
	Line int

	Statement string
}

func (e *UnrewritableImportError) Error() string {
	return fmt.Sprintf(
		"%s:%d: cannot rewrite %q: a dotted import without an alias cannot be namespaced; provide a patch for this file instead",
		e.File, e.Line, e.Statement)
}

// NoLicenseError indicates an artifact containing no license file, for
// a library with no configured fallback URL.
type NoLicenseError struct {
	Library  string
	Artifact string
}

func (e *NoLicenseError) Error() string {
	return fmt.Sprintf("no license found in %s and no fallback URL configured for %s",
		e.Artifact, e.Library)
}

// CommandError indicates an external command exiting with a non-zero
// status.
type CommandError struct {
	Cmd      string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Cmd, e.ExitCode)
}

// ResumeError indicates a stale interactive-session marker naming a
// package which is no longer usable for resumption.
type ResumeError struct {
	Package string
	Reason  string
}

func (e *ResumeError) Error() string {
	return fmt.Sprintf("cannot resume from %q: %s; run with --from-start to reset the state",
		e.Package, e.Reason)
}
