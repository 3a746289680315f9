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

// Import statements are relocated with line-anchored pattern
// substitution, not syntactic rewriting. The patterns are anchored to
// the start of the physical line so that indented text inside string
// literals is left alone, and the library name is always followed by
// a non-word character so that a library named "six" never matches
// "sixty".

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// libRewriter holds the compiled import patterns for one vendored
// library under one namespace.
type libRewriter struct {
	namespace string
	lib       string

	// import <lib>, optionally with a trailing comment
	plain *regexp.Regexp

	// import <lib>.<rest> as <alias>
	aliasedSub *regexp.Regexp

	// import <lib>.<rest> with no alias: unrewritable
	dottedSub *regexp.Regexp

	// from <lib> import ... / from <lib>.<sub> import ...
	from *regexp.Regexp
}

func newLibRewriter(namespace, lib string) *libRewriter {
	q := regexp.QuoteMeta(lib)
	return &libRewriter{
		namespace:  namespace,
		lib:        lib,
		plain:      regexp.MustCompile(`^import (` + q + `)([ \t]*(?:#.*)?)$`),
		aliasedSub: regexp.MustCompile(`^import (` + q + `)(\.[A-Za-z0-9_.]+)([ \t]+as[ \t].*)$`),
		dottedSub:  regexp.MustCompile(`^import ` + q + `\.`),
		from:       regexp.MustCompile(`^from (` + q + `)(\.|[ \t])`),
	}
}

// rewriteLine transforms a single physical line. The second return
// value reports the unrewritable dotted-import-without-alias form,
// which the caller must turn into a fatal error.
func (r *libRewriter) rewriteLine(line string) (string, bool) {
	if r.aliasedSub.MatchString(line) {
		return r.aliasedSub.ReplaceAllString(line,
			"import "+r.namespace+".${1}${2}${3}"), false
	}
	if r.dottedSub.MatchString(line) {
		// There is no way to prefix a dotted import with a
		// namespace while preserving the name it binds.
		return line, true
	}
	if r.plain.MatchString(line) {
		return r.plain.ReplaceAllString(line,
			"from "+r.namespace+" import ${1}${2}"), false
	}
	if r.from.MatchString(line) {
		return r.from.ReplaceAllString(line,
			"from "+r.namespace+".${1}${2}"), false
	}
	return line, false
}

// Rewriter rewrites import statements in vendored source files so
// that references to the vendored libraries resolve through the
// configured namespace.
type Rewriter struct {
	namespace     string
	libs          []*libRewriter
	substitutions []substitution
}

type substitution struct {
	pattern *regexp.Regexp
	replace string
}

// NewRewriter compiles the rewrite rules for the given namespace,
// vendored library names and user-supplied substitutions. An invalid
// substitution pattern is a ConfigError.
func NewRewriter(namespace string, libs []string, subs []Substitution) (*Rewriter, error) {
	r := &Rewriter{namespace: namespace}
	for _, sub := range subs {
		pattern, err := regexp.Compile(sub.Match)
		if err != nil {
			return nil, &ConfigError{
				Reason: "invalid substitution pattern " + sub.Match + ": " + err.Error(),
			}
		}
		r.substitutions = append(r.substitutions, substitution{pattern, sub.Replace})
	}
	if namespace != "" {
		for _, lib := range libs {
			r.libs = append(r.libs, newLibRewriter(namespace, lib))
		}
	}
	return r, nil
}

// RewriteText transforms source text. The returned error is an
// UnrewritableImportError carrying file and the offending 1-based line
// number when a dotted import with no alias is found.
func (r *Rewriter) RewriteText(file, text string) (string, error) {
	for _, sub := range r.substitutions {
		text = sub.pattern.ReplaceAllString(text, sub.replace)
	}

	// An empty namespace is an explicit opt-out of import
	// rewriting.
	if r.namespace == "" {
		return text, nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, lib := range r.libs {
			rewritten, unrewritable := lib.rewriteLine(line)
			if unrewritable {
				return "", &UnrewritableImportError{
					File:      file,
					Line:      i + 1,
					Statement: strings.TrimSpace(line),
				}
			}
			line = rewritten
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n"), nil
}

// RewriteFile transforms one file in place, treating its content as
// raw text with no re-encoding.
func (r *Rewriter) RewriteFile(pth string) error {
	content, err := os.ReadFile(pth)
	if err != nil {
		return errors.Wrapf(err, "rewriting %s", pth)
	}
	text, err := r.RewriteText(pth, string(content))
	if err != nil {
		return err
	}
	info, err := os.Stat(pth)
	if err != nil {
		return errors.Wrapf(err, "rewriting %s", pth)
	}
	return os.WriteFile(pth, []byte(text), info.Mode().Perm())
}

// RewriteImports rewrites every .py file under dir, recursing into
// subdirectories. The whole pass stops at the first unrewritable
// import: a partially rewritten tree must not be left in place
// silently.
func RewriteImports(dir, namespace string, libs []string, subs []Substitution) error {
	rewriter, err := NewRewriter(namespace, libs, subs)
	if err != nil {
		return err
	}
	return filepath.Walk(dir, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || !strings.HasSuffix(pth, ".py") {
			return nil
		}
		return rewriter.RewriteFile(pth)
	})
}
