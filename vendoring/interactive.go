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
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

const (
	cacheDirName  = ".vendoring_cache"
	markerName    = "do-not-commit.interactive.current-package"
	newsDirName   = "news"
	newsExtension = ".vendor.rst"
)

// InteractionState is the persisted state of an interactive update
// session: the requirements file contents plus a marker file naming
// the package whose update was last started, used to resume after an
// interruption.
type InteractionState struct {
	requirements string
	markerFile   string
	packages     map[string]*PinnedPackage
	order        []string
	current      string
}

// NewInteractionState reads the requirements file and, if present,
// the session marker.
func NewInteractionState(cfg *Config) (*InteractionState, error) {
	packages, err := ParsePinnedPackages(cfg.Requirements)
	if err != nil {
		return nil, err
	}

	state := &InteractionState{
		requirements: cfg.Requirements,
		markerFile:   filepath.Join(cfg.BaseDir, cacheDirName, markerName),
		packages:     make(map[string]*PinnedPackage, len(packages)),
	}
	for _, p := range packages {
		state.packages[p.Name] = p
		state.order = append(state.order, p.Name)
	}

	content, err := os.ReadFile(state.markerFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", state.markerFile)
	}
	state.current = string(content)
	return state, nil
}

// Packages returns the pinned packages in requirements file order.
func (s *InteractionState) Packages() []*PinnedPackage {
	packages := make([]*PinnedPackage, len(s.order))
	for i, name := range s.order {
		packages[i] = s.packages[name]
	}
	return packages
}

// ResumingFrom returns the package a previous session stopped at, or
// nil if there is none. A marker naming a package not present in the
// requirements file is a ResumeError.
func (s *InteractionState) ResumingFrom() (*PinnedPackage, error) {
	if s.current == "" {
		return nil, nil
	}
	p, ok := s.packages[s.current]
	if !ok {
		return nil, &ResumeError{
			Package: s.current,
			Reason:  "it is not in the requirements file",
		}
	}
	return p, nil
}

// Update records the adoption of a new version: the requirements file
// is rewritten with every other package's formatting preserved, and
// the marker file is written so an interrupted session resumes here.
func (s *InteractionState) Update(name, version string) error {
	s.packages[name].Version = version
	if err := WritePinnedPackages(s.requirements, s.Packages()); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.markerFile), 0755); err != nil {
		return errors.Wrapf(err, "writing %s", s.markerFile)
	}
	if err := os.WriteFile(s.markerFile, []byte(name), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", s.markerFile)
	}
	s.current = name
	return nil
}

// Cleanup deletes the marker file and, if now empty, its containing
// directory.
func (s *InteractionState) Cleanup() error {
	if _, err := os.Stat(s.markerFile); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(s.markerFile); err != nil {
		return errors.Wrapf(err, "removing %s", s.markerFile)
	}
	s.current = ""
	// Leave the cache directory in place if something else is in
	// it.
	os.Remove(filepath.Dir(s.markerFile))
	return nil
}

// determinePackages computes the packages to iterate over, in
// requirements file order, restricted by an explicit allow-list
// (only) or reduced by a deny-list (skip). Resume compatibility is
// validated before iteration starts.
func determinePackages(order []string, resuming *PinnedPackage, skip, only []string) ([]string, error) {
	inSkip := make(map[string]bool, len(skip))
	for _, name := range skip {
		inSkip[name] = true
	}
	inOnly := make(map[string]bool, len(only))
	for _, name := range only {
		inOnly[name] = true
	}

	if resuming != nil {
		if inSkip[resuming.Name] {
			return nil, &ResumeError{
				Package: resuming.Name,
				Reason:  "it is in the skip list",
			}
		}
		if len(only) > 0 && !inOnly[resuming.Name] {
			return nil, &ResumeError{
				Package: resuming.Name,
				Reason:  "it is not in the only list",
			}
		}
	}

	if len(only) > 0 {
		known := make(map[string]bool, len(order))
		for _, name := range order {
			known[name] = true
		}
		for _, name := range only {
			if !known[name] {
				return nil, &ConfigError{
					Reason: fmt.Sprintf("package %q is not in the requirements file", name),
				}
			}
		}
		return only, nil
	}

	if len(skip) > 0 {
		var names []string
		for _, name := range order {
			if !inSkip[name] {
				names = append(names, name)
			}
		}
		return names, nil
	}

	return order, nil
}

// isNewer reports whether latest is a newer version than current.
// When either does not parse as a version, any difference counts as
// newer.
func isNewer(latest, current string) bool {
	lv, lerr := semver.NewVersion(latest)
	cv, cerr := semver.NewVersion(current)
	if lerr != nil || cerr != nil {
		log.Debugf("comparing %s and %s textually", latest, current)
		return latest != current
	}
	return lv.GreaterThan(cv)
}

// An Updater drives interactive per-package updates, re-running a
// full vendoring pass after each version bump and committing the
// result.
type Updater struct {
	Config *Config

	// Releases finds the latest published version of a package.
	Releases ReleaseSource

	// Sync runs one full vendoring pass.
	Sync func(*Config) ([]string, error)

	// Git runs a git command in the given directory.
	Git func(workdir string, args ...string) error
}

// NewUpdater returns an Updater wired to PyPI, RunSync and git.
func NewUpdater(cfg *Config) *Updater {
	return &Updater{
		Config:   cfg,
		Releases: &PyPI{},
		Sync:     RunSync,
		Git:      git,
	}
}

// updateOne re-vendors everything for one bumped package, writes its
// change-log fragment and commits the requirements change together
// with the fragment.
func (u *Updater) updateOne(name, version string) error {
	if _, err := u.Sync(u.Config); err != nil {
		return err
	}

	message := fmt.Sprintf("Upgrade %s to %s", name, version)
	newsDir := filepath.Join(u.Config.BaseDir, newsDirName)
	if err := os.MkdirAll(newsDir, 0755); err != nil {
		return errors.Wrap(err, "writing news fragment")
	}
	newsFile := filepath.Join(newsDir, name+newsExtension)
	if err := os.WriteFile(newsFile, []byte(message+"\n"), 0644); err != nil {
		return errors.Wrap(err, "writing news fragment")
	}

	if err := u.Git(u.Config.BaseDir, "add", newsFile, u.Config.Requirements); err != nil {
		return err
	}
	return u.Git(u.Config.BaseDir, "commit", "-m", message)
}

// Run iterates over the pinned packages in requirements file order,
// bumping each one that has a newer published version. Any failure
// aborts immediately, leaving the marker pointing at the last package
// whose update was started, so the next invocation resumes there.
func (u *Updater) Run(skip, only []string, fromStart bool) error {
	state, err := NewInteractionState(u.Config)
	if err != nil {
		return err
	}

	if fromStart {
		if err := state.Cleanup(); err != nil {
			return err
		}
	}

	resuming, err := state.ResumingFrom()
	if err != nil {
		return err
	}
	names, err := determinePackages(state.order, resuming, skip, only)
	if err != nil {
		return err
	}

	if resuming != nil {
		log.Infof("resuming from %s==%s", resuming.Name, resuming.Version)
		if err := u.updateOne(resuming.Name, resuming.Version); err != nil {
			return err
		}
	}
	log.Infof("processing %d package(s)", len(names))

	for _, name := range names {
		p := state.packages[name]
		latest, err := u.Releases.LatestRelease(p.Name)
		if err != nil {
			return err
		}
		if !isNewer(latest, p.Version) {
			log.Infof("%s: already up-to-date", p.Name)
			continue
		}

		log.Infof("%s: %s -> %s", p.Name, p.Version, latest)
		if err := state.Update(p.Name, latest); err != nil {
			return err
		}
		if err := u.updateOne(p.Name, latest); err != nil {
			return err
		}
	}

	log.Infof("all done, removing marker file")
	return state.Cleanup()
}
