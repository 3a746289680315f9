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
	"reflect"
	"strings"
	"testing"
)

// fakeReleases is a ReleaseSource serving canned versions and
// recording how often it was queried.
type fakeReleases struct {
	versions map[string]string
	calls    int
}

func (f *fakeReleases) LatestRelease(name string) (string, error) {
	f.calls++
	return f.versions[name], nil
}

// gitCall records one fake git invocation.
type gitCall []string

func updaterConfig(t *testing.T, requirements string) *Config {
	t.Helper()
	base := t.TempDir()
	pth := filepath.Join(base, "vendor.txt")
	if err := os.WriteFile(pth, []byte(requirements), 0644); err != nil {
		t.Fatal(err)
	}
	return &Config{BaseDir: base, Requirements: pth}
}

func newTestUpdater(cfg *Config, releases *fakeReleases) (*Updater, *[]gitCall, *int) {
	var gitCalls []gitCall
	syncs := 0
	updater := &Updater{
		Config:   cfg,
		Releases: releases,
		Sync: func(*Config) ([]string, error) {
			syncs++
			return nil, nil
		},
		Git: func(workdir string, args ...string) error {
			gitCalls = append(gitCalls, gitCall(args))
			return nil
		},
	}
	return updater, &gitCalls, &syncs
}

func TestDeterminePackages(t *testing.T) {
	order := []string{"six", "requests", "urllib3"}

	got, err := determinePackages(order, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, order) {
		t.Errorf("full: got %v", got)
	}

	got, err = determinePackages(order, nil, []string{"requests"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"six", "urllib3"}) {
		t.Errorf("skip: got %v", got)
	}

	got, err = determinePackages(order, nil, nil, []string{"urllib3"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"urllib3"}) {
		t.Errorf("only: got %v", got)
	}

	_, err = determinePackages(order, nil, nil, []string{"flask"})
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("unknown only: got %T: %v", err, err)
	}
}

func TestDeterminePackagesResumeValidation(t *testing.T) {
	order := []string{"six", "requests"}
	resuming := &PinnedPackage{Name: "six", Version: "1.16.0"}

	_, err := determinePackages(order, resuming, []string{"six"}, nil)
	if _, ok := err.(*ResumeError); !ok {
		t.Errorf("resumed package in skip list: got %T: %v", err, err)
	}

	_, err = determinePackages(order, resuming, nil, []string{"requests"})
	if _, ok := err.(*ResumeError); !ok {
		t.Errorf("resumed package not in only list: got %T: %v", err, err)
	}
}

func TestResumeMarkerNotInRequirements(t *testing.T) {
	cfg := updaterConfig(t, "six==1.16.0\n")

	// A stale marker names a package which has since been removed
	// from the requirements file.
	cacheDir := filepath.Join(cfg.BaseDir, cacheDirName)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(cacheDir, markerName)
	if err := os.WriteFile(marker, []byte("flask"), 0644); err != nil {
		t.Fatal(err)
	}

	releases := &fakeReleases{versions: map[string]string{"six": "1.17.0"}}
	updater, gitCalls, syncs := newTestUpdater(cfg, releases)

	err := updater.Run(nil, nil, false)
	if _, ok := err.(*ResumeError); !ok {
		t.Fatalf("expected ResumeError, got %T: %v", err, err)
	}

	// The failure must happen before any network call or file
	// mutation.
	if releases.calls != 0 {
		t.Errorf("release source queried %d time(s)", releases.calls)
	}
	if len(*gitCalls) != 0 || *syncs != 0 {
		t.Errorf("side effects before resume validation: %v, %d syncs",
			*gitCalls, *syncs)
	}
	content, err := os.ReadFile(cfg.Requirements)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "six==1.16.0\n" {
		t.Errorf("requirements mutated: %q", content)
	}
}

func TestUpdaterRun(t *testing.T) {
	cfg := updaterConfig(t, "six==1.16.0\nrequests==2.28.1\n")
	releases := &fakeReleases{versions: map[string]string{
		"six":      "1.17.0",
		"requests": "2.28.1", // already up-to-date
	}}
	updater, gitCalls, syncs := newTestUpdater(cfg, releases)

	if err := updater.Run(nil, nil, false); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(cfg.Requirements)
	if err != nil {
		t.Fatal(err)
	}
	expected := "six==1.17.0\nrequests==2.28.1\n"
	if string(content) != expected {
		t.Errorf("requirements: got %q, expected %q", content, expected)
	}

	news, err := os.ReadFile(filepath.Join(cfg.BaseDir, "news", "six.vendor.rst"))
	if err != nil {
		t.Fatal(err)
	}
	if string(news) != "Upgrade six to 1.17.0\n" {
		t.Errorf("news fragment: got %q", news)
	}

	// One sync for the one bumped package, then add + commit.
	if *syncs != 1 {
		t.Errorf("syncs: got %d, expected 1", *syncs)
	}
	if len(*gitCalls) != 2 {
		t.Fatalf("git calls: got %v", *gitCalls)
	}
	if (*gitCalls)[0][0] != "add" {
		t.Errorf("first git call: got %v", (*gitCalls)[0])
	}
	commit := (*gitCalls)[1]
	if commit[0] != "commit" || commit[2] != "Upgrade six to 1.17.0" {
		t.Errorf("commit call: got %v", commit)
	}

	// The marker is gone after a successful full pass.
	marker := filepath.Join(cfg.BaseDir, cacheDirName, markerName)
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Errorf("marker still present: %v", err)
	}
}

func TestUpdaterRunResume(t *testing.T) {
	cfg := updaterConfig(t, "six==1.17.0\nrequests==2.28.1\n")

	cacheDir := filepath.Join(cfg.BaseDir, cacheDirName)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(cacheDir, markerName)
	if err := os.WriteFile(marker, []byte("six"), 0644); err != nil {
		t.Fatal(err)
	}

	releases := &fakeReleases{versions: map[string]string{
		"six":      "1.17.0",
		"requests": "2.28.1",
	}}
	updater, _, syncs := newTestUpdater(cfg, releases)

	if err := updater.Run(nil, nil, false); err != nil {
		t.Fatal(err)
	}

	// The resumed package is re-processed first; everything else
	// was already up-to-date.
	if *syncs != 1 {
		t.Errorf("syncs: got %d, expected 1", *syncs)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Errorf("marker still present: %v", err)
	}
}

func TestUpdaterRunFromStart(t *testing.T) {
	cfg := updaterConfig(t, "six==1.17.0\n")

	cacheDir := filepath.Join(cfg.BaseDir, cacheDirName)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(cacheDir, markerName)
	// The marker is stale, but --from-start discards it before it
	// can fail resumption.
	if err := os.WriteFile(marker, []byte("flask"), 0644); err != nil {
		t.Fatal(err)
	}

	releases := &fakeReleases{versions: map[string]string{"six": "1.17.0"}}
	updater, _, _ := newTestUpdater(cfg, releases)

	if err := updater.Run(nil, nil, true); err != nil {
		t.Fatal(err)
	}
}

func TestInteractionStateUpdate(t *testing.T) {
	cfg := updaterConfig(t, "six==1.16.0\nrequests==2.28.1  # pinned\n")
	state, err := NewInteractionState(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if err := state.Update("six", "1.17.0"); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(cfg.Requirements)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "six==1.17.0\n") {
		t.Errorf("requirements: got %q", content)
	}
	if !strings.Contains(string(content), "requests==2.28.1  # pinned\n") {
		t.Errorf("other package formatting lost: %q", content)
	}

	marker := filepath.Join(cfg.BaseDir, cacheDirName, markerName)
	name, err := os.ReadFile(marker)
	if err != nil {
		t.Fatal(err)
	}
	if string(name) != "six" {
		t.Errorf("marker: got %q", name)
	}

	if err := state.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cfg.BaseDir, cacheDirName)); !os.IsNotExist(err) {
		t.Errorf("cache directory still present: %v", err)
	}
}
