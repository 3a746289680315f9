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

// Package vendoring copies pinned third-party Python libraries into a
// consuming project's own source tree, rewriting their imports to live
// under a private namespace.
//
// Configuration comes from the [tool.vendoring] section of the
// project's pyproject.toml, loaded with LoadConfig. A full vendoring
// pass is one call to RunSync:
//
//	cfg, err := vendoring.LoadConfig(".")
//	libs, err := vendoring.RunSync(cfg)
//
// RunSync cleans the destination directory, downloads the libraries
// pinned in the requirements file, prunes metadata and configured drop
// paths, applies user patches, rewrites imports to the configured
// namespace, extracts a license file for every library and generates
// .pyi typing stubs.
//
// An Updater bumps each pinned package to its latest published
// release, re-running a full pass and committing after every bump,
// with progress persisted so an interrupted run resumes where it
// stopped.
package vendoring
