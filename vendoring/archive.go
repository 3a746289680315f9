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
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// An Archive is a uniform view over a downloaded artifact: a list of
// member names and the ability to read a member's bytes.
type Archive interface {
	// Names returns the member names, POSIX-style.
	Names() []string

	// Read returns the content of the named member.
	Read(name string) ([]byte, error)

	// Close releases any resources held open for the archive.
	Close() error
}

// OpenArchive opens the artifact at path, choosing the format from its
// filename suffix chain: .zip and .whl are zip archives, .tar.gz is a
// gzipped tarball. Any other suffix is ErrorUnknownArchive. Magic
// bytes are never sniffed.
func OpenArchive(path string) (Archive, error) {
	name := filepath.Base(path)
	switch {
	case strings.HasSuffix(name, ".zip"), strings.HasSuffix(name, ".whl"):
		return openZipArchive(path)
	case strings.HasSuffix(name, ".gz"):
		if !strings.HasSuffix(name, ".tar.gz") {
			return nil, errors.Wrap(ErrorUnknownArchive, name)
		}
		return openTarGzArchive(path)
	}
	return nil, errors.Wrap(ErrorUnknownArchive, name)
}

type zipArchive struct {
	rc *zip.ReadCloser
}

func openZipArchive(path string) (Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return &zipArchive{rc: rc}, nil
}

func (z *zipArchive) Names() []string {
	names := make([]string, 0, len(z.rc.File))
	for _, f := range z.rc.File {
		names = append(names, f.Name)
	}
	return names
}

func (z *zipArchive) Read(name string) ([]byte, error) {
	for _, f := range z.rc.File {
		if f.Name != name {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		defer r.Close()
		return io.ReadAll(r)
	}
	return nil, errors.Errorf("no such archive member: %s", name)
}

func (z *zipArchive) Close() error {
	return z.rc.Close()
}

// tarGzArchive reads the whole tarball up front, since tar streams do
// not support random access.
type tarGzArchive struct {
	names   []string
	members map[string][]byte
}

func openTarGzArchive(path string) (Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer gz.Close()

	archive := &tarGzArchive{members: make(map[string][]byte)}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		archive.names = append(archive.names, hdr.Name)
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s from %s", hdr.Name, path)
		}
		archive.members[hdr.Name] = content
	}
	return archive, nil
}

func (t *tarGzArchive) Names() []string {
	return t.names
}

func (t *tarGzArchive) Read(name string) ([]byte, error) {
	content, ok := t.members[name]
	if !ok {
		return nil, errors.Errorf("no such archive member: %s", name)
	}
	return content, nil
}

func (t *tarGzArchive) Close() error {
	return nil
}

// dirArchive serves a plain directory tree, used for the
// orchestrator's own working tree.
type dirArchive struct {
	root  string
	names []string
}

// NewDirArchive presents the directory at root as an Archive. Member
// names are POSIX-style paths relative to root.
func NewDirArchive(root string) (Archive, error) {
	archive := &dirArchive{root: root}
	err := filepath.Walk(root, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, pth)
		if err != nil {
			return err
		}
		archive.names = append(archive.names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return archive, nil
}

func (d *dirArchive) Names() []string {
	return d.names
}

func (d *dirArchive) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.root, filepath.FromSlash(name)))
}

func (d *dirArchive) Close() error {
	return nil
}
