// This file is part of RomPatcher.
//
// RomPatcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RomPatcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RomPatcher.  If not, see <https://www.gnu.org/licenses/>.

// Package archivefs looks inside archive files for patch data. Patches are
// frequently distributed as zip or 7z archives containing one or more .bps
// files alongside a README describing the hack. List() collects all of them
// in one pass without extracting anything to disk.
package archivefs

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/smwtrolls/rompatcher/curated"
)

// error patterns for the archivefs package.
const (
	NotAnArchive = "archivefs: not a supported archive (%s)"
	NoPatchFiles = "archivefs: no patch files in archive (%s)"
)

// list of file extensions for the supported archive types.
var ArchiveExtensions = [...]string{".ZIP", ".7Z"}

// Recognised returns true if the filename carries the extension of a
// supported archive type.
func Recognised(filename string) bool {
	ext := strings.ToUpper(filepath.Ext(filename))
	for _, e := range ArchiveExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Member is a single patch file found inside an archive.
type Member struct {
	// Name is the base name of the file inside the archive, with no
	// directory components
	Name string

	Data []byte
}

// Contents is everything of interest found inside an archive.
type Contents struct {
	Patches []Member

	// the text of the first README found in the archive, or the empty
	// string
	ReadMe string
}

// List the patch files and README inside the archive. The archive is
// supplied as a byte slice; the filename is only used to decide the archive
// type from its extension.
//
// Failing to find any patch file is an error. A missing README is not.
func List(data []byte, filename string) (Contents, error) {
	var con Contents
	var err error

	switch strings.ToUpper(filepath.Ext(filename)) {
	case ".ZIP":
		con, err = listZip(data)
	case ".7Z":
		con, err = listSevenZip(data)
	default:
		return Contents{}, curated.Errorf(NotAnArchive, filename)
	}

	if err != nil {
		return Contents{}, err
	}

	if len(con.Patches) == 0 {
		return Contents{}, curated.Errorf(NoPatchFiles, filepath.Base(filename))
	}

	return con, nil
}

func listZip(data []byte) (Contents, error) {
	zf, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Contents{}, curated.Errorf("archivefs: %v", err)
	}

	var con Contents

	for _, f := range zf.File {
		if f.FileInfo().IsDir() {
			continue
		}

		open := func() (io.ReadCloser, error) { return f.Open() }
		if err := con.gather(f.Name, open); err != nil {
			return Contents{}, err
		}
	}

	return con, nil
}

func listSevenZip(data []byte) (Contents, error) {
	zf, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Contents{}, curated.Errorf("archivefs: %v", err)
	}

	var con Contents

	for _, f := range zf.File {
		if f.FileInfo().IsDir() {
			continue
		}

		open := func() (io.ReadCloser, error) { return f.Open() }
		if err := con.gather(f.Name, open); err != nil {
			return Contents{}, err
		}
	}

	return con, nil
}

// gather examines one archive member name and, if it is of interest, reads
// the data through the supplied open function.
func (con *Contents) gather(name string, open func() (io.ReadCloser, error)) error {
	base := filepath.Base(name)
	lower := strings.ToLower(base)

	switch {
	case strings.HasSuffix(lower, ".bps"):
		data, err := readMember(open)
		if err != nil {
			return err
		}
		con.Patches = append(con.Patches, Member{Name: base, Data: data})

	case con.ReadMe == "" && isReadMe(lower):
		data, err := readMember(open)
		if err != nil {
			return err
		}
		con.ReadMe = string(data)
	}

	return nil
}

func readMember(open func() (io.ReadCloser, error)) ([]byte, error) {
	r, err := open()
	if err != nil {
		return nil, curated.Errorf("archivefs: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, curated.Errorf("archivefs: %v", err)
	}

	return data, nil
}

func isReadMe(lower string) bool {
	switch lower {
	case "readme", "readme.txt", "readme.md", "readme.txt.txt":
		return true
	}

	if !strings.HasPrefix(lower, "readme") {
		return false
	}

	switch filepath.Ext(lower) {
	case ".txt", ".md", ".text":
		return true
	}

	return false
}
