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

package patchloader

import (
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/smwtrolls/rompatcher/archivefs"
	"github.com/smwtrolls/rompatcher/curated"
)

// error patterns for the patchloader package.
const (
	TooLarge     = "patchloader: download too large (limit %dMB)"
	HashMismatch = "patchloader: unexpected hash value"
)

// downloads larger than this are refused.
const maxDownloadSize = 50 * 1024 * 1024

// how long to wait for a download before giving up.
const downloadTimeout = 60 * time.Second

// Loader is used to specify the patch to load. A Loader can refer to a
// local file or to an http/https URL, and to a bare .bps file or to an
// archive holding any number of them.
type Loader struct {
	// filename or URL of the patch to load
	Filename string

	// expected SHA1 hash of the loaded data. empty string indicates that
	// the hash is unknown and need not be validated. after a load operation
	// the value will be the hash of the loaded data
	//
	// in the case of an archive the hash is of the archive file itself, not
	// of the patches inside it
	Hash string

	// the patches found by the Load() function. a bare patch file produces
	// a single entry
	Patches []archivefs.Member

	// README text found alongside the patches in an archive. empty string
	// if there was none
	ReadMe string
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{Filename: filename}
}

// ShortName returns a shortened version of the Loader filename, with no
// directory components and no file extension.
func (ld Loader) ShortName() string {
	n := path.Base(ld.Filename)
	return strings.TrimSuffix(n, path.Ext(n))
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Patches) > 0
}

// Load the patch data. Loader filenames with a valid schema will use that
// method to load the data. Currently supported schemes are HTTP and local
// files.
func (ld *Loader) Load() error {
	if ld.HasLoaded() {
		return nil
	}

	scheme := "file"

	u, err := url.Parse(ld.Filename)
	if err == nil {
		scheme = u.Scheme
	}

	var data []byte

	switch scheme {
	case "http":
		fallthrough
	case "https":
		data, err = download(ld.Filename)
		if err != nil {
			return err
		}

	case "file":
		fallthrough
	case "":
		data, err = os.ReadFile(ld.Filename)
		if err != nil {
			return curated.Errorf("patchloader: %v", err)
		}

	default:
		return curated.Errorf("patchloader: %v", fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	// generate hash and check for consistency
	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf(HashMismatch)
	}
	ld.Hash = hash

	// the URL may carry a query string so the extension is taken from the
	// path component when there is one
	name := ld.Filename
	if u != nil && u.Path != "" {
		name = u.Path
	}

	if archivefs.Recognised(name) {
		con, err := archivefs.List(data, name)
		if err != nil {
			return curated.Errorf("patchloader: %v", err)
		}
		ld.Patches = con.Patches
		ld.ReadMe = con.ReadMe
		return nil
	}

	ld.Patches = []archivefs.Member{{Name: path.Base(name), Data: data}}

	return nil
}

func download(from string) ([]byte, error) {
	client := http.Client{Timeout: downloadTimeout}

	resp, err := client.Get(from)
	if err != nil {
		return nil, curated.Errorf("patchloader: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, curated.Errorf("patchloader: %v", fmt.Sprintf("download failed (%s)", resp.Status))
	}

	if resp.ContentLength > maxDownloadSize {
		return nil, curated.Errorf(TooLarge, maxDownloadSize/(1024*1024))
	}

	// the content length header cannot be relied on so the size limit is
	// also enforced on the body itself
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, curated.Errorf("patchloader: %v", err)
	}
	if len(data) > maxDownloadSize {
		return nil, curated.Errorf(TooLarge, maxDownloadSize/(1024*1024))
	}

	return data, nil
}
