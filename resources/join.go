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

// Package resources decides where program resources (preferences, the patch
// history, downloaded data) live on disk.
//
// If a directory named ".rompatcher" exists in the current working directory
// then resources are kept there. This allows a portable installation that
// leaves the home directory alone. Otherwise resources live in ".rompatcher"
// in the user's home directory.
package resources

import (
	"os"
	"path/filepath"
	"strings"
)

// the directory in which all resources are stored.
const baseResourceDir = ".rompatcher"

// JoinPath prepends the supplied path with the resource base path.
//
// The function creates all folders necessary to reach the end of sub-path.
// It does not otherwise touch or create the file.
func JoinPath(path ...string) (string, error) {
	p := filepath.Join(path...)

	b, err := baseResourcePath()
	if err != nil {
		return "", err
	}

	// do not prepend base path if it is already present
	if !strings.HasPrefix(p, b) {
		p = filepath.Join(b, p)
	}

	// check if path already exists
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	// create path if necessary
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", err
	}

	return p, nil
}

// baseResourcePath returns the base directory in the current directory if it
// exists there, or in the user's home directory otherwise.
func baseResourcePath() (string, error) {
	if fi, err := os.Stat(baseResourceDir); err == nil && fi.IsDir() {
		return baseResourceDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, baseResourceDir), nil
}
