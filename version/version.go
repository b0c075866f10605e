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

package version

import (
	"fmt"
	"runtime/debug"
)

// The name to use when referring to the application
const ApplicationName = "RomPatcher"

// if number is empty then the project was probably not built using the makefile
var number string

// Version is the version string for the current build.
//
// If the version string is "unreleased" then the project has been built by
// hand from a checkout. If it is "local" then there is no version number and
// no vcs information at all, which can happen with "go run ."
var Version string

// Revision contains the vcs revision. If the source has been modified but
// not committed the string is suffixed with "+dirty"
var Revision string

func init() {
	var vcs bool
	var vcsRevision string
	var vcsModified bool

	info, ok := debug.ReadBuildInfo()
	if ok {
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				vcsRevision = v.Value
			case "vcs.modified":
				vcsModified = v.Value == "true"
			}
		}
	}

	if vcsRevision == "" {
		Revision = "no revision information"
	} else {
		Revision = vcsRevision
		if vcsModified {
			Revision = fmt.Sprintf("%s+dirty", Revision)
		}
	}

	if number == "" {
		if vcs {
			Version = "unreleased"
		} else {
			Version = "local"
		}
	} else {
		Version = number
	}
}
