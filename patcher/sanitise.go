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

package patcher

import "strings"

// names longer than this are truncated.
const maxNameLength = 100

// the name used when sanitising leaves nothing.
const fallbackName = "level"

// Sanitise a name received from outside (an HTTP request, an archive
// member) so that it is safe to use as a filename. Anything that could
// navigate the filesystem is removed rather than escaped.
func Sanitise(name string) string {
	s := strings.Builder{}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			fallthrough
		case r >= 'A' && r <= 'Z':
			fallthrough
		case r >= '0' && r <= '9':
			fallthrough
		case r == ' ' || r == '-' || r == '_' || r == '.':
			s.WriteRune(r)
		}
	}

	n := s.String()
	if len(n) > maxNameLength {
		n = n[:maxNameLength]
	}

	// a name of only dots could still walk the directory tree
	n = strings.Trim(n, ". ")
	if n == "" {
		return fallbackName
	}

	return n
}
