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

package test

import "strings"

// CompareWriter is an io.Writer that accumulates everything written to it,
// for matching against an expected string at the end of a test.
type CompareWriter struct {
	b strings.Builder
}

func (cw *CompareWriter) Write(p []byte) (int, error) {
	return cw.b.Write(p)
}

// Compare the accumulated output with the expected string.
func (cw *CompareWriter) Compare(expected string) bool {
	return cw.b.String() == expected
}

// Clear the accumulated output, ready for reuse.
func (cw *CompareWriter) Clear() {
	cw.b.Reset()
}

func (cw *CompareWriter) String() string {
	return cw.b.String()
}
