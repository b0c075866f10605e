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

import "github.com/smwtrolls/rompatcher/bps"

// Native applies patches with the bps package. It is always available.
type Native struct {
	// when Verify is true the footer checksums are enforced. the default
	// matches the reference implementations, which ignore them
	Verify bool
}

// ID implements the Applier interface.
func (n Native) ID() string {
	return "native"
}

// Available implements the Applier interface.
func (n Native) Available() bool {
	return true
}

// Apply implements the Applier interface.
func (n Native) Apply(source []byte, patch []byte) ([]byte, error) {
	if n.Verify {
		return bps.ApplyVerified(source, patch)
	}
	return bps.Apply(source, patch)
}
